package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"
	"quiz_week/internal/domain/repository"

	"github.com/gosimple/slug"
)

// ReportService is the read side: it joins answers, questions and
// users for a set so every report row carries one entry per question.
type ReportService struct {
	resultRepo   repository.ResultRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
}

func NewReportService(
	resultRepo repository.ResultRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
) *ReportService {
	return &ReportService{
		resultRepo:   resultRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
	}
}

type ReportFilter struct {
	College string
	Email   string
}

// SetReport builds one row per matching student. Entries follow the
// set's stored question order, not submission order; questions a user
// never answered are back-filled as Not Attempted with zero marks.
func (s *ReportService) SetReport(ctx context.Context, setNumber int, filter ReportFilter) ([]model.ReportRow, error) {
	if setNumber < 1 {
		return nil, common.Errorf("missing or invalid set number: %w", common.ErrBadRequest)
	}

	questions, err := s.questionRepo.ListBySet(ctx, setNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for set %d: %w", setNumber, err)
	}
	if len(questions) == 0 {
		return nil, common.Errorf("set %d has no questions: %w", setNumber, common.ErrNotFound)
	}

	active := true
	users, err := s.userRepo.List(ctx, repository.UserFilter{
		College: filter.College,
		Email:   filter.Email,
		Role:    model.RoleStudent,
		Active:  &active,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	answers, err := s.resultRepo.ListAnswersBySet(ctx, setNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for set %d: %w", setNumber, err)
	}

	// (userID, questionID) -> answer
	answerByUserQuestion := make(map[string]model.Answer, len(answers))
	for _, a := range answers {
		answerByUserQuestion[a.UserID+"/"+a.QuestionID] = a
	}

	rows := make([]model.ReportRow, 0, len(users))
	for _, user := range users {
		row := model.ReportRow{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			USN:      user.USN,
			College:  user.College,
			Entries:  make([]model.ReportEntry, 0, len(questions)),
		}

		for _, q := range questions {
			entry := model.ReportEntry{
				QuestionID:     q.ID,
				QuestionText:   q.Text,
				CorrectOption:  q.CorrectOption,
				SelectedOption: model.NotAttempted,
			}
			if a, ok := answerByUserQuestion[user.ID+"/"+q.ID]; ok {
				entry.SelectedOption = a.SelectedOption
				entry.IsCorrect = a.IsCorrect
				entry.Marks = a.Marks
				row.Attempted = true
				row.TotalMarks += a.Marks
			}
			row.Entries = append(row.Entries, entry)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExportFilename names the CSV download from the set and college
// filter, e.g. "set-18-acme-college.csv".
func ExportFilename(setNumber int, filter ReportFilter) string {
	name := "set-" + strconv.Itoa(setNumber)
	if filter.College != "" {
		name += "-" + slug.Make(filter.College)
	}
	return name + ".csv"
}

// ExportCSV streams the report as CSV: one line per (user, question)
// plus the user's total.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer, setNumber int, filter ReportFilter) error {
	rows, err := s.SetReport(ctx, setNumber, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"username", "email", "usn", "college", "question", "selected_option", "correct_option", "is_correct", "marks", "total_marks"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		for _, entry := range row.Entries {
			record := []string{
				row.Username,
				row.Email,
				row.USN,
				row.College,
				entry.QuestionText,
				entry.SelectedOption,
				entry.CorrectOption,
				strconv.FormatBool(entry.IsCorrect),
				strconv.Itoa(entry.Marks),
				strconv.Itoa(row.TotalMarks),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv record: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
