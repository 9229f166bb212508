package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"
	"quiz_week/internal/domain/repository"

	"github.com/google/uuid"
)

// SubmissionService owns the quiz-submission workflow: validate the
// batch, reject repeat attempts, score against stored correct options
// and persist answers plus the result atomically.
type SubmissionService struct {
	resultRepo   repository.ResultRepository
	questionRepo repository.QuestionRepository
	userRepo     repository.UserRepository
}

func NewSubmissionService(
	resultRepo repository.ResultRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
) *SubmissionService {
	return &SubmissionService{
		resultRepo:   resultRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
	}
}

type SubmittedAnswer struct {
	QuestionID     string `json:"question_id"`
	SelectedOption string `json:"selected_option"`
	SetNumber      int    `json:"set_number"`
}

type SubmitQuizRequest struct {
	Answers []SubmittedAnswer `json:"answers"`
}

type SubmitQuizResponse struct {
	Success        bool           `json:"success"`
	TotalMarks     int            `json:"total_marks"`
	CorrectAnswers int            `json:"correct_answers"`
	TotalQuestions int            `json:"total_questions"`
	Answers        []model.Answer `json:"answers"`
}

// SubmitQuiz checks run in a fixed order so error precedence is
// deterministic: format, then duplicate attempt, then referential
// integrity, then the commit itself.
func (s *SubmissionService) SubmitQuiz(ctx context.Context, userID string, req SubmitQuizRequest) (*SubmitQuizResponse, error) {
	if len(req.Answers) == 0 {
		return nil, common.Errorf("answers must be a non-empty list: %w", common.ErrBadRequest)
	}
	if userID == "" {
		return nil, common.Errorf("user id is required: %w", common.ErrBadRequest)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.Errorf("malformed user id: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("unknown user: %w", common.ErrBadRequest)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, common.Errorf("account is deactivated: %w", common.ErrForbidden)
	}

	setNumber := req.Answers[0].SetNumber
	if setNumber < 1 {
		return nil, common.Errorf("missing or invalid set number: %w", common.ErrBadRequest)
	}
	// Mixed-set batches are rejected outright rather than silently
	// coerced to the first answer's set.
	for _, a := range req.Answers {
		if a.SetNumber != setNumber {
			return nil, common.Errorf("all answers must belong to set %d: %w", setNumber, common.ErrBadRequest)
		}
		if a.QuestionID == "" {
			return nil, common.Errorf("answer is missing a question id: %w", common.ErrBadRequest)
		}
		// Anything but a single letter a-d is a malformed field, not a
		// zero-mark answer; the answers column holds one character.
		switch strings.ToLower(strings.TrimSpace(a.SelectedOption)) {
		case "a", "b", "c", "d":
		default:
			return nil, common.Errorf("selected option %q for question %s is not one of a-d: %w",
				a.SelectedOption, a.QuestionID, common.ErrBadRequest)
		}
	}

	// Fast-path duplicate check. The unique constraint on
	// (user_id, set_number) is the real guarantee; CreateAttempt below
	// reports the same condition if two submissions race past here.
	if _, err := s.resultRepo.FindByUserAndSet(ctx, userID, setNumber); err == nil {
		return nil, common.ErrDuplicateAttempt
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for prior attempt: %w", err)
	}

	questionIDs := make([]string, len(req.Answers))
	for i, a := range req.Answers {
		questionIDs[i] = a.QuestionID
	}
	questions, err := s.questionRepo.FindByIDs(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	// Missing, foreign or duplicated question ids fail the whole
	// batch; no partial score.
	if len(questions) != len(req.Answers) {
		return nil, common.Errorf("submitted %d answers but resolved %d questions: %w",
			len(req.Answers), len(questions), common.ErrQuestionsMissing)
	}

	questionsByID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		questionsByID[q.ID] = q
	}

	submittedAt := time.Now()
	answers := make([]model.Answer, 0, len(req.Answers))
	answerIDs := make([]string, 0, len(req.Answers))
	totalMarks := 0
	for _, submitted := range req.Answers {
		question, ok := questionsByID[submitted.QuestionID]
		if !ok {
			return nil, common.Errorf("question %s not found: %w", submitted.QuestionID, common.ErrQuestionsMissing)
		}

		selected := strings.ToLower(strings.TrimSpace(submitted.SelectedOption))
		isCorrect := selected == strings.ToLower(question.CorrectOption)
		marks := 0
		if isCorrect {
			marks = 1
		}
		totalMarks += marks

		answer := model.Answer{
			ID:             uuid.NewString(),
			UserID:         userID,
			QuestionID:     question.ID,
			SetNumber:      setNumber,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
			Marks:          marks,
			CreatedAt:      submittedAt,
		}
		answers = append(answers, answer)
		answerIDs = append(answerIDs, answer.ID)
	}

	result := &model.QuizResult{
		ID:         uuid.NewString(),
		UserID:     userID,
		SetNumber:  setNumber,
		TotalMarks: totalMarks,
		AnswerIDs:  answerIDs,
		CreatedAt:  submittedAt,
	}

	if err := s.resultRepo.CreateAttempt(ctx, result, answers); err != nil {
		if errors.Is(err, common.ErrDuplicateAttempt) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist attempt: %w", err)
	}

	log.Printf("User %s scored %d/%d on set %d", userID, totalMarks, len(answers), setNumber)
	return &SubmitQuizResponse{
		Success:        true,
		TotalMarks:     totalMarks,
		CorrectAnswers: totalMarks,
		TotalQuestions: len(answers),
		Answers:        answers,
	}, nil
}

// GetMyResult returns the persisted attempt for one set, if any.
func (s *SubmissionService) GetMyResult(ctx context.Context, userID string, setNumber int) (*model.QuizResult, error) {
	if setNumber < 1 {
		return nil, common.Errorf("missing or invalid set number: %w", common.ErrBadRequest)
	}
	return s.resultRepo.FindByUserAndSet(ctx, userID, setNumber)
}
