package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quiz_week/internal/app/rotation"
	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"
	"quiz_week/internal/domain/repository"

	"github.com/google/uuid"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	totalSets    int
	now          func() time.Time
}

func NewQuestionService(questionRepo repository.QuestionRepository, totalSets int) *QuestionService {
	if totalSets < 1 {
		totalSets = rotation.DefaultTotalSets
	}
	return &QuestionService{
		questionRepo: questionRepo,
		totalSets:    totalSets,
		now:          time.Now,
	}
}

type CreateQuestionRequest struct {
	SetNumber     int                      `json:"set_number"`
	Text          string                   `json:"question_text"`
	OptionA       string                   `json:"option_a"`
	OptionB       string                   `json:"option_b"`
	OptionC       string                   `json:"option_c"`
	OptionD       string                   `json:"option_d"`
	CorrectOption string                   `json:"correct_option"`
	Explanation   string                   `json:"explanation"`
	Type          model.QuestionType       `json:"question_type"`
	Difficulty    model.QuestionDifficulty `json:"difficulty"`
}

func (r CreateQuestionRequest) toQuestion(createdBy string, totalSets int) (*model.Question, error) {
	if r.SetNumber < 1 || r.SetNumber > totalSets {
		return nil, common.Errorf("set_number must be in [1, %d]: %w", totalSets, common.ErrValidation)
	}
	q := &model.Question{
		ID:            uuid.NewString(),
		SetNumber:     r.SetNumber,
		Text:          strings.TrimSpace(r.Text),
		OptionA:       r.OptionA,
		OptionB:       r.OptionB,
		OptionC:       r.OptionC,
		OptionD:       r.OptionD,
		CorrectOption: strings.ToLower(strings.TrimSpace(r.CorrectOption)),
		Explanation:   r.Explanation,
		Type:          r.Type,
		Difficulty:    r.Difficulty,
		CreatedByID:   &createdBy,
	}
	if q.Type == "" {
		q.Type = model.TypeTechnical
	}
	if q.Difficulty == "" {
		q.Difficulty = model.DifficultyMedium
	}
	if !q.Validate() {
		return nil, common.Errorf("question needs text, all four options and a correct option in a-d: %w", common.ErrValidation)
	}
	return q, nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, adminID string, req CreateQuestionRequest) (*model.Question, error) {
	question, err := req.toQuestion(adminID, s.totalSets)
	if err != nil {
		return nil, err
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// ImportQuestions validates the whole batch before writing; one bad
// row rejects the import and nothing is persisted.
func (s *QuestionService) ImportQuestions(ctx context.Context, adminID string, reqs []CreateQuestionRequest) ([]model.Question, error) {
	if len(reqs) == 0 {
		return nil, common.Errorf("import batch is empty: %w", common.ErrBadRequest)
	}

	questions := make([]model.Question, 0, len(reqs))
	for i, req := range reqs {
		question, err := req.toQuestion(adminID, s.totalSets)
		if err != nil {
			return nil, common.Errorf("row %d: %w", i+1, err)
		}
		questions = append(questions, *question)
	}

	if err := s.questionRepo.BulkInsert(ctx, questions); err != nil {
		return nil, fmt.Errorf("failed to import questions: %w", err)
	}
	return questions, nil
}

// ListSet returns a set's questions in stored order. Students get the
// view without correct options or explanations.
func (s *QuestionService) ListSet(ctx context.Context, setNumber int, includeAnswers bool) ([]model.Question, error) {
	if setNumber < 1 || setNumber > s.totalSets {
		return nil, common.Errorf("set_number must be in [1, %d]: %w", s.totalSets, common.ErrValidation)
	}
	questions, err := s.questionRepo.ListBySet(ctx, setNumber)
	if err != nil {
		return nil, err
	}
	if !includeAnswers {
		for i := range questions {
			questions[i] = questions[i].StudentView()
		}
	}
	return questions, nil
}

type ActiveSet struct {
	SetNumber     int `json:"set_number"`
	QuestionCount int `json:"question_count"`
}

// ActiveSets resolves this week's rotation and attaches question
// counts. Coinciding set numbers are collapsed.
func (s *QuestionService) ActiveSets(ctx context.Context) ([]ActiveSet, error) {
	sets := rotation.ActiveSets(s.now(), s.totalSets)

	seen := map[int]bool{}
	active := make([]ActiveSet, 0, len(sets))
	for _, setNumber := range sets {
		if seen[setNumber] {
			continue
		}
		seen[setNumber] = true

		count, err := s.questionRepo.CountBySet(ctx, setNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to count questions for set %d: %w", setNumber, err)
		}
		active = append(active, ActiveSet{SetNumber: setNumber, QuestionCount: count})
	}
	return active, nil
}
