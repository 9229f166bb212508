package service

import (
	"context"
	"fmt"
	"time"

	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"
	"quiz_week/internal/domain/repository"
)

type fakeUserRepo struct {
	usersByID map[string]*model.User

	createCalls int
	listCalls   int
	lastFilter  repository.UserFilter
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{usersByID: make(map[string]*model.User)}
	for _, u := range users {
		repo.usersByID[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.createCalls++
	for _, u := range f.usersByID {
		if u.Username == user.Username || u.Email == user.Email || u.USN == user.USN {
			return common.ErrConflict
		}
	}
	clone := *user
	f.usersByID[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.usersByID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.usersByID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.usersByID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, error) {
	f.listCalls++
	f.lastFilter = filter
	out := []model.User{}
	for _, u := range f.usersByID {
		if filter.College != "" && u.College != filter.College {
			continue
		}
		if filter.Email != "" && u.Email != filter.Email {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	u, ok := f.usersByID[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	u.College = user.College
	u.Branch = user.Branch
	u.YearOfPassing = user.YearOfPassing
	return nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := f.usersByID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.IsActive = active
	return nil
}

type fakeQuestionRepo struct {
	questionsByID map[string]model.Question

	bulkCalls     int
	bulkInsertErr error
}

func newFakeQuestionRepo(questions ...model.Question) *fakeQuestionRepo {
	repo := &fakeQuestionRepo{questionsByID: make(map[string]model.Question)}
	for _, q := range questions {
		repo.questionsByID[q.ID] = q
	}
	return repo
}

func (f *fakeQuestionRepo) Create(_ context.Context, q *model.Question) error {
	f.questionsByID[q.ID] = *q
	return nil
}

func (f *fakeQuestionRepo) BulkInsert(_ context.Context, questions []model.Question) error {
	f.bulkCalls++
	if f.bulkInsertErr != nil {
		return f.bulkInsertErr
	}
	for _, q := range questions {
		f.questionsByID[q.ID] = q
	}
	return nil
}

// FindByIDs mirrors SQL IN semantics: duplicated ids resolve once.
func (f *fakeQuestionRepo) FindByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	seen := map[string]bool{}
	out := []model.Question{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if q, ok := f.questionsByID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) ListBySet(_ context.Context, setNumber int) ([]model.Question, error) {
	out := []model.Question{}
	for _, q := range f.questionsByID {
		if q.SetNumber == setNumber {
			out = append(out, q)
		}
	}
	// Stored order is creation order
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.Before(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) CountBySet(_ context.Context, setNumber int) (int, error) {
	count := 0
	for _, q := range f.questionsByID {
		if q.SetNumber == setNumber {
			count++
		}
	}
	return count, nil
}

type fakeResultRepo struct {
	resultsByUserSet map[string]*model.QuizResult
	answers          []model.Answer

	createAttemptCalls int
	createAttemptErr   error
	deleteCalls        int
	lastCutoff         time.Time
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{resultsByUserSet: make(map[string]*model.QuizResult)}
}

func resultKey(userID string, setNumber int) string {
	return fmt.Sprintf("%s/%d", userID, setNumber)
}

func (f *fakeResultRepo) CreateAttempt(_ context.Context, result *model.QuizResult, answers []model.Answer) error {
	f.createAttemptCalls++
	if f.createAttemptErr != nil {
		return f.createAttemptErr
	}
	key := resultKey(result.UserID, result.SetNumber)
	if _, exists := f.resultsByUserSet[key]; exists {
		return fmt.Errorf("unique violation: %w", common.ErrDuplicateAttempt)
	}
	clone := *result
	f.resultsByUserSet[key] = &clone
	f.answers = append(f.answers, answers...)
	return nil
}

func (f *fakeResultRepo) FindByUserAndSet(_ context.Context, userID string, setNumber int) (*model.QuizResult, error) {
	res, ok := f.resultsByUserSet[resultKey(userID, setNumber)]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *res
	return &clone, nil
}

func (f *fakeResultRepo) ListAnswersBySet(_ context.Context, setNumber int) ([]model.Answer, error) {
	out := []model.Answer{}
	for _, a := range f.answers {
		if a.SetNumber == setNumber {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) ListResultsBySet(_ context.Context, setNumber int) ([]model.QuizResult, error) {
	out := []model.QuizResult{}
	for _, res := range f.resultsByUserSet {
		if res.SetNumber == setNumber {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) CountAnswers(_ context.Context) (int, error) {
	return len(f.answers), nil
}

func (f *fakeResultRepo) CountResults(_ context.Context) (int, error) {
	return len(f.resultsByUserSet), nil
}

func (f *fakeResultRepo) DeleteAnswersBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.deleteCalls++
	f.lastCutoff = cutoff
	kept := f.answers[:0]
	var deleted int64
	for _, a := range f.answers {
		if a.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	f.answers = kept
	return deleted, nil
}
