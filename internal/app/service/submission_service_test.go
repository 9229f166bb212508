package service

import (
	"context"
	"errors"
	"testing"

	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"
)

const (
	testUserID  = "6f1a2b3c-4d5e-4f60-8a7b-9c0d1e2f3a4b"
	testAdminID = "0a1b2c3d-4e5f-4a60-b170-2c3d4e5f6a7b"
)

func testStudent() *model.User {
	return &model.User{
		ID:       testUserID,
		Username: "asha",
		Email:    "asha@example.com",
		USN:      "1XX21CS001",
		College:  "Acme College",
		Branch:   model.BranchCSE,
		Role:     model.RoleStudent,
		IsActive: true,
	}
}

func testQuestions() []model.Question {
	return []model.Question{
		{ID: "q1", SetNumber: 7, Text: "first", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: "a"},
		{ID: "q2", SetNumber: 7, Text: "second", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: "c"},
		{ID: "q3", SetNumber: 7, Text: "third", OptionA: "x", OptionB: "y", OptionC: "z", OptionD: "w", CorrectOption: "b"},
	}
}

func newSubmissionFixture() (*SubmissionService, *fakeResultRepo, *fakeQuestionRepo, *fakeUserRepo) {
	resultRepo := newFakeResultRepo()
	questionRepo := newFakeQuestionRepo(testQuestions()...)
	userRepo := newFakeUserRepo(testStudent())
	return NewSubmissionService(resultRepo, questionRepo, userRepo), resultRepo, questionRepo, userRepo
}

func TestSubmitQuizScoring(t *testing.T) {
	svc, resultRepo, _, _ := newSubmissionFixture()

	// Uppercase "A" matches correct "a"; "b" does not match q2's "c";
	// "B" matches q3's "b". Two marks total.
	resp, err := svc.SubmitQuiz(context.Background(), testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: "q1", SelectedOption: "A", SetNumber: 7},
			{QuestionID: "q2", SelectedOption: "b", SetNumber: 7},
			{QuestionID: "q3", SelectedOption: "B", SetNumber: 7},
		},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz returned error: %v", err)
	}
	if resp.TotalMarks != 2 || resp.CorrectAnswers != 2 || resp.TotalQuestions != 3 {
		t.Fatalf("got marks=%d correct=%d total=%d, want 2/2/3", resp.TotalMarks, resp.CorrectAnswers, resp.TotalQuestions)
	}
	if len(resp.Answers) != 3 {
		t.Fatalf("expected 3 persisted answers, got %d", len(resp.Answers))
	}
	if !resp.Answers[0].IsCorrect || resp.Answers[1].IsCorrect || !resp.Answers[2].IsCorrect {
		t.Fatalf("per-answer correctness wrong: %+v", resp.Answers)
	}

	result, err := resultRepo.FindByUserAndSet(context.Background(), testUserID, 7)
	if err != nil {
		t.Fatalf("result not persisted: %v", err)
	}
	if result.TotalMarks != 2 || len(result.AnswerIDs) != 3 {
		t.Fatalf("persisted result = %+v, want marks 2 and 3 answer ids", result)
	}

	// The service stamps the attempt time, so the response and the
	// stored rows agree on it.
	if result.CreatedAt.IsZero() {
		t.Fatalf("persisted result has zero CreatedAt")
	}
	for i, a := range resp.Answers {
		if a.CreatedAt.IsZero() {
			t.Fatalf("answer %d has zero CreatedAt", i)
		}
		if !a.CreatedAt.Equal(result.CreatedAt) {
			t.Fatalf("answer %d CreatedAt %v != result CreatedAt %v", i, a.CreatedAt, result.CreatedAt)
		}
	}
}

func TestSubmitQuizMalformedOptionRejected(t *testing.T) {
	// Options that are not a single letter a-d are malformed input, not
	// zero-mark answers; nothing may reach the store.
	svc, resultRepo, _, _ := newSubmissionFixture()
	ctx := context.Background()

	for _, opt := range []string{"abc", "", "e", "1"} {
		_, err := svc.SubmitQuiz(ctx, testUserID, SubmitQuizRequest{
			Answers: []SubmittedAnswer{{QuestionID: "q1", SelectedOption: opt, SetNumber: 7}},
		})
		if !errors.Is(err, common.ErrBadRequest) {
			t.Fatalf("option %q error = %v, want ErrBadRequest", opt, err)
		}
	}

	if n, _ := resultRepo.CountAnswers(ctx); n != 0 {
		t.Fatalf("answers persisted for malformed options: %d", n)
	}
	if n, _ := resultRepo.CountResults(ctx); n != 0 {
		t.Fatalf("results persisted for malformed options: %d", n)
	}

	// Surrounding whitespace on a valid letter is still accepted.
	if _, err := svc.SubmitQuiz(ctx, testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{{QuestionID: "q1", SelectedOption: " A ", SetNumber: 7}},
	}); err != nil {
		t.Fatalf("padded valid option rejected: %v", err)
	}
}

func TestSubmitQuizCaseInsensitiveExample(t *testing.T) {
	svc, _, _, _ := newSubmissionFixture()

	// {q1:"A", q2:"b"} where q1 correct is "a" and q2's is "c" -> 1 mark.
	resp, err := svc.SubmitQuiz(context.Background(), testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: "q1", SelectedOption: "A", SetNumber: 7},
			{QuestionID: "q2", SelectedOption: "b", SetNumber: 7},
		},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz returned error: %v", err)
	}
	if resp.TotalMarks != 1 {
		t.Fatalf("TotalMarks = %d, want 1", resp.TotalMarks)
	}
}

func TestSubmitQuizDuplicateAttemptRejected(t *testing.T) {
	svc, resultRepo, _, _ := newSubmissionFixture()
	req := SubmitQuizRequest{
		Answers: []SubmittedAnswer{{QuestionID: "q1", SelectedOption: "a", SetNumber: 7}},
	}

	if _, err := svc.SubmitQuiz(context.Background(), testUserID, req); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	answersBefore, _ := resultRepo.CountAnswers(context.Background())
	resultsBefore, _ := resultRepo.CountResults(context.Background())

	_, err := svc.SubmitQuiz(context.Background(), testUserID, req)
	if !errors.Is(err, common.ErrDuplicateAttempt) {
		t.Fatalf("second submission error = %v, want ErrDuplicateAttempt", err)
	}

	answersAfter, _ := resultRepo.CountAnswers(context.Background())
	resultsAfter, _ := resultRepo.CountResults(context.Background())
	if answersAfter != answersBefore || resultsAfter != resultsBefore {
		t.Fatalf("duplicate attempt changed counts: answers %d->%d results %d->%d",
			answersBefore, answersAfter, resultsBefore, resultsAfter)
	}
}

func TestSubmitQuizDuplicateRaceSurfacesFromStore(t *testing.T) {
	// Two racing submissions can both pass the fast-path check; the
	// store-level unique violation must still come back as the
	// duplicate-attempt error.
	svc, resultRepo, _, _ := newSubmissionFixture()
	resultRepo.createAttemptErr = common.ErrDuplicateAttempt

	_, err := svc.SubmitQuiz(context.Background(), testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{{QuestionID: "q1", SelectedOption: "a", SetNumber: 7}},
	})
	if !errors.Is(err, common.ErrDuplicateAttempt) {
		t.Fatalf("error = %v, want ErrDuplicateAttempt", err)
	}
}

func TestSubmitQuizUnknownQuestionAborts(t *testing.T) {
	svc, resultRepo, _, _ := newSubmissionFixture()

	_, err := svc.SubmitQuiz(context.Background(), testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: "q1", SelectedOption: "a", SetNumber: 7},
			{QuestionID: "missing", SelectedOption: "b", SetNumber: 7},
		},
	})
	if !errors.Is(err, common.ErrQuestionsMissing) {
		t.Fatalf("error = %v, want ErrQuestionsMissing", err)
	}

	// Atomicity: nothing persisted for the failed attempt.
	if n, _ := resultRepo.CountAnswers(context.Background()); n != 0 {
		t.Fatalf("answers persisted after failed attempt: %d", n)
	}
	if n, _ := resultRepo.CountResults(context.Background()); n != 0 {
		t.Fatalf("results persisted after failed attempt: %d", n)
	}
}

func TestSubmitQuizDuplicatedQuestionIDsRejected(t *testing.T) {
	svc, _, _, _ := newSubmissionFixture()

	_, err := svc.SubmitQuiz(context.Background(), testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: "q1", SelectedOption: "a", SetNumber: 7},
			{QuestionID: "q1", SelectedOption: "b", SetNumber: 7},
		},
	})
	if !errors.Is(err, common.ErrQuestionsMissing) {
		t.Fatalf("error = %v, want ErrQuestionsMissing for duplicated ids", err)
	}
}

func TestSubmitQuizMixedSetBatchRejected(t *testing.T) {
	svc, _, _, _ := newSubmissionFixture()

	_, err := svc.SubmitQuiz(context.Background(), testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{
			{QuestionID: "q1", SelectedOption: "a", SetNumber: 7},
			{QuestionID: "q2", SelectedOption: "b", SetNumber: 8},
		},
	})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("error = %v, want ErrBadRequest for mixed sets", err)
	}
}

func TestSubmitQuizValidation(t *testing.T) {
	svc, _, _, userRepo := newSubmissionFixture()
	ctx := context.Background()
	valid := []SubmittedAnswer{{QuestionID: "q1", SelectedOption: "a", SetNumber: 7}}

	if _, err := svc.SubmitQuiz(ctx, testUserID, SubmitQuizRequest{}); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("empty answers error = %v, want ErrBadRequest", err)
	}
	if _, err := svc.SubmitQuiz(ctx, "not-a-uuid", SubmitQuizRequest{Answers: valid}); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("malformed user id error = %v, want ErrBadRequest", err)
	}
	if _, err := svc.SubmitQuiz(ctx, "e9d6c1b0-0000-4000-8000-000000000000", SubmitQuizRequest{Answers: valid}); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("unknown user error = %v, want ErrBadRequest", err)
	}

	zeroSet := []SubmittedAnswer{{QuestionID: "q1", SelectedOption: "a", SetNumber: 0}}
	if _, err := svc.SubmitQuiz(ctx, testUserID, SubmitQuizRequest{Answers: zeroSet}); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("zero set number error = %v, want ErrBadRequest", err)
	}

	userRepo.usersByID[testUserID].IsActive = false
	if _, err := svc.SubmitQuiz(ctx, testUserID, SubmitQuizRequest{Answers: valid}); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("deactivated user error = %v, want ErrForbidden", err)
	}
}

func TestSubmitQuizErrorPrecedence(t *testing.T) {
	// Duplicate check runs before referential integrity: a user who
	// already has a result gets the duplicate error even when the new
	// batch references unknown questions.
	svc, _, _, _ := newSubmissionFixture()
	ctx := context.Background()

	if _, err := svc.SubmitQuiz(ctx, testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{{QuestionID: "q1", SelectedOption: "a", SetNumber: 7}},
	}); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	_, err := svc.SubmitQuiz(ctx, testUserID, SubmitQuizRequest{
		Answers: []SubmittedAnswer{{QuestionID: "missing", SelectedOption: "a", SetNumber: 7}},
	})
	if !errors.Is(err, common.ErrDuplicateAttempt) {
		t.Fatalf("error = %v, want ErrDuplicateAttempt before ErrQuestionsMissing", err)
	}
}
