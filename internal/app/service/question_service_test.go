package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz_week/internal/common"
	"quiz_week/internal/domain/model"
)

func validQuestionRequest() CreateQuestionRequest {
	return CreateQuestionRequest{
		SetNumber:     3,
		Text:          "What does TCP stand for?",
		OptionA:       "Transmission Control Protocol",
		OptionB:       "Transfer Control Protocol",
		OptionC:       "Transmission Carrier Protocol",
		OptionD:       "Transport Control Process",
		CorrectOption: "A",
		Explanation:   "RFC 9293.",
	}
}

func TestCreateQuestionNormalizesAndDefaults(t *testing.T) {
	repo := newFakeQuestionRepo()
	svc := NewQuestionService(repo, 52)

	q, err := svc.CreateQuestion(context.Background(), testAdminID, validQuestionRequest())
	if err != nil {
		t.Fatalf("CreateQuestion returned error: %v", err)
	}
	if q.CorrectOption != "a" {
		t.Fatalf("CorrectOption = %q, want lowercased %q", q.CorrectOption, "a")
	}
	if q.Type != model.TypeTechnical || q.Difficulty != model.DifficultyMedium {
		t.Fatalf("defaults not applied: type=%q difficulty=%q", q.Type, q.Difficulty)
	}
	if _, ok := repo.questionsByID[q.ID]; !ok {
		t.Fatalf("question not stored")
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	svc := NewQuestionService(newFakeQuestionRepo(), 52)
	ctx := context.Background()

	missingOption := validQuestionRequest()
	missingOption.OptionC = ""
	if _, err := svc.CreateQuestion(ctx, testAdminID, missingOption); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("missing option error = %v, want ErrValidation", err)
	}

	badCorrect := validQuestionRequest()
	badCorrect.CorrectOption = "e"
	if _, err := svc.CreateQuestion(ctx, testAdminID, badCorrect); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("bad correct option error = %v, want ErrValidation", err)
	}

	badSet := validQuestionRequest()
	badSet.SetNumber = 53
	if _, err := svc.CreateQuestion(ctx, testAdminID, badSet); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("out of range set error = %v, want ErrValidation", err)
	}
}

func TestImportQuestionsAllOrNothing(t *testing.T) {
	repo := newFakeQuestionRepo()
	svc := NewQuestionService(repo, 52)

	bad := validQuestionRequest()
	bad.CorrectOption = ""
	_, err := svc.ImportQuestions(context.Background(), testAdminID, []CreateQuestionRequest{
		validQuestionRequest(),
		bad,
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("import error = %v, want ErrValidation", err)
	}
	if repo.bulkCalls != 0 {
		t.Fatalf("bulk insert called despite invalid row")
	}
	if len(repo.questionsByID) != 0 {
		t.Fatalf("questions persisted from a rejected import: %d", len(repo.questionsByID))
	}

	if _, err := svc.ImportQuestions(context.Background(), testAdminID, nil); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("empty import error = %v, want ErrBadRequest", err)
	}
}

func TestListSetStudentViewHidesAnswers(t *testing.T) {
	repo := newFakeQuestionRepo(model.Question{
		ID: "q1", SetNumber: 3, Text: "t", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
		CorrectOption: "a", Explanation: "because",
	})
	svc := NewQuestionService(repo, 52)

	students, err := svc.ListSet(context.Background(), 3, false)
	if err != nil {
		t.Fatalf("ListSet returned error: %v", err)
	}
	if students[0].CorrectOption != "" || students[0].Explanation != "" {
		t.Fatalf("student view leaks answers: %+v", students[0])
	}

	admins, err := svc.ListSet(context.Background(), 3, true)
	if err != nil {
		t.Fatalf("ListSet(admin) returned error: %v", err)
	}
	if admins[0].CorrectOption != "a" || admins[0].Explanation != "because" {
		t.Fatalf("admin view missing answers: %+v", admins[0])
	}
}

func TestActiveSetsCollapsesDuplicates(t *testing.T) {
	repo := newFakeQuestionRepo(
		model.Question{ID: "q1", SetNumber: 1, CorrectOption: "a"},
	)
	// totalSets=1 makes all three rotation slots the same set.
	svc := NewQuestionService(repo, 1)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	sets, err := svc.ActiveSets(context.Background())
	if err != nil {
		t.Fatalf("ActiveSets returned error: %v", err)
	}
	if len(sets) != 1 || sets[0].SetNumber != 1 || sets[0].QuestionCount != 1 {
		t.Fatalf("ActiveSets = %+v, want one entry for set 1 with count 1", sets)
	}
}

func TestActiveSetsWeekRotation(t *testing.T) {
	repo := newFakeQuestionRepo()
	svc := NewQuestionService(repo, 52)
	// 2026-04-27 is the Monday of ISO week 18: sets wrap to 52, 1, 2.
	svc.now = func() time.Time { return time.Date(2026, 4, 27, 9, 0, 0, 0, time.UTC) }

	sets, err := svc.ActiveSets(context.Background())
	if err != nil {
		t.Fatalf("ActiveSets returned error: %v", err)
	}
	got := []int{}
	for _, s := range sets {
		got = append(got, s.SetNumber)
	}
	want := []int{52, 1, 2}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("ActiveSets week 18 = %v, want %v", got, want)
	}
}
