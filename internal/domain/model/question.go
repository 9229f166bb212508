package model

import (
	"strings"
	"time"
)

type QuestionType string
type QuestionDifficulty string

const (
	TypeTechnical    QuestionType = "technical"
	TypeNonTechnical QuestionType = "non-technical"

	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

// Question is immutable once referenced by submitted answers.
type Question struct {
	ID            string             `json:"id"`
	SetNumber     int                `json:"set_number"`
	Text          string             `json:"question_text"`
	OptionA       string             `json:"option_a"`
	OptionB       string             `json:"option_b"`
	OptionC       string             `json:"option_c"`
	OptionD       string             `json:"option_d"`
	CorrectOption string             `json:"correct_option,omitempty"` // one of a/b/c/d
	Explanation   string             `json:"explanation,omitempty"`
	Type          QuestionType       `json:"question_type"`
	Difficulty    QuestionDifficulty `json:"difficulty"`
	CreatedByID   *string            `json:"created_by_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Validate checks the usability invariant: all four options and the
// correct-option marker must be present.
func (q *Question) Validate() bool {
	if q.Text == "" || q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
		return false
	}
	switch strings.ToLower(q.CorrectOption) {
	case "a", "b", "c", "d":
		return true
	}
	return false
}

// StudentView strips the fields a student must not see before
// submitting: the correct option and its explanation.
func (q Question) StudentView() Question {
	q.CorrectOption = ""
	q.Explanation = ""
	return q
}
