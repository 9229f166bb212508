package model

import "time"

// Answer is one scored response, created only through the submission
// workflow and immutable afterward.
type Answer struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	QuestionID     string    `json:"question_id"`
	SetNumber      int       `json:"set_number"`
	SelectedOption string    `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
	Marks          int       `json:"marks"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuizResult is the persisted scoring record for one attempt. At most
// one exists per (user, set); quiz_results carries a unique constraint
// on that pair.
type QuizResult struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SetNumber  int       `json:"set_number"`
	TotalMarks int       `json:"total_marks"`
	AnswerIDs  []string  `json:"answer_ids"`
	CreatedAt  time.Time `json:"created_at"`
}
