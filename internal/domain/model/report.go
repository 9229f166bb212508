package model

// NotAttempted marks report entries back-filled for questions a user
// never answered.
const NotAttempted = "Not Attempted"

// ReportEntry is one question's outcome for one user in a set report.
type ReportEntry struct {
	QuestionID     string `json:"question_id"`
	QuestionText   string `json:"question_text"`
	SelectedOption string `json:"selected_option"` // option letter or NotAttempted
	CorrectOption  string `json:"correct_option"`
	IsCorrect      bool   `json:"is_correct"`
	Marks          int    `json:"marks"`
}

// ReportRow has exactly one entry per question in the set, in the
// set's stored question order.
type ReportRow struct {
	UserID     string        `json:"user_id"`
	Username   string        `json:"username"`
	Email      string        `json:"email"`
	USN        string        `json:"usn"`
	College    string        `json:"college"`
	Entries    []ReportEntry `json:"entries"`
	TotalMarks int           `json:"total_marks"`
	Attempted  bool          `json:"attempted"`
}
