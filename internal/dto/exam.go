package dto

import "time"

// StartSessionRequest starts a session on a stored paper. An empty paper id
// selects the most recent paper, falling back to the demo paper.
type StartSessionRequest struct {
	PaperID string `json:"paper_id,omitempty" example:"jee-main-2024-shift1"`
}

// StartSessionResponse carries the bearer token for a started or restarted session.
type StartSessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Session   SessionView `json:"session"`
}

type GoToRequest struct {
	Index *int `json:"index" example:"4"`
}

type AnswerRequest struct {
	Value string `json:"value" example:"B"`
}

// PaperHeader is the exam title bar.
type PaperHeader struct {
	ID              string `json:"id"`
	Subject         string `json:"subject"`
	ExamName        string `json:"exam_name"`
	Year            string `json:"year"`
	DurationMinutes int    `json:"duration_minutes"`
	TotalQuestions  int    `json:"total_questions"`
	IsDemo          bool   `json:"is_demo"`
}

type OptionView struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// QuestionView is the question under the cursor.
type QuestionView struct {
	Index     int          `json:"index"`
	Position  string       `json:"position"` // "Q 3 / 75"
	Number    int          `json:"number"`
	SeqNumber int          `json:"seq_number"`
	Text      string       `json:"text"`
	Section   string       `json:"section"`
	Kind      string       `json:"kind" enums:"single_correct,numerical,diagram"`
	Options   []OptionView `json:"options,omitempty"`
	Answer    string       `json:"answer,omitempty"`
	IsFirst   bool         `json:"is_first"`
	IsLast    bool         `json:"is_last"`
}

type PaletteItemView struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	State   string `json:"state" enums:"answered,visited,fresh"`
	Current bool   `json:"current"`
}

type PaletteGroupView struct {
	Key   string            `json:"key"`
	Label string            `json:"label"`
	Items []PaletteItemView `json:"items"`
}

type StatsView struct {
	Done int `json:"done"`
	Seen int `json:"seen"`
	Left int `json:"left"`
}

// SessionView is the full display state of a session.
type SessionView struct {
	ID               string             `json:"id"`
	Phase            string             `json:"phase" enums:"exam,results"`
	Paper            PaperHeader        `json:"paper"`
	Current          int                `json:"current"`
	Question         *QuestionView      `json:"question,omitempty"`
	Palette          []PaletteGroupView `json:"palette"`
	Stats            StatsView          `json:"stats"`
	AnsweredCount    int                `json:"answered_count"`
	RemainingSeconds int                `json:"remaining_seconds"`
	Clock            string             `json:"clock" example:"2:59:59"`
	Urgent           bool               `json:"urgent"`
	ConfirmOpen      bool               `json:"confirm_open"`
	SidebarOpen      bool               `json:"sidebar_open"`
	NoQuestions      bool               `json:"no_questions,omitempty"`
	StartedAt        time.Time          `json:"started_at"`
	SubmittedAt      *time.Time         `json:"submitted_at,omitempty"`
	SubmitReason     string             `json:"submit_reason,omitempty"`
}

type ReviewItemView struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Yours  string `json:"yours,omitempty"`
	Key    string `json:"key,omitempty"`
	Status string `json:"status" enums:"correct,wrong,skipped,unkeyed"`
}

// ResultResponse is the results screen. Headline is "marks / total" when the
// paper has an answer key and the answered count otherwise.
type ResultResponse struct {
	Correct        int              `json:"correct"`
	Wrong          int              `json:"wrong"`
	Skipped        int              `json:"skipped"`
	Answered       int              `json:"answered"`
	TotalQuestions int              `json:"total_questions"`
	Marks          float64          `json:"marks"`
	TotalMarks     float64          `json:"total_marks"`
	HasKey         bool             `json:"has_key"`
	Percent        *int             `json:"percent,omitempty"`
	Headline       string           `json:"headline"`
	Verdict        string           `json:"verdict"`
	Review         []ReviewItemView `json:"review"`
}

type AttemptResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Correct     int       `json:"correct"`
	Wrong       int       `json:"wrong"`
	Skipped     int       `json:"skipped"`
	Answered    int       `json:"answered"`
	Marks       float64   `json:"marks"`
	TotalMarks  float64   `json:"total_marks"`
	Reason      string    `json:"reason" enums:"manual,timeout"`
	StartedAt   time.Time `json:"started_at"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type AttemptListResponse struct {
	PaperID  string            `json:"paper_id"`
	Attempts []AttemptResponse `json:"attempts"`
}

type SidebarResponse struct {
	SidebarOpen bool `json:"sidebar_open"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
