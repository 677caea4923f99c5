package domain

import "time"

// Question is a quiz question. An empty Options slice marks a free-text
// question whose Answer holds the expected text; otherwise Answer holds the
// decimal index of the correct option.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Points   int      `json:"points"` // defaults to 100 if zero
	Active   bool     `json:"active"`
	Category string   `json:"category,omitempty"`
}

// IsChoice reports whether the question is multiple-choice.
func (q Question) IsChoice() bool {
	return len(q.Options) > 0
}

// PointsOrDefault returns the question's point value, defaulting to 100.
func (q Question) PointsOrDefault() int {
	if q.Points > 0 {
		return q.Points
	}
	return 100
}

// Component is a read-only catalog entry teams can purchase.
type Component struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
	Price       int    `json:"price"`
	Available   bool   `json:"available"`
}

// PurchasedComponent is the snapshot of a component taken at purchase time.
// Catalog prices may change later; the snapshot records what the team paid.
type PurchasedComponent struct {
	ComponentID string `json:"componentId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Price       int    `json:"price"`
	Icon        string `json:"icon"`
}

// RoundState is the per-team round ledger: balance, scoring history, and the
// one-time purchase. The zero value is a registered team that has not played.
type RoundState struct {
	TotalBalance        int                  `json:"totalBalance"`
	EarnedAmount        int                  `json:"earnedAmount"`
	QuizScore           int                  `json:"quizScore"`
	AnsweredQuestions   []string             `json:"answeredQuestions"`
	PurchasedComponents []PurchasedComponent `json:"purchasedComponents"`
	Submitted           bool                 `json:"submitted"`
	SubmittedAt         time.Time            `json:"submittedAt,omitempty"`
	FinalScore          int                  `json:"finalScore"`
}

// RoundStatus is the explicit phase of a team's round.
type RoundStatus string

const (
	StatusNotStarted RoundStatus = "not_started"
	StatusScoring    RoundStatus = "scoring"
	StatusPurchased  RoundStatus = "purchased"
)

// Status derives the round phase from the ledger fields.
func (r RoundState) Status() RoundStatus {
	switch {
	case r.Submitted:
		return StatusPurchased
	case r.TotalBalance > 0 || len(r.AnsweredQuestions) > 0:
		return StatusScoring
	default:
		return StatusNotStarted
	}
}

// HasAnswered reports whether questionID was already scored for this team.
func (r RoundState) HasAnswered(questionID string) bool {
	for _, id := range r.AnsweredQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

// Team couples a registered team with its round ledger.
type Team struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Round RoundState `json:"round"`
}

// AnswerResult is the outcome of scoring one submitted answer.
type AnswerResult struct {
	QuestionID   string `json:"questionId"`
	Correct      bool   `json:"correct"`
	Reason       string `json:"reason,omitempty"`
	EarnedAmount int    `json:"earnedAmount"`
	TotalBalance int    `json:"totalBalance"`
}

// QuizResult is the outcome of a bulk positional submission.
type QuizResult struct {
	CorrectAnswers int `json:"correctAnswers"`
	TotalQuestions int `json:"totalQuestions"`
	QuizScore      int `json:"quizScore"`
	EarnedAmount   int `json:"earnedAmount"`
	BonusAmount    int `json:"bonusAmount"`
	TotalBalance   int `json:"totalBalance"`
}

// PurchaseResult is the outcome of a committed component purchase.
type PurchaseResult struct {
	PurchasedComponents []PurchasedComponent `json:"purchasedComponents"`
	TotalCost           int                  `json:"totalCost"`
	RemainingBalance    int                  `json:"remainingBalance"`
	FinalScore          int                  `json:"finalScore"`
}
