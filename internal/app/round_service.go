package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"circuitquest-service/internal/domain"
	"circuitquest-service/internal/match"
)

// TeamStore abstracts how team records are stored (in-memory, Redis, etc).
// Update must apply mutate as a single transactional read-modify-write for the
// team: concurrent updates to the same team are serialized (or retried), and a
// mutate error leaves the stored record untouched.
type TeamStore interface {
	Find(ctx context.Context, teamID string) (domain.Team, error)
	Update(ctx context.Context, teamID string, mutate func(*domain.Team) error) (domain.Team, error)
}

// QuestionRepository loads quiz content (from cache/backing store).
type QuestionRepository interface {
	FindActive(ctx context.Context, limit int) ([]domain.Question, error)
	FindByID(ctx context.Context, questionID string) (domain.Question, error)
}

// ComponentRepository loads the purchasable component catalog.
type ComponentRepository interface {
	FindAvailable(ctx context.Context) ([]domain.Component, error)
	FindByIDs(ctx context.Context, componentIDs []string) ([]domain.Component, error)
}

// Settings are the round's tunable constants.
type Settings struct {
	BonusAmount       int // starting balance granted on first scoring event
	PointsPerQuestion int // bulk-submit award per correct answer
	QuestionLimit     int // questions served and scored per round
	PurchaseCount     int // exact number of components a purchase must contain
}

// DefaultSettings mirrors the round's shipped configuration.
func DefaultSettings() Settings {
	return Settings{
		BonusAmount:       1200,
		PointsPerQuestion: 100,
		QuestionLimit:     12,
		PurchaseCount:     6,
	}
}

// RoundService owns the round ledger: answer scoring, the bulk quiz submit,
// and the one-time component purchase.
type RoundService struct {
	teams      TeamStore
	questions  QuestionRepository
	components ComponentRepository
	settings   Settings
	now        func() time.Time
	hub        *stateHub
}

func NewRoundService(teams TeamStore, questions QuestionRepository, components ComponentRepository, settings Settings) *RoundService {
	return &RoundService{
		teams:      teams,
		questions:  questions,
		components: components,
		settings:   settings,
		now:        time.Now,
		hub:        newStateHub(),
	}
}

// NewRoundServiceWithClock is test-only for deterministic timestamps.
func NewRoundServiceWithClock(teams TeamStore, questions QuestionRepository, components ComponentRepository, settings Settings, now func() time.Time) *RoundService {
	s := NewRoundService(teams, questions, components, settings)
	s.now = now
	return s
}

// SubmitAnswer scores one answer for a team. Each question is scored at most
// once per team; a correct answer adds the question's points to both the
// earned amount and the balance. The first scoring event seeds the balance
// with the bonus amount.
func (s *RoundService) SubmitAnswer(ctx context.Context, teamID, questionID, rawAnswer string) (domain.AnswerResult, error) {
	if teamID == "" || questionID == "" {
		return domain.AnswerResult{}, fmt.Errorf("%w: teamId and questionId are required", domain.ErrValidation)
	}

	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	verdict := match.Resolve(question, rawAnswer)

	team, err := s.teams.Update(ctx, teamID, func(t *domain.Team) error {
		if t.Round.HasAnswered(question.ID) {
			return domain.ErrAlreadyAnswered
		}
		initBalance(&t.Round, s.settings.BonusAmount)
		if verdict.Correct {
			points := question.PointsOrDefault()
			t.Round.EarnedAmount += points
			t.Round.TotalBalance += points
		}
		t.Round.AnsweredQuestions = append(t.Round.AnsweredQuestions, question.ID)
		return nil
	})
	if err != nil {
		return domain.AnswerResult{}, err
	}

	s.hub.broadcast(teamID, team.Round)
	return domain.AnswerResult{
		QuestionID:   question.ID,
		Correct:      verdict.Correct,
		Reason:       verdict.Reason,
		EarnedAmount: team.Round.EarnedAmount,
		TotalBalance: team.Round.TotalBalance,
	}, nil
}

// SubmitQuiz scores a full positional answer sheet in one shot. Unlike
// SubmitAnswer it overwrites the quiz score, earned amount, and balance
// (earned + bonus) instead of accumulating; the two paths are distinct by
// contract. Answers beyond the served question set are ignored.
func (s *RoundService) SubmitQuiz(ctx context.Context, teamID string, answers []int) (domain.QuizResult, error) {
	if teamID == "" || answers == nil {
		return domain.QuizResult{}, fmt.Errorf("%w: teamId and answers are required", domain.ErrValidation)
	}

	questions, err := s.questions.FindActive(ctx, s.settings.QuestionLimit)
	if err != nil {
		return domain.QuizResult{}, err
	}

	correctCount := 0
	for i, selected := range answers {
		if i >= len(questions) {
			break
		}
		correctIdx, err := strconv.Atoi(questions[i].Answer)
		if err != nil {
			continue
		}
		if selected == correctIdx {
			correctCount++
		}
	}

	earned := correctCount * s.settings.PointsPerQuestion
	team, err := s.teams.Update(ctx, teamID, func(t *domain.Team) error {
		if t.Round.Submitted {
			// A committed purchase already froze the balance; rewriting it
			// would corrupt the final score.
			return domain.ErrAlreadySubmitted
		}
		t.Round.QuizScore = correctCount
		t.Round.EarnedAmount = earned
		t.Round.TotalBalance = earned + s.settings.BonusAmount
		return nil
	})
	if err != nil {
		return domain.QuizResult{}, err
	}

	s.hub.broadcast(teamID, team.Round)
	return domain.QuizResult{
		CorrectAnswers: correctCount,
		TotalQuestions: len(questions),
		QuizScore:      team.Round.QuizScore,
		EarnedAmount:   team.Round.EarnedAmount,
		BonusAmount:    s.settings.BonusAmount,
		TotalBalance:   team.Round.TotalBalance,
	}, nil
}

// Purchase commits a team's one-time component purchase: exactly PurchaseCount
// components, all resolvable, affordable within the balance. On success the
// resolved components are snapshotted, the cost deducted, and the team locked;
// every check runs before the first mutation so a rejected purchase changes
// nothing.
func (s *RoundService) Purchase(ctx context.Context, teamID string, componentIDs []string) (domain.PurchaseResult, error) {
	if err := validatePurchaseRequest(teamID, componentIDs); err != nil {
		return domain.PurchaseResult{}, err
	}

	// Fast-fail before touching the catalog; the authoritative check repeats
	// inside the transactional update.
	current, err := s.teams.Find(ctx, teamID)
	if err != nil {
		return domain.PurchaseResult{}, err
	}
	if current.Round.Submitted {
		return domain.PurchaseResult{}, domain.ErrAlreadySubmitted
	}

	if len(componentIDs) != s.settings.PurchaseCount {
		return domain.PurchaseResult{}, fmt.Errorf("%w: exactly %d components required, got %d",
			domain.ErrInvalidSelection, s.settings.PurchaseCount, len(componentIDs))
	}

	resolved, err := s.components.FindByIDs(ctx, componentIDs)
	if err != nil {
		return domain.PurchaseResult{}, err
	}
	// Duplicate or unknown IDs both surface as a count mismatch.
	if len(resolved) != len(componentIDs) {
		return domain.PurchaseResult{}, fmt.Errorf("%w: resolved %d of %d",
			domain.ErrComponentsNotFound, len(resolved), len(componentIDs))
	}

	totalCost := 0
	for _, c := range resolved {
		totalCost += c.Price
	}

	team, err := s.teams.Update(ctx, teamID, func(t *domain.Team) error {
		if t.Round.Submitted {
			return domain.ErrAlreadySubmitted
		}
		if totalCost > t.Round.TotalBalance {
			return &domain.InsufficientBalanceError{Required: totalCost, Available: t.Round.TotalBalance}
		}

		snapshot := make([]domain.PurchasedComponent, 0, len(resolved))
		for _, c := range resolved {
			snapshot = append(snapshot, domain.PurchasedComponent{
				ComponentID: c.ID,
				Name:        c.Name,
				Type:        c.Type,
				Price:       c.Price,
				Icon:        c.Icon,
			})
		}
		t.Round.PurchasedComponents = snapshot
		t.Round.TotalBalance -= totalCost
		t.Round.Submitted = true
		t.Round.SubmittedAt = s.now()
		t.Round.FinalScore = t.Round.TotalBalance
		return nil
	})
	if err != nil {
		return domain.PurchaseResult{}, err
	}

	s.hub.broadcast(teamID, team.Round)
	return domain.PurchaseResult{
		PurchasedComponents: team.Round.PurchasedComponents,
		TotalCost:           totalCost,
		RemainingBalance:    team.Round.TotalBalance,
		FinalScore:          team.Round.FinalScore,
	}, nil
}

// RoundState returns a team's current ledger snapshot.
func (s *RoundService) RoundState(ctx context.Context, teamID string) (domain.RoundState, error) {
	if teamID == "" {
		return domain.RoundState{}, fmt.Errorf("%w: teamId is required", domain.ErrValidation)
	}
	team, err := s.teams.Find(ctx, teamID)
	if err != nil {
		return domain.RoundState{}, err
	}
	return team.Round, nil
}

// ActiveQuestions returns the served question set with correct answers
// redacted so they cannot be inspected client-side.
func (s *RoundService) ActiveQuestions(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.questions.FindActive(ctx, s.settings.QuestionLimit)
	if err != nil {
		return nil, err
	}
	redacted := make([]domain.Question, len(questions))
	for i, q := range questions {
		q.Answer = ""
		redacted[i] = q
	}
	return redacted, nil
}

// AvailableComponents returns the purchasable catalog.
func (s *RoundService) AvailableComponents(ctx context.Context) ([]domain.Component, error) {
	return s.components.FindAvailable(ctx)
}

// Subscribe returns a channel receiving the team's round-state snapshot after
// every committed mutation. The caller must invoke cancel to avoid leaks.
func (s *RoundService) Subscribe(_ context.Context, teamID string) (<-chan domain.RoundState, func(), error) {
	if teamID == "" {
		return nil, nil, fmt.Errorf("%w: teamId is required", domain.ErrValidation)
	}
	ch, cancel := s.hub.subscribe(teamID)
	return ch, cancel, nil
}

// validatePurchaseRequest is the pure pre-check layer: field presence only.
// Cardinality and catalog resolution run in Purchase before any mutation.
func validatePurchaseRequest(teamID string, componentIDs []string) error {
	if teamID == "" {
		return fmt.Errorf("%w: teamId is required", domain.ErrValidation)
	}
	if len(componentIDs) == 0 {
		return fmt.Errorf("%w: componentIds are required", domain.ErrInvalidSelection)
	}
	return nil
}

// initBalance lazily seeds the round balance on the first scoring event.
func initBalance(r *domain.RoundState, bonus int) {
	if r.TotalBalance == 0 {
		r.TotalBalance = bonus
	}
}
