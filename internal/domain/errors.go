package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTeamNotFound is returned when a team ID does not resolve.
	ErrTeamNotFound = errors.New("team not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAlreadyAnswered rejects a second scoring attempt for the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrAlreadySubmitted rejects any purchase after the first committed one.
	ErrAlreadySubmitted = errors.New("components already purchased")
	// ErrInvalidSelection rejects a purchase whose selection is not exactly the
	// required number of components.
	ErrInvalidSelection = errors.New("invalid component selection")
	// ErrComponentsNotFound indicates the catalog resolved fewer components than
	// were requested (missing or duplicated IDs).
	ErrComponentsNotFound = errors.New("some components not found")
	// ErrValidation covers missing or malformed request fields.
	ErrValidation = errors.New("validation failed")
)

// InsufficientBalanceError rejects a purchase whose total cost exceeds the
// team's balance, carrying both amounts for the caller to render.
type InsufficientBalanceError struct {
	Required  int
	Available int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %d, available %d", e.Required, e.Available)
}
