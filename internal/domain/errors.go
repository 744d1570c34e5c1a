package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been initialized.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrNoActiveQuiz is returned when an answer arrives outside a running quiz.
	ErrNoActiveQuiz = errors.New("no quiz in progress")
	// ErrNameRequired is returned when a score save is attempted without a player name.
	ErrNameRequired = errors.New("player name required")
)
