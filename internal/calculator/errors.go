package calculator

import "errors"

var (
	// ErrInsufficientHistory is returned when a series is too short to be scored.
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrDivisionByZero is returned when a score or weight would divide by zero.
	ErrDivisionByZero = errors.New("division by zero")
)
