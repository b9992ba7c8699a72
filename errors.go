package agentbudget

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the budget configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidToolSchema is returned when a tool schema is invalid
	ErrInvalidToolSchema = errors.New("invalid tool schema")

	// ErrDuplicateTool is returned when two tools normalize to the same name
	ErrDuplicateTool = errors.New("duplicate tool")

	// ErrRequestRejected is returned when a before-request hook vetoes a send
	ErrRequestRejected = errors.New("request rejected by hook")

	// ErrStreamFailed is returned when the stream function fails
	ErrStreamFailed = errors.New("stream failed")
)

// BudgetError represents an error with additional context
type BudgetError struct {
	Op      string         // Operation that failed
	Err     error          // Underlying error
	TurnID  string         // Turn ID if applicable
	Context map[string]any // Additional context
}

// Error implements the error interface
func (e *BudgetError) Error() string {
	if e.TurnID != "" {
		return fmt.Sprintf("%s (turn=%s): %v", e.Op, e.TurnID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *BudgetError) WithContext(key string, value any) *BudgetError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewBudgetError creates a new BudgetError
func NewBudgetError(op string, err error) *BudgetError {
	return &BudgetError{
		Op:  op,
		Err: err,
	}
}

// NewTurnError creates a new BudgetError bound to a turn
func NewTurnError(op string, turnID string, err error) *BudgetError {
	return &BudgetError{
		Op:     op,
		Err:    err,
		TurnID: turnID,
	}
}
