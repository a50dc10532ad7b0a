package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a pipeline error
type Kind string

const (
	// KindParse represents an HTML document that could not be parsed
	KindParse Kind = "parse"
	// KindValidation represents an empty or unusable input sequence
	KindValidation Kind = "validation"
	// KindIO represents a failure reading the page store or writing output
	KindIO Kind = "io"
	// KindNetwork represents a failed page fetch
	KindNetwork Kind = "network"
)

// PipelineError is the error type used across all ETL stages
type PipelineError struct {
	Kind    Kind
	Stage   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Kind, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Stage, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the error should abort the run.
// Parse and network errors are page-level: the page is skipped and the
// run continues. Validation and IO errors abort with a non-zero exit.
func (e *PipelineError) IsFatal() bool {
	switch e.Kind {
	case KindValidation, KindIO:
		return true
	default:
		return false
	}
}

// New creates a new PipelineError
func New(kind Kind, stage, message string, err error) *PipelineError {
	return &PipelineError{
		Kind:    kind,
		Stage:   stage,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewParse creates a new parse error
func NewParse(stage, message string, err error) *PipelineError {
	return New(KindParse, stage, message, err)
}

// NewValidation creates a new validation error
func NewValidation(stage, message string) *PipelineError {
	return New(KindValidation, stage, message, nil)
}

// NewIO creates a new IO error
func NewIO(stage, message string, err error) *PipelineError {
	return New(KindIO, stage, message, err)
}

// NewNetwork creates a new network error
func NewNetwork(stage, message string, err error) *PipelineError {
	return New(KindNetwork, stage, message, err)
}

// IsKind reports whether err is a PipelineError of the given kind
func IsKind(err error, kind Kind) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
