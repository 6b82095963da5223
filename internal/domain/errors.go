package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrCyclicDependency  = errors.New("cyclic dependency")
	ErrValidation        = errors.New("validation failed")
	ErrNotDirectlyEdited = errors.New("node is maintained by rollup")
)

// NotFoundError reports a referenced node, edge or project that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// CyclicDependencyError is returned when a proposed edge would close a cycle.
// Path holds the existing chain dependent -> ... -> origin that the edge would close.
type CyclicDependencyError struct {
	OriginID    string
	DependentID string
	Kind        RelationKind
	Path        []string
}

func (e *CyclicDependencyError) Error() string {
	if e.OriginID == e.DependentID {
		return fmt.Sprintf("task %s cannot depend on itself", e.OriginID)
	}
	msg := fmt.Sprintf("%s -> %s (%s) would create a cycle", e.OriginID, e.DependentID, e.Kind.Short())
	if len(e.Path) > 0 {
		msg += ": existing path " + strings.Join(e.Path, " -> ")
	}
	return msg
}

func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// ValidationError reports malformed input rejected before any computation.
// Err optionally names a more specific sentinel, e.g. ErrNotDirectlyEdited.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Field == "" {
		return msg
	}
	return e.Field + ": " + msg
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

func validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
