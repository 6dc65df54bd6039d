// Package domain defines core types, interfaces, and errors for QuackView.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// SessionNotFoundError indicates the task ID does not map to a live session.
type SessionNotFoundError struct {
	TaskID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", e.TaskID)
}

// EmptyOperationsError indicates an analysis request with no operations.
type EmptyOperationsError struct{}

func (e *EmptyOperationsError) Error() string {
	return "analysis request must contain at least one operation"
}

// UnknownColumnError indicates a referenced column is not in the schema.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// UnsupportedOperationError indicates an operation is not legal for the
// semantic type of its target column.
type UnsupportedOperationError struct {
	Operation OperationKind
	Column    string
	FieldType FieldType
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %s is not supported on column %q (field type %s)",
		e.Operation, e.Column, e.FieldType)
}

// InvalidFilterError indicates a filter with a bad operator or value shape.
type InvalidFilterError struct {
	Column string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter on column %q: %s", e.Column, e.Reason)
}

// InvalidSortFieldError indicates a sort field that is neither a selected
// output column nor a schema column.
type InvalidSortFieldError struct {
	Field string
}

func (e *InvalidSortFieldError) Error() string {
	return fmt.Sprintf("sort field %q is neither a selected column nor a schema column", e.Field)
}

// SQLExecutionError wraps any error reported by the execution engine,
// including syntax errors in custom queries.
type SQLExecutionError struct {
	Detail string
}

func (e *SQLExecutionError) Error() string {
	return fmt.Sprintf("sql execution error: %s", e.Detail)
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrSQLExecution creates an SQLExecutionError from an engine error.
func ErrSQLExecution(err error) *SQLExecutionError {
	return &SQLExecutionError{Detail: err.Error()}
}
