// internal/errors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError covers missing or malformed caller input (400-class).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError covers lookups with no matching campaign or schedule (404-class).
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func NewNotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// PersistenceError wraps storage failures (500-class).
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// DeliveryError wraps transport failures. Delivery runs asynchronously to the
// submission request, so these are recorded on the schedule record and logged
// rather than surfaced to a caller.
type DeliveryError struct {
	JobID string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed for job %s: %v", e.JobID, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func NewDelivery(jobID string, err error) error {
	return &DeliveryError{JobID: jobID, Err: err}
}
