package queue

import (
	"context"
	"errors"
)

// Job handles one message type.
type Job interface {
	Name() string
	// Type is the message type routed to this job.
	Type() string
	Handle(ctx context.Context, payload interface{}) error
}

// JobFunc adapts a function to Job. Name doubles as the message type.
type JobFunc struct {
	JobType string
	Fn      func(ctx context.Context, payload interface{}) error
}

func (f JobFunc) Name() string { return f.JobType }
func (f JobFunc) Type() string { return f.JobType }

func (f JobFunc) Handle(ctx context.Context, payload interface{}) error { return f.Fn(ctx, payload) }

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying; the message goes straight to the dead-letter list.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
