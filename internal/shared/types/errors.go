package types

import "errors"

var (
	ErrDatabase          = errors.New("database error")
	ErrEngineUnavailable = errors.New("forecasting engine not available")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// DatabaseError wraps any failure raised by the database layer. Op names the
// step that failed (connect, query, scan, close) and Code carries the
// Postgres SQLSTATE when the driver reported one.
type DatabaseError struct {
	Op   string
	Code string
	Err  error
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Is makes every DatabaseError match ErrDatabase.
func (e *DatabaseError) Is(target error) bool {
	return target == ErrDatabase
}
