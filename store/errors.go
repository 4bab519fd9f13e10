package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrEmptyOrder is returned when a checkout is attempted with no line items.
	ErrEmptyOrder = errors.New("no items in order")

	// ErrConflictRetryExhausted is returned after two consecutive
	// serialization conflicts on the same checkout attempt. The caller may
	// retry the whole request.
	ErrConflictRetryExhausted = errors.New("checkout aborted after repeated serialization conflicts")
)

type ItemNotFoundError struct {
	ItemID int
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %d not found", e.ItemID)
}

type InsufficientStockError struct {
	ItemID    int
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for item %d: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

type InvalidQuantityError struct {
	ItemID   int
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for item %d: must be a positive integer",
		e.Quantity, e.ItemID)
}

// PersistenceError wraps a storage failure that is not a business-rule
// violation. The wrapped error is kept for logs; handlers must not leak it
// to clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// isSerializationConflict reports whether err is the transactional layer
// signalling that two concurrent transactions cannot be linearized
// (serialization_failure or deadlock_detected).
func isSerializationConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
