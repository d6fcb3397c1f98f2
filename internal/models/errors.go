package models

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed or missing input. Nothing was persisted.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// InsufficientStockError reports a conditional stock decrement that matched no row.
type InsufficientStockError struct {
	ProductID uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para el producto %d", e.ProductID)
}

// StorageError wraps an unexpected store failure. OrderID is zero when no id was assigned.
type StorageError struct {
	Op      string
	OrderID uint
	Err     error
}

func (e *StorageError) Error() string {
	if e.OrderID != 0 {
		return fmt.Sprintf("%s (order %d): %v", e.Op, e.OrderID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InvalidTransitionError reports a status change the order lifecycle does not allow.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}
