package service

import (
	"errors"
	"fmt"

	"github.com/brotinhos/api/internal/enum"
)

var (
	ErrInvalidStatus    = errors.New("invalid status")
	ErrStatusTransition = errors.New("status transition not allowed")
)

// statusRank orders the forward flow of an order.
var statusRank = map[string]int{
	enum.OrderStatusPending:   0,
	enum.OrderStatusConfirmed: 1,
	enum.OrderStatusPreparing: 2,
	enum.OrderStatusReady:     3,
	enum.OrderStatusCompleted: 4,
}

// IsValidStatus reports whether s is a known order status.
func IsValidStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusConfirmed, enum.OrderStatusPreparing,
		enum.OrderStatusReady, enum.OrderStatusCompleted, enum.OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminalStatus reports whether no further transition leaves s.
func IsTerminalStatus(s string) bool {
	return s == enum.OrderStatusCompleted || s == enum.OrderStatusCancelled
}

// ValidateTransition checks that an order may move from one status to another.
// Orders only move forward, possibly skipping steps; any non-terminal order
// may be cancelled.
func ValidateTransition(from, to string) error {
	if !IsValidStatus(to) {
		return ErrInvalidStatus
	}
	if IsTerminalStatus(from) {
		return fmt.Errorf("%w: %s is final", ErrStatusTransition, from)
	}
	if to == enum.OrderStatusCancelled {
		return nil
	}
	if statusRank[to] > statusRank[from] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrStatusTransition, from, to)
}
