package core

import "fmt"

// ValidationError reports a malformed or out-of-range input field.
// No state changes when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthorizationError reports an actor lacking the capability an operation
// requires (ITAR-classified stock by an unauthorized role).
type AuthorizationError struct {
	Actor          string
	Role           Role
	Classification ITARClassification
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("actor %s (role %s) is not authorized for %s-classified material",
		e.Actor, e.Role, e.Classification)
}

// InsufficientStockError reports a pick exceeding the available quantity.
// Available carries the aggregate on-hand count at the time of the attempt.
type InsufficientStockError struct {
	Job       string
	PCBType   PCBType
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s/%s: requested %d, available %d",
		e.Job, e.PCBType, e.Requested, e.Available)
}

// Shortfall is the number of units the stockroom is short by.
func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

// ConflictError reports an attempt to re-register a PCN with field data
// that differs from what was originally recorded.
type ConflictError struct {
	PCN    string
	Detail string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("pcn %s conflict: %s", e.PCN, e.Detail)
}

// NotFoundError reports a lookup miss.
type NotFoundError struct {
	Kind string // "pcn", "inventory record"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}
