// Package models defines the core domain models for the bill tracker.
//
// # Models
//
//   - User: the single account entity, identified by email. Holds the
//     contact details that reminder notices are addressed to.
//   - Bill: a payable obligation owned by exactly one User.
//
// # Derived status
//
// A bill's status (paid, overdue, due soon, upcoming) is never stored. It is
// computed from the due date, the paid flag and the current date by the pure
// functions in status.go, so callers pass "today" explicitly and tests can
// pin it.
//
// # Relationships
//
// Bills reference their owner by ID string rather than by pointer. Deleting a
// User removes all of its Bills.
package models
