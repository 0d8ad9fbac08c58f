// Package schema keeps a plan's goal rows consistent with its source columns.
//
// Every operation takes a model.Plan and returns a new one. The input plan
// is never modified, so a failed operation leaves the caller's state intact.
package schema

import "errors"

var (
	// ErrDuplicateName means the requested name already belongs to another source or goal.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidName means the requested name is empty, only whitespace or
	// reserved for a base goal column.
	ErrInvalidName = errors.New("invalid name")
	// ErrSourceNotFound means no source has the given name.
	ErrSourceNotFound = errors.New("source not found")
	// ErrGoalNotFound means no goal has the given name.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrInvalidROI means a negative return rate was supplied.
	ErrInvalidROI = errors.New("invalid roi")
)
