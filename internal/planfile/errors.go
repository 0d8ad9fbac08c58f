// Package planfile reads and writes plan documents: a flat list of
// sources plus one record per goal with a numeric column per source.
package planfile

import "fmt"

// MalformedPlanError reports a document that lacks required structure.
// No partial plan is ever returned alongside it.
type MalformedPlanError struct {
	Reason string
	Err    error
}

func (e *MalformedPlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed plan: %s: %v", e.Reason, e.Err)
	}
	return "malformed plan: " + e.Reason
}

func (e *MalformedPlanError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return &MalformedPlanError{Reason: fmt.Sprintf(format, args...)}
}
