package epicsdb

import (
	"errors"
	"fmt"
)

// ErrIncompleteRecord flags a record without a name or record type, which
// must never enter a database.
var ErrIncompleteRecord = errors.New("record lacks name or record type")

// ConflictError is returned when a record reappears under an already
// registered name but with a different record type. The database is left
// unchanged; the conflicting record is rejected as a unit.
type ConflictError struct {
	Name     string
	Existing RecordType
	Incoming RecordType
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("reappearing record '%s' with conflicting record type '%s'",
		e.Name, e.Incoming)
}

// UnknownRecordTypeError is returned for a record signature naming a type
// outside the closed set of record types.
type UnknownRecordTypeError struct {
	Type   string
	Record string
}

func (e *UnknownRecordTypeError) Error() string {
	return fmt.Sprintf("invalid record type '%s' for record '%s'", e.Type, e.Record)
}
