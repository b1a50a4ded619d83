package parser

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a database file neither exists as given
// nor resolves against any search path entry.
type NotFoundError struct {
	File       string
	SearchPath []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("database file '%s' not found given search path [%s]",
		e.File, strings.Join(e.SearchPath, ", "))
}

// UnresolvedMacroError is returned under the strict macro policy when a
// line contains macro references that resolve neither against the macro
// set nor against a default.
type UnresolvedMacroError struct {
	File  string
	Line  int
	Names []string
}

func (e *UnresolvedMacroError) Error() string {
	return fmt.Sprintf("%s:%d: macro(s) %s undefined", e.File, e.Line,
		strings.Join(e.Names, ", "))
}

// UndefinedAliasError is returned for a top-level alias statement that
// references a record name not (yet) present in the database.
type UndefinedAliasError struct {
	Record string
	Alias  string
}

func (e *UndefinedAliasError) Error() string {
	return fmt.Sprintf("alias '%s' references unknown record '%s'", e.Alias, e.Record)
}
