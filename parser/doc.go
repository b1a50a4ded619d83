// Package parser reads EPICS database and substitution files.
//
// Database files (“.db”, “.template”) contain record definitions and are
// loaded into an epicsdb.Database with LoadDatabaseFile, which resolves
// file names against a search path, expands macros line by line, and
// follows `include` directives according to a configurable inclusion
// strategy.
//
// Substitution files name template files together with macro bindings,
// expressed as global/file/pattern/value blocks. ParseSubstitution turns
// such a file into an ordered list of (file, macro map) entries; each
// entry can then be fed to LoadDatabaseFile independently.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package parser

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epicsdb.parser'.
func tracer() tracing.Trace {
	return tracing.Select("epicsdb.parser")
}
