// Package params derives asyn parameter definitions from EPICS databases
// and generates C/C++ binding code for them.
//
// Records that bind a hardware parameter carry the parameter tag in their
// INP or OUT link field, after the closing parenthesis of the link
// address, and declare the asyn interface type in their DTYP field.
// FromDatabase collects these tags into parameter definitions;
// GenerateHeader and GenerateSource render the matching header and
// source files for an asynPortDriver subclass.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package params

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epicsdb.params'.
func tracer() tracing.Trace {
	return tracing.Select("epicsdb.params")
}
