// Package macro expands EPICS macro references.
//
// A macro reference has the form $(NAME) or $(NAME=DEFAULT), where the
// default may itself contain further macro references. Expansion is a
// pure string-rewriting pass over one line of input, repeated until a
// fixed point is reached; references that resolve neither against the
// caller's macro set nor against a default stay in the text verbatim and
// are reported by name.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package macro

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epicsdb.macro'.
func tracer() tracing.Trace {
	return tracing.Select("epicsdb.macro")
}
