// Package tokenizer splits EPICS database and substitution file text into
// lexical tokens.
//
// The lexical grammar is shared by database files and substitution files:
// the single-character specials `, = { } ( )`, barewords, single- or
// double-quoted strings (quotes stripped, backslash-escapes otherwise left
// untouched), `#`-comments to end of line, and whitespace. Comments and
// whitespace are discarded; everything else is emitted verbatim as a plain
// string token. The tokenizer knows nothing about the grammar built on top
// of it.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package tokenizer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epicsdb.tokenizer'.
func tracer() tracing.Trace {
	return tracing.Select("epicsdb.tokenizer")
}
