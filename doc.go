// Package epicsdb is a toolkit for reading EPICS database files.
//
// EPICS database files (“.db”, “.template”) describe process-variable
// records of a control system in a small, line-oriented configuration
// language. Package epicsdb holds the in-memory model for these files:
// records with their fields, infos and aliases, collected into databases
// with well-defined merge and conflict semantics.
//
// Reading files into the model is done by the sub-packages:
//
//   ▪︎ tokenizer  splits raw text into lexical tokens
//   ▪︎ macro      expands $(NAME) / $(NAME=default) references
//   ▪︎ parser     parses database and substitution files
//   ▪︎ params     derives asyn parameter definitions from a database
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package epicsdb

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'epicsdb'.
func tracer() tracing.Trace {
	return tracing.Select("epicsdb")
}
