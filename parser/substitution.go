package parser

import (
	"fmt"
	"os"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/epicsdb/macro"
)

// A Substitution names one template file together with one resolved macro
// map: the combination of top-level globals, per-file globals and one
// value block, merged in that order of increasing precedence. Each
// substitution can be fed to LoadDatabaseFile independently.
type Substitution struct {
	File   string
	Macros *linkedhashmap.Map // macro name -> value, insertion ordered
}

// MacroSet flattens the substitution's macro map into a macro.Set for the
// database loader.
func (s Substitution) MacroSet() macro.Set {
	macros := make(macro.Set, s.Macros.Size())
	s.Macros.Each(func(key, value interface{}) {
		macros[key.(string)] = value.(string)
	})
	return macros
}

// The substitution grammar is parsed by a small state machine. PATTERN
// and GLOBAL blocks return to the state they were entered from.
type substState int8

const (
	neutral substState = iota
	inFile
	inPattern
	inGlobal
)

// ParseSubstitution parses substitution file text into an ordered list of
// substitutions. The file name is used for diagnostics only.
func ParseSubstitution(input, filename string) ([]Substitution, error) {
	ts, err := newTokenStream(input, filename)
	if err != nil {
		return nil, err
	}
	var subs []Substitution
	globals := linkedhashmap.New()     // top-level global macros
	fileGlobals := linkedhashmap.New() // per-file global macros
	var patternNames []string          // nil while no pattern was declared
	file := ""
	state, saved := neutral, neutral
	for {
		token, more := ts.Next()
		if !more {
			break
		}
		switch state {
		case neutral:
			switch token {
			case "file":
				name, ok := parseFileName(ts)
				if !ok {
					return nil, fmt.Errorf("%s: missing '{' after file statement", filename)
				}
				file = name
				patternNames = nil
				fileGlobals = linkedhashmap.New()
				saved, state = state, inFile
			case "global":
				saved, state = state, inGlobal
			}
		case inFile:
			switch token {
			case "global":
				saved, state = state, inGlobal
			case "pattern":
				saved, state = state, inPattern
			case "{":
				var names, values []string
				if patternNames == nil {
					names, values = parseAssignments(ts)
				} else {
					names, values = patternNames, parseValueList(ts)
				}
				if file == "" {
					return nil, fmt.Errorf("%s: substitution block without a file name", filename)
				}
				merged := linkedhashmap.New()
				putAll(merged, globals)
				putAll(merged, fileGlobals)
				putPairs(merged, names, values)
				subs = append(subs, Substitution{File: file, Macros: merged})
			case "}":
				saved, state = state, neutral
			}
		case inPattern:
			if token == "{" {
				patternNames = parseValueList(ts)
				state = saved
			}
		case inGlobal:
			if token == "{" {
				names, values := parseAssignments(ts)
				if saved == inFile {
					putPairs(fileGlobals, names, values)
				} else {
					putPairs(globals, names, values)
				}
				state = saved
			}
		}
	}
	tracer().Infof("parsed %d substitutions from '%s'", len(subs), filename)
	return subs, nil
}

// LoadSubstitutionFile reads and parses one substitution file.
func LoadSubstitutionFile(filename string) ([]Substitution, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseSubstitution(string(raw), filename)
}

// parseFileName reads the file name of a `file` statement: tokens up to
// the opening brace, the last one winning.
func parseFileName(ts *TokenStream) (string, bool) {
	name := ""
	for {
		token, more := ts.Next()
		if !more {
			return "", false
		}
		if token == "{" {
			return name, name != ""
		}
		name = token
	}
}

// parseValueList reads a comma-separated list of bare tokens up to the
// closing brace. It serves both pattern-name lists and positional value
// blocks.
func parseValueList(ts *TokenStream) []string {
	var values []string
	for {
		token, more := ts.Next()
		if !more || token == "}" {
			return values
		}
		if token != "," {
			values = append(values, token)
		}
	}
}

// parseAssignments reads a `name=value` list up to the closing brace,
// keeping names and values as two parallel slices. Names without a value
// stay in the name list and are dropped during pairing.
func parseAssignments(ts *TokenStream) (names, values []string) {
	sawEquals := false
	for {
		token, more := ts.Next()
		if !more || token == "}" {
			return names, values
		}
		switch token {
		case "=":
			sawEquals = true
		case ",":
			sawEquals = false
		default:
			if sawEquals {
				values = append(values, token)
				sawEquals = false
			} else {
				names = append(names, token)
			}
		}
	}
}

// putPairs pairs names with values positionally, stopping at the shorter
// list, and puts the pairs into an ordered map.
func putPairs(target *linkedhashmap.Map, names, values []string) {
	for i, name := range names {
		if i >= len(values) {
			return
		}
		target.Put(name, values[i])
	}
}

// putAll copies all entries of an ordered map into another, preserving
// order.
func putAll(target, source *linkedhashmap.Map) {
	source.Each(func(key, value interface{}) {
		target.Put(key, value)
	})
}
