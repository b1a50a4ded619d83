package macro

import (
	"fmt"
	"io"
	"regexp"

	"github.com/npillmayer/epicsdb/tokenizer"
)

// Set is a macro mapping, supplied by the caller. Expansion only ever
// reads a set; it is never mutated by this package.
type Set map[string]string

// macroPattern matches $(NAME) and $(NAME=DEFAULT). Group 1 is the name,
// group 3 the default value; group 2 (including the '=') signals that a
// default is present even when it is empty.
var macroPattern = regexp.MustCompile(`\$\(([^)=]+)(=([^)]*))?\)`)

// maxPasses caps the fixed-point iteration. Unresolved references are
// re-emitted verbatim and cannot loop, but the cap guards the engine
// against future grammar changes introducing true cycles.
const maxPasses = 100

// Expand rewrites all macro references in a line against a macro set,
// repeatedly until a fixed point is reached. Defaults apply when the set
// has no entry for a name; a reference with neither is left unchanged and
// its name is reported, once, in order of first occurrence.
func Expand(line string, macros Set) (string, []string, error) {
	var unresolved []string
	seen := make(map[string]bool)
	replace := func(ref string) string {
		groups := macroPattern.FindStringSubmatch(ref)
		name := groups[1]
		if value, ok := macros[name]; ok {
			return value
		}
		if groups[2] != "" { // a default is present
			return groups[3]
		}
		if !seen[name] {
			seen[name] = true
			unresolved = append(unresolved, name)
		}
		return ref
	}
	expanded := line
	for pass := 0; ; pass++ {
		if pass >= maxPasses {
			return "", nil, fmt.Errorf("macro expansion did not converge after %d passes: %q", maxPasses, line)
		}
		next := macroPattern.ReplaceAllStringFunc(expanded, replace)
		if next == expanded {
			break
		}
		expanded = next
	}
	return expanded, unresolved, nil
}

// Split parses a comma-separated macro string of the forms `name=value`,
// `name="quoted value"` and bare `name` into a macro set. A bare name
// contributes no entry; there is no way to declare a defined-but-empty
// macro other than name="".
func Split(macroString string) (Set, error) {
	tz, err := tokenizer.New(macroString, "<macros>")
	if err != nil {
		return nil, err
	}
	macros := make(Set)
	name := ""
	haveName := false
	for {
		token, err := tz.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch token {
		case "=":
			// wait for the value token
		case ",":
			name, haveName = "", false
		default:
			if haveName {
				macros[name] = token
			} else {
				name, haveName = token, true
			}
		}
	}
	tracer().Debugf("split macro string into %d macros", len(macros))
	return macros, nil
}
