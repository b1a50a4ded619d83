package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/epicsdb"
	"github.com/npillmayer/epicsdb/macro"
	"golang.org/x/text/encoding/ianaindex"
)

// IncludeStrategy selects how `include` directives are handled while
// loading a database file.
type IncludeStrategy int8

const (
	// LoadIntoSelf loads included files recursively and merges their
	// records into the including database.
	LoadIntoSelf IncludeStrategy = iota
	// LoadIntoNew loads included files recursively but keeps each one as
	// a separate database, attached to the including database under the
	// included file name.
	LoadIntoNew
	// IgnoreIncludes registers include directives without ever opening
	// the included files.
	IgnoreIncludes
)

func (s IncludeStrategy) String() string {
	switch s {
	case LoadIntoSelf:
		return "load-into-self"
	case LoadIntoNew:
		return "load-into-new"
	case IgnoreIncludes:
		return "ignore"
	}
	return "<invalid include strategy>"
}

// LoadOptions configures a LoadDatabaseFile call. The zero value loads
// without macro expansion, merges includes into the loading database, and
// reads files as UTF-8.
type LoadOptions struct {
	// Macros enables per-line macro expansion. nil disables expansion
	// entirely; lines then pass through untouched.
	Macros macro.Set
	// SearchPath lists directories against which relative file names are
	// resolved.
	SearchPath []string
	// Includes selects the inclusion strategy.
	Includes IncludeStrategy
	// StrictMacros makes unresolved macro references fatal. When false,
	// a line with unresolved references is dropped from the parsed input
	// altogether; note that this is intentional data loss, and that line
	// numbers in subsequent diagnostics refer to the filtered text.
	StrictMacros bool
	// Encoding optionally names an IANA character encoding for the file
	// content. Empty means UTF-8.
	Encoding string
}

// parsePair consumes a parenthesized pair: `( token )` or
// `( token , token )`. Any other shape yields ok=false; a 2-token pair
// yields ok=true with an empty value. Callers decide whether a failed or
// value-less pair is fatal.
func parsePair(ts *TokenStream) (field, value string, ok bool) {
	token, more := ts.Next()
	if !more || token != "(" {
		return "", "", false
	}
	field, more = ts.Next()
	if !more {
		return "", "", false
	}
	token, more = ts.Next()
	if !more {
		return "", "", false
	}
	if token == ")" {
		return field, "", true
	}
	if token != "," {
		return "", "", false
	}
	value, more = ts.Next()
	if !more {
		return "", "", false
	}
	token, more = ts.Next()
	if !more || token != ")" {
		return "", "", false
	}
	return field, value, true
}

// ParseRecord parses one record block, starting right after the `record`
// keyword: the `(type, "name")` signature pair, then field/info/alias
// statements up to the closing brace. The record type must be a member of
// the closed record-type set. Malformed field, info and alias statements
// inside the block are warned about and skipped; tokens other than the
// known block keywords are ignored.
func ParseRecord(ts *TokenStream) (*epicsdb.Record, error) {
	rtype, name, ok := parsePair(ts)
	if !ok || rtype == "" || name == "" {
		return nil, fmt.Errorf("failed to parse record signature (type '%s', name '%s')", rtype, name)
	}
	recordType, known := epicsdb.RecordTypeForName(rtype)
	if !known {
		return nil, &epicsdb.UnknownRecordTypeError{Type: rtype, Record: name}
	}
	record := epicsdb.NewRecord(name, recordType)
	for {
		token, more := ts.Next()
		if !more {
			return nil, fmt.Errorf("unexpected end of input in record '%s'", name)
		}
		switch token {
		case "}":
			tracer().Debugf("parsed record '%s'", record.Name)
			return record, nil
		case "field", "info":
			key, value, ok := parsePair(ts)
			if !ok || key == "" || value == "" {
				tracer().Infof("invalid %s definition for record '%s'", token, name)
				continue
			}
			tracer().Debugf("setting %s '%s' for record '%s'", token, key, name)
			if token == "field" {
				record.SetField(key, value)
			} else {
				record.SetInfo(key, value)
			}
		case "alias":
			key, _, ok := parsePair(ts)
			if !ok || key == "" {
				tracer().Infof("invalid alias definition for record '%s'", name)
				continue
			}
			record.AddAlias(key)
		default:
			// not a block keyword; ignored
		}
	}
}

// FindDatabaseFile resolves a database file name: an existing path is
// used as given, otherwise a relative name is probed against each search
// path entry in turn.
func FindDatabaseFile(filename string, searchPath []string) (string, error) {
	if info, err := os.Stat(filename); err == nil && info.Mode().IsRegular() {
		return filename, nil
	}
	if !filepath.IsAbs(filename) {
		for _, dir := range searchPath {
			candidate := filepath.Join(dir, filename)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}
	}
	return "", &NotFoundError{File: filename, SearchPath: searchPath}
}

// LoadDatabaseFile loads one database file into a fresh database. The
// file is read completely and, when opts.Macros is non-nil, expanded line
// by line before parsing; include directives are followed according to
// the inclusion strategy, with the including file's directory appended to
// the search path for the nested load. Fatal conditions return an error
// and never a partially valid database.
func LoadDatabaseFile(filename string, opts LoadOptions) (*epicsdb.Database, error) {
	path, err := FindDatabaseFile(filename, opts.SearchPath)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := decode(raw, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	lines := strings.Split(text, "\n")
	if opts.Macros != nil {
		expanded := make([]string, 0, len(lines))
		for lineno, line := range lines {
			result, unresolved, err := macro.Expand(line, opts.Macros)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineno+1, err)
			}
			if len(unresolved) > 0 {
				if opts.StrictMacros {
					return nil, &UnresolvedMacroError{File: path, Line: lineno + 1, Names: unresolved}
				}
				tracer().Debugf("%s:%d: macro(s) %s undefined, dropping line",
					path, lineno+1, strings.Join(unresolved, ", "))
				continue
			}
			expanded = append(expanded, result)
		}
		lines = expanded
	}

	ts, err := newTokenStream(strings.Join(lines, "\n"), path)
	if err != nil {
		return nil, err
	}
	database := epicsdb.NewDatabase()
	for {
		token, more := ts.Next()
		if !more {
			break
		}
		switch token {
		case "record", "grecord":
			record, err := ParseRecord(ts)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if err := database.AddRecord(record); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		case "alias":
			recordName, aliasName, ok := parsePair(ts)
			if !ok || recordName == "" || aliasName == "" {
				return nil, fmt.Errorf("%s: malformed alias statement", path)
			}
			record := database.Record(recordName)
			if record == nil {
				return nil, fmt.Errorf("%s: %w", path, &UndefinedAliasError{Record: recordName, Alias: aliasName})
			}
			tracer().Debugf("adding alias '%s' for record '%s'", aliasName, recordName)
			record.AddAlias(aliasName)
		case "include":
			inclusion, more := ts.Next()
			if !more {
				return nil, fmt.Errorf("%s: missing file name after include", path)
			}
			// register the directive even if we don't end up loading it
			database.AddIncludedTemplate(inclusion, nil)
			if opts.Includes == IgnoreIncludes {
				continue
			}
			nested := opts
			nested.SearchPath = append(append([]string{}, opts.SearchPath...), filepath.Dir(path))
			included, err := LoadDatabaseFile(inclusion, nested)
			if err != nil {
				return nil, err
			}
			switch opts.Includes {
			case LoadIntoSelf:
				tracer().Debugf("merging database from '%s' into '%s'", inclusion, path)
				if err := database.Merge(included); err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
			case LoadIntoNew:
				tracer().Debugf("attaching database from '%s' as a separate template", inclusion)
				database.AddIncludedTemplate(inclusion, included)
			}
		default:
			return nil, fmt.Errorf("%s: invalid token '%s' at database level", path, token)
		}
	}
	tracer().Infof("loaded %d unique records from '%s'", database.Len(), path)
	return database, nil
}

// decode converts raw file content according to a named IANA encoding.
func decode(raw []byte, encodingName string) (string, error) {
	if encodingName == "" || strings.EqualFold(encodingName, "utf-8") || strings.EqualFold(encodingName, "utf8") {
		return string(raw), nil
	}
	enc, err := ianaindex.IANA.Encoding(encodingName)
	if err != nil {
		return "", fmt.Errorf("unknown encoding '%s': %w", encodingName, err)
	}
	if enc == nil {
		return "", fmt.Errorf("unsupported encoding '%s'", encodingName)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
