package params

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/npillmayer/epicsdb"
)

// Type is the asyn interface type of a parameter, as declared in a
// record's DTYP field.
type Type int8

const (
	NoType Type = iota
	Int32
	Float64
	OctetRead
	OctetWrite
	UInt32Digital
)

var typeNames = map[Type]string{
	Int32:         "asynInt32",
	Float64:       "asynFloat64",
	OctetRead:     "asynOctetRead",
	OctetWrite:    "asynOctetWrite",
	UInt32Digital: "asynUInt32Digital",
}

var typeForDTYP = map[string]Type{}

func init() {
	for t, name := range typeNames {
		typeForDTYP[name] = t
	}
}

// TypeForDTYP maps a DTYP field value to a parameter type.
func TypeForDTYP(dtyp string) (Type, bool) {
	t, ok := typeForDTYP[dtyp]
	return t, ok
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "<invalid parameter type>"
}

// InternalName returns the asynParamType constant used when registering
// a parameter of this type. Both octet directions register as
// asynParamOctet.
func (t Type) InternalName() string {
	switch t {
	case OctetRead, OctetWrite:
		return "asynParamOctet"
	default:
		return "asynParam" + strings.TrimPrefix(t.String(), "asyn")
	}
}

// A Def is one discovered parameter: the raw tag from the link field,
// the derived C symbol name and the asyn interface type.
type Def struct {
	RecordStr string
	Name      string
	Type      Type
}

// FromDatabase collects the parameter definitions of a database, in
// record order, OUT links before INP links per record. The parameter tag
// is the link field text after the last closing parenthesis; the symbol
// name is the base name joined with the camel-cased tag segments after
// the first. A non-empty prefix keeps only tags starting with it.
// Duplicate symbol names are skipped; a tagged record without a valid
// DTYP fails the collection.
func FromDatabase(db *epicsdb.Database, baseName, prefix string) ([]Def, error) {
	var defs []Def
	seen := map[string]bool{}
	for _, record := range db.Records() {
		for _, linkField := range []string{"OUT", "INP"} {
			link, ok := record.Field(linkField)
			if !ok {
				continue
			}
			tag := link
			if i := strings.LastIndex(link, ")"); i >= 0 {
				tag = link[i+1:]
			}
			if prefix != "" && !strings.HasPrefix(tag, prefix) {
				tracer().Infof("skipping '%s', does not start with '%s'", tag, prefix)
				continue
			}
			name := baseName + "_" + camelSuffix(tag)
			if seen[name] {
				tracer().Debugf("parameter '%s' already defined, skipping duplicate", name)
				continue
			}
			dtyp, ok := record.Field("DTYP")
			if !ok {
				return nil, fmt.Errorf("record '%s' has no DTYP field", record.Name)
			}
			ptype, ok := TypeForDTYP(dtyp)
			if !ok {
				return nil, fmt.Errorf("record '%s' has unsupported DTYP '%s'", record.Name, dtyp)
			}
			tracer().Debugf("found parameter '%s' of type %s", tag, ptype)
			seen[name] = true
			defs = append(defs, Def{RecordStr: tag, Name: name, Type: ptype})
		}
	}
	return defs, nil
}

// camelSuffix camel-cases the underscore-separated segments of a
// parameter tag, dropping the first segment (the device prefix).
func camelSuffix(tag string) string {
	segments := strings.Split(tag, "_")
	var b strings.Builder
	for _, segment := range segments[1:] {
		if segment == "" {
			continue
		}
		segment = strings.ToLower(segment)
		b.WriteString(strings.ToUpper(segment[:1]))
		b.WriteString(segment[1:])
	}
	return b.String()
}

var headerTemplate = template.Must(template.New("header").Parse(
	`#ifndef {{.Guard}}_PARAM_DEFS_H
#define {{.Guard}}_PARAM_DEFS_H

// This file is auto-generated. Do not edit directly.
// Generated from {{.Base}}.template

// String definitions for parameters
{{range .Defs}}#define {{.Name}}String "{{.RecordStr}}"
{{end}}
// Parameter index definitions
{{range .Defs}}int {{.Name}};
{{end}}{{if .Defs}}
#define {{.Guard}}_FIRST_PARAM {{.First}}
#define {{.Guard}}_LAST_PARAM {{.Last}}

{{end}}#define NUM_{{.Guard}}_PARAMS {{len .Defs}}

#endif
`))

var sourceTemplate = template.Must(template.New("source").Parse(
	`// This file is auto-generated. Do not edit directly.
// Generated from {{.Base}}.template

#include "{{.Base}}.h"

void {{.Base}}::createAllParams() {
{{range .Defs}}    createParam({{.Name}}String, {{.Type.InternalName}}, &{{.Name}});
{{end}}}
`))

type templateData struct {
	Base  string
	Guard string
	Defs  []Def
}

func (d templateData) First() string { return d.Defs[0].Name }
func (d templateData) Last() string  { return d.Defs[len(d.Defs)-1].Name }

func newTemplateData(baseName string, defs []Def) templateData {
	return templateData{
		Base:  baseName,
		Guard: strings.ToUpper(baseName),
		Defs:  defs,
	}
}

// GenerateHeader writes the C header declaring one string constant and
// one index slot per parameter, plus first/last/count defines.
func GenerateHeader(w io.Writer, baseName string, defs []Def) error {
	return headerTemplate.Execute(w, newTemplateData(baseName, defs))
}

// GenerateSource writes the C++ source registering every parameter
// inside a createAllParams method of the driver class.
func GenerateSource(w io.Writer, baseName string, defs []Def) error {
	return sourceTemplate.Execute(w, newTemplateData(baseName, defs))
}

// WriteFiles generates <base>ParamDefs.h and <base>ParamDefs.cpp in the
// output directory.
func WriteFiles(outDir, baseName string, defs []Def) error {
	headerFile := filepath.Join(outDir, baseName+"ParamDefs.h")
	tracer().Infof("generating header file %s for %d params", headerFile, len(defs))
	hf, err := os.Create(headerFile)
	if err != nil {
		return err
	}
	if err := GenerateHeader(hf, baseName, defs); err != nil {
		hf.Close()
		return err
	}
	if err := hf.Close(); err != nil {
		return err
	}
	sourceFile := filepath.Join(outDir, baseName+"ParamDefs.cpp")
	tracer().Infof("generating source file %s for %d params", sourceFile, len(defs))
	sf, err := os.Create(sourceFile)
	if err != nil {
		return err
	}
	if err := GenerateSource(sf, baseName, defs); err != nil {
		sf.Close()
		return err
	}
	return sf.Close()
}
