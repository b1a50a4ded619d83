package epicsdb

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Record is one EPICS record instance: a named, typed control point with
// fields, free-form metadata (infos) and alternate names (aliases).
//
// Fields and infos preserve the order in which they have first been set,
// so that re-serializing a record is deterministic.
//
// A record is created by the parser from one `record(…) { … }` block and
// is mutated afterwards only by Merge, when a database encounters a
// second definition under the same name.
type Record struct {
	Name    string
	Type    RecordType
	fields  *linkedhashmap.Map // field name -> value, insertion ordered
	infos   *linkedhashmap.Map // info name -> value, insertion ordered
	aliases []string
}

// NewRecord creates an empty record with a name and a record type.
func NewRecord(name string, rtype RecordType) *Record {
	return &Record{
		Name:   name,
		Type:   rtype,
		fields: linkedhashmap.New(),
		infos:  linkedhashmap.New(),
	}
}

// IsValid is a predicate: has the record both a name and a record type?
// Only valid records may enter a database.
func (r *Record) IsValid() bool {
	return r != nil && r.Name != "" && r.Type != NoType
}

// SetField sets a field value. Setting a field twice overwrites the value
// but keeps the field's original position.
func (r *Record) SetField(name, value string) {
	r.fields.Put(name, value)
}

// Field returns the value of a field.
func (r *Record) Field(name string) (string, bool) {
	v, ok := r.fields.Get(name)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// SetInfo sets an info value.
func (r *Record) SetInfo(name, value string) {
	r.infos.Put(name, value)
}

// Info returns the value of an info entry.
func (r *Record) Info(name string) (string, bool) {
	v, ok := r.infos.Get(name)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// AddAlias appends an alternate name for this record.
func (r *Record) AddAlias(alias string) {
	r.aliases = append(r.aliases, alias)
}

// Aliases returns the record's alternate names in the order they appeared.
func (r *Record) Aliases() []string {
	return r.aliases
}

// FieldCount returns the number of fields set on the record.
func (r *Record) FieldCount() int {
	return r.fields.Size()
}

// EachField calls f for every field, in insertion order.
func (r *Record) EachField(f func(name, value string)) {
	r.fields.Each(func(key, value interface{}) {
		f(key.(string), value.(string))
	})
}

// EachInfo calls f for every info entry, in insertion order.
func (r *Record) EachInfo(f func(name, value string)) {
	r.infos.Each(func(key, value interface{}) {
		f(key.(string), value.(string))
	})
}

// Merge merges fields, infos and aliases from another record instance
// into this one. Fields and infos of the other record overwrite entries
// of the same name; aliases are appended. Merging records of differing
// name or type is an error.
func (r *Record) Merge(other *Record) error {
	if other == nil {
		return nil
	}
	if r.Name != other.Name || r.Type != other.Type {
		return fmt.Errorf("cannot merge records with different types or names: '%s' (%s) vs '%s' (%s)",
			r.Name, r.Type, other.Name, other.Type)
	}
	other.EachField(r.SetField)
	other.EachInfo(r.SetInfo)
	r.aliases = append(r.aliases, other.aliases...)
	return nil
}

// Equals compares two records structurally: name, type, fields, infos and
// aliases. Field and info comparison is content-based, i.e. independent of
// insertion order.
func (r *Record) Equals(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Name != other.Name || r.Type != other.Type {
		return false
	}
	if r.fields.Size() != other.fields.Size() || r.infos.Size() != other.infos.Size() {
		return false
	}
	if len(r.aliases) != len(other.aliases) {
		return false
	}
	equal := true
	r.EachField(func(name, value string) {
		if v, ok := other.Field(name); !ok || v != value {
			equal = false
		}
	})
	r.EachInfo(func(name, value string) {
		if v, ok := other.Info(name); !ok || v != value {
			equal = false
		}
	})
	for i, a := range r.aliases {
		if other.aliases[i] != a {
			equal = false
		}
	}
	return equal
}

// String returns the record in its canonical database-file form.
func (r *Record) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "record(%s, \"%s\") {\n", r.Type, r.Name)
	r.EachField(func(name, value string) {
		fmt.Fprintf(&sb, "    field(%-4s, \"%s\")\n", name, value)
	})
	r.EachInfo(func(name, value string) {
		fmt.Fprintf(&sb, "    info(%s, \"%s\")\n", name, value)
	})
	for _, alias := range r.aliases {
		fmt.Fprintf(&sb, "    alias(\"%s\")\n", alias)
	}
	sb.WriteString("}")
	return sb.String()
}
