package epicsdb

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Database is an ordered collection of records, keyed by record name in
// the order the records have first been encountered. A database
// additionally keeps track of every `include` directive seen while it was
// loaded: the included file name is always registered, and the included
// database itself is attached whenever the caller's inclusion strategy
// asked for it.
type Database struct {
	records           *linkedhashmap.Map // record name -> *Record
	includedTemplates *linkedhashmap.Map // file name -> *Database or nil
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		records:           linkedhashmap.New(),
		includedTemplates: linkedhashmap.New(),
	}
}

// AddRecord adds a record to the database. Invalid records are rejected.
// If a record of the same name already exists, the existing record is
// updated in place: matching record types merge the new definition into
// the old one, differing record types are a conflict and leave the
// database unchanged.
func (db *Database) AddRecord(record *Record) error {
	if !record.IsValid() {
		return ErrIncompleteRecord
	}
	if existing := db.Record(record.Name); existing != nil {
		if existing.Type != record.Type {
			return &ConflictError{Name: record.Name, Existing: existing.Type, Incoming: record.Type}
		}
		tracer().Infof("merging into existing record '%s'", record.Name)
		return existing.Merge(record)
	}
	tracer().Debugf("adding record '%s'", record.Name)
	db.records.Put(record.Name, record)
	return nil
}

// Record returns the record registered under a name, or nil.
func (db *Database) Record(name string) *Record {
	v, ok := db.records.Get(name)
	if !ok {
		return nil
	}
	return v.(*Record)
}

// Len returns the number of records in the database.
func (db *Database) Len() int {
	return db.records.Size()
}

// Records returns the database's records in insertion order.
func (db *Database) Records() []*Record {
	records := make([]*Record, 0, db.records.Size())
	db.records.Each(func(_, value interface{}) {
		records = append(records, value.(*Record))
	})
	return records
}

// Each calls f for every record, in insertion order.
func (db *Database) Each(f func(name string, record *Record)) {
	db.records.Each(func(key, value interface{}) {
		f(key.(string), value.(*Record))
	})
}

// Merge merges all records from another database into this one, record by
// record, with AddRecord semantics. Merging the same database twice is
// idempotent as long as no record conflicts on its type.
func (db *Database) Merge(other *Database) error {
	if other == nil {
		return nil
	}
	var err error
	other.Each(func(_ string, record *Record) {
		if err == nil {
			err = db.AddRecord(record)
		}
	})
	return err
}

// AddIncludedTemplate registers an include directive for a file name. The
// included database may be nil, which marks the directive as seen without
// attaching its content.
func (db *Database) AddIncludedTemplate(file string, included *Database) {
	db.includedTemplates.Put(file, included)
}

// IncludedTemplate returns the database attached for an included file.
// The flag signals whether the file was registered at all; the database
// is nil for a registered include without attached content.
func (db *Database) IncludedTemplate(file string) (*Database, bool) {
	v, ok := db.includedTemplates.Get(file)
	if !ok {
		return nil, false
	}
	if v == nil {
		return nil, true
	}
	return v.(*Database), true
}

// IncludedTemplateFiles returns the file names of all include directives
// seen, in the order they appeared.
func (db *Database) IncludedTemplateFiles() []string {
	files := make([]string, 0, db.includedTemplates.Size())
	db.includedTemplates.Each(func(key, _ interface{}) {
		files = append(files, key.(string))
	})
	return files
}

// Equals compares two databases structurally over their record sets.
// Include bookkeeping and load order do not take part in the comparison.
func (db *Database) Equals(other *Database) bool {
	if db == nil || other == nil {
		return db == other
	}
	if db.Len() != other.Len() {
		return false
	}
	equal := true
	db.Each(func(name string, record *Record) {
		if !record.Equals(other.Record(name)) {
			equal = false
		}
	})
	return equal
}

// String returns all records in their canonical database-file form.
func (db *Database) String() string {
	var parts []string
	db.Each(func(_ string, record *Record) {
		parts = append(parts, record.String())
	})
	return strings.Join(parts, "\n")
}
