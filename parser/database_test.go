package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/epicsdb"
	"github.com/npillmayer/epicsdb/macro"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// writeDB places database file content in a temporary directory and
// returns the file's path.
func writeDB(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseRecord(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	ts, err := newTokenStream(`(ao, "MTEST:AO1") {
        field(DTYP, "asynFloat64")
        info(autosaveFields, "VAL")
        alias("MTEST:VOLTAGE")
    }`, "")
	if err != nil {
		t.Fatal(err)
	}
	record, err := ParseRecord(ts)
	if err != nil {
		t.Fatal(err)
	}
	if record.Name != "MTEST:AO1" || record.Type != epicsdb.Ao {
		t.Errorf("unexpected record signature: %s (%s)", record.Name, record.Type)
	}
	if v, _ := record.Field("DTYP"); v != "asynFloat64" {
		t.Errorf("expected DTYP field, have %q", v)
	}
	if v, _ := record.Info("autosaveFields"); v != "VAL" {
		t.Errorf("expected autosaveFields info, have %q", v)
	}
	if aliases := record.Aliases(); len(aliases) != 1 || aliases[0] != "MTEST:VOLTAGE" {
		t.Errorf("expected alias MTEST:VOLTAGE, have %v", aliases)
	}
}

func TestParseRecordUnknownType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	ts, err := newTokenStream(`(motor, "MTEST:M1") { }`, "")
	if err != nil {
		t.Fatal(err)
	}
	_, err = ParseRecord(ts)
	var unknown *epicsdb.UnknownRecordTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected an *UnknownRecordTypeError, have %v", err)
	}
	if unknown.Type != "motor" || unknown.Record != "MTEST:M1" {
		t.Errorf("error carries wrong context: %v", unknown)
	}
}

func TestParseRecordSkipsMalformedStatements(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	ts, err := newTokenStream(`(ao, "MTEST:AO1") {
        field(EGU, "")
        field(DESC)
        field(PREC, "2")
    }`, "")
	if err != nil {
		t.Fatal(err)
	}
	record, err := ParseRecord(ts)
	if err != nil {
		t.Fatal(err)
	}
	if record.FieldCount() != 1 {
		t.Errorf("expected malformed fields to be skipped, have %d fields", record.FieldCount())
	}
	if v, _ := record.Field("PREC"); v != "2" {
		t.Errorf("expected the well-formed field to survive, have PREC=%q", v)
	}
}

func TestParseRecordUnterminated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	ts, err := newTokenStream(`(ao, "MTEST:AO1") { field(PREC, "2")`, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = ParseRecord(ts); err == nil {
		t.Error("expected an unterminated record block to fail")
	}
}

func TestFindDatabaseFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	if path, err := FindDatabaseFile("child.db", []string{"testdata"}); err != nil {
		t.Error(err)
	} else if path != filepath.Join("testdata", "child.db") {
		t.Errorf("unexpected resolved path %q", path)
	}
	_, err := FindDatabaseFile("no-such.db", []string{"testdata"})
	var notfound *NotFoundError
	if !errors.As(err, &notfound) {
		t.Fatalf("expected a *NotFoundError, have %v", err)
	}
}

func TestLoadDatabaseFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	db, err := LoadDatabaseFile("testdata/child.db", LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 1 {
		t.Fatalf("expected 1 record, have %d", db.Len())
	}
	record := db.Record("MTEST:AI1")
	if record == nil || record.Type != epicsdb.Ai {
		t.Fatalf("expected record MTEST:AI1 of type ai, have %v", record)
	}
	if v, _ := record.Field("INP"); v != "@asyn(PORT,0)TST_AI_VOLT" {
		t.Errorf("unexpected INP field %q", v)
	}
}

func TestLoadIncludeIntoSelf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	db, err := LoadDatabaseFile("testdata/parent.db", LoadOptions{Includes: LoadIntoSelf})
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 2 {
		t.Fatalf("expected parent and child records, have %d", db.Len())
	}
	if db.Record("MTEST:AI1") == nil {
		t.Error("expected the child's record to be merged in")
	}
	included, ok := db.IncludedTemplate("child.db")
	if !ok {
		t.Error("expected the include directive to be registered")
	}
	if included != nil {
		t.Error("expected no nested database under load-into-self")
	}
}

func TestLoadIncludeIntoNew(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	db, err := LoadDatabaseFile("testdata/parent.db", LoadOptions{Includes: LoadIntoNew})
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 1 {
		t.Fatalf("expected the parent's own record only, have %d", db.Len())
	}
	included, ok := db.IncludedTemplate("child.db")
	if !ok || included == nil {
		t.Fatal("expected the child database to be attached")
	}
	if included.Len() != 1 || included.Record("MTEST:AI1") == nil {
		t.Error("expected the child database to hold the child's record")
	}
}

func TestLoadIgnoreIncludes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	db, err := LoadDatabaseFile("testdata/parent.db", LoadOptions{Includes: IgnoreIncludes})
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 1 {
		t.Fatalf("expected the parent's own record only, have %d", db.Len())
	}
	included, ok := db.IncludedTemplate("child.db")
	if !ok || included != nil {
		t.Error("expected the directive to be registered without content")
	}
}

func TestLoadDatabaseWithMacros(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	db, err := LoadDatabaseFile("testdata/ao.template", LoadOptions{
		Macros: macro.Set{"P": "MTEST:", "R": "AO1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	record := db.Record("MTEST:AO1")
	if record == nil {
		t.Fatalf("expected macro-expanded record name, have records %v", db.Records())
	}
	if v, _ := record.Field("OUT"); v != "@asyn(PORT,0)TST_AO_VOLT" {
		t.Errorf("expected defaulted PORT macro in OUT link, have %q", v)
	}
	if v, _ := record.Field("EGU"); v != "V" {
		t.Errorf("expected defaulted EGU value, have %q", v)
	}
}

func TestLoadDatabaseStrictMacros(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	_, err := LoadDatabaseFile("testdata/lenient.template", LoadOptions{
		Macros:       macro.Set{},
		StrictMacros: true,
	})
	var unresolved *UnresolvedMacroError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected an *UnresolvedMacroError, have %v", err)
	}
	if len(unresolved.Names) != 1 || unresolved.Names[0] != "EGU" {
		t.Errorf("expected EGU to be reported, have %v", unresolved.Names)
	}
}

func TestLoadDatabaseLenientMacros(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	db, err := LoadDatabaseFile("testdata/lenient.template", LoadOptions{
		Macros: macro.Set{},
	})
	if err != nil {
		t.Fatal(err)
	}
	record := db.Record("MTEST:AO1")
	if record == nil {
		t.Fatal("expected the record to survive the dropped line")
	}
	if _, ok := record.Field("EGU"); ok {
		t.Error("expected the line with the unresolved macro to be dropped")
	}
	if _, ok := record.Field("DTYP"); !ok {
		t.Error("expected intact lines to survive")
	}
}

func TestLoadDatabaseTopLevelAlias(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	dir := t.TempDir()
	path := writeDB(t, dir, "alias.db", `record(ao, "MTEST:AO1") {
}
alias("MTEST:AO1", "MTEST:VOLTAGE")
`)
	db, err := LoadDatabaseFile(path, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	aliases := db.Record("MTEST:AO1").Aliases()
	if len(aliases) != 1 || aliases[0] != "MTEST:VOLTAGE" {
		t.Errorf("expected alias to be attached, have %v", aliases)
	}
	//
	path = writeDB(t, dir, "badalias.db", `alias("MTEST:NONE", "MTEST:VOLTAGE")
`)
	_, err = LoadDatabaseFile(path, LoadOptions{})
	var undef *UndefinedAliasError
	if !errors.As(err, &undef) {
		t.Fatalf("expected an *UndefinedAliasError, have %v", err)
	}
}

func TestLoadDatabaseJunkAtTopLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	path := writeDB(t, t.TempDir(), "junk.db", `record(ao, "MTEST:AO1") {
}
bogus
`)
	if _, err := LoadDatabaseFile(path, LoadOptions{}); err == nil {
		t.Error("expected junk at database level to be fatal")
	}
}

func TestLoadDatabaseRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.parser")
	defer teardown()
	//
	db, err := LoadDatabaseFile("testdata/parent.db", LoadOptions{Includes: LoadIntoSelf})
	if err != nil {
		t.Fatal(err)
	}
	path := writeDB(t, t.TempDir(), "roundtrip.db", db.String())
	again, err := LoadDatabaseFile(path, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !db.Equals(again) {
		t.Errorf("round trip lost information:\n%s\nvs\n%s", db, again)
	}
}
