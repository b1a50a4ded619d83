package params

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/epicsdb"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func asynRecord(t *testing.T, db *epicsdb.Database, name string, rtype epicsdb.RecordType,
	link, tag, dtyp string) {
	t.Helper()
	record := epicsdb.NewRecord(name, rtype)
	record.SetField(link, "@asyn(PORT,0)"+tag)
	if dtyp != "" {
		record.SetField("DTYP", dtyp)
	}
	if err := db.AddRecord(record); err != nil {
		t.Fatal(err)
	}
}

func TestInternalName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.params")
	defer teardown()
	//
	for i, test := range []struct {
		ptype  Type
		expect string
	}{
		{ptype: Int32, expect: "asynParamInt32"},
		{ptype: Float64, expect: "asynParamFloat64"},
		{ptype: OctetRead, expect: "asynParamOctet"},
		{ptype: OctetWrite, expect: "asynParamOctet"},
		{ptype: UInt32Digital, expect: "asynParamUInt32Digital"},
	} {
		if name := test.ptype.InternalName(); name != test.expect {
			t.Errorf("test %d: expected %q, have %q", i, test.expect, name)
		}
	}
}

func TestFromDatabase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.params")
	defer teardown()
	//
	db := epicsdb.NewDatabase()
	asynRecord(t, db, "MTEST:AO1", epicsdb.Ao, "OUT", "TST_AO_VOLT", "asynFloat64")
	asynRecord(t, db, "MTEST:BO1", epicsdb.Bo, "OUT", "TST_BO_ENBL", "asynInt32")
	asynRecord(t, db, "MTEST:AI1", epicsdb.Ai, "INP", "TST_AO_VOLT", "asynFloat64") // duplicate tag
	defs, err := FromDatabase(db, "Test", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 defs (duplicate skipped), have %d: %v", len(defs), defs)
	}
	if defs[0].Name != "Test_AoVolt" || defs[0].RecordStr != "TST_AO_VOLT" || defs[0].Type != Float64 {
		t.Errorf("unexpected def #0: %v", defs[0])
	}
	if defs[1].Name != "Test_BoEnbl" || defs[1].Type != Int32 {
		t.Errorf("unexpected def #1: %v", defs[1])
	}
}

func TestFromDatabasePrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.params")
	defer teardown()
	//
	db := epicsdb.NewDatabase()
	asynRecord(t, db, "MTEST:AO1", epicsdb.Ao, "OUT", "TST_AO_VOLT", "asynFloat64")
	asynRecord(t, db, "MTEST:BO1", epicsdb.Bo, "OUT", "AUX_BO_ENBL", "asynInt32")
	defs, err := FromDatabase(db, "Test", "TST_")
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 1 || defs[0].RecordStr != "TST_AO_VOLT" {
		t.Errorf("expected the prefix filter to keep TST_ tags only, have %v", defs)
	}
}

func TestFromDatabaseBadDTYP(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.params")
	defer teardown()
	//
	db := epicsdb.NewDatabase()
	asynRecord(t, db, "MTEST:AO1", epicsdb.Ao, "OUT", "TST_AO_VOLT", "")
	if _, err := FromDatabase(db, "Test", ""); err == nil {
		t.Error("expected a record without DTYP to fail the collection")
	}
	//
	db = epicsdb.NewDatabase()
	asynRecord(t, db, "MTEST:AO1", epicsdb.Ao, "OUT", "TST_AO_VOLT", "asynBogus")
	if _, err := FromDatabase(db, "Test", ""); err == nil {
		t.Error("expected an unsupported DTYP to fail the collection")
	}
}

var testDefs = []Def{
	{RecordStr: "TST_AO_VOLT", Name: "Test_AoVolt", Type: Float64},
	{RecordStr: "TST_BO_ENBL", Name: "Test_BoEnbl", Type: Int32},
}

func TestGenerateHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.params")
	defer teardown()
	//
	var buf bytes.Buffer
	if err := GenerateHeader(&buf, "Test", testDefs); err != nil {
		t.Fatal(err)
	}
	expect := `#ifndef TEST_PARAM_DEFS_H
#define TEST_PARAM_DEFS_H

// This file is auto-generated. Do not edit directly.
// Generated from Test.template

// String definitions for parameters
#define Test_AoVoltString "TST_AO_VOLT"
#define Test_BoEnblString "TST_BO_ENBL"

// Parameter index definitions
int Test_AoVolt;
int Test_BoEnbl;

#define TEST_FIRST_PARAM Test_AoVolt
#define TEST_LAST_PARAM Test_BoEnbl

#define NUM_TEST_PARAMS 2

#endif
`
	if buf.String() != expect {
		t.Errorf("unexpected header output:\n%s", buf.String())
	}
}

func TestGenerateHeaderEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.params")
	defer teardown()
	//
	var buf bytes.Buffer
	if err := GenerateHeader(&buf, "Empty", nil); err != nil {
		t.Fatal(err)
	}
	content := buf.String()
	if !strings.Contains(content, "#define NUM_EMPTY_PARAMS 0") {
		t.Errorf("expected a zero parameter count:\n%s", content)
	}
	if strings.Contains(content, "FIRST_PARAM") || strings.Contains(content, "LAST_PARAM") {
		t.Errorf("expected no first/last defines without parameters:\n%s", content)
	}
}

func TestGenerateSource(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.params")
	defer teardown()
	//
	var buf bytes.Buffer
	if err := GenerateSource(&buf, "Test", testDefs); err != nil {
		t.Fatal(err)
	}
	expect := `// This file is auto-generated. Do not edit directly.
// Generated from Test.template

#include "Test.h"

void Test::createAllParams() {
    createParam(Test_AoVoltString, asynParamFloat64, &Test_AoVolt);
    createParam(Test_BoEnblString, asynParamInt32, &Test_BoEnbl);
}
`
	if buf.String() != expect {
		t.Errorf("unexpected source output:\n%s", buf.String())
	}
}

func TestWriteFiles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "epicsdb.params")
	defer teardown()
	//
	dir := t.TempDir()
	if err := WriteFiles(dir, "Test", testDefs); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"TestParamDefs.h", "TestParamDefs.cpp"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be generated: %v", name, err)
		}
	}
}
