package epicsdb

// RecordType represents the type of an EPICS record. The set of record
// types is closed: it reflects the types listed in the EPICS record
// reference manual (https://epics-base.github.io/epics-base/recordrefmanual.html).
// Supporting an additional record type requires a code change.
type RecordType int8

// Predefined record types.
const (
	NoType RecordType = iota // zero value, not a valid record type
	Aai                      // analog array input
	Aao                      // analog array output
	Ai                       // analog input
	Ao                       // analog output
	ASub                     // array subroutine
	Bi                       // binary input
	Bo                       // binary output
	Calcout                  // calculation output
	Calc                     // calculation
	Compress                 // compression
	Dfanout                  // data fanout
	Event                    // event
	Fanout                   // fanout
	Histogram                // histogram
	Int64in                  // 64 bit integer input
	Int64out                 // 64 bit integer output
	Longin                   // long input
	Longout                  // long output
	Lsi                      // long string input
	Lso                      // long string output
	MbbiDirect               // multi-bit binary input direct
	Mbbi                     // multi-bit binary input
	MbboDirect               // multi-bit binary output direct
	Mbbo                     // multi-bit binary output
	Permissive               // permissive
	Prinf                    // printf
	Sel                      // select
	Seq                      // sequence
	State                    // state
	Stringin                 // string input
	Stringout                // string output
	SubArray                 // sub-array
	Sub                      // subroutine
	Waveform                 // waveform
)

// recordTypeNames maps record types to their textual form as it appears in
// database files. Record type names are case-sensitive.
var recordTypeNames = map[RecordType]string{
	Aai:        "aai",
	Aao:        "aao",
	Ai:         "ai",
	Ao:         "ao",
	ASub:       "aSub",
	Bi:         "bi",
	Bo:         "bo",
	Calcout:    "calcout",
	Calc:       "calc",
	Compress:   "compress",
	Dfanout:    "dfanout",
	Event:      "event",
	Fanout:     "fanout",
	Histogram:  "histogram",
	Int64in:    "int64in",
	Int64out:   "int64out",
	Longin:     "longin",
	Longout:    "longout",
	Lsi:        "lsi",
	Lso:        "lso",
	MbbiDirect: "mbbiDirect",
	Mbbi:       "mbbi",
	MbboDirect: "mbboDirect",
	Mbbo:       "mbbo",
	Permissive: "permissive",
	Prinf:      "prinf",
	Sel:        "sel",
	Seq:        "seq",
	State:      "state",
	Stringin:   "stringin",
	Stringout:  "stringout",
	SubArray:   "subArray",
	Sub:        "sub",
	Waveform:   "waveform",
}

var recordTypesByName map[string]RecordType

func init() {
	recordTypesByName = make(map[string]RecordType, len(recordTypeNames))
	for t, name := range recordTypeNames {
		recordTypesByName[name] = t
	}
}

// RecordTypeForName returns the record type for a name as it appears in a
// database file, together with a flag signalling whether the name denotes
// a known record type.
func RecordTypeForName(name string) (RecordType, bool) {
	t, ok := recordTypesByName[name]
	return t, ok
}

func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return "<invalid record type>"
}
