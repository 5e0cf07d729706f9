package reducer

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"wordfreq/codec"
	"wordfreq/mapreduce/types"
)

type table map[string]uint64

func (t table) Snapshot() map[string]uint64 { return t }

var sample = table{"world": 1, "hello": 2, ",": 1, "!": 1}

var sampleSorted = []types.Entry{
	{Token: "!", Count: 1},
	{Token: ",", Count: 1},
	{Token: "hello", Count: 2},
	{Token: "world", Count: 1},
}

func TestSort(t *testing.T) {
	got := Sort(sample)
	if !slices.Equal(got, sampleSorted) {
		t.Fatalf("Sort = %v, want %v", got, sampleSorted)
	}
}

func TestSortStrictlyIncreasing(t *testing.T) {
	snap := table{"Zebra": 1, "apple": 3, "_x": 1, "10": 2, "9": 4, "é": 1, "e": 1, "ß": 2}
	entries := Sort(snap)
	if len(entries) != len(snap) {
		t.Fatalf("got %d entries, want %d", len(entries), len(snap))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Token >= entries[i].Token {
			t.Errorf("entries %d and %d out of order: %q >= %q", i-1, i, entries[i-1].Token, entries[i].Token)
		}
	}
	for _, e := range entries {
		if snap[e.Token] != e.Count {
			t.Errorf("%q = %d, want %d", e.Token, e.Count, snap[e.Token])
		}
	}
}

func TestReduceText(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out).Reduce(sample); err != nil {
		t.Fatal(err)
	}
	want := "Word Counts:\n!: 1\n,: 1\nhello: 2\nworld: 1\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestReduceTextEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, WithHeader("Counts")).Reduce(table{}); err != nil {
		t.Fatal(err)
	}
	if out.String() != "Counts\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestReduceJSON(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, WithFormat(FormatJSON)).Reduce(sample); err != nil {
		t.Fatal(err)
	}
	doc := &structpb.Struct{}
	if err := protojson.Unmarshal(out.Bytes(), doc); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if h := doc.GetFields()["header"].GetStringValue(); h != DefaultHeader {
		t.Errorf("header = %q", h)
	}
	entries, err := Entries(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(entries, sampleSorted) {
		t.Fatalf("entries = %v, want %v", entries, sampleSorted)
	}
}

func TestReduceProto(t *testing.T) {
	var out bytes.Buffer
	if err := New(&out, WithFormat(FormatProto), WithHeader("h")).Reduce(sample); err != nil {
		t.Fatal(err)
	}
	msg, err := codec.Receive(&out)
	if err != nil {
		t.Fatal(err)
	}
	doc, ok := msg.(*structpb.Struct)
	if !ok {
		t.Fatalf("frame holds %T", msg)
	}
	entries, err := Entries(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(entries, sampleSorted) {
		t.Fatalf("entries = %v, want %v", entries, sampleSorted)
	}
	if out.Len() != 0 {
		t.Fatalf("%d trailing bytes", out.Len())
	}
}

func TestEntriesMalformed(t *testing.T) {
	doc, _ := structpb.NewStruct(map[string]any{"header": "x"})
	if _, err := Entries(doc); err == nil {
		t.Error("missing entries list accepted")
	}
	doc, _ = structpb.NewStruct(map[string]any{
		"entries": []any{map[string]any{"token": "a"}},
	})
	if _, err := Entries(doc); err == nil {
		t.Error("entry without count accepted")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "proto"} {
		if f, err := ParseFormat(s); err != nil || string(f) != s {
			t.Errorf("ParseFormat(%q) = %q, %v", s, f, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("ParseFormat(xml) err = %v", err)
	}
}

type failingWriter struct{}

var errWrite = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestReduceWriteError(t *testing.T) {
	for _, f := range []Format{FormatText, FormatJSON, FormatProto} {
		if err := New(failingWriter{}, WithFormat(f)).Reduce(sample); !errors.Is(err, errWrite) {
			t.Errorf("%s: err = %v, want %v", f, err, errWrite)
		}
	}
}
