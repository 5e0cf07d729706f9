package reducer

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"wordfreq/codec"
	"wordfreq/mapreduce/types"
)

// DefaultHeader is the first line of the text listing.
const DefaultHeader = "Word Counts:"

// Format selects how the listing is rendered.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatProto Format = "proto"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatProto:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or proto)", s)
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithHeader replaces DefaultHeader.
func WithHeader(header string) Option {
	return func(r *Reducer) { r.header = header }
}

// WithFormat selects the output format, FormatText by default.
func WithFormat(format Format) Option {
	return func(r *Reducer) { r.format = format }
}

// Reducer renders a sorted listing of a frequency table.
type Reducer struct {
	out    io.Writer
	header string
	format Format
}

// New creates a Reducer writing to out.
func New(out io.Writer, opts ...Option) *Reducer {
	r := &Reducer{
		out:    out,
		header: DefaultHeader,
		format: FormatText,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sort turns a snapshot into entries ordered by token.
func Sort(snapshot map[string]uint64) []types.Entry {
	entries := make([]types.Entry, 0, len(snapshot))
	for token, count := range snapshot {
		entries = append(entries, types.Entry{Token: token, Count: count})
	}
	slices.SortFunc(entries, func(a, b types.Entry) int {
		return cmp.Compare(a.Token, b.Token)
	})
	return entries
}

// Reduce takes one snapshot of src and writes it out.
func (r *Reducer) Reduce(src types.Snapshotter) error {
	entries := Sort(src.Snapshot())
	switch r.format {
	case FormatJSON:
		return r.writeJSON(entries)
	case FormatProto:
		return r.writeProto(entries)
	default:
		return r.writeText(entries)
	}
}

func (r *Reducer) writeText(entries []types.Entry) error {
	w := bufio.NewWriter(r.out)
	fmt.Fprintln(w, r.header)
	for _, e := range entries {
		fmt.Fprintf(w, "%s: %d\n", e.Token, e.Count)
	}
	return w.Flush()
}

func (r *Reducer) writeJSON(entries []types.Entry) error {
	doc := Document(r.header, entries)
	bytes, err := protojson.MarshalOptions{Multiline: true}.Marshal(doc)
	if err != nil {
		return err
	}
	bytes = append(bytes, '\n')
	_, err = r.out.Write(bytes)
	return err
}

func (r *Reducer) writeProto(entries []types.Entry) error {
	return codec.Send(r.out, Document(r.header, entries))
}

// Document builds the structured form of a listing:
//
//	{"header": "...", "entries": [{"token": "...", "count": n}, ...]}
//
// Entries keep the order they are given in.
func Document(header string, entries []types.Entry) *structpb.Struct {
	list := make([]*structpb.Value, 0, len(entries))
	for _, e := range entries {
		list = append(list, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"token": structpb.NewStringValue(e.Token),
				"count": structpb.NewNumberValue(float64(e.Count)),
			},
		}))
	}
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"header":  structpb.NewStringValue(header),
			"entries": structpb.NewListValue(&structpb.ListValue{Values: list}),
		},
	}
}

// Entries reads a listing back out of a Document.
func Entries(doc *structpb.Struct) ([]types.Entry, error) {
	list := doc.GetFields()["entries"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("document has no entries list")
	}
	entries := make([]types.Entry, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		token, ok := fields["token"].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("entry %d: missing token", i)
		}
		count, ok := fields["count"].GetKind().(*structpb.Value_NumberValue)
		if !ok || count.NumberValue < 0 {
			return nil, fmt.Errorf("entry %d: bad count", i)
		}
		entries = append(entries, types.Entry{Token: token.StringValue, Count: uint64(count.NumberValue)})
	}
	return entries, nil
}
