package types

// Entry is one line of the final listing: a token and the number of times
// it was observed across all input files.
// It lives in a shared package so the reducer, the codec and the tests agree
// on the same definition.
type Entry struct {
	Token string
	Count uint64
}

// Snapshotter is implemented by anything that can hand out a point-in-time
// copy of a frequency table.
type Snapshotter interface {
	Snapshot() map[string]uint64
}
