package raftlog

import "github.com/nullzu/raftlog/internal/raftcore"

// Entry is a single record in the replicated log: (kind, term, index,
// payload). The log treats payload as opaque bytes it never interprets,
// except for config entries' byte offset (see Config).
type Entry = raftcore.Entry

// Kind distinguishes the three flavors of log entry the core persists.
type Kind = raftcore.Kind

// The three entry kinds a peer's log can hold.
const (
	KindNoOp   = raftcore.KindNoOp
	KindConfig = raftcore.KindConfig
	KindOp     = raftcore.KindOp
)

// EmptyPayload is the canonical empty encoding used for KindNoOp entries.
var EmptyPayload = raftcore.EmptyPayload

// NewNoOp builds a noop entry for the given term. Its index is assigned on
// write by Append, or must be supplied by the caller for CheckAndAppend.
func NewNoOp(term uint64) Entry {
	return raftcore.NewNoOp(term)
}

// NewConfigEntry builds a config entry carrying payload, the caller's
// opaque encoding of the new cluster configuration.
func NewConfigEntry(term uint64, payload []byte) Entry {
	return Entry{Term: term, Kind: KindConfig, Payload: payload}
}

// NewOpEntry builds a state-machine command entry carrying payload, the
// caller's opaque encoding of the command.
func NewOpEntry(term uint64, payload []byte) Entry {
	return Entry{Term: term, Kind: KindOp, Payload: payload}
}

// Config is the most recently logged config entry's payload. It is
// caller-opaque beyond the sentinel "no config has been logged yet" state.
type Config = raftcore.Config
