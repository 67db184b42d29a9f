// Package raftlog is the persistent log subsystem of a single Raft peer: a
// strictly-ordered, append-only sequence of consensus entries plus a small
// piece of peer-local metadata (current term, vote). It makes leader append
// and follower check-and-append crash-consistent across an unclean shutdown.
//
// The package is a thin façade over internal/raftcore, which owns the
// on-disk format, the recovery scanner, the hint cache, and the single
// serialized actor that guards both files. Everything exported here mirrors
// one operation of that actor's contract: Open, Append, CheckAndAppend,
// GetEntry, GetLastEntry, GetLastIndex, GetTerm, GetConfig, GetMetadata,
// SetMetadata, Stats, and Stop. Callers never see log-file or
// metadata-file internals; the log does not interpret op payloads, and
// treats config payloads as opaque beyond tracking the byte offset of the
// newest one.
package raftlog
