package raftlog

import "github.com/nullzu/raftlog/internal/raftcore"

// PeerID identifies the peer whose log this is: either a simple name, or a
// (name, node) pair scoping it to one cluster member when a single process
// hosts logs for several peers sharing a name.
type PeerID = raftcore.PeerID

// Metadata is the small piece of peer-local state that survives a crash
// independently of the log file: the current term and, if any, the
// candidate this peer voted for this term.
type Metadata = raftcore.Metadata
