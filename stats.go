package raftlog

import "github.com/nullzu/raftlog/internal/raftcore"

// Stats is a point-in-time diagnostic snapshot of a peer's log.
type Stats = raftcore.Stats
