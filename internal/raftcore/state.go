package raftcore

// tailState is the in-memory view of the log's tail: everything the write
// and read paths need to agree on without touching disk. It is owned
// exclusively by Core's single serialized actor.
type tailState struct {
	writeOffset  int64
	lastIndex    uint64
	lastEntry    *Entry
	configOffset uint64
	config       Config
	version      uint8
}

func stateFromRecovery(r recovered) tailState {
	return tailState{
		writeOffset:  r.writeOffset,
		lastIndex:    lastIndexOf(r.lastEntry),
		lastEntry:    r.lastEntry,
		configOffset: r.configOffset,
		config:       r.config,
		version:      r.version,
	}
}

func lastIndexOf(e *Entry) uint64 {
	if e == nil {
		return 0
	}
	return e.Index
}
