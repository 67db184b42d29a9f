package raftcore

import (
	"path/filepath"
)

// PeerID identifies the peer whose log this is. Name alone addresses a
// single-node host; Node additionally scopes it to a particular cluster
// member when one process hosts logs for several peers sharing a name.
type PeerID struct {
	Name string
	Node string
}

// String renders the peer identifier as used for the metrics' peer label:
// "name" alone, or "name@node" when Node is set. File names use
// "name_node" instead (see LogPath and MetaPath).
func (p PeerID) String() string {
	if p.Node == "" {
		return p.Name
	}
	return p.Name + "@" + p.Node
}

// Address is the derived symbolic address the owning actor is registered
// under.
func (p PeerID) Address() string {
	return p.Name + "_log"
}

// LogPath returns the log file path for this peer under dir.
func (p PeerID) LogPath(dir string) string {
	return filepath.Join(dir, "rafter_"+p.fileStem()+".log")
}

// MetaPath returns the metadata file path for this peer under dir.
func (p PeerID) MetaPath(dir string) string {
	return filepath.Join(dir, "rafter_"+p.fileStem()+".meta")
}

func (p PeerID) fileStem() string {
	if p.Node == "" {
		return p.Name
	}
	return p.Name + "_" + p.Node
}
