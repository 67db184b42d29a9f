package raftcore

import (
	"fmt"

	"github.com/golang/glog"
)

// assertTrue reports a programmer-error invariant violation, as opposed to
// a corrupt-on-disk or environmental condition, both of which are returned
// as errors instead.
func assertTrue(cond bool, format string, args ...interface{}) {
	if !cond {
		glog.Fatalf("raftcore: invariant violated: %s", fmt.Sprintf(format, args...))
	}
}
