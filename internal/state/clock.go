package state

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	siteID  = uuid.NewString()
	counter uint64
)

// newLogID combines the per-process site id with a monotonic counter so ids
// stay unique and sortable within one run.
func newLogID() string {
	n := atomic.AddUint64(&counter, 1)
	return fmt.Sprintf("rec-%s-%d", siteID[:8], n)
}

// NewExportName returns a file base name that does not collide with earlier
// exports from any run.
func NewExportName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}
