package textutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// nameSeq disambiguates filenames generated within the same wall-clock
// second. It is process-wide and monotonic.
var nameSeq atomic.Uint64

// EnsureDir creates path and any missing parents. It is idempotent: an
// existing directory is not an error.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("textutil: ensure dir %q: %w", path, err)
	}
	return nil
}

// TimestampedName returns "<basename>_<tag>_<timestamp>-<seq>" without an
// extension. The sequence component is process-wide and strictly increasing,
// so repeated calls in the same process never collide even within one clock
// tick.
func TimestampedName(basename, tag string) string {
	ts := time.Now().Format("20060102-150405")
	return fmt.Sprintf("%s_%s_%s-%04d", basename, tag, ts, nameSeq.Add(1))
}
