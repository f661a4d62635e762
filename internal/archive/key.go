package archive

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Object keys are partitioned by UTC date and hour:
//
//	<prefix>/dt=<YYYY-MM-DD>/hr=<HH>/<unix>_<instance>_<counter>.jsonl.gz
//
// so lexical order is time order within a partition.

var counter uint64

// NextCounter wraps at 1e6; timestamp and instance keep names unique.
func NextCounter() uint64 {
	return atomic.AddUint64(&counter, 1) % 1_000_000
}

// NewFilename returns "<unix>_<instance>_<counter>.jsonl.gz" for now.
func NewFilename(now time.Time, instanceID string) string {
	return fmt.Sprintf("%d_%s_%06d.jsonl.gz", now.Unix(), instanceID, NextCounter())
}

// BuildKey places filename under prefix in its dt/hr partition.
func BuildKey(now time.Time, prefix, filename string) string {
	u := now.UTC()
	return fmt.Sprintf("%s/dt=%s/hr=%s/%s", prefix, u.Format("2006-01-02"), u.Format("15"), filename)
}
