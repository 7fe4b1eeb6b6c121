package statsd

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Recorder is a Sink that keeps every emitted line in memory so tests can
// assert on instrumentation without a UDP listener.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.record(name, strconv.FormatInt(value, 10)+"|c", tags)
}

func (r *Recorder) Gauge(name string, value float64, tags map[string]string) {
	r.record(name, trimFloat(value)+"|g", tags)
}

func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	r.record(name, trimFloat(ms)+"|ms", tags)
}

// Lines returns a copy of the recorded metric lines in emission order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Contains reports whether any recorded line contains the substring.
func (r *Recorder) Contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (r *Recorder) record(name, payload string, tags map[string]string) {
	var line strings.Builder
	line.WriteString(name)
	line.WriteByte(':')
	line.WriteString(payload)
	writeTags(&line, nil, tags)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line.String())
}
