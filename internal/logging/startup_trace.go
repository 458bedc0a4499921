package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StartupTrace records cold-start milestones from process launch until
// the session window is up. It only emits at debug/trace level; marks
// recorded before a logger is attached are buffered and flushed on
// SetLogger.
type StartupTrace struct {
	mu         sync.Mutex
	t0         time.Time
	milestones []Milestone
	buffered   []Milestone
	enabled    bool
	finished   bool
	logger     *zerolog.Logger
}

// Milestone is one timing checkpoint.
type Milestone struct {
	Name    string
	Elapsed time.Duration // since t0
	Delta   time.Duration // since the previous milestone
}

var (
	globalTrace     *StartupTrace
	globalTraceMu   sync.Mutex
	globalTraceOnce sync.Once
)

// InitStartupTrace captures T0. Call before any other startup work;
// the trace stays inert unless logLevel is debug or trace.
func InitStartupTrace(logLevel string) {
	globalTraceOnce.Do(func() {
		globalTraceMu.Lock()
		globalTrace = &StartupTrace{
			t0:      time.Now(),
			enabled: logLevel == "debug" || logLevel == "trace",
		}
		globalTraceMu.Unlock()
		globalTrace.Mark("process_start")
	})
}

// Trace returns the global startup trace, or an inert one when
// InitStartupTrace has not run.
func Trace() *StartupTrace {
	globalTraceMu.Lock()
	defer globalTraceMu.Unlock()
	if globalTrace == nil {
		return &StartupTrace{}
	}
	return globalTrace
}

// SetLogger attaches the logger and flushes buffered milestones.
func (st *StartupTrace) SetLogger(logger *zerolog.Logger) {
	if st == nil || !st.enabled {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	st.logger = logger
	for _, m := range st.buffered {
		st.emit(m)
	}
	st.buffered = nil
}

// Mark records a milestone. After Finish, marks are dropped.
func (st *StartupTrace) Mark(name string) {
	if st == nil || !st.enabled {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.finished {
		return
	}

	elapsed := time.Since(st.t0)
	m := Milestone{Name: name, Elapsed: elapsed}
	if n := len(st.milestones); n > 0 {
		m.Delta = elapsed - st.milestones[n-1].Elapsed
	}
	st.milestones = append(st.milestones, m)

	if st.logger != nil {
		st.emit(m)
	} else {
		st.buffered = append(st.buffered, m)
	}
}

// Finish closes the trace and logs a one-line summary.
func (st *StartupTrace) Finish() {
	if st == nil || !st.enabled {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.finished {
		return
	}
	st.finished = true
	if st.logger == nil {
		return
	}

	parts := make([]string, 0, len(st.milestones))
	for _, m := range st.milestones {
		parts = append(parts, fmt.Sprintf("%s:%d", m.Name, m.Elapsed.Milliseconds()))
	}
	st.logger.Info().
		Int64("total_ms", time.Since(st.t0).Milliseconds()).
		Str("milestones", strings.Join(parts, ",")).
		Msg("startup_trace: cold start complete")
}

// emit logs one milestone; the caller holds the mutex.
func (st *StartupTrace) emit(m Milestone) {
	event := st.logger.Debug().
		Str("milestone", m.Name).
		Int64("t_ms", m.Elapsed.Milliseconds())
	if m.Delta > 0 {
		event.Int64("delta_ms", m.Delta.Milliseconds()).
			Msgf("startup_trace: %s (T+%dms, +%dms)", m.Name, m.Elapsed.Milliseconds(), m.Delta.Milliseconds())
		return
	}
	event.Msgf("startup_trace: %s (T+%dms)", m.Name, m.Elapsed.Milliseconds())
}
