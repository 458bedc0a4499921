package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestTrace() *StartupTrace {
	return &StartupTrace{t0: time.Now(), enabled: true}
}

func TestStartupTraceBuffersMarksUntilLoggerAttached(t *testing.T) {
	st := newTestTrace()
	st.Mark("config")
	st.Mark("logger")

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	st.SetLogger(&logger)

	out := buf.String()
	assert.Contains(t, out, "startup_trace: config")
	assert.Contains(t, out, "startup_trace: logger")
}

func TestStartupTraceFinishEmitsSummaryOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	st := newTestTrace()
	st.SetLogger(&logger)
	st.Mark("session_window")

	st.Finish()
	st.Mark("late")
	st.Finish()

	out := buf.String()
	assert.Contains(t, out, "cold start complete")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("cold start complete")))
	assert.NotContains(t, out, "late", "marks after Finish are dropped")
}

func TestStartupTraceDisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	st := &StartupTrace{t0: time.Now()}

	st.SetLogger(&logger)
	st.Mark("config")
	st.Finish()

	assert.Empty(t, buf.String())
}
