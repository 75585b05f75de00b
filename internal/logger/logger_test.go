package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("test message")
	Info("info message")

	assert.Empty(t, buf.String())
}

func TestInfo_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Info("processed %d chunks", 4)

	assert.Equal(t, "[INFO] processed 4 chunks\n", buf.String())
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Warn("tier %s failed", "vector")

	assert.Equal(t, "[WARN] tier vector failed\n", buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("boom")

	assert.Equal(t, "[ERROR] boom\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Answer")

	assert.Equal(t, "\n=== Answer ===\n", buf.String())
}

func TestSection_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Section("Answer")

	assert.Empty(t, buf.String())
}

func TestMessageWithoutArgsKeepsPercent(t *testing.T) {
	buf := capture(t, false)

	Warn("100% failed")

	assert.Equal(t, "[WARN] 100% failed\n", buf.String())
}
