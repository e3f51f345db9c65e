package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsReachConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{})
	defer l.Close()

	l.Info("info line", "k", "v")
	l.Success("success line")
	l.Step("step line")
	l.Warning("warning line")
	l.Error("error line")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=SUCCESS")
	assert.Contains(t, out, "level=STEP")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "k=v")
}

func TestDebugFilteredUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{})
	defer l.Close()

	l.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	var vbuf bytes.Buffer
	lv := New(&vbuf, Options{Verbose: true})
	defer lv.Close()

	lv.Debug("visible")
	assert.Contains(t, vbuf.String(), "visible")
}

func TestFileOutputPerRun(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	var buf bytes.Buffer
	l := New(&buf, Options{LogDir: logDir, RunName: "20240117_143022"})

	l.Info("written to both sinks")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(logDir, "run_20240117_143022.log"))
	require.NoError(t, err)

	assert.Contains(t, string(data), "written to both sinks")
	assert.Contains(t, buf.String(), "written to both sinks")
}

func TestUnwritableLogDirDegradesToConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{LogDir: filepath.Join("/proc", "nope", "logs")})
	defer l.Close()

	l.Info("still logged")

	out := buf.String()
	assert.True(t, strings.Contains(out, "still logged"))
}
