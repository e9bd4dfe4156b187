package logger

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"trace":   TraceLevel,
		"DEBUG":   DebugLevel,
		"info":    InfoLevel,
		"warning": WarnLevel,
		"err":     ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestParseOutputFormat(t *testing.T) {
	assert.Equal(t, JSONFormat, ParseOutputFormat("JSON"))
	assert.Equal(t, DefaultFormat, ParseOutputFormat("default"))
	assert.Equal(t, DefaultFormat, ParseOutputFormat("anything"))
	assert.Equal(t, "json", JSONFormat.String())
}

func TestZerologLogger_TypedFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewZerologLogger(&Config{Level: DebugLevel, Format: JSONFormat, Outputs: []io.Writer{buf}})

	log.Info("applied",
		String("name", "admin-basic"),
		Int("source", 1),
		Bool("update", true),
		Err(errors.New("boom")),
		Any("target", map[string]string{"name": "X-Api-Key"}),
	)

	output := buf.String()
	assert.Contains(t, output, `"level":"info"`)
	assert.Contains(t, output, `"name":"admin-basic"`)
	assert.Contains(t, output, `"source":1`)
	assert.Contains(t, output, `"update":true`)
	assert.Contains(t, output, `"error":"boom"`)
	assert.Contains(t, output, `"X-Api-Key"`)
}

func TestZerologLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewZerologLogger(&Config{Level: WarnLevel, Format: JSONFormat, Outputs: []io.Writer{buf}})

	log.Debug("hidden")
	log.Info("hidden too")
	assert.Empty(t, buf.String())
	assert.False(t, log.IsLevelEnabled(InfoLevel))
	assert.True(t, log.IsLevelEnabled(ErrorLevel))

	log.Error("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestZerologLogger_SubsystemAndFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewZerologLogger(&Config{Level: TraceLevel, Format: JSONFormat, Outputs: []io.Writer{buf}})

	child := log.WithSubsystem("loginmethod").WithFields(String("family", "Token"))
	child.Debug("source mapped")

	output := buf.String()
	assert.Contains(t, output, `"module":"loginmethod"`)
	assert.Contains(t, output, `"family":"Token"`)
	assert.Same(t, child, child.WithFields())
}

func TestZerologLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lcadmin.log")
	log := NewZerologLogger(&Config{Level: InfoLevel, Format: JSONFormat, FileConfig: DefaultFileConfig(path)})

	log.Info("written to file")
	require.NoError(t, log.Close())
	assert.FileExists(t, path)
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Error("dropped")
	assert.False(t, log.IsLevelEnabled(ErrorLevel))
	assert.NoError(t, log.Close())
}
