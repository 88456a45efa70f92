package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("DEBUG", false).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, New("warn", false).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("bogus", false).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("", true).GetLevel())
}

func TestGormWriter_Printf(t *testing.T) {
	var buf bytes.Buffer
	w := GormWriter{Logger: zerolog.New(&buf)}

	w.Printf("%s [%.3fms] %s", "repo.go:10", 1.5, "SELECT 1")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "gorm", entry["component"])
	assert.Equal(t, "repo.go:10 [1.500ms] SELECT 1", entry["message"])
}
