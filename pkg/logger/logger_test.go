package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/pkg/logger"
)

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf})

	log.Named("pos").Info().Str("order", "ORD-1").Msg("pedido creado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "pos", entry["component"])
	assert.Equal(t, "ORD-1", entry["order"])
	assert.Equal(t, "pedido creado", entry["message"])
}

func TestNew_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("no aparece")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("aparece")
	assert.Contains(t, buf.String(), "aparece")
}

func TestNew_NivelDesconocidoEsInfo(t *testing.T) {
	log := logger.New(logger.Config{Env: "production", Level: "ruidoso", Output: &bytes.Buffer{}})
	assert.Equal(t, zerolog.InfoLevel, log.Level())

	log = logger.New(logger.Config{Env: "production", Level: "TRACE", Output: &bytes.Buffer{}})
	assert.Equal(t, zerolog.TraceLevel, log.Level())
}
