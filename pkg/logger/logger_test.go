package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Produccion-api/pkg/logger"
)

func TestNew_EstampaElServicioEnCadaEntrada(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "produccion-api"})

	var buf bytes.Buffer
	zl := l.Zerolog().Output(&buf)
	zl.Info().Msg("arranque")

	assert.Contains(t, buf.String(), `"service":"produccion-api"`)
	assert.Contains(t, buf.String(), `"message":"arranque"`)
}

func TestNew_SinServicioNoAgregaCampo(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "info"})

	var buf bytes.Buffer
	zl := l.Zerolog().Output(&buf)
	zl.Info().Msg("arranque")

	assert.NotContains(t, buf.String(), `"service"`)
}
