package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Act962/erp-limas-sub000/pkg/logger"
)

func TestNew_NivelConfigurado(t *testing.T) {
	l := logger.New("production", "debug")
	assert.Equal(t, zerolog.DebugLevel, l.Zerolog().GetLevel())
}

func TestNew_NivelInvalidoCaeAInfo(t *testing.T) {
	l := logger.New("production", "verboso")
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}

func TestNew_NivelVacioCaeAInfo(t *testing.T) {
	l := logger.New("development", "")
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}
