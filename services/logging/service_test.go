package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	t.Run("creates service with json format", func(t *testing.T) {
		svc, err := NewService(Config{Level: Info, Format: "json", OutputPath: "stdout"})
		require.NoError(t, err)
		assert.NotNil(t, svc.Logger())
		assert.NotNil(t, svc.Sugar())
	})

	t.Run("creates service with console format", func(t *testing.T) {
		svc, err := NewService(Config{Level: Debug, Format: "console", OutputPath: "stdout"})
		require.NoError(t, err)
		assert.NotNil(t, svc.Logger())
	})
}

func TestService_NilSafety(t *testing.T) {
	var svc *Service

	assert.Nil(t, svc.Logger())
	assert.Nil(t, svc.Sugar())

	// None of these should panic on a nil receiver.
	svc.Debug("debug")
	svc.Info("info")
	svc.Warn("warn")
	svc.Error("error")
	svc.Infof("info %s", "formatted")
	assert.NoError(t, svc.Sync())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{Debug, "debug"},
		{Info, "info"},
		{Warn, "warn"},
		{Error, "error"},
		{LogLevel("bogus"), "info"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.level).String())
		})
	}
}
