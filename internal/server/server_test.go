package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/go-errkit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	obs := config.DefaultObservabilityConfig()
	obs.Environment = env
	return &config.Config{
		Primary: config.Primary{Env: env},
		Server: config.ServerConfig{
			Port:         "0",
			ReadTimeout:  5,
			WriteTimeout: 5,
			IdleTimeout:  5,
		},
		Observability: obs,
	}
}

func TestNewRequiresConfig(t *testing.T) {
	s, err := New(nil, nil)
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestNewDefaultsLogger(t *testing.T) {
	s, err := New(testConfig("development"), nil)
	require.NoError(t, err)
	require.NotNil(t, s.Logger)
	require.NotNil(t, s.Validation)
}

func TestProductionEnvironmentForcesProductionMode(t *testing.T) {
	s, err := New(testConfig("production"), nil)
	require.NoError(t, err)
	assert.Equal(t, config.ModeProduction, s.Validation.Mode())
	assert.Equal(t, s.Config.Observability.Mode(), s.Validation.Mode())
}

func TestStartWithoutSetupFails(t *testing.T) {
	s, err := New(testConfig("development"), nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestStartAndShutdown(t *testing.T) {
	s, err := New(testConfig("development"), nil)
	require.NoError(t, err)

	s.SetupHTTPServer(http.NotFoundHandler())
	assert.Equal(t, 5*time.Second, s.httpServer.ReadTimeout)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// Give Start a moment to begin serving; Shutdown before Serve is fine too.
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
