package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "default config", cfg: DefaultConfig()},
		{name: "json to stdout", cfg: &Config{Level: "debug", Format: "json", Output: "stdout"}},
		{name: "unknown level", cfg: &Config{Level: "loud"}, wantErr: true},
		{name: "unwritable file", cfg: &Config{Output: filepath.Join(os.DevNull, "x", "log")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("report written", zap.String("kind", "csv"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"kind":"csv"`))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

func TestMiddleware(t *testing.T) {
	// GIVEN: A handler behind RequestID + logging middleware
	// WHEN: It answers 404
	// THEN: One warn entry carries status, method, path and request id

	core, logs := observer.New(zapcore.DebugLevel)
	h := middleware.RequestID(Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Debug("inside handler")
		http.NotFound(w, r)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projections/x?y=1", nil))

	require.Equal(t, 2, logs.Len())
	inside := logs.All()[0]
	assert.Equal(t, "inside handler", inside.Message)
	assert.NotEmpty(t, inside.ContextMap()["request_id"])

	entry := logs.All()[1]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.EqualValues(t, 404, fields["status"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/projections/x", fields["path"])
	assert.Equal(t, "y=1", fields["query"])
}
