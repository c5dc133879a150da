package api

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/ofertaapp/oferta-server/internal/auth"
	"github.com/ofertaapp/oferta-server/internal/config"
	"github.com/ofertaapp/oferta-server/internal/objstore"
	"github.com/ofertaapp/oferta-server/internal/service"
	"github.com/ofertaapp/oferta-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:      "8080",
			PublicURL: "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			AccessTokenDuration: 15 * time.Minute,
		},
		Storage: config.StorageConfig{
			TempPrefix:    "pre-",
			PresignTTL:    15 * time.Minute,
			TempObjectTTL: 24 * time.Hour,
		},
	}

	objects, err := objstore.NewFS(filepath.Join(tmpDir, "images"), cfg.Server.PublicURL, "/api/v1/uploads", []byte("test-signing-key"))
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(hex.EncodeToString(make([]byte, 32)), cfg.Auth.AccessTokenDuration)
	require.NoError(t, err)

	services := service.New(st, objects, tokens, cfg, logger)

	s := NewServer(cfg, st, services, objects, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// registerUser registers an account and returns its bearer token and user ID.
func (ts *testServer) registerUser(t *testing.T, email string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"display_name": "Test User",
		"password":     "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[SessionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}
