package gateway

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoBackend(t *testing.T) *httptest.Server {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	t.Cleanup(backend.Close)
	return backend
}

func TestLoadConfig(t *testing.T) {
	t.Run("parses a route table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gateway.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
routes:
  - name: account
    prefix: /account
    target: http://localhost:8080
    strip_prefix: true
`), 0o600))
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.Routes, 1)
		assert.Equal(t, "account", cfg.Routes[0].Name)
		assert.Equal(t, "/account", cfg.Routes[0].Prefix)
		assert.True(t, cfg.Routes[0].StripPrefix)
	})

	t.Run("empty route table is rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gateway.yaml")
		require.NoError(t, os.WriteFile(path, []byte("routes: []\n"), 0o600))
		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestNewProxyValidation(t *testing.T) {
	t.Run("prefix must start with a slash", func(t *testing.T) {
		_, err := NewProxy(&Config{Routes: []Route{
			{Name: "bad", Prefix: "account", Target: "http://localhost:8080"},
		}})
		require.Error(t, err)
	})

	t.Run("target must parse", func(t *testing.T) {
		_, err := NewProxy(&Config{Routes: []Route{
			{Name: "bad", Prefix: "/account", Target: "://nope"},
		}})
		require.Error(t, err)
	})
}

func TestProxyForwarding(t *testing.T) {
	accountBackend := echoBackend(t)
	auditBackend := echoBackend(t)

	proxy, err := NewProxy(&Config{Routes: []Route{
		{Name: "account", Prefix: "/account", Target: accountBackend.URL, StripPrefix: true},
		{Name: "account-audit", Prefix: "/account/audit", Target: auditBackend.URL},
	}})
	require.NoError(t, err)
	gateway := httptest.NewServer(proxy)
	t.Cleanup(gateway.Close)

	get := func(path string) (int, string) {
		resp, err := http.Get(gateway.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		buf := make([]byte, 1024)
		n, _ := resp.Body.Read(buf)
		return resp.StatusCode, string(buf[:n])
	}

	t.Run("strips the matched prefix", func(t *testing.T) {
		code, body := get("/account/accounts/current")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "/accounts/current", body)
	})

	t.Run("longest prefix wins", func(t *testing.T) {
		code, body := get("/account/audit/dates")
		assert.Equal(t, http.StatusOK, code)
		// the audit route keeps the full path
		assert.Equal(t, "/account/audit/dates", body)
	})

	t.Run("bare prefix forwards to the root", func(t *testing.T) {
		code, body := get("/account")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "/", body)
	})

	t.Run("whole segments only", func(t *testing.T) {
		code, _ := get("/accounting")
		assert.Equal(t, http.StatusBadGateway, code)
	})

	t.Run("unmatched path is a bad gateway", func(t *testing.T) {
		code, _ := get("/nothing")
		assert.Equal(t, http.StatusBadGateway, code)
	})
}
