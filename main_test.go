package main

import (
	"flag"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeBasePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"foo", "/foo/"},
		{"/foo", "/foo/"},
		{"foo/", "/foo/"},
		{"/foo/bar/", "/foo/bar/"},
		{"//foo//", "/foo/"},
		{"///", "/"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, canonicalizeBasePath(tc.in), "canonicalizeBasePath(%q)", tc.in)
	}
}

func newTestServer(t *testing.T, basePath, clientLogLevel string) (*httptest.Server, string) {
	t.Helper()
	dist := t.TempDir()
	c := &config{
		basePath:       basePath,
		hostElementID:  "test-host",
		distDir:        dist,
		logLevel:       "info",
		clientLogLevel: clientLogLevel,
	}
	ts := httptest.NewServer(newMux(c))
	t.Cleanup(ts.Close)
	return ts, dist
}

func get(t *testing.T, url string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	// The default transport negotiates gzip itself unless told otherwise.
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndex(t *testing.T) {
	ts, _ := newTestServer(t, "app", "debug")

	resp, body := get(t, ts.URL+"/app/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="test-host"`)
	assert.Contains(t, body, `data-host-element="test-host"`)
	assert.Contains(t, body, `data-log-level="debug"`)
	assert.Contains(t, body, "wasm_exec.js")
}

func TestIndexLeavesClientLogLevelUnset(t *testing.T) {
	ts, _ := newTestServer(t, "", "")

	resp, body := get(t, ts.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-log-level=""`)
}

func TestIndexNotFound(t *testing.T) {
	ts, _ := newTestServer(t, "app", "debug")

	resp, _ := get(t, ts.URL+"/app/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticAssets(t *testing.T) {
	ts, _ := newTestServer(t, "", "")

	resp, body := get(t, ts.URL+"/static/index.js", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "getHostElementID")

	resp, _ = get(t, ts.URL+"/static/style.css", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDistGzip(t *testing.T) {
	ts, dist := newTestServer(t, "", "")
	require.NoError(t, os.WriteFile(filepath.Join(dist, "client.wasm"), []byte("raw"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "client.wasm.gz"), []byte("gzipped"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "wasm_exec.js"), []byte("glue"), 0o644))

	resp, body := get(t, ts.URL+"/dist/client.wasm", http.Header{"Accept-Encoding": {"gzip"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Equal(t, "application/wasm", resp.Header.Get("Content-Type"))
	assert.Equal(t, "gzipped", body)

	resp, body = get(t, ts.URL+"/dist/client.wasm", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
	assert.Equal(t, "raw", body)

	resp, body = get(t, ts.URL+"/dist/wasm_exec.js", http.Header{"Accept-Encoding": {"gzip"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
	assert.Equal(t, "glue", body)
}

func TestRegisterFlagsDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "USE_TLS", "BASE_PATH", "HOST_ELEMENT", "DIST_DIR", "LOG_LEVEL", "CLIENT_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c := registerFlags(fs)
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, &config{
		port:           80,
		basePath:       "",
		hostElementID:  "canvas-host",
		distDir:        "dist",
		logLevel:       "info",
		clientLogLevel: "",
	}, c)
}

func TestRegisterFlagsFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("USE_TLS", "true")
	t.Setenv("BASE_PATH", "/demo/")
	t.Setenv("HOST_ELEMENT", "gpu-host")
	t.Setenv("DIST_DIR", "/srv/dist")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CLIENT_LOG_LEVEL", "trace")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c := registerFlags(fs)
	require.NoError(t, fs.Parse([]string{"-port", "9000"}))

	assert.Equal(t, &config{
		port:           9000,
		useTLS:         true,
		basePath:       "/demo/",
		hostElementID:  "gpu-host",
		distDir:        "/srv/dist",
		logLevel:       "debug",
		clientLogLevel: "trace",
	}, c)
}

func TestRegisterFlagsInvalidEnv(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("USE_TLS", "maybe")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c := registerFlags(fs)
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, 80, c.port)
	assert.False(t, c.useTLS)
}

func TestLogRequest(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	handler := logRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, len("short and stout"), entry.Data["bytes"])
	assert.Equal(t, "/pot", entry.Data["url"])
}

func TestNewDevCertificate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cert, err := newDevCertificate([]string{"localhost", "127.0.0.1", "::1"}, now, 24*time.Hour)
	require.NoError(t, err)
	require.NotNil(t, cert.Leaf)

	assert.Equal(t, []string{"localhost"}, cert.Leaf.DNSNames)
	require.Len(t, cert.Leaf.IPAddresses, 2)
	assert.True(t, cert.Leaf.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")))
	assert.True(t, cert.Leaf.IPAddresses[1].Equal(net.IPv6loopback))
	assert.True(t, cert.Leaf.NotBefore.Equal(now))
	assert.True(t, cert.Leaf.NotAfter.Equal(now.Add(24*time.Hour)))
	assert.NoError(t, cert.Leaf.VerifyHostname("localhost"))
}
