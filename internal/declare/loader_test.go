package declare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/apidesc/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	t.Parallel()

	f, err := Load(context.Background(), filepath.Join("testdata", "users.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Users", f.Name)
	assert.Equal(t, "https://api.example.com", f.BaseURL)
	assert.Equal(t, map[string]string{"X-Requested-With": "XMLHttpRequest"}, f.Headers)
	require.Len(t, f.Operations, 2)
}

func TestLoad_BlocksFileURL(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), "file:///etc/hosts")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, InputError, le.Code)
}

func TestLoad_UnsupportedScheme(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), "ftp://example.com/decl.yaml")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, InputError, le.Code)
}

func TestLoad_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), "  ")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, InputError, le.Code)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, InputError, le.Code)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_NetworkError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Load(ctx, "http://127.0.0.1:1/decl.yaml",
		WithHTTPTimeout(200*time.Millisecond),
		WithMaxRetries(2),
		WithBackoffBase(10*time.Millisecond),
	)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, NetworkError, le.Code)
}

func TestLoad_URLRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	body, err := os.ReadFile(filepath.Join("testdata", "users.yaml"))
	require.NoError(t, err)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f, err := Load(context.Background(), srv.URL+"/users.yaml", WithBackoffBase(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "Users", f.Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoad_URLClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL+"/users.yaml", WithBackoffBase(time.Millisecond))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, NetworkError, le.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoad_BuildErrorKeepsSpecError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	decl := "operations:\n  - name: A\n    httpMethod: GET\n    uri: /a\n    parameters:\n      - name: x\n        type: float\n"
	require.NoError(t, os.WriteFile(path, []byte(decl), 0o600))

	_, err := Load(context.Background(), path)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, BuildError, le.Code)
	assert.ErrorIs(t, err, spec.ErrMethodNotFound)
	assert.Contains(t, err.Error(), "Param::float()")
}

func TestParse_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("name: x\nbogus: 1\n"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ParseError, le.Code)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	_, err := Parse(nil)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ParseError, le.Code)
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(`{"name":"J","operations":[{"name":"Ping","httpMethod":"HEAD","uri":"/ping"}]}`))
	require.NoError(t, err)
	doc, err := f.GetAllAPI()
	require.NoError(t, err)
	assert.Equal(t, spec.Document{"Ping": map[string]any{"httpMethod": "HEAD", "uri": "/ping"}}, doc)
}
