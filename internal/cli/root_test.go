package cli

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sockhttp "github.com/wesleyorama2/sockhttp/internal/http"
)

// runCLI executes the root command with args and returns what it printed
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := execute(cmd)
	return stdout.String(), stderr.String(), err
}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Write([]byte(r.Method + " " + r.URL.Path + " " + r.PostForm.Encode()))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRootCommand_NoArgs(t *testing.T) {
	stdout, stderr, err := runCLI(t)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "sockhttp [METHOD] URL")
	assert.Empty(t, stderr)
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	_, stderr, err := runCLI(t, "GET", "http://a/", "http://b/")
	assert.Error(t, err)
	assert.Contains(t, stderr, "Error: accepts at most 2 arg(s)")
}

func TestRootCommand_Get(t *testing.T) {
	server := echoServer(t)

	stdout, stderr, err := runCLI(t, server.URL+"/hello?ignored=1")
	require.NoError(t, err)
	assert.Equal(t, "200\nGET /hello \n", stdout)
	assert.Empty(t, stderr)
}

func TestRootCommand_Post(t *testing.T) {
	server := echoServer(t)

	stdout, _, err := runCLI(t, "POST", server.URL+"/form", "-d", "a=1 2", "-d", "b=x")
	require.NoError(t, err)
	assert.Equal(t, "200\nPOST /form a=1+2&b=x\n", stdout)
}

func TestRootCommand_OtherMethodsFallBackToGet(t *testing.T) {
	server := echoServer(t)

	for _, method := range []string{"PUT", "DELETE", "post", "run", "help", "completion"} {
		stdout, _, err := runCLI(t, method, server.URL+"/x", "-d", "a=1")
		require.NoError(t, err)
		assert.Equal(t, "200\nGET /x \n", stdout, method)
	}
}

func TestRootCommand_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + ln.Addr().String() + "/"
	ln.Close()

	stdout, stderr, err := runCLI(t, url)
	assert.ErrorIs(t, err, sockhttp.ErrConnection)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: GET "+url+": dial")
}

func TestRootCommand_InvalidFlags(t *testing.T) {
	_, _, err := runCLI(t, "POST", "http://localhost/", "-d", "novalue")
	assert.EqualError(t, err, `invalid --data "novalue", expected key=value`)

	_, _, err = runCLI(t, "http://localhost/", "-o", "xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)

	_, _, err = runCLI(t, "http://localhost/", "--schema", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "error reading schema")
}

func TestRootCommand_TextOutput(t *testing.T) {
	server := echoServer(t)

	stdout, _, err := runCLI(t, server.URL+"/t", "-o", "text", "-v", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "▶ REQUEST: GET "+server.URL+"/t")
	assert.Contains(t, stdout, "> GET /t HTTP/1.1")
	assert.Contains(t, stdout, "◀ RESPONSE: 200")
	assert.Contains(t, stdout, "Time to First Byte:")
}

func TestRootCommand_ExtractAndSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user": {"name": "John", "id": 7}}`))
	}))
	defer server.Close()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"type": "object", "required": ["user"]}`), 0644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"type": "object", "required": ["token"]}`), 0644))

	stdout, _, err := runCLI(t, server.URL, "--extract", "$.user.name", "--extract", "$.user.id", "--schema", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "$.user.name: John\n")
	assert.Contains(t, stdout, "$.user.id: 7\n")

	_, stderr, err := runCLI(t, server.URL, "--schema", bad)
	assert.ErrorContains(t, err, "response does not match schema")
	assert.Contains(t, stderr, "Error: response does not match schema")

	_, _, err = runCLI(t, server.URL, "--extract", "$.missing")
	assert.ErrorContains(t, err, "path not found")
}

func TestRootCommand_Repeat(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	stdout, stderr, err := runCLI(t, server.URL, "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), hits.Load())
	assert.Equal(t, "200\nok\n", stdout)
	assert.Contains(t, stderr, "Latency summary (3 ok, 0 failed)")
	assert.Contains(t, stderr, "p99")
}
