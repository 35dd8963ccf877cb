package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected method GET, got %s", r.Method)
		}
		if r.URL.Path != "/test" {
			t.Errorf("Expected path /test, got %s", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("Expected query to be dropped, got %s", r.URL.RawQuery)
		}
		if !r.Close {
			t.Errorf("Expected Connection: close")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Test", "  padded  ")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"success"}`))
	}))
	defer server.Close()

	client := NewClient(WithTimeout(5 * time.Second))

	resp, err := client.Get(context.Background(), server.URL+"/test?dropped=1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "padded", resp.Headers["X-Test"])
	assert.Equal(t, `{"message":"success"}`, resp.Body)
	assert.True(t, resp.Timing.Total > 0)
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(r.PostForm.Get("a") + "|" + r.PostForm.Get("b")))
	}))
	defer server.Close()

	resp, err := NewClient().Post(context.Background(), server.URL+"/form", url.Values{
		"a": {"1 2"},
		"b": {"x&y=z"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "1 2|x&y=z", resp.Body)
}

func TestClient_Command(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Method))
	}))
	defer server.Close()

	tests := []struct {
		method   string
		expected string
	}{
		{"GET", "GET"},
		{"POST", "POST"},
		{"DELETE", "GET"},
		{"post", "GET"},
	}

	client := NewClient()
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp, err := client.Command(context.Background(), tt.method, server.URL, url.Values{"k": {"v"}})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.Body)
			assert.Equal(t, "200\n"+tt.expected, resp.String())
		})
	}
}

func TestClient_MalformedResponse(t *testing.T) {
	addr, _ := startRawServer(t, "garbage without a status line")

	_, err := NewClient().Get(context.Background(), "http://"+addr+"/")
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.True(t, strings.HasPrefix(err.Error(), "GET http://"+addr+"/: "), err.Error())
}

func TestClient_ConnectionRefused(t *testing.T) {
	_, err := NewClient().Post(context.Background(), "http://"+closedAddr(t)+"/", nil)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestClient_Timeout(t *testing.T) {
	addr := startSilentServer(t)

	_, err := NewClient(WithTimeout(50*time.Millisecond)).Get(context.Background(), "http://"+addr+"/")
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_WithOptions(t *testing.T) {
	dialer := &fakeDialer{conn: &fakeConn{}}
	client := NewClient(
		WithTimeout(10*time.Second),
		WithMaxResponseSize(1024),
		WithDialer(dialer),
	)

	if client.timeout != 10*time.Second {
		t.Errorf("Expected timeout %v, got %v", 10*time.Second, client.timeout)
	}
	if client.transport.MaxResponseSize != 1024 {
		t.Errorf("Expected max response size 1024, got %d", client.transport.MaxResponseSize)
	}
	if client.transport.Dialer != dialer {
		t.Errorf("Expected custom dialer to be used")
	}
}

func TestClient_PostWithoutForm(t *testing.T) {
	conn := &fakeConn{reads: []string{"HTTP/1.1 200 OK\r\n\r\n"}}
	client := NewClient(WithDialer(&fakeDialer{conn: conn}))

	resp, err := client.Post(context.Background(), "http://example.com/", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "", resp.Body)
	assert.True(t, strings.HasSuffix(conn.written.String(), "Content-Length: 0\r\nConnection: close\r\n\r\n "))
}
