package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voloshyn/leks-tap-bot/internal/domain/model"
)

func newTestClient(t *testing.T) *APIClient {
	t.Helper()
	client, err := NewAPIClient("", chromeUA, &model.Session{Username: "tester"})
	require.NoError(t, err)
	return client
}

func TestParseProxyDefaultsToHTTP(t *testing.T) {
	u, err := ParseProxy("1.2.3.4:8080")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "1.2.3.4:8080", u.Host)

	u, err = ParseProxy("socks5://5.6.7.8:1080")
	require.NoError(t, err)
	assert.Equal(t, "socks5", u.Scheme)
}

func TestFetchSendsIdentityHeaders(t *testing.T) {
	var gotUA, gotAuth, gotOrigin string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		gotOrigin = r.Header.Get("Origin")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	raw, err := client.Fetch(server.URL, &FetchOptions{Token: "abc123"})
	require.NoError(t, err)

	assert.Equal(t, chromeUA, gotUA)
	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, gameOrigin, gotOrigin)

	data, ok := raw.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["ok"])
}

func TestFetchPostMarshalsBody(t *testing.T) {
	var gotBody map[string]string
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	_, err := client.Fetch(server.URL, &FetchOptions{
		Method: "POST",
		Body:   map[string]string{"hash": "blob"},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "blob", gotBody["hash"])
}

func TestFetchRejectsBodyAndRawBody(t *testing.T) {
	client := newTestClient(t)
	_, err := client.Fetch("http://example.invalid", &FetchOptions{
		Method:  "POST",
		Body:    map[string]string{},
		RawBody: []byte("x"),
	})
	assert.Error(t, err)
}

func TestFetchReturnsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(t)
	_, err := client.Fetch(server.URL, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Contains(t, string(httpErr.Body), "nope")
}

func TestNewAPIClientRejectsBadProxy(t *testing.T) {
	_, err := NewAPIClient("http://bad proxy", chromeUA, &model.Session{})
	assert.Error(t, err)
}
