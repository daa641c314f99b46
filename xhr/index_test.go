package xhr

import (
	"bytes"
	"compress/gzip"
	"context"
	"strconv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/xhr-polyfill/config"
	_http "github.com/zishang520/xhr-polyfill/http"
)

func TestInstallOverridesScopes(t *testing.T) {
	previous := Factories()
	t.Cleanup(func() {
		for scope, factory := range previous {
			Install(factory, scope)
		}
	})

	created := 0
	Install(func() XMLHttpRequestInterface {
		created++
		return NewXMLHttpRequest(respondWith(200, "stub"), nil)
	})

	New()
	NewIn(SCOPE_WORKER)
	NewIn("unknown")
	assert.Equal(t, 3, created)

	Install(nil, SCOPE_WORKER)
	NewIn(SCOPE_WORKER)
	assert.Equal(t, 3, created)
}

func TestFactoryAppliesOptions(t *testing.T) {
	headers := make(chan http.Header, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc","files":{"cookies.json":{"content":"e30="}}}`))
	}))
	defer server.Close()

	opts := config.DefaultRequestOptions()
	opts.SetResponseType(config.ResponseTypeJson)
	opts.SetExtraHeaders(map[string]string{"Accept": "application/vnd.github+json"})
	opts.SetClient(server.Client())

	r := NewFactory(opts)()
	r.Open("GET", server.URL+"/gists/abc")
	r.SetRequestHeader("Authorization", "token secret")
	r.Send(nil)

	require.NoError(t, r.Wait(context.Background()))
	require.Nil(t, r.Err())
	assert.Equal(t, 200, r.Status())
	assert.Equal(t, "OK", r.StatusText())
	assert.Equal(t, `{"id":"abc","files":{"cookies.json":{"content":"e30="}}}`, r.ResponseText())
	assert.Equal(t, server.URL+"/gists/abc", r.ResponseURL())

	got := <-headers
	assert.Equal(t, "application/vnd.github+json", got.Get("Accept"))
	assert.Equal(t, "token secret", got.Get("Authorization"))
}

func TestTransportConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	uri := server.URL
	server.Close()

	r := NewXMLHttpRequest(NewTransport(nil), nil)
	r.Open("GET", uri)
	r.Send(nil)

	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, 0, r.Status())
	assert.Equal(t, "error", r.StatusText())
}

func TestTransportMergesOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get("Accept-Encoding")))
	}))
	defer server.Close()

	opts := config.DefaultRequestOptions()
	opts.SetCompress(true)
	res, err := NewTransport(opts).Fetch(context.Background(), server.URL, &_http.Options{Method: "GET"})
	require.NoError(t, err)

	text, err := res.Text()
	require.NoError(t, err)
	assert.Equal(t, "gzip, deflate, br", text)
}

func TestDecodedResponseHeaders(t *testing.T) {
	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	gz.Write([]byte(`{"cookies":[{"name":"sid","value":"1"}]}`))
	gz.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Length", strconv.Itoa(compressed.Len()))
		w.Header().Set("Content-Type", "application/json")
		w.Write(compressed.Bytes())
	}))
	defer server.Close()

	opts := config.DefaultRequestOptions()
	opts.SetCompress(true)
	r := NewFactory(opts)()
	r.Open("GET", server.URL)
	r.Send(nil)

	require.NoError(t, r.Wait(context.Background()))
	require.Nil(t, r.Err())
	assert.Equal(t, `{"cookies":[{"name":"sid","value":"1"}]}`, r.ResponseText())
	assert.Equal(t, "", r.GetResponseHeader("Content-Encoding"))
	assert.Equal(t, "", r.GetResponseHeader("Content-Length"))
	assert.Equal(t, "application/json", r.GetResponseHeader("Content-Type"))
	assert.NotContains(t, r.GetAllResponseHeaders(), "content-length")
}
