package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormData(t *testing.T) {
	form := NewFormData()
	form.Append("domain", "a.example")
	form.Append("domain", "b.example")
	form.Set("token", "x")
	form.Set("token", "y")
	form.AppendFile("backup", "cookies.json", []byte(`{"a":1}`))

	assert.Equal(t, 4, form.Len())
	token, ok := form.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "y", token)

	form.Delete("domain")
	assert.Equal(t, 2, form.Len())
	_, ok = form.Get("domain")
	assert.False(t, ok)
}

func TestFormDataIsMultipart(t *testing.T) {
	type received struct {
		token  string
		file   string
		header string
	}
	got := make(chan received, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rec received
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			rec.token = r.FormValue("token")
			if f, h, err := r.FormFile("backup"); err == nil {
				raw, _ := io.ReadAll(f)
				f.Close()
				rec.file = string(raw)
				rec.header = h.Filename
			}
		}
		got <- rec
	}))
	defer server.Close()

	form := NewFormData()
	form.Append("token", "abc")
	form.AppendFile("backup", "cookies.json", []byte(`{"a":1}`))

	_, err := Fetch(context.Background(), server.URL, &Options{Method: http.MethodPost, Body: form})
	require.NoError(t, err)

	rec := <-got
	assert.Equal(t, "abc", rec.token)
	assert.Equal(t, `{"a":1}`, rec.file)
	assert.Equal(t, "cookies.json", rec.header)
}
