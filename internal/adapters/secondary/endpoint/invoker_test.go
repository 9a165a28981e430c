package endpoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoker_PostsToInvocations(t *testing.T) {
	var gotPath, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`[6]`))
	}))
	defer srv.Close()

	inv := NewInvoker(srv.URL, 5*time.Second)
	resp, err := inv.Invoke(context.Background(), []byte(`{"features":[[1,2,3]]}`))

	require.NoError(t, err)
	assert.Equal(t, "/invocations", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, `[6]`, string(resp))
}

func TestInvoker_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model blew up", http.StatusInternalServerError)
	}))
	defer srv.Close()

	inv := NewInvoker(srv.URL, 5*time.Second)
	_, err := inv.Invoke(context.Background(), []byte(`{}`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestInvoker_ConnectionRefused(t *testing.T) {
	inv := NewInvoker("http://127.0.0.1:1", time.Second)
	_, err := inv.Invoke(context.Background(), []byte(`{}`))

	assert.Error(t, err)
}
