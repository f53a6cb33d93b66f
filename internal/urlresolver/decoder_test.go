package urlresolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPRedirectDecoderFollowsRedirect(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	agg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/article", http.StatusFound)
	}))
	defer agg.Close()

	d := NewHTTPRedirectDecoder()
	got, err := d.Decode(context.Background(), agg.URL+"/wrap?id=1")
	assert.NoError(t, err)
	assert.Equal(t, target.URL+"/article", got)
}

func TestHTTPRedirectDecoderErrorStatus(t *testing.T) {
	agg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer agg.Close()

	d := NewHTTPRedirectDecoder()
	_, err := d.Decode(context.Background(), agg.URL)
	assert.Error(t, err)
}
