package http_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/plugreg/internal/catalog"
	"github.com/zclconf/go-cty/cty"
)

func TestNewHTTPClient(t *testing.T) {
	c := catalog.New(&Module{})

	v, err := c.Service(context.Background(), "http_client", catalog.NewArgs(map[string]cty.Value{
		"timeout": cty.StringVal("2s"),
	}))
	require.NoError(t, err)
	client, ok := v.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, client.Timeout)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestNewHTTPClient_InvalidTimeout(t *testing.T) {
	c := catalog.New(&Module{})

	_, err := c.Service(context.Background(), "http_client", catalog.NewArgs(map[string]cty.Value{
		"timeout": cty.StringVal("soon"),
	}))
	require.ErrorContains(t, err, `invalid timeout "soon"`)
}
