package framework

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByName_ResolvesKnownDialects(t *testing.T) {
	mw, err := ByName("middleware-chain")
	require.NoError(t, err)
	require.Equal(t, "middleware-chain", mw.Name())

	pr, err := ByName("plugin-register")
	require.NoError(t, err)
	require.Equal(t, "plugin-register", pr.Name())
}

func TestByName_UnknownDialectErrors(t *testing.T) {
	_, err := ByName("express-style")
	require.Error(t, err)
}

func TestMiddlewareChainAdapter_RenderRouteRegistration(t *testing.T) {
	a := MiddlewareChainAdapter{}
	out := a.RenderRouteRegistration("get", "/api/posts/{id}", "GetPost", nil)
	require.Contains(t, out, "r.Get(")
	require.Contains(t, out, "/api/posts/{id}")
}

func TestPluginRegisterAdapter_RenderRouteRegistration(t *testing.T) {
	a := PluginRegisterAdapter{}
	out := a.RenderRouteRegistration("post", "/api/posts", "CreatePost", []string{"authPlugin"})
	require.Contains(t, out, "table.Register(")
	require.Contains(t, out, "POST")
	require.Contains(t, out, "authPlugin")
}

// TestBothAdapters_ImplementSameInterface guards against the two dialects
// drifting out of sync with the Adapter contract.
func TestBothAdapters_ImplementSameInterface(t *testing.T) {
	var adapters []Adapter = []Adapter{MiddlewareChainAdapter{}, PluginRegisterAdapter{}}
	require.Len(t, adapters, 2)
}
