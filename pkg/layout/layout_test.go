package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathFor_PerModelKinds(t *testing.T) {
	l := New("go", false, "react-query")
	require.Equal(t, "gen/contracts/post.go", l.PathFor(KindContract, "post"))
	require.Equal(t, "gen/services/post.go", l.PathFor(KindService, "post"))
	require.Equal(t, "gen/sdk/clients/post.go", l.PathFor(KindSDKClient, "post"))
	require.Equal(t, "gen/sdk/react-query/post.go", l.PathFor(KindSDKFrameworkHook, "post"))
	require.Equal(t, "gen/memstore/post.go", l.PathFor(KindMemStore, "post"))
}

func TestPathFor_TopLevelKinds(t *testing.T) {
	l := New("go", false, "")
	require.Equal(t, "src/config.go", l.PathFor(KindConfig, ""))
	require.Equal(t, "gen/openapi.json", l.PathFor(KindOpenAPISpec, ""))
	require.Equal(t, "env.example", l.PathFor(KindEnvExample, ""))
	require.Equal(t, "dockerfile", l.PathFor(KindDockerfile, ""))
}

func TestPathFor_SharedRuntimeKinds(t *testing.T) {
	l := New("go", false, "")
	require.Equal(t, "gen/controllers/helpers.go", l.PathFor(KindControllerHelpers, ""))
	require.Equal(t, "gen/apierrors/apierrors.go", l.PathFor(KindAPIErrors, ""))
	require.Equal(t, "gen/httpkit/httpkit.go", l.PathFor(KindHTTPKit, ""))
	require.Equal(t, "gen/reqctx/reqctx.go", l.PathFor(KindReqCtx, ""))
}

func TestImportRef_SuffixPolicy(t *testing.T) {
	withSuffix := New("go", true, "")
	withoutSuffix := New("go", false, "")

	require.Equal(t,
		"github.com/acme/app/gen/services/post.go",
		withSuffix.ImportRef("github.com/acme/app", KindService, "post"),
	)
	require.Equal(t,
		"github.com/acme/app/gen/services/post",
		withoutSuffix.ImportRef("github.com/acme/app", KindService, "post"),
	)
}

func TestPathFor_RouteAndSDKClientShareModelSegment(t *testing.T) {
	l := New("go", false, "")
	require.Contains(t, l.PathFor(KindRoute, "post"), "post")
	require.Contains(t, l.PathFor(KindSDKClient, "post"), "post")
}
