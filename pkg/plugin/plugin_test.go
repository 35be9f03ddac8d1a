package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	Base
}

func (stubPlugin) Requirements() Requirements { return Requirements{} }
func (stubPlugin) Validate(context.Context, RequestContext) (ValidateResult, error) {
	return ValidateResult{}, nil
}
func (stubPlugin) Generate(context.Context, RequestContext) (Output, error) {
	return Output{}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := stubPlugin{Base{IDValue: "auth", VersionValue: "1.0.0"}}
	require.NoError(t, r.Register(p))

	got, ok := r.Get("auth")
	require.True(t, ok)
	require.Equal(t, "auth", got.ID())
}

func TestRegistry_DuplicateRegistrationErrors(t *testing.T) {
	r := NewRegistry()
	p := stubPlugin{Base{IDValue: "auth"}}
	require.NoError(t, r.Register(p))
	require.Error(t, r.Register(p))
}

func TestRegistry_OrderedByPriorityThenID(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubPlugin{Base{IDValue: "metrics", PriorityValue: 0}}))
	require.NoError(t, r.Register(stubPlugin{Base{IDValue: "auth", PriorityValue: 10}}))
	require.NoError(t, r.Register(stubPlugin{Base{IDValue: "realtime", PriorityValue: 0}}))

	ordered := r.Ordered([]string{"metrics", "auth", "realtime"})
	require.Len(t, ordered, 3)
	require.Equal(t, "auth", ordered[0].ID())
	require.Equal(t, "metrics", ordered[1].ID())
	require.Equal(t, "realtime", ordered[2].ID())
}

func TestRegistry_OrderedSkipsUnknownIDs(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubPlugin{Base{IDValue: "auth"}}))

	ordered := r.Ordered([]string{"auth", "does-not-exist"})
	require.Len(t, ordered, 1)
}
