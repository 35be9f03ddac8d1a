package pluralize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlural_RegularRules(t *testing.T) {
	p := New(nil)
	require.Equal(t, "Users", p.Plural("User"))
	require.Equal(t, "Categories", p.Plural("Category"))
	require.Equal(t, "Boxes", p.Plural("Box"))
	require.Equal(t, "Shelves", p.Plural("Shelf"))
	require.Equal(t, "Days", p.Plural("Day"))
}

func TestPlural_Irregulars(t *testing.T) {
	p := New(nil)
	require.Equal(t, "People", p.Plural("Person"))
	require.Equal(t, "Children", p.Plural("Child"))
}

func TestPlural_Uncountable(t *testing.T) {
	p := New(nil)
	require.Equal(t, "Equipment", p.Plural("Equipment"))
}

func TestPlural_Override(t *testing.T) {
	p := New(map[string]string{"Octopus": "Octopodes"})
	require.Equal(t, "Octopodes", p.Plural("Octopus"))
	require.Equal(t, "Octopodes", p.Plural("octopus"))
}

func TestSingular_BestEffort(t *testing.T) {
	require.Equal(t, "Category", Singular("Categories"))
	require.Equal(t, "User", Singular("Users"))
}

// TestPlural_RouteAndSDKAgree exercises the invariant that the route
// emitter and the SDK emitter, each calling Plural independently with the
// same overrides, derive the identical path segment.
func TestPlural_RouteAndSDKAgree(t *testing.T) {
	overrides := map[string]string{"Person": "Persons"}
	routeSide := New(overrides)
	sdkSide := New(overrides)
	require.Equal(t, routeSide.Plural("Person"), sdkSide.Plural("Person"))
}
