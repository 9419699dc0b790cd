package criteria_test

import (
	"testing"

	"github.com/ehsanranjbar/clamutils/criteria"
	"github.com/stretchr/testify/require"
)

func clusterProperties() criteria.Properties {
	p := criteria.Properties{}
	criteria.Set(p, "cardinality", uint32(40))
	criteria.Set(p, "radius", float32(0.75))
	criteria.Set(p, "lfd", 1.5)
	criteria.Set(p, "singleton", false)
	return p
}

func TestMatch(t *testing.T) {
	p := clusterProperties()

	tests := []struct {
		expr     string
		expected bool
	}{
		{"radius > 0.5", true},
		{"radius < 0.5", false},
		{"cardinality >= 40.0", true},
		{"radius > 0.5 AND cardinality > 100.0", false},
		{"radius > 0.5 OR cardinality > 100.0", true},
		{"lfd <= 1.5", true},
		{"singleton == 0.0", true},
	}

	for _, test := range tests {
		c, err := criteria.Parse(test.expr)
		require.NoError(t, err, test.expr)

		ok, err := c.Match(p)
		require.NoError(t, err, test.expr)
		require.Equal(t, test.expected, ok, test.expr)
	}
}

func TestMatchUnknownProperty(t *testing.T) {
	_, err := criteria.MustParse("depth > 3.0").Match(clusterProperties())
	require.ErrorIs(t, err, criteria.ErrUnknownProperty)
	require.ErrorContains(t, err, "depth")
}

func TestParseError(t *testing.T) {
	_, err := criteria.Parse("radius >")
	require.Error(t, err)
	require.Panics(t, func() { criteria.MustParse("radius >") })
}

func TestString(t *testing.T) {
	require.Equal(t, "radius > 0.5", criteria.MustParse("radius > 0.5").String())
}

func TestCombinators(t *testing.T) {
	p := clusterProperties()
	big := criteria.MustParse("cardinality > 10.0")
	wide := criteria.MustParse("radius > 1.0")

	tests := []struct {
		name     string
		m        criteria.Matcher
		expected bool
	}{
		{"all true", criteria.All(big), true},
		{"all mixed", criteria.All(big, wide), false},
		{"any mixed", criteria.Any(wide, big), true},
		{"any false", criteria.Any(wide), false},
		{"empty all", criteria.All(), true},
		{"empty any", criteria.Any(), false},
	}

	for _, test := range tests {
		ok, err := test.m.Match(p)
		require.NoError(t, err, test.name)
		require.Equal(t, test.expected, ok, test.name)
	}

	_, err := criteria.All(big, criteria.MustParse("depth > 1.0")).Match(p)
	require.ErrorIs(t, err, criteria.ErrUnknownProperty)
}
