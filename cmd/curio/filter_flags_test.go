package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFilterFlags(t *testing.T, args ...string) (*cobra.Command, *filterFlags) {
	t.Helper()
	var f filterFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, &f
}

func TestFilterFlagsCriteria(t *testing.T) {
	cmd, f := parseFilterFlags(t,
		"--search", "vase",
		"--category", "art",
		"--house", "main", "--room", "study",
		"--min-valuation", "0")

	c := f.criteria(cmd)
	assert.Equal(t, "vase", c.Search)
	assert.Equal(t, []string{"art"}, c.Categories)
	assert.Empty(t, c.Houses, "room filter replaces the bare house filter")
	assert.Equal(t, []string{"main|study"}, c.Rooms)
	require.NotNil(t, c.MinValuation, "explicit zero still activates the bound")
	assert.Equal(t, 0.0, *c.MinValuation)
	assert.Nil(t, c.MaxValuation)
	assert.False(t, c.IncludeDeleted)
}

func TestFilterFlagsHouseOnly(t *testing.T) {
	cmd, f := parseFilterFlags(t, "--house", "main")

	c := f.criteria(cmd)
	assert.Equal(t, []string{"main"}, c.Houses)
	assert.Empty(t, c.Rooms)
}

func TestFilterFlagsEmpty(t *testing.T) {
	cmd, f := parseFilterFlags(t)

	c := f.criteria(cmd)
	assert.True(t, c.Empty())
}

func TestLockedScope(t *testing.T) {
	assert.Empty(t, lockedScope("", ""))
	assert.Empty(t, lockedScope("", "study"), "a room without a house pins nothing")
	assert.Equal(t, "Scoped to house main", lockedScope("main", ""))
	assert.Equal(t, "Scoped to main/study", lockedScope("main", "study"))
}
