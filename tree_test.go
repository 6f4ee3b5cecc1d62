package collapse_test

import (
	"testing"

	"github.com/fwojciec/collapse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Add(t *testing.T) {
	t.Parallel()

	t.Run("links blocks by parent index", func(t *testing.T) {
		t.Parallel()

		tree := collapse.NewTree()
		outer := tree.Add(collapse.NoBlock, collapse.Collapsed)
		inner := tree.Add(outer, collapse.Expanded)

		require.Equal(t, 2, tree.Len())
		assert.Equal(t, outer, tree.Parent(inner))
		assert.Equal(t, collapse.NoBlock, tree.Parent(outer))
		assert.Equal(t, 1, tree.Depth(inner))

		b, ok := tree.Block(inner)
		require.True(t, ok)
		assert.Equal(t, collapse.Expanded, b.State)
	})

	t.Run("treats unknown parent as root", func(t *testing.T) {
		t.Parallel()

		tree := collapse.NewTree()
		id := tree.Add(42, collapse.Collapsed)

		assert.Equal(t, collapse.NoBlock, tree.Parent(id))
	})
}

func TestTree_IsWithinCollapsed(t *testing.T) {
	t.Parallel()

	// Every combination of states over a three-level chain must agree with
	// the disjunction of IsCollapsed over the chain.
	states := []collapse.State{collapse.Collapsed, collapse.Expanded}
	for _, a := range states {
		for _, b := range states {
			for _, c := range states {
				tree := collapse.NewTree()
				outer := tree.Add(collapse.NoBlock, a)
				middle := tree.Add(outer, b)
				inner := tree.Add(middle, c)

				want := false
				for _, id := range tree.Ancestors(inner) {
					want = want || tree.IsCollapsed(id)
				}
				assert.Equal(t, want, tree.IsWithinCollapsed(inner), "states %v/%v/%v", a, b, c)
			}
		}
	}

	t.Run("no block is never collapsed", func(t *testing.T) {
		t.Parallel()

		tree := collapse.NewTree()
		assert.False(t, tree.IsWithinCollapsed(collapse.NoBlock))
		assert.False(t, tree.IsCollapsed(collapse.NoBlock))
	})
}

func TestTree_SetState(t *testing.T) {
	t.Parallel()

	t.Run("calls observer only on change", func(t *testing.T) {
		t.Parallel()

		tree := collapse.NewTree()
		id := tree.Add(collapse.NoBlock, collapse.Collapsed)
		var calls []collapse.State
		tree.Observe(func(_ collapse.BlockID, s collapse.State) {
			calls = append(calls, s)
		})

		assert.True(t, tree.SetState(id, collapse.Expanded))
		assert.False(t, tree.SetState(id, collapse.Expanded))
		assert.True(t, tree.SetState(id, collapse.Collapsed))

		assert.Equal(t, []collapse.State{collapse.Expanded, collapse.Collapsed}, calls)
	})

	t.Run("ignores unknown block", func(t *testing.T) {
		t.Parallel()

		tree := collapse.NewTree()
		assert.False(t, tree.SetState(3, collapse.Expanded))
	})
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "collapsed", collapse.Collapsed.String())
	assert.Equal(t, "expanded", collapse.Expanded.String())
}
