package vtree

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// refTree is a naive model of the preorder event sequence: a flat slice of
// event keys where every insert pays a linear scan. The root's close event
// is implicit at the end of the slice.
type refTree struct {
	keys []int64
}

func newRefTree() *refTree {
	return &refTree{keys: []int64{0}}
}

func (r *refTree) insert(v, parent int64) {
	i := slices.Index(r.keys, parent)
	r.keys = slices.Insert(r.keys, i+1, v, -v)
}

func (r *refTree) openPos(v int64) int {
	return slices.Index(r.keys, v)
}

func (r *refTree) closePos(v int64) int {
	if v == 0 {
		return len(r.keys) // The root's bracket closes after everything else.
	}
	return slices.Index(r.keys, -v)
}

func (r *refTree) before(a, b int64) bool {
	return r.openPos(a) <= r.openPos(b) && r.closePos(b) <= r.closePos(a)
}

func TestRandomizedAgainstReference(t *testing.T) {
	const n = 10000

	rng := rand.New(rand.NewSource(42))

	tree := New()
	ref := newRefTree()
	versions := []int64{0}

	for v := int64(1); v <= n; v++ {
		parent := versions[rng.Intn(len(versions))]
		mustInsert(t, tree, v, parent)
		ref.insert(v, parent)
		versions = append(versions, v)

		if v%1000 == 0 {
			require.Equal(t, ref.keys, eventKeys(tree), "event sequence diverged from the reference after %d inserts", v)
			require.NoError(t, tree.CheckInvariants())

			for i := 0; i < 500; i++ {
				a := versions[rng.Intn(len(versions))]
				b := versions[rng.Intn(len(versions))]

				got, err := tree.Before(a, b)
				require.NoError(t, err)
				require.Equal(t, ref.before(a, b), got, "Before(%d, %d) after %d inserts", a, b, v)
			}
		}
	}

	// Reflexivity over a sample of registered versions.
	for i := 0; i < 1000; i++ {
		v := versions[rng.Intn(len(versions))]
		ok, err := tree.Before(v, v)
		require.NoError(t, err)
		require.True(t, ok, "Before(%d, %d)", v, v)
	}
}

// TestOverflowBases exercises the relabeling machinery under different density
// threshold bases. Bases close to 1 keep windows eligible for local
// relabeling, while larger bases make the structure grow instead; query
// results must not depend on the choice.
func TestOverflowBases(t *testing.T) {
	for _, base := range []float64{1.05, 1.1, 1.2, DefaultOverflowBase} {
		t.Run(fmt.Sprintf("base=%v", base), func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))

			tree := New()
			tree.OverflowBase = base
			ref := newRefTree()
			versions := []int64{0}

			for v := int64(1); v <= 2000; v++ {
				parent := versions[rng.Intn(len(versions))]
				mustInsert(t, tree, v, parent)
				ref.insert(v, parent)
				versions = append(versions, v)
			}

			require.Equal(t, ref.keys, eventKeys(tree))
			require.NoError(t, tree.CheckInvariants())

			for i := 0; i < 2000; i++ {
				a := versions[rng.Intn(len(versions))]
				b := versions[rng.Intn(len(versions))]

				got, err := tree.Before(a, b)
				require.NoError(t, err)
				require.Equal(t, ref.before(a, b), got, "Before(%d, %d) with base %v", a, b, base)
			}
		})
	}
}
