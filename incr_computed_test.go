package incr

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputed(t *testing.T) {
	t.Run("derives value from cells", func(t *testing.T) {
		log := []string{}

		count := NewCell(1)
		double := Map(count, func(x int) int {
			log = append(log, "doubling")
			return x * 2
		})
		plustwo := Map(double, func(x int) int {
			log = append(log, "adding")
			return x + 2
		})

		assert.Equal(t, 1, count.MustGet())
		assert.Equal(t, 2, double.MustGet())
		assert.Equal(t, 4, plustwo.MustGet())

		count.Set(10)
		assert.Equal(t, 10, count.MustGet())
		assert.Equal(t, 20, double.MustGet())
		assert.Equal(t, 22, plustwo.MustGet())

		assert.Equal(t, []string{
			"doubling",
			"adding",
			"doubling",
			"adding",
		}, log)
	})

	t.Run("lazy until read", func(t *testing.T) {
		calls := 0

		a := NewCell(1)
		b := Map(a, func(x int) int { calls++; return x })

		a.Set(2)
		a.Set(3)
		assert.Equal(t, 0, calls)
		assert.True(t, b.IsStale())

		assert.Equal(t, 3, b.MustGet())
		assert.Equal(t, 1, calls)
		assert.False(t, b.IsStale())
	})

	t.Run("caches between reads", func(t *testing.T) {
		calls := 0

		a := NewCell(4)
		b := Map(a, func(x int) int { calls++; return x * x })

		assert.Equal(t, 16, b.MustGet())
		v := b.Version()

		assert.Equal(t, 16, b.MustGet())
		assert.Equal(t, 1, calls)
		assert.Equal(t, v, b.Version())
	})

	t.Run("recomputes once per change", func(t *testing.T) {
		var cCalls, dCalls int

		a := NewCell(2)
		b := NewCell(3)
		c := Map(a, func(x int) int {
			cCalls++
			return x * 2
		})
		d := Map2(c, b, func(x, y int) int {
			dCalls++
			return x + y
		})

		assert.Equal(t, 7, d.MustGet())

		a.Set(5)
		assert.Equal(t, 13, d.MustGet())

		b.Set(1)
		assert.Equal(t, 11, d.MustGet())

		assert.Equal(t, 2, cCalls)
		assert.Equal(t, 3, dCalls)
	})

	t.Run("an unused upstream still makes the node stale", func(t *testing.T) {
		var cCalls, dCalls int

		a := NewCell(2)
		b := NewCell(3)
		c := Map2(a, b, func(x, _ int) int {
			cCalls++
			return x * 2
		})
		d := Map2(c, b, func(x, y int) int {
			dCalls++
			return x + y
		})

		assert.Equal(t, 7, d.MustGet())

		a.Set(5)
		assert.Equal(t, 13, d.MustGet())

		b.Set(1)
		assert.Equal(t, 11, d.MustGet())

		assert.Equal(t, 3, cCalls)
		assert.Equal(t, 3, dCalls)
	})

	t.Run("staleness is transitive without recomputing", func(t *testing.T) {
		calls := 0

		a := NewCell(1)
		b := Map(a, func(x int) int { calls++; return x + 1 })
		c := Map(b, func(x int) int { calls++; return x + 1 })

		c.MustGet()
		assert.Equal(t, 2, calls)

		a.Set(5)
		assert.True(t, b.IsStale())
		assert.True(t, c.IsStale())
		assert.Equal(t, 2, calls)

		assert.Equal(t, 7, c.MustGet())
		assert.Equal(t, 4, calls)
	})

	t.Run("receives values in declared order", func(t *testing.T) {
		a := NewCell(10)
		b := NewCell(3)

		ab := Map2(a, b, func(x, y int) int { return x - y })
		ba := Map2(b, a, func(x, y int) int { return x - y })

		assert.Equal(t, 7, ab.MustGet())
		assert.Equal(t, -7, ba.MustGet())

		sub := func(v []int) int {
			out := v[0]
			for _, x := range v[1:] {
				out -= x
			}
			return out
		}
		c := NewCell(1)

		abc, err := Combine(sub, []Node[int]{a, b, c})
		require.NoError(t, err)
		cba, err := Combine(sub, []Node[int]{c, b, a})
		require.NoError(t, err)

		assert.Equal(t, 6, abc.MustGet())
		assert.Equal(t, -12, cba.MustGet())
	})

	t.Run("same upstream in several slots", func(t *testing.T) {
		calls := 0

		a := NewCell(3)
		sq := Map(a, func(x int) int { calls++; return x * x })
		sum, err := Combine(func(v []int) int { return v[0] + v[1] + v[2] }, []Node[int]{sq, a, sq})
		require.NoError(t, err)

		assert.Equal(t, 21, sum.MustGet())
		assert.Equal(t, 1, calls)

		a.Set(2)
		assert.Equal(t, 10, sum.MustGet())
		assert.Equal(t, 2, calls)
	})

	t.Run("fan out", func(t *testing.T) {
		a := NewCell(2)
		double := Map(a, func(x int) int { return x * 2 })
		triple := Map(a, func(x int) int { return x * 3 })
		both := Map3(a, double, triple, func(x, y, z int) []int { return []int{x, y, z} })

		assert.Equal(t, []int{2, 4, 6}, both.MustGet())

		a.Set(1)
		assert.Equal(t, []int{1, 2, 3}, both.MustGet())
	})

	t.Run("version bumps on recompute only", func(t *testing.T) {
		a := NewCell(1)
		b := Map(a, func(x int) int { return x })
		assert.Equal(t, uint64(0), b.Version())

		b.MustGet()
		assert.Equal(t, uint64(1), b.Version())

		b.MustGet()
		assert.Equal(t, uint64(1), b.Version())

		a.Set(1)
		b.MustGet()
		assert.Equal(t, uint64(2), b.Version())
	})

	t.Run("stacked diamonds stay linear", func(t *testing.T) {
		const depth = 60

		type outcome struct {
			first, second         int
			firstCalls, setCalls  int
			staleBefore, staleNow bool
			invalidated           bool
		}
		done := make(chan outcome, 1)

		// every layer reads the one below through two paths
		go func() {
			var o outcome
			calls := 0

			a := NewCell(1)
			var top Node[int] = a
			for range depth {
				left := Map(top, func(x int) int { calls++; return x })
				right := Map(top, func(x int) int { calls++; return x + 1 })
				top = Map2(left, right, func(x, y int) int { calls++; return y - 1 })
			}

			o.first = must(top.Get())
			o.firstCalls = calls
			o.staleBefore = top.IsStale()

			a.Set(7)
			o.staleNow = top.IsStale()
			o.second = must(top.Get())
			must(top.Get())
			o.setCalls = calls - o.firstCalls

			o.invalidated = top.IsInvalidated()
			done <- o
		}()

		select {
		case o := <-done:
			assert.Equal(t, 1, o.first)
			assert.Equal(t, 7, o.second)
			assert.Equal(t, 3*depth, o.firstCalls)
			assert.Equal(t, 3*depth, o.setCalls)
			assert.False(t, o.staleBefore)
			assert.True(t, o.staleNow)
			assert.False(t, o.invalidated)
		case <-time.After(5 * time.Second):
			t.Fatal("reading a deep diamond graph did not finish")
		}
	})

	t.Run("peek", func(t *testing.T) {
		a := NewCell("x")
		b := Map(a, func(s string) string { return s + s })

		_, ok := b.Peek()
		assert.False(t, ok)

		b.MustGet()
		a.Set("y")

		v, ok := b.Peek()
		assert.True(t, ok)
		assert.Equal(t, "xx", v)
	})
}

func TestComputedErrors(t *testing.T) {
	t.Run("set is unsupported", func(t *testing.T) {
		a := NewCell(1)
		b := Map(a, func(x int) int { return x }, WithName("b"))

		err := b.Set(3)
		assert.ErrorIs(t, err, ErrUnsupportedMutation)
		assert.EqualError(t, err, `set "b": cannot set a cell derived from other cells`)
	})

	t.Run("no upstreams", func(t *testing.T) {
		_, err := Combine(func(v []int) int { return len(v) }, nil)
		assert.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("nil upstream or function", func(t *testing.T) {
		a := NewCell(1)

		assert.Panics(t, func() { Map[int, int](nil, func(x int) int { return x }) })
		assert.Panics(t, func() { Map[int, int](a, nil) })

		_, err := Combine(func(v []int) int { return 0 }, []Node[int]{a, nil})
		assert.ErrorIs(t, err, ErrPrecondition)
	})

	t.Run("upstream error fails without recomputing", func(t *testing.T) {
		calls := 0

		a := NewEmptyCell[int](WithName("a"))
		b := Map(a, func(x int) int { calls++; return x }, WithName("b"))

		_, err := b.Get()
		assert.ErrorIs(t, err, ErrPrecondition)
		assert.Equal(t, 0, calls)
		assert.Equal(t, uint64(0), b.Version())

		var nodeErr *NodeError
		require.True(t, errors.As(err, &nodeErr))
		assert.Equal(t, "b", nodeErr.Node)

		a.Set(4)
		assert.Equal(t, 4, b.MustGet())
		assert.Equal(t, 1, calls)
	})

	t.Run("panicking function", func(t *testing.T) {
		a := NewCell(0)
		b := Map(a, func(x int) int { return 10 / x })

		_, err := b.Get()
		assert.ErrorIs(t, err, ErrComputePanic)
		assert.True(t, b.IsStale())

		a.Set(2)
		assert.Equal(t, 5, b.MustGet())
	})

	t.Run("failed recompute keeps the previous value", func(t *testing.T) {
		a := NewCell(5)
		b := Map(a, func(x int) int { return 10 / x })
		assert.Equal(t, 2, b.MustGet())
		v := b.Version()

		a.Set(0)
		_, err := b.Get()
		assert.Error(t, err)

		cached, ok := b.Peek()
		assert.True(t, ok)
		assert.Equal(t, 2, cached)
		assert.Equal(t, v, b.Version())
	})
}
