package mesh

import (
	"math/rand"
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 511, 512, 513, 4097} {
		hits := make([]int32, n)
		parallelFor(n, 512, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestLargeFieldStep(t *testing.T) {
	params := DefaultParams()
	params.Points = 5000
	f, err := NewField(params, 1920, 1080, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}
	f.MovePointer(960, 540)
	f.Step()

	for i, p := range f.Points() {
		if p.Anchor {
			continue
		}
		pos := Drift(p, f.Clock(), params)
		want := pos.Add(Influence(pos, f.Pointer().Pos, params))
		if p.Pos != want {
			t.Fatalf("point %d at %v, expected %v", i, p.Pos, want)
		}
	}
}
