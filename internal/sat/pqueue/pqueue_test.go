package pqueue

import "testing"

func TestBuildAndPopMaxOrder(t *testing.T) {
	q := Build([]float64{3, 1, 4, 1, 5})

	got, ok := q.PopMax()
	if !ok || got != 4 {
		t.Fatalf("PopMax() = (%d, %v), want (4, true)", got, ok)
	}

	got, ok = q.PopMax()
	if !ok || got != 2 {
		t.Fatalf("PopMax() = (%d, %v), want (2, true)", got, ok)
	}
}

func TestRemoveThenPopMaxSkipsKey(t *testing.T) {
	q := Build([]float64{1, 9, 2})
	q.Remove(1)

	got, ok := q.PopMax()
	if !ok || got != 2 {
		t.Fatalf("PopMax() after Remove(1) = (%d, %v), want (2, true)", got, ok)
	}
}

func TestAddReinsertsRemovedKey(t *testing.T) {
	q := Build([]float64{1, 2})
	q.Remove(0)
	q.Remove(1)
	q.Add(0, 5)

	got, ok := q.PopMax()
	if !ok || got != 0 {
		t.Fatalf("PopMax() after Add(0, 5) = (%d, %v), want (0, true)", got, ok)
	}
}

func TestIncreaseChangesOrder(t *testing.T) {
	q := Build([]float64{1, 2})
	q.Increase(0, 10)

	got, ok := q.PopMax()
	if !ok || got != 0 {
		t.Fatalf("PopMax() after Increase(0, 10) = (%d, %v), want (0, true)", got, ok)
	}
}

func TestIncreaseOnRemovedKeyIsNoop(t *testing.T) {
	q := Build([]float64{1, 2})
	q.Remove(0)
	q.Increase(0, 100) // must not resurrect key 0

	got, ok := q.PopMax()
	if !ok || got != 1 {
		t.Fatalf("PopMax() = (%d, %v), want (1, true)", got, ok)
	}
}

func TestEmptyQueuePopMax(t *testing.T) {
	q := New(0)
	if _, ok := q.PopMax(); ok {
		t.Fatalf("PopMax() on empty queue reported ok = true")
	}
}

func TestGrowExtendsUniverse(t *testing.T) {
	q := Build([]float64{1})
	q.Grow(3)
	q.Add(2, 9)

	got, ok := q.PopMax()
	if !ok || got != 2 {
		t.Fatalf("PopMax() after Grow/Add = (%d, %v), want (2, true)", got, ok)
	}
}
