package services

import "testing"

func TestCallStatsPercentile(t *testing.T) {
	s := NewCallStats(10)
	s.SeedIfEmpty(0, 9)

	// pos = 50*11/100 = 5.5 -> between 4 and 5
	if got := s.Percentile(50); got != 4.5 {
		t.Fatalf("p50 = %v, want 4.5", got)
	}
	if got := s.Percentile(1); got != 0 {
		t.Fatalf("p1 = %v, want 0", got)
	}
	if got := s.Percentile(100); got != 9 {
		t.Fatalf("p100 = %v, want 9", got)
	}
}

func TestCallStatsWindowEvictsOldest(t *testing.T) {
	s := NewCallStats(3)
	for _, f := range []int{1, 2, 3, 9, 9} {
		s.Add(f)
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	// window holds 3, 9, 9
	if got := s.Percentile(1); got != 3 {
		t.Fatalf("min = %v, want 3", got)
	}

	s.Clear()
	s.SeedIfEmpty(4, 5)
	s.SeedIfEmpty(0, 9)
	if s.Len() != 2 {
		t.Fatalf("seed should only apply to an empty window, len = %d", s.Len())
	}
}

func TestCallStatsIdleFloors(t *testing.T) {
	s := NewCallStats(0)
	s.SeedIfEmpty(0, 9)

	got := s.IdleFloors(1, 0, 9)
	if got[0] != 5 {
		t.Fatalf("single cabin idle floor = %d, want 5", got[0])
	}

	got = s.IdleFloors(2, 0, 9)
	// q=25: pos 2.75 -> 1.75 ; q=75: pos 8.25 -> 7.25
	if got[0] != 2 || got[1] != 7 {
		t.Fatalf("idle floors = %v, want [2 7]", got)
	}
}
