package domain

import "testing"

func TestRiderScoreWaiting(t *testing.T) {
	r := NewRider(1, 5, 0, Up)

	// 20 - (10/2) - |2-5|
	if got := r.Score(10, 2); got != 12 {
		t.Fatalf("score = %d, want 12", got)
	}

	if got := r.Score(0, 5); got != BaseRiderScore {
		t.Fatalf("score at start = %d, want %d", got, BaseRiderScore)
	}
}

func TestRiderScoreBoarded(t *testing.T) {
	r := NewRider(1, 2, 0, Up)
	r.Board(8, 4)

	dest, ok := r.Destination()
	if !ok || dest != 8 {
		t.Fatalf("destination = %d,%v want 8,true", dest, ok)
	}

	// 20 + (6+2) - (4/2) - (7-4) - |5-8|
	if got := r.Score(7, 5); got != 20 {
		t.Fatalf("score = %d, want 20", got)
	}
}

func TestRiderBoardIsAtomicAndOnce(t *testing.T) {
	r := NewRider(1, 0, 0, Up)
	if r.Boarded() {
		t.Fatalf("new rider should not be boarded")
	}
	if _, ok := r.BoardTick(); ok {
		t.Fatalf("board tick should be unset before boarding")
	}

	r.Board(3, 2)
	r.Board(9, 7)

	dest, _ := r.Destination()
	tick, _ := r.BoardTick()
	if dest != 3 || tick != 2 {
		t.Errorf("second Board must be ignored, got dest=%d tick=%d", dest, tick)
	}
}

func TestScoreClampedAtZero(t *testing.T) {
	r := NewRider(1, 0, 0, Down)
	if got := Score(r, 500, 40); got != 0 {
		t.Fatalf("score = %d, want 0", got)
	}
}

func TestParseResetCause(t *testing.T) {
	cases := map[string]ResetCause{
		"all elevators are at floor 0": CauseClean,
		"The elevator is at floor 3":   CauseClean,
		"Incompatible command":         CauseForced,
		"":                             CauseForced,
		"cabin is full since 40 ticks": CauseForced,
	}
	for cause, want := range cases {
		if got := ParseResetCause(cause); got != want {
			t.Errorf("ParseResetCause(%q) = %v, want %v", cause, got, want)
		}
	}
}

func TestResetPenalty(t *testing.T) {
	if got := ResetPenalty(1, 1, 1); got != 1 {
		t.Errorf("first penalty = %d, want 1", got)
	}
	if got := ResetPenalty(4, 1, 1); got != 4 {
		t.Errorf("fourth penalty = %d, want 4", got)
	}
	if got := ResetPenalty(3, 0, 2); got != 4 {
		t.Errorf("penalty(3, 0, 2) = %d, want 4", got)
	}
}

func TestDirectionHelpers(t *testing.T) {
	if !Up.Ahead(3, 4) || Up.Ahead(3, 3) || Down.Ahead(3, 4) {
		t.Errorf("Ahead is wrong")
	}
	if Toward(5, 2) != Down || Toward(2, 5) != Up {
		t.Errorf("Toward is wrong")
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Errorf("expected error for unknown direction")
	}
	if d, err := ParseDirection("down"); err != nil || d != Down {
		t.Errorf("ParseDirection(down) = %v, %v", d, err)
	}
}
