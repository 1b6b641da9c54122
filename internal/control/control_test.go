package control

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tablerail/railalign/internal/railopt"
)

func newTestController() *Controller {
	return New(Config{MaxMoves: 32})
}

func TestAlignedWithinToleranceEmitsNothing(t *testing.T) {
	c := newTestController()
	c.prevMode = ModeIdleActive
	res := c.Tick(railopt.Some(200), railopt.Some(201), Status{SecondsSinceLastMotion: 1})
	if res.Decision != DecisionAligned {
		t.Fatalf("got decision %v, want aligned", res.Decision)
	}
	if len(res.Emitted) != 0 {
		t.Fatalf("expected no emission, got %v", res.Emitted)
	}
}

func TestMoveLeftAndRightFollowDiffSign(t *testing.T) {
	c := newTestController()
	c.prevMode = ModeIdleActive
	res := c.Tick(railopt.Some(100), railopt.Some(120), Status{SecondsSinceLastMotion: 1})
	if res.Decision != DecisionMoveLeft || len(res.Emitted) != 1 || res.Emitted[0] != keyMoveLeft {
		t.Fatalf("got %+v, want single move-left", res)
	}

	c2 := newTestController()
	c2.prevMode = ModeIdleActive
	res2 := c2.Tick(railopt.Some(140), railopt.Some(120), Status{SecondsSinceLastMotion: 1})
	if res2.Decision != DecisionMoveRight || len(res2.Emitted) != 1 || res2.Emitted[0] != keyMoveRight {
		t.Fatalf("got %+v, want single move-right", res2)
	}
}

func TestInvertDirectionFlipsChoice(t *testing.T) {
	c := New(Config{MaxMoves: 32, InvertDirection: true})
	c.prevMode = ModeIdleActive
	res := c.Tick(railopt.Some(100), railopt.Some(120), Status{SecondsSinceLastMotion: 1})
	if res.Decision != DecisionMoveRight {
		t.Fatalf("inverted controller: got %v, want move-right", res.Decision)
	}
}

// Scenario D: motor transitioning to busy resets the correction quota.
func TestMotorBusyResetsQuota(t *testing.T) {
	c := newTestController()
	c.remaining = 5
	c.prevMode = ModeIdleActive

	res := c.Tick(railopt.None, railopt.None, Status{IsMoving: true})
	if res.Mode != ModeMotorBusy {
		t.Fatalf("got mode %v, want MOTOR_BUSY", res.Mode)
	}
	if c.remaining != 32 {
		t.Fatalf("got remaining %d, want 32", c.remaining)
	}
	if !c.saved {
		t.Fatal("expected saved_this_session=true while motor busy")
	}
	if len(res.Emitted) != 0 {
		t.Fatalf("expected no emission while busy, got %v", res.Emitted)
	}
}

// Scenario E: quota exhausted, no commands emitted, state persists.
func TestQuotaExhaustedEmitsNothing(t *testing.T) {
	c := newTestController()
	c.remaining = 0
	c.prevMode = ModeIdleActive

	res := c.Tick(railopt.Some(100), railopt.Some(110), Status{SecondsSinceLastMotion: 1})
	if len(res.Emitted) != 0 {
		t.Fatalf("expected no emission at zero quota, got %v", res.Emitted)
	}
	if res.Mode != ModeIdleExhausted {
		t.Fatalf("got mode %v, want IDLE_EXHAUSTED", res.Mode)
	}
	if c.remaining != 0 {
		t.Fatalf("remaining should stay at 0, got %d", c.remaining)
	}
}

// Scenario F: after a correction, crossing into IDLE_STALE emits the save
// command exactly once.
func TestSaveEmittedOnceOnTransitionToStale(t *testing.T) {
	dir := t.TempDir()
	c := New(Config{MaxMoves: 32, KeysInDir: dir})
	c.prevMode = ModeIdleActive

	first := c.Tick(railopt.Some(100), railopt.Some(120), Status{SecondsSinceLastMotion: 1})
	if first.Decision != DecisionMoveLeft {
		t.Fatalf("setup: got %+v, want a correction move", first)
	}

	second := c.Tick(railopt.None, railopt.None, Status{SecondsSinceLastMotion: 20})
	if second.Mode != ModeIdleStale {
		t.Fatalf("got mode %v, want IDLE_STALE", second.Mode)
	}
	if len(second.Emitted) != 2 || second.Emitted[0] != keySaveTrigger || second.Emitted[1] != keySaveConfirm {
		t.Fatalf("got emitted %v, want [113 14]", second.Emitted)
	}
	if !c.saved {
		t.Fatal("expected saved_this_session=true after save")
	}

	// The setup correction wrote its own move-left file; the save adds
	// exactly one more, holding the compound save code.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d files, want 2 (one move, one save)", len(entries))
	}
	saves := 0
	for _, e := range entries {
		body, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("read command file: %v", err)
		}
		switch string(body) {
		case "113,14":
			saves++
		case "114":
		default:
			t.Fatalf("got body %q, want \"114\" or \"113,14\"", body)
		}
	}
	if saves != 1 {
		t.Fatalf("got %d save files, want 1", saves)
	}

	// Property 8: staying stale never re-saves.
	third := c.Tick(railopt.None, railopt.None, Status{SecondsSinceLastMotion: 25})
	if len(third.Emitted) != 0 {
		t.Fatalf("expected no duplicate save, got %v", third.Emitted)
	}
	entriesAfter, _ := os.ReadDir(dir)
	if len(entriesAfter) != 2 {
		t.Fatalf("expected still 2 files after second stale tick, got %d", len(entriesAfter))
	}
}

// Property 7: quota never goes negative and caps at MaxMoves between
// motor-busy transitions.
func TestQuotaNeverNegative(t *testing.T) {
	c := New(Config{MaxMoves: 2})
	c.prevMode = ModeIdleActive
	moves := 0
	for i := 0; i < 5; i++ {
		res := c.Tick(railopt.Some(100), railopt.Some(120), Status{SecondsSinceLastMotion: 1})
		moves += len(res.Emitted)
	}
	if moves > 2 {
		t.Fatalf("emitted %d moves, want at most MaxMoves=2", moves)
	}
	if c.remaining < 0 {
		t.Fatalf("remaining went negative: %d", c.remaining)
	}
}

func TestUnknownDecisionWhenObservationIncomplete(t *testing.T) {
	c := newTestController()
	c.prevMode = ModeIdleActive
	res := c.Tick(railopt.None, railopt.Some(120), Status{SecondsSinceLastMotion: 1})
	if res.Decision != DecisionUnknown {
		t.Fatalf("got %v, want unknown on missing table_x", res.Decision)
	}
	if len(res.Emitted) != 0 {
		t.Fatalf("expected no emission, got %v", res.Emitted)
	}
}
