package monitor

import (
	"testing"
	"time"

	"github.com/vanderheijden86/fsglow/pkg/watcher"
)

func classifyAfter(t *testing.T, op watcher.Op, age time.Duration) Style {
	t.Helper()
	l := NewEventLedger()
	base := time.Now()
	l.Record("/f", op, base)
	return Classify("/f", l, base.Add(age))
}

func TestClassify_CreatedTiers(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want Tier
	}{
		{0, TierCreatedFresh},
		{1999 * time.Millisecond, TierCreatedFresh},
		{2 * time.Second, TierCreatedRecent}, // boundary falls into the next tier
		{4 * time.Second, TierCreatedRecent},
		{5 * time.Second, TierCreatedFading},
		{9 * time.Second, TierCreatedFading},
		{10 * time.Second, TierPlain},
	}
	for _, c := range cases {
		if got := classifyAfter(t, watcher.OpCreated, c.age); got.Tier != c.want {
			t.Errorf("created at age %v: got tier %v, want %v", c.age, got.Tier, c.want)
		}
	}
}

func TestClassify_ModifiedTiers(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want Tier
	}{
		{time.Second, TierModifiedFresh},
		{2 * time.Second, TierModifiedRecent},
		{5 * time.Second, TierModifiedFading},
		{10 * time.Second, TierModifiedStale},
		{29 * time.Second, TierModifiedStale},
		{30 * time.Second, TierPlain},
	}
	for _, c := range cases {
		if got := classifyAfter(t, watcher.OpModified, c.age); got.Tier != c.want {
			t.Errorf("modified at age %v: got tier %v, want %v", c.age, got.Tier, c.want)
		}
	}
}

func TestClassify_DeletedOverridesEverything(t *testing.T) {
	l := NewEventLedger()
	base := time.Now()
	l.Record("/f", watcher.OpCreated, base)
	l.Record("/f", watcher.OpDeleted, base.Add(time.Second))

	got := Classify("/f", l, base.Add(2*time.Second))
	if got.Tier != TierDeleted || !got.Strike {
		t.Errorf("expected struck-through deleted style, got %+v", got)
	}
}

func TestClassify_DeletionExpiresBackToPlain(t *testing.T) {
	s := classifyAfter(t, watcher.OpDeleted, DeletedWindow)
	if s.Tier != TierPlain || s.Strike {
		t.Errorf("expired deletion should be plain, got %+v", s)
	}
}

func TestClassify_UnknownPathIsPlain(t *testing.T) {
	l := NewEventLedger()
	if s := Classify("/never-seen", l, time.Now()); s.Tier != TierPlain {
		t.Errorf("unknown path should be plain, got %+v", s)
	}
}
