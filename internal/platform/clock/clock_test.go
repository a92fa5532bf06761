package clock

import (
	"testing"
	"time"
)

func TestDayKeepsLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2026, 3, 9, 23, 59, 0, 0, loc)
	d := Day(ts)
	if d.Hour() != 0 || d.Day() != 9 || d.Location() != loc {
		t.Fatalf("unexpected day: %v", d)
	}
	if DateString(ts) != "2026-03-09" {
		t.Fatalf("date=%s", DateString(ts))
	}
}

func TestFakeAdvance(t *testing.T) {
	f := NewFake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	f.Advance(36 * time.Hour)
	if got := DateString(f.Now()); got != "2026-01-02" {
		t.Fatalf("got %s", got)
	}
}
