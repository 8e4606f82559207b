package nlu

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

func TestExtractDurationMinutes(t *testing.T) {
	p := New(time.UTC)
	d := p.Extract("book something for 45 minutes", testNow)
	if d.Duration != 45 {
		t.Fatalf("expected 45 minutes, got %d", d.Duration)
	}
}

func TestExtractDurationHours(t *testing.T) {
	p := New(time.UTC)
	d := p.Extract("set up a review for 2 hours", testNow)
	if d.Duration != 120 {
		t.Fatalf("expected 120 minutes, got %d", d.Duration)
	}
}

func TestExtractExplicitDateAndTime(t *testing.T) {
	p := New(time.UTC)
	d := p.Extract("schedule a checkup 2026-09-10 at 14:30", testNow)
	if d.Date != "2026-09-10" {
		t.Fatalf("expected date 2026-09-10, got %q", d.Date)
	}
	if d.Time != "14:30" {
		t.Fatalf("expected time 14:30, got %q", d.Time)
	}
	if d.Title != "checkup" {
		t.Fatalf("expected title checkup, got %q", d.Title)
	}
}

func TestExtractMeridiemClock(t *testing.T) {
	p := New(time.UTC)
	d := p.Extract("move it to 9:30pm", testNow)
	if d.Time != "21:30" {
		t.Fatalf("expected 21:30, got %q", d.Time)
	}
}

func TestExtractRelativeDate(t *testing.T) {
	p := New(time.UTC)
	d := p.Extract("dentist tomorrow at 5pm", testNow)
	if d.Date != "2026-08-27" {
		t.Fatalf("expected tomorrow's date, got %q", d.Date)
	}
	if d.Time != "17:00" {
		t.Fatalf("expected 17:00, got %q", d.Time)
	}
	if d.Title != "dentist" {
		t.Fatalf("expected title dentist, got %q", d.Title)
	}
}

func TestExtractTimeOnlyFillsNoDate(t *testing.T) {
	p := New(time.UTC)
	d := p.Extract("at 14:30 works for me", testNow)
	if d.Date != "" {
		t.Fatalf("expected no date, got %q", d.Date)
	}
	if d.Time != "14:30" {
		t.Fatalf("expected 14:30, got %q", d.Time)
	}
}

func TestExtractChatterHasNoSlots(t *testing.T) {
	p := New(time.UTC)
	d := p.Extract("thanks!", testNow)
	if d.Date != "" || d.Time != "" || d.Duration != 0 {
		t.Fatalf("expected empty details, got %+v", d)
	}
	if d.Title != "" {
		t.Fatalf("expected no title from filler words, got %q", d.Title)
	}
}

func TestInferTitleStripsStopwords(t *testing.T) {
	p := New(time.UTC)
	got := p.InferTitle("please schedule a team sync for me tomorrow at 10:00")
	if got != "team sync" {
		t.Fatalf("expected %q, got %q", "team sync", got)
	}
}

func TestExtractDateOnly(t *testing.T) {
	p := New(time.UTC)
	d := p.Extract("dentist tomorrow", testNow)
	if d.Date != "2026-08-27" {
		t.Fatalf("expected tomorrow's date, got %q", d.Date)
	}
	if d.Time != "" {
		t.Fatalf("date-only message should leave the time slot empty, got %q", d.Time)
	}
	if d.Title != "dentist" {
		t.Fatalf("expected title dentist, got %q", d.Title)
	}
}
