package pricelog

import (
	"testing"

	"github.com/SqueakyMcSqueeze/stocks-pwa/internal/calendar"
)

func TestRecordPriceLastWriteWins(t *testing.T) {
	l := New()
	day := calendar.MustParse("2024-01-10")

	l.RecordPrice("AAPL", 150, day)
	l.RecordPrice("AAPL", 152.5, day)

	entries := l.Entries("AAPL")
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Price != 152.5 {
		t.Errorf("price = %v, want 152.5", entries[0].Price)
	}
}

func TestHasLoggedToday(t *testing.T) {
	l := New()
	today := calendar.MustParse("2024-01-10")

	if l.HasLoggedToday([]string{"AAPL", "MSFT"}, today) {
		t.Fatal("empty log reported as logged")
	}

	l.RecordPrice("MSFT", 380, today.AddDays(-1))
	if l.HasLoggedToday([]string{"AAPL", "MSFT"}, today) {
		t.Fatal("yesterday's entry counted as today")
	}

	l.RecordPrice("MSFT", 381, today)
	if !l.HasLoggedToday([]string{"AAPL", "MSFT"}, today) {
		t.Fatal("one logged symbol should gate the whole set")
	}
	if l.HasLoggedToday([]string{"AAPL"}, today) {
		t.Fatal("symbol outside the set should not count")
	}

	l.Reset()
	if l.HasLoggedToday([]string{"MSFT"}, today) {
		t.Fatal("reset log still reports today's entry")
	}
	if len(l) != 0 {
		t.Fatalf("len after reset = %d", len(l))
	}
}

func TestEntriesSortedAndSkipsBadKeys(t *testing.T) {
	l := Log{"AAPL": {
		"2024-01-10": 160,
		"2024-01-01": 150,
		"garbage":    1,
		"2023-12-31": 149,
	}}

	entries := l.Entries("AAPL")
	want := []string{"2023-12-31", "2024-01-01", "2024-01-10"}
	if len(entries) != len(want) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].Date.String() != w {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].Date, w)
		}
	}
}

func TestDates(t *testing.T) {
	l := Log{
		"AAPL": {"2024-01-02": 1, "2024-01-01": 1},
		"MSFT": {"2024-01-02": 1, "2024-01-03": 1},
	}
	got := l.Dates()
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if len(got) != len(want) {
		t.Fatalf("Dates() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Dates()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
