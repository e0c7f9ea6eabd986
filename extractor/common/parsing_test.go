package common

import (
	"regexp"
	"testing"
	"time"
)

func TestParseAmount_ThaiSuffixAndSeparators(t *testing.T) {
	result, err := ParseAmount("1,234.50 บาท")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.StringFixed(2) != "1234.50" {
		t.Errorf("Expected '1234.50', got '%s'", result.StringFixed(2))
	}
}

func TestParseAmount_DiscardsSign(t *testing.T) {
	result, err := ParseAmount("-250.00")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.String() != "250" {
		t.Errorf("Expected '250', got '%s'", result.String())
	}
}

func TestParseAmount_Placeholder(t *testing.T) {
	if _, err := ParseAmount(Placeholder); err != ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestParseAmount_Garbage(t *testing.T) {
	if _, err := ParseAmount("นายสมชาย"); err != ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestParseDate_ThaiShortYear(t *testing.T) {
	got, err := ParseDate("12 ธ.ค. 68")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.December || got.Day() != 12 {
		t.Errorf("Expected 2025-12-12, got %s", got.Format("2006-01-02"))
	}
}

func TestParseDate_ThaiFullYearWithTime(t *testing.T) {
	got, err := ParseDate("1 มี.ค. 2568 - 09:15")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := time.Date(2025, time.March, 1, 9, 15, 0, 0, Bangkok)
	if !got.Equal(want) {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestParseDate_ThaiWithoutDots(t *testing.T) {
	got, err := ParseDate("5 มิย 67")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.June || got.Day() != 5 {
		t.Errorf("Expected 2024-06-05, got %s", got.Format("2006-01-02"))
	}
}

func TestParseDate_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-12-07 14:30:00", "2025-12-07 14:30"},
		{"2025-12-07", "2025-12-07 00:00"},
		{"07/12/2025", "2025-12-07 00:00"},
		{"07/12/2568", "2025-12-07 00:00"},
		{"7/12/68", "2025-12-07 00:00"},
		{"07-12-2025", "2025-12-07 00:00"},
		{"7 Dec 2025", "2025-12-07 00:00"},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if err != nil {
			t.Errorf("ParseDate(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got.Format("2006-01-02 15:04") != tt.want {
			t.Errorf("ParseDate(%q): expected %s, got %s", tt.in, tt.want, got.Format("2006-01-02 15:04"))
		}
	}
}

func TestParseDate_Unparseable(t *testing.T) {
	for _, in := range []string{"", Placeholder, "yesterday", "12 Foo 68"} {
		if _, err := ParseDate(in); err != ErrUnparseableDate {
			t.Errorf("ParseDate(%q): expected ErrUnparseableDate, got %v", in, err)
		}
	}
}

func TestMatchDate(t *testing.T) {
	re := regexp.MustCompile(DateTimePattern(` - `))

	got, ok := MatchDate(re, "12 ธ.ค. 68 - 14:30")
	if !ok {
		t.Fatal("Expected a match")
	}
	if got != "12 ธ.ค. 68" {
		t.Errorf("Expected '12 ธ.ค. 68', got '%s'", got)
	}

	if _, ok := MatchDate(re, "12 ธ.ค. 68 14:30"); ok {
		t.Error("Expected no match without the dash separator")
	}
}
