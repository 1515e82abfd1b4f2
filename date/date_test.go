package date

import (
	"slices"
	"testing"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestDays(t *testing.T) {
	testCases := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-01-01", 0},
		{"2024-01-01", "2025-01-01", 366}, // leap year
		{"2025-01-01", "2026-01-01", 365},
		{"2025-3-1", "2025-2-1", -28},
	}
	for _, tc := range testCases {
		if got := Days(MustParse(tc.start), MustParse(tc.end)); got != tc.want {
			t.Errorf("Days(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if got, want := d.String(), "2025-07-01"; got != want {
		t.Errorf("Parse(2025-7-1) = %s, want %s", got, want)
	}
	if _, err := Parse("01/07/2025"); err == nil {
		t.Errorf("Parse(01/07/2025) expected an error")
	}
}

func TestUnion(t *testing.T) {
	a := []Date{New(2025, 1, 1), New(2026, 1, 1), New(2027, 1, 1)}
	b := []Date{New(2025, 7, 1), New(2026, 1, 1)}
	var c []Date

	got := slices.Collect(Union(a, b, c))
	want := []Date{New(2025, 1, 1), New(2025, 7, 1), New(2026, 1, 1), New(2027, 1, 1)}
	if !slices.Equal(got, want) {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}
