package ingest

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"05/03/2024", "2024-03-05"},
		{"2024-03-05", "2024-03-05"},
		{"31/12/1999", "1999-12-31"},
		{"", ""},
		{"not a date", "not a date"},
		{"13/13/2024", "13/13/2024"},
		{"2024-02-30", "2024-02-30"},
	}
	for _, tc := range cases {
		if got := ParseDate(tc.in); got != tc.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDateIdempotent(t *testing.T) {
	inputs := []string{"05/03/2024", "2024-03-05", "01/01/2000", "garbage"}
	for _, in := range inputs {
		once := ParseDate(in)
		if twice := ParseDate(once); twice != once {
			t.Errorf("ParseDate not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestParseIntDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"1,234", 0, 1234},
		{"12.0", 0, 12},
		{"12.9", 0, 12},
		{"42", 0, 42},
		{"", 7, 7},
		{"n/a", 7, 7},
		{"NA", 7, 7},
		{"none", 7, 7},
		{"  15 ", 0, 15},
		{"abc", 3, 3},
	}
	for _, tc := range cases {
		if got := ParseIntDefault(tc.in, tc.def); got != tc.want {
			t.Errorf("ParseIntDefault(%q, %d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestIsClosedStatus(t *testing.T) {
	closed := []string{"Closed", "closed", "done", "Executed", "Signed - pending countersign", "Complete", "Closing out"}
	for _, s := range closed {
		if !IsClosedStatus(s) {
			t.Errorf("IsClosedStatus(%q) = false, want true", s)
		}
	}
	open := []string{"Open", "In review", "Drafting", "", "On hold"}
	for _, s := range open {
		if IsClosedStatus(s) {
			t.Errorf("IsClosedStatus(%q) = true, want false", s)
		}
	}
}

func TestCycleDays(t *testing.T) {
	cases := []struct {
		received, closed string
		want             int
	}{
		{"2024-01-01", "2024-01-11", 10},
		{"2024-01-11", "2024-01-01", 0},
		{"2024-01-01", "2024-01-01", 0},
		{"", "2024-01-01", 0},
		{"2024-01-01", "", 0},
		{"junk", "2024-01-01", 0},
	}
	for _, tc := range cases {
		if got := CycleDays(tc.received, tc.closed); got != tc.want {
			t.Errorf("CycleDays(%q, %q) = %d, want %d", tc.received, tc.closed, got, tc.want)
		}
	}
}
