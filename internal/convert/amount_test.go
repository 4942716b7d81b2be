package convert

import "testing"

func TestRupeesToPaise(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1234.56", 123456},
		{"100", 10000},
		{"0.01", 1},
		{"100.999", 10099}, // sub-paisa truncated, never rounded
		{"0.1", 10},
		{"", 0},
		{"abc", 0},
		{"-5.00", 0},
		{"  42.00  ", 4200},
	}
	for _, tc := range cases {
		if got := RupeesToPaise(tc.in); got != tc.want {
			t.Errorf("RupeesToPaise(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPaiseToRupees(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"000000100000", "1000.00"},
		{"000000000001", "0.01"},
		{"000000123456", "1234.56"},
		{"", "0.00"},
		{"garbage", "0.00"},
		{"000000000000", "0.00"},
	}
	for _, tc := range cases {
		if got := PaiseToRupees(tc.in); got != tc.want {
			t.Errorf("PaiseToRupees(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
