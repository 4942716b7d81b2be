package convert

import (
	"regexp"
	"testing"
	"time"
)

func TestNormalizeApproval(t *testing.T) {
	cases := []struct{ in, want string }{
		{"123456", "123456"},
		{"APPROVAL9876", "AL9876"}, // last 6 kept so the numeric suffix survives
		{"A1", "A10000"},
		{"", "000000"},
	}
	for _, tc := range cases {
		if got := NormalizeApproval(tc.in); got != tc.want {
			t.Errorf("NormalizeApproval(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeResponseCode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"00", "00"},
		{"M1", "M1"},
		{"5", "05"},
		{"U169", "69"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeResponseCode(tc.in); got != tc.want {
			t.Errorf("NormalizeResponseCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResultFromRespCode(t *testing.T) {
	if got := ResultFromRespCode("00"); got != "SUCCESS" {
		t.Errorf("ResultFromRespCode(00) = %q", got)
	}
	for _, code := range []string{"01", "96", "M1", ""} {
		if got := ResultFromRespCode(code); got != "FAILURE" {
			t.Errorf("ResultFromRespCode(%q) = %q, want FAILURE", code, got)
		}
	}
}

func testConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := New(Config{
		BPC:        "HDF",
		OrgID:      "HDFC0000001",
		TerminalID: "IMPS0001",
		Now:        func() time.Time { return time.Date(2026, 8, 30, 10, 45, 12, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestGeneratedIdentifierFormats(t *testing.T) {
	c := testConverter(t)

	msgID := c.NewMessageID()
	if len(msgID) != 35 {
		t.Fatalf("message id length = %d, want 35", len(msgID))
	}
	if !regexp.MustCompile(`^HDF[A-Z0-9]{32}$`).MatchString(msgID) {
		t.Fatalf("message id %q does not match BPC + 32 alphanumeric", msgID)
	}

	if stan := c.NewSTAN(); !regexp.MustCompile(`^\d{6}$`).MatchString(stan) {
		t.Fatalf("stan %q is not 6 digits", stan)
	}
	if rrn := c.NewRRN(); !regexp.MustCompile(`^\d{12}$`).MatchString(rrn) {
		t.Fatalf("rrn %q is not 12 digits", rrn)
	}

	ltime, ldate := c.LocalStamp()
	if ltime != "104512" || ldate != "0830" {
		t.Fatalf("local stamp = %q/%q, want 104512/0830", ltime, ldate)
	}
}
