package iso8583

import (
	"errors"
	"strings"
	"testing"
)

func sampleMessage(t *testing.T) *Message {
	t.Helper()
	msg := NewMessage("0200")
	fields := map[int]string{
		DEProcessingCode: "400000",
		DEAmount:         "000000123456",
		DESTAN:           "123456",
		DELocalTime:      "104512",
		DELocalDate:      "0830",
		DEFunctionCode:   "401",
		DEAcquirerID:     "HDFC0000001",
		DEForwarderID:    "ICIC0000042",
		DERRN:            "202608301045",
		DETerminalID:     "IMPS0001",
		DEPrivateData:    "ref=INV-2026-001",
		DECurrency:       "356",
		DEPayerAccount:   "123456789012",
		DEPayeeAccount:   "987654321098",
		DERecordData:     `id="HDF1234"|msgId="HDF5678"`,
	}
	for f, v := range fields {
		if err := msg.Set(f, v); err != nil {
			t.Fatalf("Set(%d): %v", f, err)
		}
	}
	return msg
}

func TestPackUnpackRoundTrip(t *testing.T) {
	msg := sampleMessage(t)

	packed, err := msg.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	got, err := Unpack(packed)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got.MTI() != "0200" {
		t.Fatalf("MTI = %q, want 0200", got.MTI())
	}
	for _, f := range msg.Fields() {
		want := msg.GetString(f)
		if v := got.GetString(f); v != want {
			t.Errorf("DE%d = %q, want %q", f, v, want)
		}
	}
	if len(got.Fields()) != len(msg.Fields()) {
		t.Fatalf("field count = %d, want %d", len(got.Fields()), len(msg.Fields()))
	}
}

func TestPackDeterministic(t *testing.T) {
	msg := sampleMessage(t)
	first, err := msg.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	second, err := msg.Pack()
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("packing the same message twice produced different bytes")
	}
}

func TestSetRejectsUncatalogedField(t *testing.T) {
	msg := NewMessage("0200")
	err := msg.Set(2, "4111111111111111")
	if err == nil {
		t.Fatal("expected error for field outside catalog")
	}
	if !errors.Is(err, ErrFieldNotCataloged) {
		t.Fatalf("err = %v, want ErrFieldNotCataloged", err)
	}
	var ce *CodecError
	if !errors.As(err, &ce) || ce.Field != 2 {
		t.Fatalf("expected CodecError for field 2, got %v", err)
	}
}

func TestSetRejectsOverlongValue(t *testing.T) {
	msg := NewMessage("0200")
	if err := msg.Set(DEAcquirerID, "TOOLONGBANKCODE9"); !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("err = %v, want ErrFieldTooLong", err)
	}
}

func TestSetReplacesValue(t *testing.T) {
	msg := NewMessage("0200")
	if err := msg.Set(DESTAN, "111111"); err != nil {
		t.Fatal(err)
	}
	if err := msg.Set(DESTAN, "222222"); err != nil {
		t.Fatal(err)
	}
	if v := msg.GetString(DESTAN); v != "222222" {
		t.Fatalf("DE11 = %q, want replacement value", v)
	}
}

func TestUnpackCorruptLengthPrefix(t *testing.T) {
	msg := NewMessage("0200")
	if err := msg.Set(DEAcquirerID, "HDFC0000001"); err != nil {
		t.Fatal(err)
	}
	packed, err := msg.Pack()
	if err != nil {
		t.Fatal(err)
	}
	// DE32 is the only field: its 2-digit length prefix starts right after
	// MTI and bitmap.
	packed[4+bitmapBytes] = 'X'

	if _, err := Unpack(packed); !errors.Is(err, ErrBadLengthPrefix) {
		t.Fatalf("err = %v, want ErrBadLengthPrefix", err)
	}
}

func TestUnpackTruncatedFixedField(t *testing.T) {
	msg := NewMessage("0210")
	if err := msg.Set(DEAmount, "000000000100"); err != nil {
		t.Fatal(err)
	}
	packed, err := msg.Pack()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unpack(packed[:len(packed)-5]); !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestUnpackUnknownBitmapBit(t *testing.T) {
	msg := NewMessage("0200")
	if err := msg.Set(DESTAN, "123456"); err != nil {
		t.Fatal(err)
	}
	packed, err := msg.Pack()
	if err != nil {
		t.Fatal(err)
	}
	// Flip the bit for DE2, which is not in the catalog.
	packed[4] |= 1 << 6

	if _, err := Unpack(packed); !errors.Is(err, ErrFieldNotCataloged) {
		t.Fatalf("err = %v, want ErrFieldNotCataloged", err)
	}
}

func TestPackInvalidMTI(t *testing.T) {
	msg := NewMessage("02A0")
	if _, err := msg.Pack(); !errors.Is(err, ErrInvalidMTI) {
		t.Fatalf("err = %v, want ErrInvalidMTI", err)
	}
}

func TestFixedFieldPadding(t *testing.T) {
	msg := NewMessage("0210")
	if err := msg.SetNumeric(DEAmount, 123456); err != nil {
		t.Fatal(err)
	}
	if err := msg.Set(DEApprovalCode, "A1"); err != nil {
		t.Fatal(err)
	}
	packed, err := msg.Pack()
	if err != nil {
		t.Fatal(err)
	}
	body := string(packed[4+bitmapBytes:])
	if !strings.HasPrefix(body, "000000123456") {
		t.Fatalf("amount not left zero padded: %q", body)
	}
	if !strings.Contains(body, "A1    ") {
		t.Fatalf("approval not right space padded: %q", body)
	}

	got, err := Unpack(packed)
	if err != nil {
		t.Fatal(err)
	}
	if v := got.GetString(DEApprovalCode); v != "A1" {
		t.Fatalf("DE38 = %q, want trailing padding stripped", v)
	}
}
