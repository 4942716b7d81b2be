// Package convert maps parsed NPCI XML documents to ISO 8583 messages and
// back, one converter pair per transaction family. Conversion is
// all-or-nothing: a failure never leaves a partially built output that could
// be sent onward.
package convert

import (
	"errors"
	"fmt"
	"time"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// MTIs per family. Requests mint correlation identifiers, responses echo them.
const (
	MTIPayRequest         = "0200"
	MTIPayResponse        = "0210"
	MTIChkTxnRequest      = "0220"
	MTIChkTxnResponse     = "0230"
	MTIValAddRequest      = "0100"
	MTIValAddResponse     = "0110"
	MTIHbtRequest         = "0800"
	MTIHbtResponse        = "0810"
	MTIListAccPvdRequest  = "0820"
	MTIListAccPvdResponse = "0830"
)

// Processing codes (DE3) and function codes (DE24) per family.
const (
	ProcCodePay        = "400000"
	ProcCodeChkTxn     = "380000"
	ProcCodeValAdd     = "310000"
	FuncCodePay        = "401"
	FuncCodeChkTxn     = "402"
	FuncCodeValAdd     = "403"
	FuncCodeHbt        = "831"
	FuncCodeListAccPvd = "832"
)

// CurrencyINR is the only currency the IMPS scheme settles in (DE49).
const CurrencyINR = "356"

// timeLayout is the header/transaction timestamp format.
const timeLayout = time.RFC3339

var errMissingParty = errors.New("missing payer or payee block")

// ConversionError reports a failed conversion together with the message
// family it occurred in.
type ConversionError struct {
	Family npci.Family
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Family, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func convErr(family npci.Family, err error) error {
	return &ConversionError{Family: family, Err: err}
}

// Echo carries the correlation identifiers of the original outbound ISO
// message. Response legs must echo these instead of minting new ones.
type Echo struct {
	STAN      string
	RRN       string
	LocalTime string
	LocalDate string
}

// Config parameterizes a Converter.
type Config struct {
	// BPC is the 3 character bank participation prefix of generated ids.
	BPC string
	// OrgID names this gateway in generated headers and is the fallback
	// institution code when a party carries none.
	OrgID string
	// TerminalID is the fixed 8 character DE41 value.
	TerminalID string
	// Now supplies timestamps; defaults to time.Now.
	Now func() time.Time
}

// Converter implements the ten XML to ISO mappings and their inverses.
type Converter struct {
	bpc      string
	orgID    string
	terminal string
	now      func() time.Time
}

// New constructs a Converter from the supplied configuration.
func New(cfg Config) (*Converter, error) {
	if len(cfg.BPC) != 3 {
		return nil, fmt.Errorf("convert: bank participation code must be 3 characters, got %q", cfg.BPC)
	}
	if cfg.OrgID == "" {
		return nil, errors.New("convert: org id is required")
	}
	if cfg.TerminalID == "" {
		return nil, errors.New("convert: terminal id is required")
	}
	nowFunc := cfg.Now
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Converter{
		bpc:      cfg.BPC,
		orgID:    cfg.OrgID,
		terminal: cfg.TerminalID,
		now:      nowFunc,
	}, nil
}

// head builds a fresh outbound header.
func (c *Converter) head() npci.Head {
	return npci.Head{
		Ver:      "2.0",
		Ts:       c.now().Format(time.RFC3339),
		OrgID:    c.orgID,
		MsgID:    c.NewMessageID(),
		ProdType: "IMPS",
	}
}
