package iso8583

// FieldType classifies the content of a data element.
type FieldType int

const (
	// TypeNumeric holds ASCII digits, left padded with zeros to the fixed width.
	TypeNumeric FieldType = iota
	// TypeAlphanumeric holds printable ASCII, right padded with spaces when fixed.
	TypeAlphanumeric
	// TypeBinary holds raw bytes.
	TypeBinary
)

// LengthType selects the wire encoding of a data element's length.
type LengthType int

const (
	// LengthFixed emits exactly Width bytes with padding.
	LengthFixed LengthType = iota
	// LengthLLVAR emits a 2-digit ASCII length prefix, at most Width bytes.
	LengthLLVAR
	// LengthLLLVAR emits a 3-digit ASCII length prefix, at most Width bytes.
	LengthLLLVAR
)

// FieldDef describes one data element of the IMPS dialect. Width is the fixed
// width for LengthFixed fields and the maximum length for variable fields.
type FieldDef struct {
	Name   string
	Type   FieldType
	Length LengthType
	Width  int
}

// Well known data element indices used by the IMPS message set.
const (
	DEProcessingCode = 3
	DEAmount         = 4
	DESTAN           = 11
	DELocalTime      = 12
	DELocalDate      = 13
	DEFunctionCode   = 24
	DEAcquirerID     = 32
	DEForwarderID    = 33
	DERRN            = 37
	DEApprovalCode   = 38
	DEResponseCode   = 39
	DETerminalID     = 41
	DEPrivateData    = 48
	DECurrency       = 49
	DEPayerAccount   = 102
	DEPayeeAccount   = 103
	DERecordData     = 120
)

// catalog is the fixed IMPS data element table. Every participant must pack
// and unpack with this exact table: a mismatch between sender and receiver
// silently garbles every field after the first divergence.
var catalog = map[int]FieldDef{
	DEProcessingCode: {Name: "processing code", Type: TypeNumeric, Length: LengthFixed, Width: 6},
	DEAmount:         {Name: "amount", Type: TypeNumeric, Length: LengthFixed, Width: 12},
	DESTAN:           {Name: "stan", Type: TypeNumeric, Length: LengthFixed, Width: 6},
	DELocalTime:      {Name: "local time", Type: TypeNumeric, Length: LengthFixed, Width: 6},
	DELocalDate:      {Name: "local date", Type: TypeNumeric, Length: LengthFixed, Width: 4},
	DEFunctionCode:   {Name: "function code", Type: TypeNumeric, Length: LengthFixed, Width: 3},
	DEAcquirerID:     {Name: "acquirer institution id", Type: TypeAlphanumeric, Length: LengthLLVAR, Width: 11},
	DEForwarderID:    {Name: "forwarder institution id", Type: TypeAlphanumeric, Length: LengthLLVAR, Width: 11},
	DERRN:            {Name: "retrieval reference number", Type: TypeAlphanumeric, Length: LengthFixed, Width: 12},
	DEApprovalCode:   {Name: "approval code", Type: TypeAlphanumeric, Length: LengthFixed, Width: 6},
	DEResponseCode:   {Name: "response code", Type: TypeAlphanumeric, Length: LengthFixed, Width: 2},
	DETerminalID:     {Name: "terminal id", Type: TypeAlphanumeric, Length: LengthFixed, Width: 8},
	DEPrivateData:    {Name: "private additional data", Type: TypeAlphanumeric, Length: LengthLLLVAR, Width: 999},
	DECurrency:       {Name: "currency", Type: TypeAlphanumeric, Length: LengthFixed, Width: 3},
	DEPayerAccount:   {Name: "payer account", Type: TypeAlphanumeric, Length: LengthLLVAR, Width: 28},
	DEPayeeAccount:   {Name: "payee account", Type: TypeAlphanumeric, Length: LengthLLVAR, Width: 28},
	DERecordData:     {Name: "record data", Type: TypeAlphanumeric, Length: LengthLLLVAR, Width: 999},
}

// Definition returns the catalog entry for the given data element index.
func Definition(field int) (FieldDef, bool) {
	def, ok := catalog[field]
	return def, ok
}
