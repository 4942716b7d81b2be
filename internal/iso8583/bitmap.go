package iso8583

const (
	bitmapBytes    = 16
	maxFieldNumber = 128
)

// bitmap is the 128-bit dual bitmap of the IMPS dialect. The secondary half
// is always present on the wire, so bit 1 is forced on whenever the bitmap
// is packed.
type bitmap [bitmapBytes]byte

func (b *bitmap) set(field int) {
	if field < 1 || field > maxFieldNumber {
		return
	}
	byteIndex := (field - 1) / 8
	bitIndex := 7 - ((field - 1) % 8)
	b[byteIndex] |= 1 << bitIndex
}

func (b *bitmap) isSet(field int) bool {
	if field < 1 || field > maxFieldNumber {
		return false
	}
	byteIndex := (field - 1) / 8
	bitIndex := 7 - ((field - 1) % 8)
	return b[byteIndex]&(1<<bitIndex) != 0
}

// presentFields lists the set field numbers in ascending order, skipping
// bit 1 which only signals the secondary bitmap.
func (b *bitmap) presentFields() []int {
	fields := make([]int, 0, 16)
	for field := 2; field <= maxFieldNumber; field++ {
		if b.isSet(field) {
			fields = append(fields, field)
		}
	}
	return fields
}
