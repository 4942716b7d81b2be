package convert

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	stanMu  sync.Mutex
	stanRnd = rand.New(rand.NewSource(int64(uuid.New().ID())))
)

// NewSTAN mints a random 6 digit system trace audit number.
func (c *Converter) NewSTAN() string {
	stanMu.Lock()
	defer stanMu.Unlock()
	return fmt.Sprintf("%06d", stanRnd.Intn(1000000))
}

// NewRRN mints a 12 character retrieval reference number from a nanosecond
// timestamp slice. Consecutive calls trend upward, which keeps RRNs loosely
// ordered across a settlement day.
func (c *Converter) NewRRN() string {
	return fmt.Sprintf("%012d", c.now().UnixNano()%1_000_000_000_000)
}

// NewMessageID mints a 35 character identifier: the 3 character bank
// participation prefix followed by 32 hex characters.
func (c *Converter) NewMessageID() string {
	return c.bpc + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// NewTxnID mints a transaction identifier in the same 35 character format.
func (c *Converter) NewTxnID() string {
	return c.NewMessageID()
}

// LocalStamp returns the DE12/DE13 local time (hhmmss) and date (MMdd).
func (c *Converter) LocalStamp() (string, string) {
	now := c.now()
	return now.Format("150405"), now.Format("0102")
}
