package convert

import (
	"strconv"
	"strings"
)

// RupeesToPaise converts a decimal rupee string into integer minor units,
// truncating anything below one paisa. Malformed or blank input degrades to
// zero rather than failing: the wire side then carries an all-zero amount.
func RupeesToPaise(amount string) int64 {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0
	}
	whole, frac, _ := strings.Cut(amount, ".")
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || rupees < 0 {
		return 0
	}
	paise := rupees * 100
	if frac != "" {
		// Only the first two fractional digits count; sub-paisa is truncated.
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		p, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0
		}
		paise += p
	}
	return paise
}

// PaiseToRupees converts a minor unit string (DE4) into a two decimal rupee
// string. Missing or unparseable input degrades to "0.00".
func PaiseToRupees(paise string) string {
	paise = strings.TrimSpace(paise)
	if paise == "" {
		return "0.00"
	}
	n, err := strconv.ParseInt(paise, 10, 64)
	if err != nil || n < 0 {
		return "0.00"
	}
	return strconv.FormatInt(n/100, 10) + "." + pad2(n%100)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
