package npci

import (
	"fmt"
	"strings"
)

// Family identifies one of the five IMPS transaction families. Each family
// has a request and a response leg.
type Family string

const (
	FamilyPay        Family = "PAY"
	FamilyChkTxn     Family = "CHKTXN"
	FamilyHbt        Family = "HBT"
	FamilyValAdd     Family = "VALADD"
	FamilyListAccPvd Family = "LISTACCPVD"
)

var routeToFamily = map[string]Family{
	"pay":        FamilyPay,
	"chktxn":     FamilyChkTxn,
	"hbt":        FamilyHbt,
	"valadd":     FamilyValAdd,
	"listaccpvd": FamilyListAccPvd,
}

var familyNames = map[Family]string{
	FamilyPay:        "Pay",
	FamilyChkTxn:     "ChkTxn",
	FamilyHbt:        "Hbt",
	FamilyValAdd:     "ValAdd",
	FamilyListAccPvd: "ListAccPvd",
}

// ParseFamily resolves a URL path segment to a transaction family.
func ParseFamily(segment string) (Family, error) {
	f, ok := routeToFamily[strings.ToLower(strings.TrimSpace(segment))]
	if !ok {
		return "", fmt.Errorf("unknown transaction family %q", segment)
	}
	return f, nil
}

// Route returns the lowercase URL path segment for the family.
func (f Family) Route() string {
	return strings.ToLower(string(f))
}

// RequestAPI returns the API name of the request leg, e.g. "ReqPay".
func (f Family) RequestAPI() string { return "Req" + familyNames[f] }

// ResponseAPI returns the API name of the response leg, e.g. "RespPay".
func (f Family) ResponseAPI() string { return "Resp" + familyNames[f] }

// Valid reports whether the family is one of the five supported values.
func (f Family) Valid() bool {
	_, ok := familyNames[f]
	return ok
}
