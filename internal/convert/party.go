package convert

import (
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// Keys recording each party's address type in DE48 so the inverse mapping
// can rebuild the right identity branch.
const (
	keyPayerAddr = "payerAddr"
	keyPayeeAddr = "payeeAddr"
)

// instCode resolves the institution id (DE32/DE33) for a party: the IFSC of
// an account identity when present, otherwise the gateway org id.
func (c *Converter) instCode(p *npci.Party) string {
	if p != nil && p.Ac != nil {
		if ifsc := p.Ac.Detail(npci.DetailIFSC); ifsc != "" {
			return ifsc
		}
	}
	return c.orgID
}

// partyAccount flattens a party identity into the DE102/DE103 value:
// the account number for account identities, mobile number plus MMID for
// mobile identities.
func partyAccount(p *npci.Party) string {
	if p == nil || p.Ac == nil {
		return ""
	}
	if p.Ac.AddrType == npci.AddrTypeMobile {
		return p.Ac.Detail(npci.DetailMobNum) + p.Ac.Detail(npci.DetailMMID)
	}
	return p.Ac.Detail(npci.DetailAcNum)
}

// partyFromWire rebuilds a party block from the flattened DE value and the
// institution id of the matching DE32/DE33 element.
func partyFromWire(account, inst, addrType string) npci.Party {
	if addrType == "" {
		addrType = npci.AddrTypeAccount
	}
	ac := &npci.Ac{AddrType: addrType}
	if addrType == npci.AddrTypeMobile && len(account) >= 12 {
		ac.SetDetail(npci.DetailMobNum, account[:12])
		ac.SetDetail(npci.DetailMMID, account[12:])
	} else {
		ac.SetDetail(npci.DetailIFSC, inst)
		ac.SetDetail(npci.DetailAcType, "SAVINGS")
		ac.SetDetail(npci.DetailAcNum, account)
	}
	return npci.Party{Type: "PERSON", Code: "0000", Ac: ac}
}

// partyAddrType returns the address type of a party, "" when unknown.
func partyAddrType(p *npci.Party) string {
	if p == nil || p.Ac == nil {
		return ""
	}
	return p.Ac.AddrType
}

type fieldValue struct {
	field int
	value string
}

// setAll applies the field/value pairs in order, skipping empty values, and
// wraps the first failure as a ConversionError for the family.
func setAll(msg *iso8583.Message, family npci.Family, pairs []fieldValue) error {
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		if err := msg.Set(p.field, p.value); err != nil {
			return convErr(family, err)
		}
	}
	return nil
}
