package rules

import (
	"fmt"
	"regexp"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// Fund transfer family rule ids, layered on top of the common rules.
const (
	RulePartyType   = "041_ReqPay_Party_Type"
	RulePartyCode   = "042_ReqPay_Party_Code"
	RulePartyRating = "043_ReqPay_Party_Rating"
	RuleDeviceType  = "044_ReqPay_Device_Type"
	RuleDeviceID    = "045_ReqPay_Device_Id"
	RuleProdType    = "046_ReqPay_ProdType"
	RuleRefCategory = "047_ReqPay_RefCategory"
	RuleAccountID   = "048_ReqPay_Account_Details"
	RuleMobileID    = "049_ReqPay_Mobile_Details"
	RuleInstitution = "050_ReqPay_Institution"
	RuleAmountValue = "051_ReqPay_Amount_Value"
)

var (
	entityCodePattern  = regexp.MustCompile(`^\d{4}$`)
	amountPattern      = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	refCategoryPattern = regexp.MustCompile(`^0[0-9]$`)
	accountNumPattern  = regexp.MustCompile(`^\d{1,30}$`)
	mobileNumPattern   = regexp.MustCompile(`^\d{12}$`)
	mmidPattern        = regexp.MustCompile(`^\d{7}$`)
)

var partyTypes = map[string]bool{"PERSON": true, "ENTITY": true}

var deviceTypes = map[string]bool{
	"MOB": true, "INET": true, "USSD": true, "ATM": true,
	"WAP": true, "POS": true, "MATM": true, "SMS": true,
}

var prodTypes = map[string]bool{"UPI": true, "IMPS": true, "AEPS": true}

var accountTypes = map[string]bool{
	"SAVINGS": true, "CURRENT": true, "DEFAULT": true, "NRE": true,
	"NRO": true, "CREDIT": true, "SOD": true, "UOD": true,
	"PPIWALLET": true, "BANKWALLET": true, "LOAN": true, "FDA": true,
	"RDA": true,
}

var institutionTypes = map[string]bool{"MTO": true, "BANK": true}
var institutionRoutes = map[string]bool{"MTSS": true, "RDA": true}

// initiationModeFirstTime marks a first-time/registered remittance flow,
// which requires an accompanying institution block.
const initiationModeFirstTime = "01"

// ValidateReqPay runs the common rules followed by the fund transfer family
// rules over a parsed ReqPay document. All rules are evaluated; the result
// is nil or a *ValidationFailure listing every violation.
func (e *Engine) ValidateReqPay(doc *npci.ReqPay) error {
	violations := e.commonViolations(doc.Head, doc.Txn.ID)
	violations = append(violations, e.reqPayViolations(doc)...)
	if err := failureOrNil(violations); err != nil {
		e.logger.Debug().
			Int("violations", len(violations)).
			Str("txn_id", doc.Txn.ID).
			Msg("fund transfer request failed validation")
		return err
	}
	return nil
}

func (e *Engine) reqPayViolations(doc *npci.ReqPay) []Violation {
	var out []Violation

	if !prodTypes[doc.Head.ProdType] {
		out = append(out, Violation{
			RuleID:  RuleProdType,
			Message: fmt.Sprintf("product type %q is not one of UPI, IMPS, AEPS", doc.Head.ProdType),
		})
	}

	if doc.Txn.Type == "PAY" || doc.Txn.Type == "CREDIT" {
		if !refCategoryPattern.MatchString(doc.Txn.RefCategory) {
			out = append(out, Violation{
				RuleID:  RuleRefCategory,
				Message: fmt.Sprintf("reference category %q must be a zero padded 2 digit number 00-09", doc.Txn.RefCategory),
			})
		}
	}

	out = append(out, partyViolations("payer", &doc.Payer)...)
	if payee := doc.Payee(); payee != nil {
		out = append(out, partyViolations("payee", payee)...)
	} else {
		out = append(out, Violation{RuleID: RulePartyType, Message: "payee block is missing"})
	}

	amount := ""
	if doc.Payer.Amount != nil {
		amount = doc.Payer.Amount.Value
	} else if payee := doc.Payee(); payee != nil && payee.Amount != nil {
		amount = payee.Amount.Value
	}
	if !amountPattern.MatchString(amount) {
		out = append(out, Violation{
			RuleID:  RuleAmountValue,
			Message: fmt.Sprintf("amount %q must be a non-negative decimal with at most 2 fractional digits", amount),
		})
	}

	if doc.Txn.InitiationMode == initiationModeFirstTime {
		if doc.Institution == nil {
			out = append(out, Violation{
				RuleID:  RuleInstitution,
				Message: "first-time flow requires an institution block",
			})
		} else {
			if !institutionTypes[doc.Institution.Type] {
				out = append(out, Violation{
					RuleID:  RuleInstitution,
					Message: fmt.Sprintf("institution type %q must be MTO or BANK", doc.Institution.Type),
				})
			}
			if !institutionRoutes[doc.Institution.Route] {
				out = append(out, Violation{
					RuleID:  RuleInstitution,
					Message: fmt.Sprintf("institution route %q must be MTSS or RDA", doc.Institution.Route),
				})
			}
		}
	}

	return out
}

func partyViolations(role string, p *npci.Party) []Violation {
	var out []Violation

	if !partyTypes[p.Type] {
		out = append(out, Violation{
			RuleID:  RulePartyType,
			Message: fmt.Sprintf("%s type %q must be PERSON or ENTITY", role, p.Type),
		})
	}
	switch p.Type {
	case "PERSON":
		if p.Code != "0000" {
			out = append(out, Violation{
				RuleID:  RulePartyCode,
				Message: fmt.Sprintf("%s code must be 0000 for PERSON, got %q", role, p.Code),
			})
		}
	case "ENTITY":
		if !entityCodePattern.MatchString(p.Code) {
			out = append(out, Violation{
				RuleID:  RulePartyCode,
				Message: fmt.Sprintf("%s code must be a 4 digit code for ENTITY, got %q", role, p.Code),
			})
		}
	}

	if p.Info != nil && p.Info.Rating != nil && p.Info.Rating.VerifiedAddress != "" {
		if v := p.Info.Rating.VerifiedAddress; v != "TRUE" && v != "FALSE" {
			out = append(out, Violation{
				RuleID:  RulePartyRating,
				Message: fmt.Sprintf("%s rating flag %q must be TRUE or FALSE", role, v),
			})
		}
	}

	if devType := p.Device.Tag("TYPE"); devType != "" {
		if !deviceTypes[devType] || len(devType) > 20 {
			out = append(out, Violation{
				RuleID:  RuleDeviceType,
				Message: fmt.Sprintf("%s device type %q is not a recognised device type", role, devType),
			})
		}
	}
	if devID := p.Device.Tag("ID"); devID != "" && len(devID) > 35 {
		out = append(out, Violation{
			RuleID:  RuleDeviceID,
			Message: fmt.Sprintf("%s device id exceeds 35 characters", role),
		})
	}

	out = append(out, identityViolations(role, p.Ac)...)
	return out
}

func identityViolations(role string, ac *npci.Ac) []Violation {
	if ac == nil {
		return nil
	}
	var out []Violation
	switch ac.AddrType {
	case npci.AddrTypeAccount:
		if ifsc := ac.Detail(npci.DetailIFSC); len(ifsc) != 11 {
			out = append(out, Violation{
				RuleID:  RuleAccountID,
				Message: fmt.Sprintf("%s institution code %q must be 11 characters", role, ifsc),
			})
		}
		if acType := ac.Detail(npci.DetailAcType); !accountTypes[acType] {
			out = append(out, Violation{
				RuleID:  RuleAccountID,
				Message: fmt.Sprintf("%s account type %q is not a recognised account type", role, acType),
			})
		}
		if acNum := ac.Detail(npci.DetailAcNum); !accountNumPattern.MatchString(acNum) {
			out = append(out, Violation{
				RuleID:  RuleAccountID,
				Message: fmt.Sprintf("%s account number must be 1-30 digits", role),
			})
		}
	case npci.AddrTypeMobile:
		if mob := ac.Detail(npci.DetailMobNum); !mobileNumPattern.MatchString(mob) {
			out = append(out, Violation{
				RuleID:  RuleMobileID,
				Message: fmt.Sprintf("%s mobile number must be 12 digits (country code + 10)", role),
			})
		}
		if mmid := ac.Detail(npci.DetailMMID); !mmidPattern.MatchString(mmid) {
			out = append(out, Violation{
				RuleID:  RuleMobileID,
				Message: fmt.Sprintf("%s wallet routing code must be 7 digits", role),
			})
		}
	}
	return out
}
