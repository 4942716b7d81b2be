package convert

import (
	"strings"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// RespCodeSuccess is the DE39 value signalling an approved transaction.
const RespCodeSuccess = "00"

// RespCodeSystemError is the DE39 value used when no concrete counterpart
// code is available for a failure.
const RespCodeSystemError = "96"

// NormalizeApproval fits an approval number into the fixed 6 character
// DE38 width. Longer values keep their last 6 characters so numeric
// suffixes of extended codes survive; shorter values are right padded.
func NormalizeApproval(approval string) string {
	approval = strings.TrimSpace(approval)
	if len(approval) > 6 {
		return approval[len(approval)-6:]
	}
	for len(approval) < 6 {
		approval += "0"
	}
	return approval
}

// NormalizeResponseCode fits a response code into the fixed 2 character
// DE39 width: last 2 characters when longer, left zero padded when a
// single character.
func NormalizeResponseCode(code string) string {
	code = strings.TrimSpace(code)
	switch {
	case len(code) > 2:
		return code[len(code)-2:]
	case len(code) == 1:
		return "0" + code
	default:
		return code
	}
}

// ResultFromRespCode maps DE39 to the XML result attribute: "00" is
// SUCCESS, everything else FAILURE.
func ResultFromRespCode(code string) string {
	if code == RespCodeSuccess {
		return npci.ResultSuccess
	}
	return npci.ResultFailure
}

// respCodeFor derives a DE39 value from a response block, preferring the
// explicit response code over the coarse result attribute.
func respCodeFor(resp npci.Resp) string {
	if code := NormalizeResponseCode(resp.RespCode); code != "" {
		return code
	}
	if resp.Result == npci.ResultSuccess {
		return RespCodeSuccess
	}
	return RespCodeSystemError
}
