package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// Common rule ids, applied to every request family.
const (
	RuleHeadVersion = "019_Head_Version"
	RuleHeadMsgTs   = "020_Head_MsgTs"
	RuleHeadMsgID   = "021_Head_MsgId"
	RuleTxnID       = "022_Txn_Id"
)

var (
	// isoTimestampPattern accepts ISO-8601 date-times with optional
	// fractional seconds and an optional Z or hh:mm offset. 12-hour clock
	// values never match.
	isoTimestampPattern = regexp.MustCompile(
		`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	meridiemPattern = regexp.MustCompile(`(?i)\b[AP]M\b`)

	// identifierPattern is the 35 character generated id format: a 3
	// character bank participation prefix followed by 32 alphanumerics.
	// The prefix is format checked only; it is not required to exist in
	// any registry, so new banks and test prefixes pass.
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9]{3}[A-Za-z0-9]{32}$`)
)

var headVersions = map[string]bool{"1.0": true, "2.0": true}

// ValidateCommon runs the common header rules over a parsed head and the
// transaction id. Every rule is evaluated; the result is nil or a
// *ValidationFailure carrying all violations.
func (e *Engine) ValidateCommon(head npci.Head, txnID string) error {
	return failureOrNil(e.commonViolations(head, txnID))
}

func (e *Engine) commonViolations(head npci.Head, txnID string) []Violation {
	var out []Violation

	if !headVersions[head.Ver] {
		out = append(out, Violation{
			RuleID:  RuleHeadVersion,
			Message: fmt.Sprintf("header version %q is not supported; expected 1.0 or 2.0", head.Ver),
		})
	}

	if meridiemPattern.MatchString(head.Ts) {
		out = append(out, Violation{
			RuleID:  RuleHeadMsgTs,
			Message: "header timestamp uses a 12-hour clock; ISO-8601 date-time required",
		})
	} else if !isoTimestampPattern.MatchString(strings.TrimSpace(head.Ts)) {
		out = append(out, Violation{
			RuleID:  RuleHeadMsgTs,
			Message: fmt.Sprintf("header timestamp %q is not an ISO-8601 date-time", head.Ts),
		})
	}

	if head.MsgID != "" && !identifierPattern.MatchString(head.MsgID) {
		out = append(out, Violation{
			RuleID:  RuleHeadMsgID,
			Message: fmt.Sprintf("message id must be 35 alphanumeric characters (3 char bank prefix + 32), got %d", len(head.MsgID)),
		})
	}

	if txnID != "" && !identifierPattern.MatchString(txnID) {
		out = append(out, Violation{
			RuleID:  RuleTxnID,
			Message: fmt.Sprintf("transaction id must be 35 alphanumeric characters (3 char bank prefix + 32), got %d", len(txnID)),
		})
	}

	return out
}
