package convert

import "strings"

// DE48/DE120 carry pipe separated key=value records. DE120 holds the
// correlation record (original transaction and message ids) so that a
// counterpart echoing it lets an asynchronous response find its way back.
const (
	keyTxnID    = "id"
	keyMsgID    = "msgId"
	keyCustRef  = "ref"
	keyRefCat   = "cat"
	keyInitMode = "mode"
	keyOrgTxnID = "org"
	keyNote     = "note"
	keyCustName = "name"
	keyMasked   = "mask"
)

func kvJoin(pairs [][2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		parts = append(parts, p[0]+"="+p[1])
	}
	return strings.Join(parts, "|")
}

func kvGet(record, key string) string {
	for _, part := range strings.Split(record, "|") {
		if k, v, ok := strings.Cut(part, "="); ok && k == key {
			return v
		}
	}
	return ""
}

// correlationRecord builds the DE120 value for an outbound request.
func correlationRecord(txnID, msgID, custRef string) string {
	return kvJoin([][2]string{
		{keyTxnID, txnID},
		{keyMsgID, msgID},
		{keyCustRef, custRef},
	})
}
