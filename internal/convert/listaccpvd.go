package convert

import (
	"strings"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// ReqListAccPvdToISO maps an account provider listing request onto an 0820
// message.
func (c *Converter) ReqListAccPvdToISO(doc *npci.ReqListAccPvd) (*iso8583.Message, error) {
	ltime, ldate := c.LocalStamp()
	msg := iso8583.NewMessage(MTIListAccPvdRequest)
	err := setAll(msg, npci.FamilyListAccPvd, []fieldValue{
		{iso8583.DESTAN, c.NewSTAN()},
		{iso8583.DELocalTime, ltime},
		{iso8583.DELocalDate, ldate},
		{iso8583.DEFunctionCode, FuncCodeListAccPvd},
		{iso8583.DERRN, c.NewRRN()},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Head.MsgID, "")},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ReqListAccPvdFromISO rebuilds a listing request from an inbound 0820
// message.
func (c *Converter) ReqListAccPvdFromISO(msg *iso8583.Message) (*npci.ReqListAccPvd, error) {
	txnID := kvGet(msg.GetString(iso8583.DERecordData), keyTxnID)
	if txnID == "" {
		txnID = c.NewTxnID()
	}
	doc := &npci.ReqListAccPvd{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:   txnID,
			Ts:   c.now().Format(timeLayout),
			Type: string(npci.FamilyListAccPvd),
		},
	}
	return doc, nil
}

// RespListAccPvdToISO maps a listing response onto an 0830 message. The
// provider directory is flattened into the private data element.
func (c *Converter) RespListAccPvdToISO(doc *npci.RespListAccPvd, echo Echo) (*iso8583.Message, error) {
	msg := iso8583.NewMessage(MTIListAccPvdResponse)
	err := setAll(msg, npci.FamilyListAccPvd, []fieldValue{
		{iso8583.DESTAN, echo.STAN},
		{iso8583.DELocalTime, echo.LocalTime},
		{iso8583.DELocalDate, echo.LocalDate},
		{iso8583.DEFunctionCode, FuncCodeListAccPvd},
		{iso8583.DERRN, echo.RRN},
		{iso8583.DEResponseCode, respCodeFor(doc.Resp)},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DEPrivateData, encodeProviders(doc.Providers)},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Resp.ReqMsgID, "")},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// RespListAccPvdFromISO rebuilds a listing response from an inbound 0830
// message.
func (c *Converter) RespListAccPvdFromISO(msg *iso8583.Message) (*npci.RespListAccPvd, error) {
	record := msg.GetString(iso8583.DERecordData)
	code := NormalizeResponseCode(msg.GetString(iso8583.DEResponseCode))
	doc := &npci.RespListAccPvd{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:   kvGet(record, keyTxnID),
			Ts:   c.now().Format(timeLayout),
			Type: string(npci.FamilyListAccPvd),
		},
		Resp: npci.Resp{
			ReqMsgID: kvGet(record, keyMsgID),
			Result:   ResultFromRespCode(code),
			RespCode: code,
		},
		Providers: parseProviders(msg.GetString(iso8583.DEPrivateData)),
	}
	return doc, nil
}

// encodeProviders flattens the directory as name~iin~ifsc~active entries
// separated by semicolons.
func encodeProviders(providers []npci.AccPvd) string {
	entries := make([]string, 0, len(providers))
	for _, p := range providers {
		entries = append(entries, strings.Join([]string{p.Name, p.IIN, p.IFSC, p.Active}, "~"))
	}
	return strings.Join(entries, ";")
}

func parseProviders(encoded string) []npci.AccPvd {
	if encoded == "" {
		return nil
	}
	var out []npci.AccPvd
	for _, entry := range strings.Split(encoded, ";") {
		parts := strings.Split(entry, "~")
		if len(parts) != 4 || parts[0] == "" {
			continue
		}
		out = append(out, npci.AccPvd{Name: parts[0], IIN: parts[1], IFSC: parts[2], Active: parts[3]})
	}
	return out
}
