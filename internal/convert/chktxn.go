package convert

import (
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// ReqChkTxnToISO maps a status check request onto an outbound 0220 message.
// The transaction under query travels in the private data record.
func (c *Converter) ReqChkTxnToISO(doc *npci.ReqChkTxn) (*iso8583.Message, error) {
	ltime, ldate := c.LocalStamp()
	msg := iso8583.NewMessage(MTIChkTxnRequest)
	err := setAll(msg, npci.FamilyChkTxn, []fieldValue{
		{iso8583.DEProcessingCode, ProcCodeChkTxn},
		{iso8583.DESTAN, c.NewSTAN()},
		{iso8583.DELocalTime, ltime},
		{iso8583.DELocalDate, ldate},
		{iso8583.DEFunctionCode, FuncCodeChkTxn},
		{iso8583.DERRN, c.NewRRN()},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DEPrivateData, kvJoin([][2]string{{keyOrgTxnID, doc.Txn.OrgTxnID}})},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Head.MsgID, doc.Txn.CustRef)},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ReqChkTxnFromISO rebuilds a status check request from an inbound 0220
// message.
func (c *Converter) ReqChkTxnFromISO(msg *iso8583.Message) (*npci.ReqChkTxn, error) {
	record := msg.GetString(iso8583.DERecordData)
	txnID := kvGet(record, keyTxnID)
	if txnID == "" {
		txnID = c.NewTxnID()
	}
	doc := &npci.ReqChkTxn{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:       txnID,
			Ts:       c.now().Format(timeLayout),
			Type:     string(npci.FamilyChkTxn),
			OrgTxnID: kvGet(msg.GetString(iso8583.DEPrivateData), keyOrgTxnID),
		},
	}
	return doc, nil
}

// RespChkTxnToISO maps a status check response onto a 0230 message.
func (c *Converter) RespChkTxnToISO(doc *npci.RespChkTxn, echo Echo) (*iso8583.Message, error) {
	msg := iso8583.NewMessage(MTIChkTxnResponse)
	err := setAll(msg, npci.FamilyChkTxn, []fieldValue{
		{iso8583.DEProcessingCode, ProcCodeChkTxn},
		{iso8583.DESTAN, echo.STAN},
		{iso8583.DELocalTime, echo.LocalTime},
		{iso8583.DELocalDate, echo.LocalDate},
		{iso8583.DEFunctionCode, FuncCodeChkTxn},
		{iso8583.DERRN, echo.RRN},
		{iso8583.DEApprovalCode, approvalField(doc.Resp.ApprovalNum)},
		{iso8583.DEResponseCode, respCodeFor(doc.Resp)},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Resp.ReqMsgID, doc.Txn.CustRef)},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// RespChkTxnFromISO rebuilds a status check response from an inbound 0230
// message.
func (c *Converter) RespChkTxnFromISO(msg *iso8583.Message) (*npci.RespChkTxn, error) {
	record := msg.GetString(iso8583.DERecordData)
	code := NormalizeResponseCode(msg.GetString(iso8583.DEResponseCode))
	doc := &npci.RespChkTxn{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:   kvGet(record, keyTxnID),
			Ts:   c.now().Format(timeLayout),
			Type: string(npci.FamilyChkTxn),
		},
		Resp: npci.Resp{
			ReqMsgID:    kvGet(record, keyMsgID),
			Result:      ResultFromRespCode(code),
			ApprovalNum: approvalField(msg.GetString(iso8583.DEApprovalCode)),
			RespCode:    code,
		},
	}
	return doc, nil
}
