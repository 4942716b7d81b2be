package convert

import (
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// ReqValAddToISO maps a name/account validation request onto an 0100
// verification message.
func (c *Converter) ReqValAddToISO(doc *npci.ReqValAdd) (*iso8583.Message, error) {
	ltime, ldate := c.LocalStamp()
	private := kvJoin([][2]string{
		{keyPayerAddr, partyAddrType(&doc.Payer)},
		{keyPayeeAddr, partyAddrType(&doc.Payee)},
	})
	msg := iso8583.NewMessage(MTIValAddRequest)
	err := setAll(msg, npci.FamilyValAdd, []fieldValue{
		{iso8583.DEProcessingCode, ProcCodeValAdd},
		{iso8583.DESTAN, c.NewSTAN()},
		{iso8583.DELocalTime, ltime},
		{iso8583.DELocalDate, ldate},
		{iso8583.DEFunctionCode, FuncCodeValAdd},
		{iso8583.DEAcquirerID, c.instCode(&doc.Payer)},
		{iso8583.DEForwarderID, c.instCode(&doc.Payee)},
		{iso8583.DERRN, c.NewRRN()},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DEPrivateData, private},
		{iso8583.DEPayerAccount, partyAccount(&doc.Payer)},
		{iso8583.DEPayeeAccount, partyAccount(&doc.Payee)},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Head.MsgID, doc.Txn.CustRef)},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ReqValAddFromISO rebuilds a validation request from an inbound 0100
// message.
func (c *Converter) ReqValAddFromISO(msg *iso8583.Message) (*npci.ReqValAdd, error) {
	record := msg.GetString(iso8583.DERecordData)
	private := msg.GetString(iso8583.DEPrivateData)
	txnID := kvGet(record, keyTxnID)
	if txnID == "" {
		txnID = c.NewTxnID()
	}
	doc := &npci.ReqValAdd{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:   txnID,
			Ts:   c.now().Format(timeLayout),
			Type: string(npci.FamilyValAdd),
		},
		Payer: partyFromWire(
			msg.GetString(iso8583.DEPayerAccount),
			msg.GetString(iso8583.DEAcquirerID),
			kvGet(private, keyPayerAddr),
		),
		Payee: partyFromWire(
			msg.GetString(iso8583.DEPayeeAccount),
			msg.GetString(iso8583.DEForwarderID),
			kvGet(private, keyPayeeAddr),
		),
	}
	return doc, nil
}

// RespValAddToISO maps a validation response onto an 0110 message. The
// verified customer data rides in the private data element.
func (c *Converter) RespValAddToISO(doc *npci.RespValAdd, echo Echo) (*iso8583.Message, error) {
	var private string
	if doc.Customer != nil {
		private = kvJoin([][2]string{
			{keyCustName, doc.Customer.Name},
			{keyMasked, doc.Customer.MaskedAccnt},
		})
	}
	msg := iso8583.NewMessage(MTIValAddResponse)
	err := setAll(msg, npci.FamilyValAdd, []fieldValue{
		{iso8583.DEProcessingCode, ProcCodeValAdd},
		{iso8583.DESTAN, echo.STAN},
		{iso8583.DELocalTime, echo.LocalTime},
		{iso8583.DELocalDate, echo.LocalDate},
		{iso8583.DEFunctionCode, FuncCodeValAdd},
		{iso8583.DERRN, echo.RRN},
		{iso8583.DEApprovalCode, approvalField(doc.Resp.ApprovalNum)},
		{iso8583.DEResponseCode, respCodeFor(doc.Resp)},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DEPrivateData, private},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Resp.ReqMsgID, doc.Txn.CustRef)},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// RespValAddFromISO rebuilds a validation response from an inbound 0110
// message.
func (c *Converter) RespValAddFromISO(msg *iso8583.Message) (*npci.RespValAdd, error) {
	record := msg.GetString(iso8583.DERecordData)
	private := msg.GetString(iso8583.DEPrivateData)
	code := NormalizeResponseCode(msg.GetString(iso8583.DEResponseCode))

	doc := &npci.RespValAdd{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:   kvGet(record, keyTxnID),
			Ts:   c.now().Format(timeLayout),
			Type: string(npci.FamilyValAdd),
		},
		Resp: npci.Resp{
			ReqMsgID:    kvGet(record, keyMsgID),
			Result:      ResultFromRespCode(code),
			ApprovalNum: approvalField(msg.GetString(iso8583.DEApprovalCode)),
			RespCode:    code,
		},
	}
	if name := kvGet(private, keyCustName); name != "" {
		doc.Customer = &npci.Customer{
			Name:        name,
			MaskedAccnt: kvGet(private, keyMasked),
		}
	}
	return doc, nil
}
