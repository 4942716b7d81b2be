package convert

import (
	"fmt"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// ReqPayToISO maps a fund transfer request onto an outbound 0200 message,
// minting fresh STAN and RRN correlation identifiers.
func (c *Converter) ReqPayToISO(doc *npci.ReqPay) (*iso8583.Message, error) {
	payee := doc.Payee()
	if payee == nil {
		return nil, convErr(npci.FamilyPay, errMissingParty)
	}

	amount := ""
	if doc.Payer.Amount != nil {
		amount = doc.Payer.Amount.Value
	} else if payee.Amount != nil {
		amount = payee.Amount.Value
	}

	ltime, ldate := c.LocalStamp()
	private := kvJoin([][2]string{
		{keyCustRef, doc.Txn.CustRef},
		{keyRefCat, doc.Txn.RefCategory},
		{keyInitMode, doc.Txn.InitiationMode},
		{keyNote, doc.Txn.Note},
		{keyPayerAddr, partyAddrType(&doc.Payer)},
		{keyPayeeAddr, partyAddrType(payee)},
	})

	msg := iso8583.NewMessage(MTIPayRequest)
	err := setAll(msg, npci.FamilyPay, []fieldValue{
		{iso8583.DEProcessingCode, ProcCodePay},
		{iso8583.DEAmount, fmt.Sprintf("%012d", RupeesToPaise(amount))},
		{iso8583.DESTAN, c.NewSTAN()},
		{iso8583.DELocalTime, ltime},
		{iso8583.DELocalDate, ldate},
		{iso8583.DEFunctionCode, FuncCodePay},
		{iso8583.DEAcquirerID, c.instCode(&doc.Payer)},
		{iso8583.DEForwarderID, c.instCode(payee)},
		{iso8583.DERRN, c.NewRRN()},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DEPrivateData, private},
		{iso8583.DECurrency, CurrencyINR},
		{iso8583.DEPayerAccount, partyAccount(&doc.Payer)},
		{iso8583.DEPayeeAccount, partyAccount(payee)},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Head.MsgID, doc.Txn.CustRef)},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ReqPayFromISO rebuilds a fund transfer request document from an inbound
// 0200 message. The header is freshly minted; the transaction id is taken
// from the correlation record when the counterpart echoed one.
func (c *Converter) ReqPayFromISO(msg *iso8583.Message) (*npci.ReqPay, error) {
	record := msg.GetString(iso8583.DERecordData)
	private := msg.GetString(iso8583.DEPrivateData)

	txnID := kvGet(record, keyTxnID)
	if txnID == "" {
		txnID = c.NewTxnID()
	}

	payer := partyFromWire(
		msg.GetString(iso8583.DEPayerAccount),
		msg.GetString(iso8583.DEAcquirerID),
		kvGet(private, keyPayerAddr),
	)
	payee := partyFromWire(
		msg.GetString(iso8583.DEPayeeAccount),
		msg.GetString(iso8583.DEForwarderID),
		kvGet(private, keyPayeeAddr),
	)
	payer.Amount = &npci.Amount{
		Value: PaiseToRupees(msg.GetString(iso8583.DEAmount)),
		Curr:  "INR",
	}

	doc := &npci.ReqPay{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:             txnID,
			CustRef:        kvGet(private, keyCustRef),
			RefCategory:    kvGet(private, keyRefCat),
			InitiationMode: kvGet(private, keyInitMode),
			Note:           kvGet(private, keyNote),
			Ts:             c.now().Format(timeLayout),
			Type:           string(npci.FamilyPay),
		},
		Payer:  payer,
		Payees: []npci.Party{payee},
	}
	return doc, nil
}

// RespPayToISO maps a fund transfer response onto a 0210 message, echoing
// the correlation identifiers of the original outbound leg.
func (c *Converter) RespPayToISO(doc *npci.RespPay, echo Echo) (*iso8583.Message, error) {
	msg := iso8583.NewMessage(MTIPayResponse)
	err := setAll(msg, npci.FamilyPay, []fieldValue{
		{iso8583.DEProcessingCode, ProcCodePay},
		{iso8583.DESTAN, echo.STAN},
		{iso8583.DELocalTime, echo.LocalTime},
		{iso8583.DELocalDate, echo.LocalDate},
		{iso8583.DEFunctionCode, FuncCodePay},
		{iso8583.DERRN, echo.RRN},
		{iso8583.DEApprovalCode, approvalField(doc.Resp.ApprovalNum)},
		{iso8583.DEResponseCode, respCodeFor(doc.Resp)},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DECurrency, CurrencyINR},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Resp.ReqMsgID, doc.Txn.CustRef)},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// RespPayFromISO rebuilds a fund transfer response document from an inbound
// 0210 message.
func (c *Converter) RespPayFromISO(msg *iso8583.Message) (*npci.RespPay, error) {
	record := msg.GetString(iso8583.DERecordData)
	code := NormalizeResponseCode(msg.GetString(iso8583.DEResponseCode))

	doc := &npci.RespPay{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:   kvGet(record, keyTxnID),
			Ts:   c.now().Format(timeLayout),
			Type: string(npci.FamilyPay),
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

// approvalField normalizes a non-empty approval number and leaves an absent
// one absent; synthesis on terminal states is the tracker's job.
func approvalField(approval string) string {
	if approval == "" {
		return ""
	}
	return NormalizeApproval(approval)
}
