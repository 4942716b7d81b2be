package convert

import (
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// ReqHbtToISO maps a heartbeat request onto an 0800 network management
// message. Heartbeats carry no money movement, only liveness data.
func (c *Converter) ReqHbtToISO(doc *npci.ReqHbt) (*iso8583.Message, error) {
	ltime, ldate := c.LocalStamp()
	msg := iso8583.NewMessage(MTIHbtRequest)
	err := setAll(msg, npci.FamilyHbt, []fieldValue{
		{iso8583.DESTAN, c.NewSTAN()},
		{iso8583.DELocalTime, ltime},
		{iso8583.DELocalDate, ldate},
		{iso8583.DEFunctionCode, FuncCodeHbt},
		{iso8583.DERRN, c.NewRRN()},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Head.MsgID, "")},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ReqHbtFromISO rebuilds a heartbeat request from an inbound 0800 message.
func (c *Converter) ReqHbtFromISO(msg *iso8583.Message) (*npci.ReqHbt, error) {
	txnID := kvGet(msg.GetString(iso8583.DERecordData), keyTxnID)
	if txnID == "" {
		txnID = c.NewTxnID()
	}
	doc := &npci.ReqHbt{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:   txnID,
			Ts:   c.now().Format(timeLayout),
			Type: string(npci.FamilyHbt),
		},
	}
	return doc, nil
}

// RespHbtToISO maps a heartbeat response onto an 0810 message.
func (c *Converter) RespHbtToISO(doc *npci.RespHbt, echo Echo) (*iso8583.Message, error) {
	msg := iso8583.NewMessage(MTIHbtResponse)
	err := setAll(msg, npci.FamilyHbt, []fieldValue{
		{iso8583.DESTAN, echo.STAN},
		{iso8583.DELocalTime, echo.LocalTime},
		{iso8583.DELocalDate, echo.LocalDate},
		{iso8583.DEFunctionCode, FuncCodeHbt},
		{iso8583.DERRN, echo.RRN},
		{iso8583.DEResponseCode, respCodeFor(doc.Resp)},
		{iso8583.DETerminalID, c.terminal},
		{iso8583.DERecordData, correlationRecord(doc.Txn.ID, doc.Resp.ReqMsgID, "")},
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// RespHbtFromISO rebuilds a heartbeat response from an inbound 0810 message.
func (c *Converter) RespHbtFromISO(msg *iso8583.Message) (*npci.RespHbt, error) {
	record := msg.GetString(iso8583.DERecordData)
	code := NormalizeResponseCode(msg.GetString(iso8583.DEResponseCode))
	doc := &npci.RespHbt{
		Xmlns: npci.Namespace,
		Head:  c.head(),
		Txn: npci.Txn{
			ID:   kvGet(record, keyTxnID),
			Ts:   c.now().Format(timeLayout),
			Type: string(npci.FamilyHbt),
		},
		Resp: npci.Resp{
			ReqMsgID: kvGet(record, keyMsgID),
			Result:   ResultFromRespCode(code),
			RespCode: code,
		},
	}
	return doc, nil
}
