package convert

import (
	"testing"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

func sampleReqPay() *npci.ReqPay {
	payerAc := &npci.Ac{AddrType: npci.AddrTypeAccount}
	payerAc.SetDetail(npci.DetailIFSC, "HDFC0000001")
	payerAc.SetDetail(npci.DetailAcType, "SAVINGS")
	payerAc.SetDetail(npci.DetailAcNum, "123456789012")

	payeeAc := &npci.Ac{AddrType: npci.AddrTypeMobile}
	payeeAc.SetDetail(npci.DetailMobNum, "919876543210")
	payeeAc.SetDetail(npci.DetailMMID, "9240001")

	return &npci.ReqPay{
		Xmlns: npci.Namespace,
		Head: npci.Head{
			Ver:      "2.0",
			Ts:       "2026-08-30T10:45:12Z",
			OrgID:    "HDFC",
			MsgID:    "HDF00000000000000000000000000000ABC",
			ProdType: "IMPS",
		},
		Txn: npci.Txn{
			ID:             "HDF00000000000000000000000000000DEF",
			CustRef:        "202608301045",
			RefCategory:    "00",
			Type:           "PAY",
			InitiationMode: "00",
		},
		Payer: npci.Party{
			Addr:   "payer@hdfc",
			Type:   "PERSON",
			Code:   "0000",
			Ac:     payerAc,
			Amount: &npci.Amount{Value: "1234.56", Curr: "INR"},
		},
		Payees: []npci.Party{{
			Addr: "payee@icici",
			Type: "PERSON",
			Code: "0000",
			Ac:   payeeAc,
		}},
	}
}

func TestReqPayToISO(t *testing.T) {
	c := testConverter(t)
	msg, err := c.ReqPayToISO(sampleReqPay())
	if err != nil {
		t.Fatalf("ReqPayToISO: %v", err)
	}

	if msg.MTI() != MTIPayRequest {
		t.Errorf("MTI = %q, want %q", msg.MTI(), MTIPayRequest)
	}
	if v := msg.GetString(iso8583.DEAmount); v != "000000123456" {
		t.Errorf("DE4 = %q, want 000000123456", v)
	}
	if v := msg.GetString(iso8583.DEAcquirerID); v != "HDFC0000001" {
		t.Errorf("DE32 = %q", v)
	}
	if v := msg.GetString(iso8583.DEPayeeAccount); v != "9198765432109240001" {
		t.Errorf("DE103 = %q, want mobile+MMID composite", v)
	}
	if v := msg.GetString(iso8583.DECurrency); v != CurrencyINR {
		t.Errorf("DE49 = %q", v)
	}
	// Request legs mint fresh correlation identifiers.
	if len(msg.GetString(iso8583.DESTAN)) != 6 {
		t.Errorf("DE11 = %q, want minted 6 digit stan", msg.GetString(iso8583.DESTAN))
	}
	if len(msg.GetString(iso8583.DERRN)) != 12 {
		t.Errorf("DE37 = %q, want minted 12 char rrn", msg.GetString(iso8583.DERRN))
	}
	record := msg.GetString(iso8583.DERecordData)
	if kvGet(record, keyTxnID) != "HDF00000000000000000000000000000DEF" {
		t.Errorf("DE120 missing transaction id: %q", record)
	}
	if kvGet(record, keyMsgID) != "HDF00000000000000000000000000000ABC" {
		t.Errorf("DE120 missing message id: %q", record)
	}
}

func TestReqPayRoundTripPreservesEssentialFields(t *testing.T) {
	c := testConverter(t)
	orig := sampleReqPay()

	msg, err := c.ReqPayToISO(orig)
	if err != nil {
		t.Fatalf("ReqPayToISO: %v", err)
	}
	back, err := c.ReqPayFromISO(msg)
	if err != nil {
		t.Fatalf("ReqPayFromISO: %v", err)
	}

	if back.Txn.ID != orig.Txn.ID {
		t.Errorf("txn id = %q, want %q", back.Txn.ID, orig.Txn.ID)
	}
	if back.Txn.CustRef != orig.Txn.CustRef {
		t.Errorf("custRef = %q, want %q", back.Txn.CustRef, orig.Txn.CustRef)
	}
	if back.Payer.Amount == nil || back.Payer.Amount.Value != "1234.56" {
		t.Errorf("amount not preserved: %+v", back.Payer.Amount)
	}
	if got := back.Payer.Ac.Detail(npci.DetailAcNum); got != "123456789012" {
		t.Errorf("payer account = %q", got)
	}
	if got := back.Payer.Ac.Detail(npci.DetailIFSC); got != "HDFC0000001" {
		t.Errorf("payer ifsc = %q", got)
	}
	payee := back.Payee()
	if payee == nil {
		t.Fatal("payee missing after round trip")
	}
	if payee.Ac.AddrType != npci.AddrTypeMobile {
		t.Errorf("payee addrType = %q, want MOBILE", payee.Ac.AddrType)
	}
	if got := payee.Ac.Detail(npci.DetailMobNum); got != "919876543210" {
		t.Errorf("payee mobile = %q", got)
	}
	if got := payee.Ac.Detail(npci.DetailMMID); got != "9240001" {
		t.Errorf("payee mmid = %q", got)
	}
}

func TestRespPayConversion(t *testing.T) {
	c := testConverter(t)
	echo := Echo{STAN: "123456", RRN: "202608301045", LocalTime: "104512", LocalDate: "0830"}
	resp := &npci.RespPay{
		Xmlns: npci.Namespace,
		Head:  npci.Head{Ver: "2.0", MsgID: "NPC00000000000000000000000000000AAA"},
		Txn:   npci.Txn{ID: "HDF00000000000000000000000000000DEF", Type: "PAY"},
		Resp: npci.Resp{
			ReqMsgID:    "HDF00000000000000000000000000000ABC",
			Result:      npci.ResultSuccess,
			ApprovalNum: "988776",
			RespCode:    "00",
		},
	}

	msg, err := c.RespPayToISO(resp, echo)
	if err != nil {
		t.Fatalf("RespPayToISO: %v", err)
	}
	if msg.MTI() != MTIPayResponse {
		t.Errorf("MTI = %q", msg.MTI())
	}
	if v := msg.GetString(iso8583.DESTAN); v != echo.STAN {
		t.Errorf("DE11 = %q, want echoed %q", v, echo.STAN)
	}
	if v := msg.GetString(iso8583.DERRN); v != echo.RRN {
		t.Errorf("DE37 = %q, want echoed %q", v, echo.RRN)
	}

	back, err := c.RespPayFromISO(msg)
	if err != nil {
		t.Fatalf("RespPayFromISO: %v", err)
	}
	if back.Resp.Result != npci.ResultSuccess {
		t.Errorf("result = %q", back.Resp.Result)
	}
	if back.Resp.ApprovalNum != "988776" {
		t.Errorf("approval = %q", back.Resp.ApprovalNum)
	}
	if back.Resp.ReqMsgID != resp.Resp.ReqMsgID {
		t.Errorf("reqMsgId = %q", back.Resp.ReqMsgID)
	}
	if back.Txn.ID != resp.Txn.ID {
		t.Errorf("txn id = %q", back.Txn.ID)
	}
}

func TestRespPayFromISOFailureCode(t *testing.T) {
	c := testConverter(t)
	msg := iso8583.NewMessage(MTIPayResponse)
	if err := msg.Set(iso8583.DEResponseCode, "M1"); err != nil {
		t.Fatal(err)
	}
	if err := msg.Set(iso8583.DERecordData, "id=HDFX|msgId=HDFY"); err != nil {
		t.Fatal(err)
	}
	back, err := c.RespPayFromISO(msg)
	if err != nil {
		t.Fatalf("RespPayFromISO: %v", err)
	}
	if back.Resp.Result != npci.ResultFailure {
		t.Errorf("result = %q, want FAILURE for DE39 M1", back.Resp.Result)
	}
	if back.Resp.RespCode != "M1" {
		t.Errorf("respCode = %q", back.Resp.RespCode)
	}
}
