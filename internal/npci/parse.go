package npci

import (
	"encoding/xml"
	"fmt"
	"time"
)

// Marshal serializes a document with the standard XML header.
func Marshal(doc any) ([]byte, error) {
	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("npci: marshal: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func unmarshal(data []byte, doc any, root string) error {
	if err := xml.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("npci: parse %s: %w", root, err)
	}
	return nil
}

// ParseReqPay parses a ReqPay document.
func ParseReqPay(data []byte) (*ReqPay, error) {
	doc := &ReqPay{}
	return doc, unmarshal(data, doc, "ReqPay")
}

// ParseRespPay parses a RespPay document.
func ParseRespPay(data []byte) (*RespPay, error) {
	doc := &RespPay{}
	return doc, unmarshal(data, doc, "RespPay")
}

// ParseReqChkTxn parses a ReqChkTxn document.
func ParseReqChkTxn(data []byte) (*ReqChkTxn, error) {
	doc := &ReqChkTxn{}
	return doc, unmarshal(data, doc, "ReqChkTxn")
}

// ParseRespChkTxn parses a RespChkTxn document.
func ParseRespChkTxn(data []byte) (*RespChkTxn, error) {
	doc := &RespChkTxn{}
	return doc, unmarshal(data, doc, "RespChkTxn")
}

// ParseReqHbt parses a ReqHbt document.
func ParseReqHbt(data []byte) (*ReqHbt, error) {
	doc := &ReqHbt{}
	return doc, unmarshal(data, doc, "ReqHbt")
}

// ParseRespHbt parses a RespHbt document.
func ParseRespHbt(data []byte) (*RespHbt, error) {
	doc := &RespHbt{}
	return doc, unmarshal(data, doc, "RespHbt")
}

// ParseReqValAdd parses a ReqValAdd document.
func ParseReqValAdd(data []byte) (*ReqValAdd, error) {
	doc := &ReqValAdd{}
	return doc, unmarshal(data, doc, "ReqValAdd")
}

// ParseRespValAdd parses a RespValAdd document.
func ParseRespValAdd(data []byte) (*RespValAdd, error) {
	doc := &RespValAdd{}
	return doc, unmarshal(data, doc, "RespValAdd")
}

// ParseReqListAccPvd parses a ReqListAccPvd document.
func ParseReqListAccPvd(data []byte) (*ReqListAccPvd, error) {
	doc := &ReqListAccPvd{}
	return doc, unmarshal(data, doc, "ReqListAccPvd")
}

// ParseRespListAccPvd parses a RespListAccPvd document.
func ParseRespListAccPvd(data []byte) (*RespListAccPvd, error) {
	doc := &RespListAccPvd{}
	return doc, unmarshal(data, doc, "RespListAccPvd")
}

// Ack is the immediate acknowledgment returned to the caller of a request
// leg before any asynchronous work starts.
type Ack struct {
	XMLName  xml.Name `xml:"Ack"`
	Xmlns    string   `xml:"xmlns,attr"`
	API      string   `xml:"api,attr"`
	ReqMsgID string   `xml:"reqMsgId,attr"`
	Ts       string   `xml:"ts,attr"`
}

// NewAck builds an acknowledgment for the given API and caller message id.
func NewAck(api, reqMsgID string, ts time.Time) Ack {
	return Ack{
		Xmlns:    Namespace,
		API:      api,
		ReqMsgID: reqMsgID,
		Ts:       ts.Format(time.RFC3339),
	}
}

// NackError is one rule violation entry of a rejection response.
type NackError struct {
	Code    string `xml:"errCode,attr"`
	Message string `xml:"errorMsg,attr"`
}

// Nack is the structured rejection returned when validation fails.
type Nack struct {
	XMLName  xml.Name    `xml:"Nack"`
	Xmlns    string      `xml:"xmlns,attr"`
	API      string      `xml:"api,attr"`
	ReqMsgID string      `xml:"reqMsgId,attr"`
	Ts       string      `xml:"ts,attr"`
	Errors   []NackError `xml:"Error"`
}

// NewNack builds a rejection response listing every rule violation.
func NewNack(api, reqMsgID string, ts time.Time, errs []NackError) Nack {
	return Nack{
		Xmlns:    Namespace,
		API:      api,
		ReqMsgID: reqMsgID,
		Ts:       ts.Format(time.RFC3339),
		Errors:   errs,
	}
}
