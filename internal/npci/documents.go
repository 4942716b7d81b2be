// Package npci holds the typed XML document model of the NPCI message set.
// Each message family is parsed once into a struct at the converter boundary;
// business logic never queries raw XML.
package npci

import "encoding/xml"

// Namespace is the fixed schema namespace carried by every NPCI document.
const Namespace = "http://npci.org/upi/schema/"

// Identity address types.
const (
	AddrTypeAccount = "ACCOUNT"
	AddrTypeMobile  = "MOBILE"
)

// Names of the Detail entries carried inside an Ac identity block.
const (
	DetailIFSC   = "IFSC"
	DetailAcType = "ACTYPE"
	DetailAcNum  = "ACNUM"
	DetailMobNum = "MOBNUM"
	DetailMMID   = "MMID"
)

// Head is the common message header.
type Head struct {
	Ver      string `xml:"ver,attr"`
	Ts       string `xml:"ts,attr"`
	OrgID    string `xml:"orgId,attr"`
	MsgID    string `xml:"msgId,attr"`
	ProdType string `xml:"prodType,attr"`
}

// Txn is the common transaction block.
type Txn struct {
	ID             string `xml:"id,attr"`
	Note           string `xml:"note,attr,omitempty"`
	CustRef        string `xml:"custRef,attr,omitempty"`
	RefCategory    string `xml:"refCategory,attr,omitempty"`
	Ts             string `xml:"ts,attr,omitempty"`
	Type           string `xml:"type,attr"`
	OrgTxnID       string `xml:"orgTxnId,attr,omitempty"`
	InitiationMode string `xml:"initiationMode,attr,omitempty"`
}

// Detail is a generic name/value attribute pair used inside identity blocks.
type Detail struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Ac is an addressed identity: either an account (IFSC, ACTYPE, ACNUM) or a
// mobile (MOBNUM, MMID) depending on addrType.
type Ac struct {
	AddrType string   `xml:"addrType,attr"`
	Details  []Detail `xml:"Detail"`
}

// Detail returns the value of the named detail entry, or "" when absent.
func (a *Ac) Detail(name string) string {
	if a == nil {
		return ""
	}
	for _, d := range a.Details {
		if d.Name == name {
			return d.Value
		}
	}
	return ""
}

// SetDetail replaces or appends the named detail entry.
func (a *Ac) SetDetail(name, value string) {
	for i := range a.Details {
		if a.Details[i].Name == name {
			a.Details[i].Value = value
			return
		}
	}
	a.Details = append(a.Details, Detail{Name: name, Value: value})
}

// Tag is a name/value attribute pair inside a Device block.
type Tag struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Device carries device metadata tags (TYPE, ID and friends).
type Device struct {
	Tags []Tag `xml:"Tag"`
}

// Tag returns the value of the named device tag, or "" when absent.
func (d *Device) Tag(name string) string {
	if d == nil {
		return ""
	}
	for _, t := range d.Tags {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

// Identity carries the verified identity inside a party Info block.
type Identity struct {
	Type         string `xml:"type,attr,omitempty"`
	VerifiedName string `xml:"verifiedName,attr,omitempty"`
}

// Rating carries the optional address rating flag.
type Rating struct {
	VerifiedAddress string `xml:"verifiedAddress,attr,omitempty"`
}

// Info groups identity and rating data for a party.
type Info struct {
	Identity *Identity `xml:"Identity,omitempty"`
	Rating   *Rating   `xml:"Rating,omitempty"`
}

// Amount is a decimal rupee value with its currency.
type Amount struct {
	Value string `xml:"value,attr"`
	Curr  string `xml:"curr,attr"`
}

// Party models a Payer or Payee block.
type Party struct {
	Addr   string  `xml:"addr,attr,omitempty"`
	Name   string  `xml:"name,attr,omitempty"`
	SeqNum string  `xml:"seqNum,attr,omitempty"`
	Type   string  `xml:"type,attr,omitempty"`
	Code   string  `xml:"code,attr,omitempty"`
	Info   *Info   `xml:"Info,omitempty"`
	Device *Device `xml:"Device,omitempty"`
	Ac     *Ac     `xml:"Ac,omitempty"`
	Amount *Amount `xml:"Amount,omitempty"`
}

// Institution identifies the remitting institution on first-time flows.
type Institution struct {
	Type  string `xml:"type,attr"`
	Route string `xml:"route,attr"`
	Name  string `xml:"name,attr,omitempty"`
}

// Resp is the common response block of every response leg.
type Resp struct {
	ReqMsgID    string `xml:"reqMsgId,attr"`
	Result      string `xml:"result,attr"`
	ApprovalNum string `xml:"approvalNum,attr,omitempty"`
	RespCode    string `xml:"respCode,attr,omitempty"`
	ErrCode     string `xml:"errCode,attr,omitempty"`
}

// Results of a response leg, mapped from DE39.
const (
	ResultSuccess = "SUCCESS"
	ResultFailure = "FAILURE"
)

// ReqPay is the fund transfer request.
type ReqPay struct {
	XMLName     xml.Name     `xml:"ReqPay"`
	Xmlns       string       `xml:"xmlns,attr"`
	Head        Head         `xml:"Head"`
	Txn         Txn          `xml:"Txn"`
	Payer       Party        `xml:"Payer"`
	Payees      []Party      `xml:"Payees>Payee"`
	Institution *Institution `xml:"Institution,omitempty"`
}

// Payee returns the first payee, or nil when none is present.
func (r *ReqPay) Payee() *Party {
	if len(r.Payees) == 0 {
		return nil
	}
	return &r.Payees[0]
}

// RespPay is the fund transfer response.
type RespPay struct {
	XMLName xml.Name `xml:"RespPay"`
	Xmlns   string   `xml:"xmlns,attr"`
	Head    Head     `xml:"Head"`
	Txn     Txn      `xml:"Txn"`
	Resp    Resp     `xml:"Resp"`
}

// ReqChkTxn queries the status of an earlier transaction.
type ReqChkTxn struct {
	XMLName xml.Name `xml:"ReqChkTxn"`
	Xmlns   string   `xml:"xmlns,attr"`
	Head    Head     `xml:"Head"`
	Txn     Txn      `xml:"Txn"`
}

// RespChkTxn is the status check response.
type RespChkTxn struct {
	XMLName xml.Name `xml:"RespChkTxn"`
	Xmlns   string   `xml:"xmlns,attr"`
	Head    Head     `xml:"Head"`
	Txn     Txn      `xml:"Txn"`
	Resp    Resp     `xml:"Resp"`
}

// ReqHbt is the heartbeat request.
type ReqHbt struct {
	XMLName xml.Name `xml:"ReqHbt"`
	Xmlns   string   `xml:"xmlns,attr"`
	Head    Head     `xml:"Head"`
	Txn     Txn      `xml:"Txn"`
}

// RespHbt is the heartbeat response.
type RespHbt struct {
	XMLName xml.Name `xml:"RespHbt"`
	Xmlns   string   `xml:"xmlns,attr"`
	Head    Head     `xml:"Head"`
	Txn     Txn      `xml:"Txn"`
	Resp    Resp     `xml:"Resp"`
}

// ReqValAdd validates a beneficiary name/account before a transfer.
type ReqValAdd struct {
	XMLName xml.Name `xml:"ReqValAdd"`
	Xmlns   string   `xml:"xmlns,attr"`
	Head    Head     `xml:"Head"`
	Txn     Txn      `xml:"Txn"`
	Payer   Party    `xml:"Payer"`
	Payee   Party    `xml:"Payee"`
}

// Customer carries the verified customer data of a validation response.
type Customer struct {
	Name        string `xml:"name,attr,omitempty"`
	MaskedAccnt string `xml:"maskedAccnt,attr,omitempty"`
}

// RespValAdd is the validation response.
type RespValAdd struct {
	XMLName  xml.Name  `xml:"RespValAdd"`
	Xmlns    string    `xml:"xmlns,attr"`
	Head     Head      `xml:"Head"`
	Txn      Txn       `xml:"Txn"`
	Resp     Resp      `xml:"Resp"`
	Customer *Customer `xml:"Customer,omitempty"`
}

// ReqListAccPvd requests the account provider directory.
type ReqListAccPvd struct {
	XMLName xml.Name `xml:"ReqListAccPvd"`
	Xmlns   string   `xml:"xmlns,attr"`
	Head    Head     `xml:"Head"`
	Txn     Txn      `xml:"Txn"`
}

// AccPvd is one entry of the account provider directory.
type AccPvd struct {
	Name   string `xml:"name,attr"`
	IIN    string `xml:"iin,attr"`
	IFSC   string `xml:"ifsc,attr,omitempty"`
	Active string `xml:"active,attr,omitempty"`
}

// RespListAccPvd is the account provider directory response.
type RespListAccPvd struct {
	XMLName   xml.Name `xml:"RespListAccPvd"`
	Xmlns     string   `xml:"xmlns,attr"`
	Head      Head     `xml:"Head"`
	Txn       Txn      `xml:"Txn"`
	Resp      Resp     `xml:"Resp"`
	Providers []AccPvd `xml:"AccPvdList>AccPvd"`
}
