package gateway

import (
	"fmt"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/convert"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

var requestFamilyByMTI = map[string]npci.Family{
	convert.MTIPayRequest:        npci.FamilyPay,
	convert.MTIChkTxnRequest:     npci.FamilyChkTxn,
	convert.MTIValAddRequest:     npci.FamilyValAdd,
	convert.MTIHbtRequest:        npci.FamilyHbt,
	convert.MTIListAccPvdRequest: npci.FamilyListAccPvd,
}

var responseFamilyByMTI = map[string]npci.Family{
	convert.MTIPayResponse:        npci.FamilyPay,
	convert.MTIChkTxnResponse:     npci.FamilyChkTxn,
	convert.MTIValAddResponse:     npci.FamilyValAdd,
	convert.MTIHbtResponse:        npci.FamilyHbt,
	convert.MTIListAccPvdResponse: npci.FamilyListAccPvd,
}

// parsedRequest is the family-neutral view of an inbound request document.
type parsedRequest struct {
	head     npci.Head
	txnID    string
	validate func() error
	toISO    func() (*iso8583.Message, error)
	doc      any
}

// parsedResponse is the family-neutral view of a response document. The
// approval setter writes the tracker's final approval number back into the
// document before it is forwarded.
type parsedResponse struct {
	family      npci.Family
	txnID       string
	result      string
	approval    string
	setApproval func(string)
	toISO       func(echo convert.Echo) (*iso8583.Message, error)
	doc         any
}

func (e *Engine) parseRequest(family npci.Family, raw []byte) (*parsedRequest, error) {
	switch family {
	case npci.FamilyPay:
		doc, err := npci.ParseReqPay(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s request: %w", family, err)
		}
		return &parsedRequest{
			head:     doc.Head,
			txnID:    doc.Txn.ID,
			validate: func() error { return e.rules.ValidateReqPay(doc) },
			toISO:    func() (*iso8583.Message, error) { return e.converter.ReqPayToISO(doc) },
			doc:      doc,
		}, nil
	case npci.FamilyChkTxn:
		doc, err := npci.ParseReqChkTxn(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s request: %w", family, err)
		}
		return &parsedRequest{
			head:     doc.Head,
			txnID:    doc.Txn.ID,
			validate: func() error { return e.rules.ValidateCommon(doc.Head, doc.Txn.ID) },
			toISO:    func() (*iso8583.Message, error) { return e.converter.ReqChkTxnToISO(doc) },
			doc:      doc,
		}, nil
	case npci.FamilyHbt:
		doc, err := npci.ParseReqHbt(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s request: %w", family, err)
		}
		return &parsedRequest{
			head:     doc.Head,
			txnID:    doc.Txn.ID,
			validate: func() error { return e.rules.ValidateCommon(doc.Head, doc.Txn.ID) },
			toISO:    func() (*iso8583.Message, error) { return e.converter.ReqHbtToISO(doc) },
			doc:      doc,
		}, nil
	case npci.FamilyValAdd:
		doc, err := npci.ParseReqValAdd(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s request: %w", family, err)
		}
		return &parsedRequest{
			head:     doc.Head,
			txnID:    doc.Txn.ID,
			validate: func() error { return e.rules.ValidateCommon(doc.Head, doc.Txn.ID) },
			toISO:    func() (*iso8583.Message, error) { return e.converter.ReqValAddToISO(doc) },
			doc:      doc,
		}, nil
	case npci.FamilyListAccPvd:
		doc, err := npci.ParseReqListAccPvd(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s request: %w", family, err)
		}
		return &parsedRequest{
			head:     doc.Head,
			txnID:    doc.Txn.ID,
			validate: func() error { return e.rules.ValidateCommon(doc.Head, doc.Txn.ID) },
			toISO:    func() (*iso8583.Message, error) { return e.converter.ReqListAccPvdToISO(doc) },
			doc:      doc,
		}, nil
	default:
		return nil, fmt.Errorf("gateway: unsupported transaction family %q", family)
	}
}

func (e *Engine) parseResponse(family npci.Family, raw []byte) (*parsedResponse, error) {
	switch family {
	case npci.FamilyPay:
		doc, err := npci.ParseRespPay(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s response: %w", family, err)
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			toISO: func(echo convert.Echo) (*iso8583.Message, error) {
				return e.converter.RespPayToISO(doc, echo)
			},
			doc: doc,
		}, nil
	case npci.FamilyChkTxn:
		doc, err := npci.ParseRespChkTxn(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s response: %w", family, err)
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			toISO: func(echo convert.Echo) (*iso8583.Message, error) {
				return e.converter.RespChkTxnToISO(doc, echo)
			},
			doc: doc,
		}, nil
	case npci.FamilyHbt:
		doc, err := npci.ParseRespHbt(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s response: %w", family, err)
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			toISO: func(echo convert.Echo) (*iso8583.Message, error) {
				return e.converter.RespHbtToISO(doc, echo)
			},
			doc: doc,
		}, nil
	case npci.FamilyValAdd:
		doc, err := npci.ParseRespValAdd(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s response: %w", family, err)
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			toISO: func(echo convert.Echo) (*iso8583.Message, error) {
				return e.converter.RespValAddToISO(doc, echo)
			},
			doc: doc,
		}, nil
	case npci.FamilyListAccPvd:
		doc, err := npci.ParseRespListAccPvd(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse %s response: %w", family, err)
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			toISO: func(echo convert.Echo) (*iso8583.Message, error) {
				return e.converter.RespListAccPvdToISO(doc, echo)
			},
			doc: doc,
		}, nil
	default:
		return nil, fmt.Errorf("gateway: unsupported transaction family %q", family)
	}
}

// requestFromISO rebuilds the XML request document for an inbound switch
// originated ISO request.
func (e *Engine) requestFromISO(family npci.Family, msg *iso8583.Message) (any, string, error) {
	switch family {
	case npci.FamilyPay:
		doc, err := e.converter.ReqPayFromISO(msg)
		if err != nil {
			return nil, "", err
		}
		return doc, doc.Txn.ID, nil
	case npci.FamilyChkTxn:
		doc, err := e.converter.ReqChkTxnFromISO(msg)
		if err != nil {
			return nil, "", err
		}
		return doc, doc.Txn.ID, nil
	case npci.FamilyHbt:
		doc, err := e.converter.ReqHbtFromISO(msg)
		if err != nil {
			return nil, "", err
		}
		return doc, doc.Txn.ID, nil
	case npci.FamilyValAdd:
		doc, err := e.converter.ReqValAddFromISO(msg)
		if err != nil {
			return nil, "", err
		}
		return doc, doc.Txn.ID, nil
	case npci.FamilyListAccPvd:
		doc, err := e.converter.ReqListAccPvdFromISO(msg)
		if err != nil {
			return nil, "", err
		}
		return doc, doc.Txn.ID, nil
	default:
		return nil, "", fmt.Errorf("gateway: unsupported transaction family %q", family)
	}
}

// responseFromISO rebuilds the XML response document for an inbound switch
// originated ISO response.
func (e *Engine) responseFromISO(family npci.Family, msg *iso8583.Message) (*parsedResponse, error) {
	switch family {
	case npci.FamilyPay:
		doc, err := e.converter.RespPayFromISO(msg)
		if err != nil {
			return nil, err
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			doc:         doc,
		}, nil
	case npci.FamilyChkTxn:
		doc, err := e.converter.RespChkTxnFromISO(msg)
		if err != nil {
			return nil, err
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			doc:         doc,
		}, nil
	case npci.FamilyHbt:
		doc, err := e.converter.RespHbtFromISO(msg)
		if err != nil {
			return nil, err
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			doc:         doc,
		}, nil
	case npci.FamilyValAdd:
		doc, err := e.converter.RespValAddFromISO(msg)
		if err != nil {
			return nil, err
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			doc:         doc,
		}, nil
	case npci.FamilyListAccPvd:
		doc, err := e.converter.RespListAccPvdFromISO(msg)
		if err != nil {
			return nil, err
		}
		return &parsedResponse{
			family:      family,
			txnID:       doc.Txn.ID,
			result:      doc.Resp.Result,
			approval:    doc.Resp.ApprovalNum,
			setApproval: func(a string) { doc.Resp.ApprovalNum = a },
			doc:         doc,
		}, nil
	default:
		return nil, fmt.Errorf("gateway: unsupported transaction family %q", family)
	}
}
