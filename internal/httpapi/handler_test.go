package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/gateway"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/rules"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/tracker"
)

type stubGateway struct {
	requestErr  error
	responseErr error
	family      npci.Family
	raw         []byte
}

func (s *stubGateway) HandleNPCIRequest(_ context.Context, family npci.Family, raw []byte) (npci.Ack, error) {
	s.family = family
	s.raw = raw
	if s.requestErr != nil {
		return npci.Ack{}, s.requestErr
	}
	return npci.NewAck(family.RequestAPI(), "HDFd3f1a9c2b8e74a5f9c0d1e2f3a4b5c6d", time.Unix(0, 0).UTC()), nil
}

func (s *stubGateway) HandleNPCIResponse(_ context.Context, family npci.Family, raw []byte) error {
	s.family = family
	s.raw = raw
	return s.responseErr
}

func (s *stubGateway) HandleSwitchRequest(_ context.Context, raw []byte) error {
	s.raw = raw
	return s.requestErr
}

func (s *stubGateway) HandleSwitchResponse(_ context.Context, raw []byte) error {
	s.raw = raw
	return s.responseErr
}

func newTestRouter(gw Gateway) *mux.Router {
	h := &handler{gateway: gw, logger: zerolog.New(io.Discard), now: func() time.Time { return time.Unix(0, 0).UTC() }}
	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	router.HandleFunc("/npci/{family}/resp/{txnId}", h.npciResponse).Methods(http.MethodPost)
	router.HandleFunc("/npci/{family}/{txnId}", h.npciRequest).Methods(http.MethodPost)
	router.HandleFunc("/switch/{family}/resp/{txnId}", h.switchResponse).Methods(http.MethodPost)
	router.HandleFunc("/switch/{family}/{txnId}", h.switchRequest).Methods(http.MethodPost)
	return router
}

func post(t *testing.T, router *mux.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestNPCIRequestReturnsAck(t *testing.T) {
	gw := &stubGateway{}
	rec := post(t, newTestRouter(gw), "/npci/pay/HDF0a1b2c3d4e5f60718293a4b5c6d7e8f9", "<ReqPay/>")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Fatalf("content type = %q, want application/xml", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `api="ReqPay"`) || !strings.Contains(body, "<Ack") {
		t.Fatalf("unexpected ack body: %s", body)
	}
	if gw.family != npci.FamilyPay {
		t.Fatalf("family = %s, want PAY", gw.family)
	}
}

func TestValidationFailureReturnsNackWithRuleIDs(t *testing.T) {
	gw := &stubGateway{requestErr: &rules.ValidationFailure{Violations: []rules.Violation{
		{RuleID: "019_Head_Version", Message: "head version must be 1.0 or 2.0"},
		{RuleID: "021_Head_MsgId", Message: "msgId must be 35 characters"},
	}}}
	rec := post(t, newTestRouter(gw), "/npci/pay/HDF0a1b2c3d4e5f60718293a4b5c6d7e8f9", "<ReqPay/>")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<Nack", "019_Head_Version", "021_Head_MsgId"} {
		if !strings.Contains(body, want) {
			t.Fatalf("nack body missing %q: %s", want, body)
		}
	}
}

func TestDuplicateReturnsConflict(t *testing.T) {
	gw := &stubGateway{requestErr: tracker.ErrDuplicateTransaction}
	rec := post(t, newTestRouter(gw), "/npci/pay/HDF0a1b2c3d4e5f60718293a4b5c6d7e8f9", "<ReqPay/>")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestSaturationReturnsServiceUnavailable(t *testing.T) {
	gw := &stubGateway{requestErr: gateway.ErrQueueFull}
	rec := post(t, newTestRouter(gw), "/npci/pay/HDF0a1b2c3d4e5f60718293a4b5c6d7e8f9", "<ReqPay/>")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestUnknownFamilyReturnsNotFound(t *testing.T) {
	rec := post(t, newTestRouter(&stubGateway{}), "/npci/upi/HDF0a1b2c3d4e5f60718293a4b5c6d7e8f9", "<ReqPay/>")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestEmptyBodyRejected(t *testing.T) {
	rec := post(t, newTestRouter(&stubGateway{}), "/npci/pay/HDF0a1b2c3d4e5f60718293a4b5c6d7e8f9", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSwitchResponseAccepted(t *testing.T) {
	gw := &stubGateway{}
	rec := post(t, newTestRouter(gw), "/switch/pay/resp/HDF0a1b2c3d4e5f60718293a4b5c6d7e8f9", "0210...")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(gw.raw) == 0 {
		t.Fatal("payload not delivered to gateway")
	}
}

func TestCounterpartFailureReturnsBadGateway(t *testing.T) {
	gw := &stubGateway{responseErr: gateway.ErrCounterpartUnavailable}
	rec := post(t, newTestRouter(gw), "/switch/pay/resp/HDF0a1b2c3d4e5f60718293a4b5c6d7e8f9", "0210...")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&stubGateway{}).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
