package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/gateway"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/rules"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/tracker"
)

const maxBodyBytes = 1 << 20

type handler struct {
	gateway Gateway
	logger  zerolog.Logger
	now     func() time.Time
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) npciRequest(w http.ResponseWriter, r *http.Request) {
	family, raw, ok := h.readFamilyBody(w, r)
	if !ok {
		return
	}

	ack, err := h.gateway.HandleNPCIRequest(r.Context(), family, raw)
	if err != nil {
		h.writeRequestError(w, family, err)
		return
	}
	h.writeXML(w, http.StatusOK, ack)
}

func (h *handler) npciResponse(w http.ResponseWriter, r *http.Request) {
	family, raw, ok := h.readFamilyBody(w, r)
	if !ok {
		return
	}
	if err := h.gateway.HandleNPCIResponse(r.Context(), family, raw); err != nil {
		h.writeResponseError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *handler) switchRequest(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if err := h.gateway.HandleSwitchRequest(r.Context(), raw); err != nil {
		if errors.Is(err, tracker.ErrDuplicateTransaction) {
			http.Error(w, "duplicate transaction", http.StatusConflict)
			return
		}
		if errors.Is(err, gateway.ErrQueueFull) {
			http.Error(w, "gateway saturated", http.StatusServiceUnavailable)
			return
		}
		h.logger.Warn().Err(err).Msg("switch request rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *handler) switchResponse(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if err := h.gateway.HandleSwitchResponse(r.Context(), raw); err != nil {
		h.writeResponseError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *handler) readFamilyBody(w http.ResponseWriter, r *http.Request) (npci.Family, []byte, bool) {
	family, err := npci.ParseFamily(mux.Vars(r)["family"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return "", nil, false
	}
	raw, ok := h.readBody(w, r)
	if !ok {
		return "", nil, false
	}
	return family, raw, true
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "unreadable request body", http.StatusBadRequest)
		return nil, false
	}
	if len(raw) == 0 {
		http.Error(w, "empty request body", http.StatusBadRequest)
		return nil, false
	}
	return raw, true
}

// writeRequestError maps orchestrator errors on the request path to status
// codes: validation failures get a Nack listing every violated rule,
// duplicates a conflict, saturation a 503.
func (h *handler) writeRequestError(w http.ResponseWriter, family npci.Family, err error) {
	var vf *rules.ValidationFailure
	if errors.As(err, &vf) {
		nackErrs := make([]npci.NackError, 0, len(vf.Violations))
		for _, v := range vf.Violations {
			nackErrs = append(nackErrs, npci.NackError{Code: v.RuleID, Message: v.Message})
		}
		h.writeXML(w, http.StatusBadRequest, npci.NewNack(family.RequestAPI(), "", h.now(), nackErrs))
		return
	}
	if errors.Is(err, tracker.ErrDuplicateTransaction) {
		http.Error(w, "duplicate transaction", http.StatusConflict)
		return
	}
	if errors.Is(err, gateway.ErrQueueFull) {
		http.Error(w, "gateway saturated", http.StatusServiceUnavailable)
		return
	}
	h.logger.Warn().Err(err).Msg("request rejected")
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (h *handler) writeResponseError(w http.ResponseWriter, err error) {
	if errors.Is(err, gateway.ErrCounterpartUnavailable) {
		http.Error(w, "counterpart unavailable", http.StatusBadGateway)
		return
	}
	h.logger.Warn().Err(err).Msg("response rejected")
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (h *handler) writeXML(w http.ResponseWriter, status int, doc any) {
	payload, err := npci.Marshal(doc)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to marshal reply")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
