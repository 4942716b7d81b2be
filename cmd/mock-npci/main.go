// mock-npci emulates the NPCI side of the gateway: it accepts forwarded
// XML requests, answers every one with a SUCCESS response leg posted back
// to the gateway, and swallows forwarded responses.
package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/logger"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

func main() {
	log, err := logger.New(envOr("APP_ENV", "development"), envOr("LOG_LEVEL", "info"))
	if err != nil {
		fallback := zerolog.New(os.Stdout)
		fallback.Fatal().Err(err).Msg("mock npci init failed")
	}
	log = log.With().Str("service", "mock-npci").Logger()

	gatewayURL := strings.TrimRight(envOr("GATEWAY_BASE_URL", "http://localhost:8080"), "/")
	addr := ":" + envOr("MOCK_NPCI_PORT", "9001")
	client := &http.Client{Timeout: 5 * time.Second}

	router := mux.NewRouter()
	router.HandleFunc("/{family}/resp", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}
		log.Info().
			Str("family", mux.Vars(r)["family"]).
			Int("bytes", len(raw)).
			Msg("response received")
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	router.HandleFunc("/{family}", func(w http.ResponseWriter, r *http.Request) {
		family, err := npci.ParseFamily(mux.Vars(r)["family"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}
		head, txnID, err := requestIdentity(family, raw)
		if err != nil {
			log.Warn().Err(err).Msg("inbound request failed to parse")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)

		go func() {
			payload, err := successResponse(family, head, txnID)
			if err != nil {
				log.Error().Err(err).Msg("failed to build response")
				return
			}
			url := fmt.Sprintf("%s/npci/%s/resp/%s", gatewayURL, family.Route(), txnID)
			reply, err := client.Post(url, "application/xml", bytes.NewReader(payload))
			if err != nil {
				log.Error().Err(err).Str("url", url).Msg("failed to post response")
				return
			}
			reply.Body.Close()
			log.Info().
				Str("txn_id", txnID).
				Int("status", reply.StatusCode).
				Msg("response posted")
		}()
	}).Methods(http.MethodPost)

	log.Info().Str("addr", addr).Str("gateway", gatewayURL).Msg("mock npci listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("mock npci terminated")
	}
}

func requestIdentity(family npci.Family, raw []byte) (npci.Head, string, error) {
	switch family {
	case npci.FamilyPay:
		doc, err := npci.ParseReqPay(raw)
		if err != nil {
			return npci.Head{}, "", err
		}
		return doc.Head, doc.Txn.ID, nil
	case npci.FamilyChkTxn:
		doc, err := npci.ParseReqChkTxn(raw)
		if err != nil {
			return npci.Head{}, "", err
		}
		return doc.Head, doc.Txn.ID, nil
	case npci.FamilyHbt:
		doc, err := npci.ParseReqHbt(raw)
		if err != nil {
			return npci.Head{}, "", err
		}
		return doc.Head, doc.Txn.ID, nil
	case npci.FamilyValAdd:
		doc, err := npci.ParseReqValAdd(raw)
		if err != nil {
			return npci.Head{}, "", err
		}
		return doc.Head, doc.Txn.ID, nil
	case npci.FamilyListAccPvd:
		doc, err := npci.ParseReqListAccPvd(raw)
		if err != nil {
			return npci.Head{}, "", err
		}
		return doc.Head, doc.Txn.ID, nil
	default:
		return npci.Head{}, "", fmt.Errorf("unsupported family %q", family)
	}
}

// successResponse builds the approving response document for the family.
func successResponse(family npci.Family, reqHead npci.Head, txnID string) ([]byte, error) {
	now := time.Now()
	head := npci.Head{
		Ver:      "2.0",
		Ts:       now.Format(time.RFC3339),
		OrgID:    "NPCI",
		MsgID:    fmt.Sprintf("NPC%032d", now.UnixNano()),
		ProdType: "IMPS",
	}
	txn := npci.Txn{ID: txnID, Ts: now.Format(time.RFC3339), Type: string(family)}
	resp := npci.Resp{
		ReqMsgID:    reqHead.MsgID,
		Result:      npci.ResultSuccess,
		RespCode:    "00",
		ApprovalNum: "311299",
	}

	switch family {
	case npci.FamilyPay:
		return npci.Marshal(&npci.RespPay{Xmlns: npci.Namespace, Head: head, Txn: txn, Resp: resp})
	case npci.FamilyChkTxn:
		return npci.Marshal(&npci.RespChkTxn{Xmlns: npci.Namespace, Head: head, Txn: txn, Resp: resp})
	case npci.FamilyHbt:
		return npci.Marshal(&npci.RespHbt{Xmlns: npci.Namespace, Head: head, Txn: txn, Resp: resp})
	case npci.FamilyValAdd:
		return npci.Marshal(&npci.RespValAdd{Xmlns: npci.Namespace, Head: head, Txn: txn, Resp: resp})
	case npci.FamilyListAccPvd:
		return npci.Marshal(&npci.RespListAccPvd{Xmlns: npci.Namespace, Head: head, Txn: txn, Resp: resp})
	default:
		return nil, fmt.Errorf("unsupported family %q", family)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
