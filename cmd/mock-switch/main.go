// mock-switch emulates the bank switch side of the gateway: it accepts
// forwarded ISO 8583 requests, approves every transaction and posts the
// response leg back to the gateway asynchronously.
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

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/logger"
)

var responseMTI = map[string]string{
	"0200": "0210",
	"0220": "0230",
	"0100": "0110",
	"0800": "0810",
	"0820": "0830",
}

func main() {
	log, err := logger.New(envOr("APP_ENV", "development"), envOr("LOG_LEVEL", "info"))
	if err != nil {
		fallback := zerolog.New(os.Stdout)
		fallback.Fatal().Err(err).Msg("mock switch init failed")
	}
	log = log.With().Str("service", "mock-switch").Logger()

	gatewayURL := strings.TrimRight(envOr("GATEWAY_BASE_URL", "http://localhost:8080"), "/")
	addr := ":" + envOr("MOCK_SWITCH_PORT", "9002")
	client := &http.Client{Timeout: 5 * time.Second}

	router := mux.NewRouter()
	router.HandleFunc("/{family}", func(w http.ResponseWriter, r *http.Request) {
		family := mux.Vars(r)["family"]
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}
		msg, err := iso8583.Unpack(raw)
		if err != nil {
			log.Warn().Err(err).Msg("inbound message failed to unpack")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)

		go func() {
			resp, err := approve(msg)
			if err != nil {
				log.Error().Err(err).Msg("failed to build response")
				return
			}
			packed, err := resp.Pack()
			if err != nil {
				log.Error().Err(err).Msg("failed to pack response")
				return
			}
			txnID := embeddedTxnID(msg.GetString(iso8583.DERecordData))
			url := fmt.Sprintf("%s/switch/%s/resp/%s", gatewayURL, family, txnID)
			reply, err := client.Post(url, "application/octet-stream", bytes.NewReader(packed))
			if err != nil {
				log.Error().Err(err).Str("url", url).Msg("failed to post response")
				return
			}
			reply.Body.Close()
			log.Info().
				Str("txn_id", txnID).
				Str("mti", resp.MTI()).
				Int("status", reply.StatusCode).
				Msg("response posted")
		}()
	}).Methods(http.MethodPost)

	log.Info().Str("addr", addr).Str("gateway", gatewayURL).Msg("mock switch listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("mock switch terminated")
	}
}

// approve builds the approving response leg for an inbound request, echoing
// its correlation identifiers.
func approve(req *iso8583.Message) (*iso8583.Message, error) {
	mti, ok := responseMTI[req.MTI()]
	if !ok {
		return nil, fmt.Errorf("no response MTI for %q", req.MTI())
	}
	resp := iso8583.NewMessage(mti)
	echoed := []int{
		iso8583.DEProcessingCode,
		iso8583.DESTAN,
		iso8583.DELocalTime,
		iso8583.DELocalDate,
		iso8583.DEFunctionCode,
		iso8583.DERRN,
		iso8583.DETerminalID,
		iso8583.DECurrency,
		iso8583.DERecordData,
	}
	for _, field := range echoed {
		if value, ok := req.Get(field); ok {
			if err := resp.Set(field, value); err != nil {
				return nil, err
			}
		}
	}
	if err := resp.Set(iso8583.DEApprovalCode, "907862"); err != nil {
		return nil, err
	}
	if err := resp.Set(iso8583.DEResponseCode, "00"); err != nil {
		return nil, err
	}
	return resp, nil
}

// embeddedTxnID pulls the transaction id out of the pipe separated
// correlation record carried in field 120.
func embeddedTxnID(record string) string {
	for _, pair := range strings.Split(record, "|") {
		if strings.HasPrefix(pair, "id=") {
			return strings.TrimPrefix(pair, "id=")
		}
	}
	return "unknown"
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
