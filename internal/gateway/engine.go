// Package gateway orchestrates the two translation directions of the
// message gateway: NPCI XML requests going out to the bank switch as ISO
// 8583, and switch ISO traffic coming back as NPCI XML. Acknowledgments are
// synchronous; conversion, forwarding and state transitions run on a
// bounded worker pool.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/audit"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/convert"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/iso8583"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/rules"
	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/tracker"
)

// ErrCorrelationNotFound reports a response whose transaction could not be
// resolved by either correlation path.
var ErrCorrelationNotFound = errors.New("gateway: correlation not found")

// Dependencies collects the collaborators the engine orchestrates.
type Dependencies struct {
	Rules        *rules.Engine
	Converter    *convert.Converter
	Tracker      *tracker.Tracker
	NPCISender   Sender
	SwitchSender Sender
	Pool         *Pool
	Audit        audit.Publisher
	Logger       zerolog.Logger
	Now          func() time.Time
}

// Engine drives request and response legs through validation, conversion,
// tracking and forwarding.
type Engine struct {
	rules        *rules.Engine
	converter    *convert.Converter
	tracker      *tracker.Tracker
	npciSender   Sender
	switchSender Sender
	pool         *Pool
	audit        audit.Publisher
	logger       zerolog.Logger
	now          func() time.Time
}

// NewEngine validates the dependency set and constructs an engine.
func NewEngine(deps Dependencies) (*Engine, error) {
	if deps.Rules == nil {
		return nil, errors.New("gateway: rules dependency is required")
	}
	if deps.Converter == nil {
		return nil, errors.New("gateway: converter dependency is required")
	}
	if deps.Tracker == nil {
		return nil, errors.New("gateway: tracker dependency is required")
	}
	if deps.NPCISender == nil {
		return nil, errors.New("gateway: npci sender dependency is required")
	}
	if deps.SwitchSender == nil {
		return nil, errors.New("gateway: switch sender dependency is required")
	}
	if deps.Pool == nil {
		return nil, errors.New("gateway: pool dependency is required")
	}

	logger := deps.Logger
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	auditPub := deps.Audit
	if auditPub == nil {
		auditPub = audit.NopPublisher{}
	}
	nowFunc := deps.Now
	if nowFunc == nil {
		nowFunc = time.Now
	}

	return &Engine{
		rules:        deps.Rules,
		converter:    deps.Converter,
		tracker:      deps.Tracker,
		npciSender:   deps.NPCISender,
		switchSender: deps.SwitchSender,
		pool:         deps.Pool,
		audit:        auditPub,
		logger:       logger.With().Str("component", "gateway_engine").Logger(),
		now:          nowFunc,
	}, nil
}

// HandleNPCIRequest accepts an inbound XML request from the NPCI side. The
// returned Ack is produced synchronously; conversion and forwarding to the
// switch run on the worker pool. Validation failures, duplicates and queue
// saturation are surfaced as typed errors without an Ack.
func (e *Engine) HandleNPCIRequest(ctx context.Context, family npci.Family, raw []byte) (npci.Ack, error) {
	req, err := e.parseRequest(family, raw)
	if err != nil {
		return npci.Ack{}, err
	}
	if err := req.validate(); err != nil {
		e.logger.Warn().
			Str("family", string(family)).
			Str("txn_id", req.txnID).
			Err(err).
			Msg("request failed validation")
		return npci.Ack{}, err
	}

	if _, err := e.tracker.CreateIfAbsent(ctx, req.txnID, family, raw); err != nil {
		if errors.Is(err, tracker.ErrDuplicateTransaction) {
			e.logger.Warn().
				Str("family", string(family)).
				Str("txn_id", req.txnID).
				Msg("duplicate transaction rejected")
		}
		return npci.Ack{}, err
	}
	e.publishAudit(ctx, audit.Event{
		TxnID: req.txnID, Family: family,
		EventType: audit.EventCreated, State: string(tracker.StateInit),
	})

	txnID := req.txnID
	toISO := req.toISO
	if err := e.pool.Submit(func() { e.forwardRequest(family, txnID, toISO) }); err != nil {
		// The record was already created; drive it terminal so the id is
		// not left dangling in INIT.
		if _, markErr := e.tracker.MarkTerminal(context.Background(), txnID, false, nil, ""); markErr != nil {
			e.logger.Error().Str("txn_id", txnID).Err(markErr).Msg("failed to fail rejected transaction")
		}
		e.publishAudit(ctx, audit.Event{
			TxnID: txnID, Family: family,
			EventType: audit.EventRejected, State: string(tracker.StateFailed),
			Detail: err.Error(),
		})
		return npci.Ack{}, err
	}

	return npci.NewAck(family.RequestAPI(), req.head.MsgID, e.now()), nil
}

// forwardRequest is the asynchronous leg of an accepted NPCI request:
// convert, record the correlation identifiers, pack and send. Any failure,
// including a silent counterpart, drives the transaction to FAILED. There
// is no retry here.
func (e *Engine) forwardRequest(family npci.Family, txnID string, toISO func() (*iso8583.Message, error)) {
	ctx := context.Background()
	logger := e.logger.With().Str("family", string(family)).Str("txn_id", txnID).Logger()

	msg, err := toISO()
	if err != nil {
		logger.Error().Err(err).Msg("conversion to ISO failed")
		e.failTransaction(ctx, family, txnID, err)
		return
	}

	if _, err := e.tracker.MarkForwarded(ctx, txnID, tracker.Correlation{
		STAN:      msg.GetString(iso8583.DESTAN),
		RRN:       msg.GetString(iso8583.DERRN),
		LocalTime: msg.GetString(iso8583.DELocalTime),
		LocalDate: msg.GetString(iso8583.DELocalDate),
	}); err != nil {
		logger.Error().Err(err).Msg("failed to record forwarded state")
		return
	}

	packed, err := msg.Pack()
	if err != nil {
		logger.Error().Err(err).Msg("packing outbound message failed")
		e.failTransaction(ctx, family, txnID, err)
		return
	}

	if _, err := e.switchSender.Send(ctx, family.Route(), packed); err != nil {
		logger.Warn().Err(err).Msg("counterpart silent or unreachable")
		e.failTransaction(ctx, family, txnID, err)
		return
	}

	logger.Info().Str("mti", msg.MTI()).Msg("request forwarded to switch")
	e.publishAudit(ctx, audit.Event{
		TxnID: txnID, Family: family,
		EventType: audit.EventForwarded, State: string(tracker.StateISOSent),
	})
}

// HandleSwitchResponse accepts an inbound ISO response from the switch,
// resolves the originating transaction, records the terminal state and
// forwards the rebuilt XML response to the NPCI side. An unresolvable
// response is still forwarded best-effort.
func (e *Engine) HandleSwitchResponse(ctx context.Context, raw []byte) error {
	msg, err := iso8583.Unpack(raw)
	if err != nil {
		return fmt.Errorf("gateway: unpack response: %w", err)
	}
	family, ok := responseFamilyByMTI[msg.MTI()]
	if !ok {
		return fmt.Errorf("gateway: no response family for MTI %q", msg.MTI())
	}
	resp, err := e.responseFromISO(family, msg)
	if err != nil {
		return err
	}
	logger := e.logger.With().Str("family", string(family)).Str("txn_id", resp.txnID).Logger()

	rec, err := e.resolveTransaction(ctx, family, resp.txnID)
	if err != nil {
		logger.Warn().Msg("no transaction matches response; forwarding without state transition")
		e.publishAudit(ctx, audit.Event{
			TxnID: resp.txnID, Family: family,
			EventType: audit.EventCorrelationMiss,
		})
		return e.forwardResponse(ctx, family, resp, "")
	}

	success := resp.result == npci.ResultSuccess
	terminal, err := e.tracker.MarkTerminal(ctx, rec.TxnID, success, raw, resp.approval)
	if err != nil {
		return fmt.Errorf("gateway: record terminal state: %w", err)
	}
	resp.setApproval(terminal.ApprovalNum)
	e.publishAudit(ctx, audit.Event{
		TxnID: rec.TxnID, Family: family,
		EventType: audit.EventTerminal, State: string(terminal.State),
	})

	if err := e.forwardResponse(ctx, family, resp, rec.TxnID); err != nil {
		return err
	}
	logger.Info().Str("state", string(terminal.State)).Msg("response forwarded to npci")
	return nil
}

// forwardResponse marshals and sends the XML response to the NPCI side.
// When markedTxnID is non-empty the response-out timestamp is recorded.
func (e *Engine) forwardResponse(ctx context.Context, family npci.Family, resp *parsedResponse, markedTxnID string) error {
	payload, err := npci.Marshal(resp.doc)
	if err != nil {
		return fmt.Errorf("gateway: marshal response: %w", err)
	}
	if _, err := e.npciSender.Send(ctx, family.Route()+"/resp", payload); err != nil {
		return err
	}
	if markedTxnID != "" {
		if _, err := e.tracker.MarkResponseForwarded(ctx, markedTxnID); err != nil {
			e.logger.Error().Str("txn_id", markedTxnID).Err(err).Msg("failed to stamp response forwarded")
		}
		e.publishAudit(ctx, audit.Event{
			TxnID: markedTxnID, Family: family,
			EventType: audit.EventResponseForwarded,
		})
	}
	return nil
}

// HandleSwitchRequest accepts an inbound ISO request originated by the bank
// switch, rebuilds the XML request document and forwards it to the NPCI
// side on the worker pool. The inbound message's own correlation
// identifiers are recorded so the NPCI response can be echoed back.
func (e *Engine) HandleSwitchRequest(ctx context.Context, raw []byte) error {
	msg, err := iso8583.Unpack(raw)
	if err != nil {
		return fmt.Errorf("gateway: unpack request: %w", err)
	}
	family, ok := requestFamilyByMTI[msg.MTI()]
	if !ok {
		return fmt.Errorf("gateway: no request family for MTI %q", msg.MTI())
	}
	doc, txnID, err := e.requestFromISO(family, msg)
	if err != nil {
		return err
	}
	payload, err := npci.Marshal(doc)
	if err != nil {
		return fmt.Errorf("gateway: marshal request: %w", err)
	}

	if _, err := e.tracker.CreateIfAbsent(ctx, txnID, family, payload); err != nil {
		return err
	}
	e.publishAudit(ctx, audit.Event{
		TxnID: txnID, Family: family,
		EventType: audit.EventCreated, State: string(tracker.StateInit),
	})

	corr := tracker.Correlation{
		STAN:      msg.GetString(iso8583.DESTAN),
		RRN:       msg.GetString(iso8583.DERRN),
		LocalTime: msg.GetString(iso8583.DELocalTime),
		LocalDate: msg.GetString(iso8583.DELocalDate),
	}
	if err := e.pool.Submit(func() { e.forwardSwitchRequest(family, txnID, corr, payload) }); err != nil {
		if _, markErr := e.tracker.MarkTerminal(context.Background(), txnID, false, nil, ""); markErr != nil {
			e.logger.Error().Str("txn_id", txnID).Err(markErr).Msg("failed to fail rejected transaction")
		}
		e.publishAudit(ctx, audit.Event{
			TxnID: txnID, Family: family,
			EventType: audit.EventRejected, State: string(tracker.StateFailed),
			Detail: err.Error(),
		})
		return err
	}
	return nil
}

func (e *Engine) forwardSwitchRequest(family npci.Family, txnID string, corr tracker.Correlation, payload []byte) {
	ctx := context.Background()
	logger := e.logger.With().Str("family", string(family)).Str("txn_id", txnID).Logger()

	if _, err := e.tracker.MarkForwarded(ctx, txnID, corr); err != nil {
		logger.Error().Err(err).Msg("failed to record forwarded state")
		return
	}
	if _, err := e.npciSender.Send(ctx, family.Route(), payload); err != nil {
		logger.Warn().Err(err).Msg("counterpart silent or unreachable")
		e.failTransaction(ctx, family, txnID, err)
		return
	}
	logger.Info().Msg("request forwarded to npci")
	e.publishAudit(ctx, audit.Event{
		TxnID: txnID, Family: family,
		EventType: audit.EventForwarded, State: string(tracker.StateISOSent),
	})
}

// HandleNPCIResponse accepts an inbound XML response from the NPCI side for
// a switch originated transaction, records the terminal state and forwards
// the ISO rendition to the switch, echoing the correlation identifiers
// captured on the request leg.
func (e *Engine) HandleNPCIResponse(ctx context.Context, family npci.Family, raw []byte) error {
	resp, err := e.parseResponse(family, raw)
	if err != nil {
		return err
	}
	logger := e.logger.With().Str("family", string(family)).Str("txn_id", resp.txnID).Logger()

	echo := convert.Echo{}
	rec, err := e.resolveTransaction(ctx, family, resp.txnID)
	if err != nil {
		logger.Warn().Msg("no transaction matches response; forwarding without state transition")
		e.publishAudit(ctx, audit.Event{
			TxnID: resp.txnID, Family: family,
			EventType: audit.EventCorrelationMiss,
		})
	} else {
		success := resp.result == npci.ResultSuccess
		terminal, err := e.tracker.MarkTerminal(ctx, rec.TxnID, success, raw, resp.approval)
		if err != nil {
			return fmt.Errorf("gateway: record terminal state: %w", err)
		}
		resp.setApproval(terminal.ApprovalNum)
		echo = convert.Echo{
			STAN:      rec.STAN,
			RRN:       rec.RRN,
			LocalTime: rec.LocalTime,
			LocalDate: rec.LocalDate,
		}
		e.publishAudit(ctx, audit.Event{
			TxnID: rec.TxnID, Family: family,
			EventType: audit.EventTerminal, State: string(terminal.State),
		})
	}

	msg, err := resp.toISO(echo)
	if err != nil {
		return err
	}
	packed, err := msg.Pack()
	if err != nil {
		return fmt.Errorf("gateway: pack response: %w", err)
	}
	if _, err := e.switchSender.Send(ctx, family.Route()+"/resp", packed); err != nil {
		return err
	}
	if rec.TxnID != "" {
		if _, err := e.tracker.MarkResponseForwarded(ctx, rec.TxnID); err != nil {
			logger.Error().Err(err).Msg("failed to stamp response forwarded")
		}
		e.publishAudit(ctx, audit.Event{
			TxnID: rec.TxnID, Family: family,
			EventType: audit.EventResponseForwarded,
		})
	}
	return nil
}

// resolveTransaction tries the primary correlation lookup and falls back to
// scanning outstanding request payloads for the embedded id.
func (e *Engine) resolveTransaction(ctx context.Context, family npci.Family, txnID string) (tracker.Record, error) {
	rec, err := e.tracker.FindByCorrelation(ctx, txnID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, tracker.ErrNotFound) {
		return tracker.Record{}, err
	}
	rec, err = e.tracker.FindByEmbeddedID(ctx, family, txnID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, tracker.ErrNotFound) {
		return tracker.Record{}, err
	}
	return tracker.Record{}, ErrCorrelationNotFound
}

func (e *Engine) failTransaction(ctx context.Context, family npci.Family, txnID string, cause error) {
	if _, err := e.tracker.MarkTerminal(ctx, txnID, false, nil, ""); err != nil {
		e.logger.Error().Str("txn_id", txnID).Err(err).Msg("failed to record FAILED state")
		return
	}
	e.publishAudit(ctx, audit.Event{
		TxnID: txnID, Family: family,
		EventType: audit.EventTerminal, State: string(tracker.StateFailed),
		Detail: cause.Error(),
	})
}

func (e *Engine) publishAudit(ctx context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now()
	}
	if err := e.audit.Publish(ctx, event); err != nil {
		e.logger.Error().
			Str("txn_id", event.TxnID).
			Str("event", event.EventType).
			Err(err).
			Msg("failed to publish audit event")
	}
}
