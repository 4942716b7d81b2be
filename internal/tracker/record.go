// Package tracker owns the persistent record of every business transaction:
// uniqueness at creation, lifecycle state transitions, and the correlation
// lookups that match asynchronous counterpart responses back to the
// originating request.
package tracker

import (
	"time"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// State is the lifecycle state of a transaction.
type State string

const (
	// StateInit marks a freshly accepted request.
	StateInit State = "INIT"
	// StateISOSent marks a request forwarded to the counterpart.
	StateISOSent State = "ISO_SENT"
	// StateSuccess marks a counterpart response with code 00.
	StateSuccess State = "SUCCESS"
	// StateFailed marks a non-00 response or a silent counterpart.
	StateFailed State = "FAILED"
)

// Terminal reports whether the state ends the lifecycle.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// Record is an immutable snapshot of one transaction. Transitions produce a
// new snapshot via the With helpers; stores append snapshots rather than
// mutating rows in place.
type Record struct {
	// Key is the internally generated surrogate id of this snapshot.
	Key string `json:"key"`
	// TxnID is the business transaction identifier. Uniqueness is enforced
	// by the store at creation time, not by the id format.
	TxnID string      `json:"txn_id"`
	Type  npci.Family `json:"type"`
	State State       `json:"state"`

	// Correlation fields copied from the outbound ISO message so an
	// asynchronous reply can be matched back.
	STAN      string `json:"stan,omitempty"`
	RRN       string `json:"rrn,omitempty"`
	LocalTime string `json:"local_time,omitempty"`
	LocalDate string `json:"local_date,omitempty"`

	// ApprovalNum is mandatory on any terminal state; synthesized when the
	// counterpart omits it.
	ApprovalNum string `json:"approval_num,omitempty"`

	ReqPayload  []byte `json:"req_payload,omitempty"`
	RespPayload []byte `json:"resp_payload,omitempty"`

	ReqInAt   time.Time `json:"req_in_at,omitempty"`
	ReqOutAt  time.Time `json:"req_out_at,omitempty"`
	RespInAt  time.Time `json:"resp_in_at,omitempty"`
	RespOutAt time.Time `json:"resp_out_at,omitempty"`

	// Seq is a store assigned monotonic sequence used to order snapshots.
	Seq uint64 `json:"seq"`
}

// WithState returns a copy of the record in the given state.
func (r Record) WithState(s State) Record {
	r.State = s
	return r
}
