package rpc

import (
	"errors"
	"fmt"

	klog "github.com/Klingon-tech/klingnet-masp/internal/log"
	"github.com/Klingon-tech/klingnet-masp/internal/notes"
	"github.com/shopspring/decimal"
)

// ── Note endpoints ──────────────────────────────────────────────────────

func (s *Server) requireNoteStore() *Error {
	if s.notes == nil {
		return &Error{Code: CodeInternalError, Message: "note store not available"}
	}
	return nil
}

func (s *Server) handleNotesSetSnapshot(req *Request) (interface{}, *Error) {
	if err := s.requireNoteStore(); err != nil {
		return nil, err
	}
	var params SnapshotParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Account == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "account is required"}
	}

	var prev string
	if old, err := s.notes.Get(params.Account); err == nil {
		prev = old.Fingerprint
	}

	fp, err := s.notes.Put(params.Account, params.Notes)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	// Snapshot changes feed the account's tracker, if one is being watched.
	if t := s.tracker(params.Account, false); t != nil {
		t.SetNotes(params.Notes)
	}

	return &SnapshotResult{
		Account:     params.Account,
		Fingerprint: fp,
		Notes:       len(params.Notes),
		Changed:     fp != prev,
	}, nil
}

func (s *Server) handleNotesGetSnapshot(req *Request) (interface{}, *Error) {
	if err := s.requireNoteStore(); err != nil {
		return nil, err
	}
	var params AccountParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	snap, rpcErr := s.loadSnapshot(params.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return snap, nil
}

func (s *Server) handleNotesSelect(req *Request) (interface{}, *Error) {
	var params SelectParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Asset == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "asset is required"}
	}
	fee, rpcErr := resolveFee(params.Fee, params.Gas)
	if rpcErr != nil {
		return nil, rpcErr
	}

	noteList := params.Notes
	if noteList == nil {
		if params.Account == "" {
			return nil, &Error{Code: CodeInvalidParams, Message: "account or notes is required"}
		}
		if err := s.requireNoteStore(); err != nil {
			return nil, err
		}
		snap, rpcErr := s.loadSnapshot(params.Account)
		if rpcErr != nil {
			return nil, rpcErr
		}
		noteList = snap.Notes
	}

	maxInputs := s.defaultMaxInputs(len(noteList))
	if params.MaxInputs != nil {
		maxInputs = *params.MaxInputs
	}

	res := notes.SelectSpendable(noteList, params.Asset, fee, maxInputs)
	out := NewSelectResult(res)
	if params.Exponent != nil {
		places := *params.Exponent
		if params.Places != nil {
			places = *params.Places
		}
		out.Display = res.DisplaySpendable(*params.Exponent, places).String()
	}
	return out, nil
}

func (s *Server) handleNotesWatch(req *Request) (interface{}, *Error) {
	if err := s.requireNoteStore(); err != nil {
		return nil, err
	}
	var params WatchParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Account == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "account is required"}
	}

	if params.Asset == "" {
		gen := s.unwatch(params.Account)
		return &WatchResult{Account: params.Account, Generation: gen}, nil
	}
	fee, rpcErr := resolveFee(params.Fee, params.Gas)
	if rpcErr != nil {
		return nil, rpcErr
	}
	t := s.tracker(params.Account, true)
	t.Watch(params.Asset, fee)
	return newWatchResult(params.Account, t.Latest()), nil
}

func (s *Server) handleNotesLatest(req *Request) (interface{}, *Error) {
	var params AccountParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	t := s.tracker(params.Account, false)
	if t == nil {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("account %q is not watched", params.Account)}
	}
	return newWatchResult(params.Account, t.Latest()), nil
}

// watchEntry is a tracker bound to an account by notes_watch.
type watchEntry struct {
	tracker *notes.Tracker
	cancel  func()
}

// tracker returns the account's tracker, creating and seeding it from the
// stored snapshot when create is set.
func (s *Server) tracker(account string, create bool) *notes.Tracker {
	s.trackersMu.Lock()
	defer s.trackersMu.Unlock()

	if w, ok := s.trackers[account]; ok {
		return w.tracker
	}
	if !create {
		return nil
	}

	var t *notes.Tracker
	if s.ledger.Enabled {
		t = notes.NewTracker(s.ledger.MaxInputs)
	} else {
		t = notes.NewUnboundedTracker()
	}
	if snap, err := s.notes.Get(account); err == nil {
		t.SetNotes(snap.Notes)
	}
	logger := klog.WithAccount(account)
	cancel := t.Subscribe(func(u notes.Update) {
		if u.Ready && u.Result.Insufficient() {
			logger.Debug().Uint64("generation", u.Generation).Msg("Selection cannot cover the fee")
		}
	})
	s.trackers[account] = &watchEntry{tracker: t, cancel: cancel}
	return t
}

// unwatch drops the account's tracker and returns the generation it had
// reached, or 0 when the account was not watched.
func (s *Server) unwatch(account string) uint64 {
	s.trackersMu.Lock()
	w, ok := s.trackers[account]
	delete(s.trackers, account)
	s.trackersMu.Unlock()

	if !ok {
		return 0
	}
	w.cancel()
	return w.tracker.Latest().Generation
}

func (s *Server) loadSnapshot(account string) (*notes.Snapshot, *Error) {
	if account == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "account is required"}
	}
	snap, err := s.notes.Get(account)
	if errors.Is(err, notes.ErrNoSnapshot) {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("no note snapshot for %s", account)}
	}
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return snap, nil
}

// defaultMaxInputs is the ceiling applied when a request names none. Without
// a hardware signer every note may be spent.
func (s *Server) defaultMaxInputs(noteCount int) int {
	if s.ledger.Enabled {
		return s.ledger.MaxInputs
	}
	return noteCount
}

func resolveFee(fee *decimal.Decimal, gas *notes.GasConfig) (decimal.Decimal, *Error) {
	switch {
	case fee != nil:
		if fee.IsNegative() {
			return decimal.Zero, &Error{Code: CodeInvalidParams, Message: "fee must not be negative"}
		}
		return *fee, nil
	case gas != nil:
		return gas.Fee(), nil
	default:
		return decimal.Zero, &Error{Code: CodeInvalidParams, Message: "fee or gas is required"}
	}
}

func newWatchResult(account string, u notes.Update) *WatchResult {
	out := &WatchResult{
		Account:    account,
		Generation: u.Generation,
		Ready:      u.Ready,
	}
	if u.Ready {
		out.Selection = NewSelectResult(u.Result)
	}
	return out
}
