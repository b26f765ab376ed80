package notes

import (
	"sync"

	klog "github.com/Klingon-tech/klingnet-masp/internal/log"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Update is delivered to Tracker subscribers after every recomputation.
// Generation increases with each change; a subscriber that sees a lower
// generation than one it already handled drops it as stale.
type Update struct {
	Generation uint64
	Ready      bool // False until an asset and a fee are both known.
	Result     SelectionResult
}

// Tracker re-runs SelectSpendable whenever one of its inputs changes: the
// note snapshot, the selected asset, the fee or the input ceiling. Results
// are never carried across a change. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	notes     []Note
	asset     string
	fee       decimal.Decimal
	feeKnown  bool
	maxInputs int
	unbounded bool // Ceiling follows the snapshot size.

	gen    uint64
	last   Update
	subs   map[int]func(Update)
	nextID int
	logger zerolog.Logger
}

// NewTracker creates a tracker with the given input ceiling.
func NewTracker(maxInputs int) *Tracker {
	return &Tracker{
		maxInputs: maxInputs,
		subs:      make(map[int]func(Update)),
		logger:    klog.Notes,
	}
}

// NewUnboundedTracker creates a tracker whose input ceiling is always the
// size of the current snapshot, for signers without an input limit.
// SetMaxInputs switches it to a fixed ceiling.
func NewUnboundedTracker() *Tracker {
	t := NewTracker(0)
	t.unbounded = true
	return t
}

// SetNotes replaces the note snapshot (for example after a shielded sync).
func (t *Tracker) SetNotes(notes []Note) {
	cp := make([]Note, len(notes))
	copy(cp, notes)
	t.apply(func() { t.notes = cp })
}

// SetAsset changes the asset being spent.
func (t *Tracker) SetAsset(asset string) {
	t.apply(func() { t.asset = asset })
}

// SetFee sets the fee in the asset's minimal denomination.
func (t *Tracker) SetFee(fee decimal.Decimal) {
	t.apply(func() {
		t.fee = fee
		t.feeKnown = true
	})
}

// Watch selects asset and fee in a single change, so no update pairs the
// new asset with the previous fee.
func (t *Tracker) Watch(asset string, fee decimal.Decimal) {
	t.apply(func() {
		t.asset = asset
		t.fee = fee
		t.feeKnown = true
	})
}

// SetGasConfig sets the fee from a gas limit and price.
func (t *Tracker) SetGasConfig(g GasConfig) {
	t.SetFee(g.Fee())
}

// SetMaxInputs changes the input ceiling.
func (t *Tracker) SetMaxInputs(n int) {
	t.apply(func() {
		t.maxInputs = n
		t.unbounded = false
	})
}

// Clear drops the asset and fee, e.g. when the active account is not a
// hardware account. Subscribers receive a not-ready update.
func (t *Tracker) Clear() {
	t.apply(func() {
		t.asset = ""
		t.fee = decimal.Zero
		t.feeKnown = false
	})
}

// Latest returns the most recent update.
func (t *Tracker) Latest() Update {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Subscribe registers fn for every future update and returns a func that
// unregisters it. fn runs on the goroutine that made the change, outside
// the tracker's lock.
func (t *Tracker) Subscribe(fn func(Update)) (cancel func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

func (t *Tracker) apply(change func()) {
	t.mu.Lock()
	change()
	t.gen++
	upd := Update{Generation: t.gen}
	if t.asset != "" && t.feeKnown {
		upd.Ready = true
		limit := t.maxInputs
		if t.unbounded {
			limit = len(t.notes)
		}
		upd.Result = SelectSpendable(t.notes, t.asset, t.fee, limit)
	}
	t.last = upd
	subs := make([]func(Update), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	if upd.Ready {
		t.logger.Debug().
			Uint64("generation", upd.Generation).
			Int("selected", len(upd.Result.Selected)).
			Int("candidates", upd.Result.Candidates).
			Str("available", upd.Result.AvailableToSpend.String()).
			Msg("Spendable amount recomputed")
	}
	for _, fn := range subs {
		fn(upd)
	}
}
