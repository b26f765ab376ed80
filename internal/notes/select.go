package notes

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SelectionResult holds the notes picked for a spend and what remains
// spendable once the fee is paid.
type SelectionResult struct {
	Selected         []Note          `json:"selected"`
	AvailableToSpend decimal.Decimal `json:"available_to_spend"`
	Candidates       int             `json:"candidates"` // Notes of the asset before truncation.
	MaxInputs        int             `json:"max_inputs"`
}

// SelectSpendable picks the notes of asset to spend under a maxInputs ceiling.
//
// Notes are filtered to asset, ordered by value descending (ties keep their
// input order) and truncated to maxInputs, so each input the signer can
// attest carries as much value as possible. AvailableToSpend is the sum of
// the selected values minus fee and may be zero or negative; callers treat
// that as insufficient funds. The input slice is not modified.
func SelectSpendable(notes []Note, asset string, fee decimal.Decimal, maxInputs int) SelectionResult {
	var matching []Note
	for _, n := range notes {
		if n.AssetAddress == asset {
			matching = append(matching, n)
		}
	}
	if len(matching) == 0 {
		return SelectionResult{
			Selected:         []Note{},
			AvailableToSpend: decimal.Zero,
			MaxInputs:        maxInputs,
		}
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Value.GreaterThan(matching[j].Value)
	})

	limit := len(matching)
	if maxInputs < limit {
		limit = maxInputs
	}
	if limit < 0 {
		limit = 0
	}
	selected := make([]Note, limit)
	copy(selected, matching[:limit])

	return SelectionResult{
		Selected:         selected,
		AvailableToSpend: sumValues(selected).Sub(fee),
		Candidates:       len(matching),
		MaxInputs:        maxInputs,
	}
}

// Total returns the summed value of the selected notes.
func (r SelectionResult) Total() decimal.Decimal {
	return sumValues(r.Selected)
}

// Insufficient reports whether nothing can be spent after the fee.
func (r SelectionResult) Insufficient() bool {
	return !r.AvailableToSpend.IsPositive()
}

// Truncated reports whether the input ceiling left matching notes unselected.
// The remainder becomes spendable in a follow-up transaction.
func (r SelectionResult) Truncated() bool {
	return r.Candidates > len(r.Selected)
}

// Err returns ErrInsufficientFundsForFee when Insufficient, nil otherwise.
func (r SelectionResult) Err() error {
	if !r.Insufficient() {
		return nil
	}
	return fmt.Errorf("%w: selected %s, spendable %s",
		ErrInsufficientFundsForFee, r.Total(), r.AvailableToSpend)
}

// DisplaySpendable converts AvailableToSpend into display units and truncates
// it toward zero at places decimals, so the shown amount never exceeds what
// the chain will accept.
func (r SelectionResult) DisplaySpendable(exponent, places int32) decimal.Decimal {
	return ToDisplayAmount(r.AvailableToSpend, exponent).Truncate(places)
}

func sumValues(notes []Note) decimal.Decimal {
	total := decimal.Zero
	for _, n := range notes {
		total = total.Add(n.Value)
	}
	return total
}
