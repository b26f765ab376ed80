// Package notes selects shielded notes for a spend under a hardware-signer
// input ceiling and computes what can safely be spent after the fee.
package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultLedgerMaxInputs is the number of spend inputs a Ledger device can
// attest in one shielded transaction.
const DefaultLedgerMaxInputs = 4

// ErrInsufficientFundsForFee is reported by SelectionResult.Err when the
// selected notes do not cover the fee. SelectSpendable itself never fails.
var ErrInsufficientFundsForFee = errors.New("insufficient funds for fee")

// Note is one spendable fragment of a shielded balance for a single asset.
// Value is expressed in the asset's minimal denomination.
type Note struct {
	AssetAddress string          `json:"asset_address"`
	Value        decimal.Decimal `json:"value"`
}

// NewNote builds a note from an integer amount in minimal denomination.
func NewNote(asset string, value int64) Note {
	return Note{AssetAddress: asset, Value: decimal.NewFromInt(value)}
}

// UnmarshalJSON accepts both the object form and the indexer's
// ["<asset>", "<amount>"] pair form.
func (n *Note) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("note pair must have 2 elements, got %d", len(pair))
		}
		if err := json.Unmarshal(pair[0], &n.AssetAddress); err != nil {
			return fmt.Errorf("note asset: %w", err)
		}
		if err := json.Unmarshal(pair[1], &n.Value); err != nil {
			return fmt.Errorf("note value: %w", err)
		}
		return nil
	}

	type plain Note
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Note(p)
	return nil
}

// GasConfig is the fee source contract: the fee is gasLimit * gasPrice,
// both in the fee token's minimal denomination.
type GasConfig struct {
	GasLimit           decimal.Decimal `json:"gas_limit"`
	GasPriceInMinDenom decimal.Decimal `json:"gas_price"`
}

// Fee returns GasLimit * GasPriceInMinDenom.
func (g GasConfig) Fee() decimal.Decimal {
	return g.GasLimit.Mul(g.GasPriceInMinDenom)
}

// ToDisplayAmount converts a minimal-denomination amount into display units
// for an asset with the given exponent (uatom -> ATOM with exponent 6).
func ToDisplayAmount(amount decimal.Decimal, exponent int32) decimal.Decimal {
	return amount.Shift(-exponent)
}

// ToBaseAmount is the inverse of ToDisplayAmount.
func ToBaseAmount(amount decimal.Decimal, exponent int32) decimal.Decimal {
	return amount.Shift(exponent)
}
