package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billmate/internal/calculator"
	"github.com/mmynk/billmate/internal/models"
)

// splitInput is everything needed to compute a bill's split.
type splitInput struct {
	mode          models.SplitMode
	total         decimal.Decimal
	participants  []string
	customAmounts map[string]decimal.Decimal
	items         []calculator.Item
}

// splitResult is a computed split with the bill total it implies.
type splitResult struct {
	total     decimal.Decimal
	amounts   map[string]decimal.Decimal
	menuItems []models.MenuItem
}

// normalizeParticipants trims, drops blanks and duplicates, and makes sure the payer is included.
// The payer is prepended when missing so the caller's order is otherwise preserved.
func normalizeParticipants(paidBy string, participants []string) []string {
	out := make([]string, 0, len(participants)+1)
	for _, p := range participants {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	if paidBy != "" && !slices.Contains(out, paidBy) {
		out = append([]string{paidBy}, out...)
	}
	return out
}

func computeSplit(in splitInput) (splitResult, error) {
	if len(in.participants) == 0 {
		return splitResult{}, validationf("at least one participant is required")
	}

	switch in.mode {
	case models.SplitModeEqual:
		if !in.total.IsPositive() {
			return splitResult{}, validationf("total amount must be positive")
		}
		return splitResult{
			total:   in.total,
			amounts: calculator.EqualSplit(in.total, in.participants),
		}, nil

	case models.SplitModeCustom:
		return customSplit(in)

	case models.SplitModeItemized:
		return itemizedSplit(in)

	default:
		return splitResult{}, validationf("unknown split mode %q", in.mode)
	}
}

func customSplit(in splitInput) (splitResult, error) {
	if !in.total.IsPositive() {
		return splitResult{}, validationf("total amount must be positive")
	}
	for id, amount := range in.customAmounts {
		if !slices.Contains(in.participants, id) {
			return splitResult{}, validationf("custom amount for %s who is not a participant", id)
		}
		if amount.IsNegative() {
			return splitResult{}, validationf("custom amount for %s is negative", id)
		}
	}

	// Participant order decides which share absorbs a mismatch.
	shares := make([]calculator.Share, len(in.participants))
	for i, p := range in.participants {
		shares[i] = calculator.Share{ParticipantID: p, Amount: in.customAmounts[p]}
	}
	amounts := calculator.CustomSplit(in.total, shares)

	last := in.participants[len(in.participants)-1]
	if amounts[last].IsNegative() {
		return splitResult{}, validationf("custom amounts exceed the total by %s",
			calculator.Sum(amounts).Sub(amounts[last]).Sub(in.total).StringFixed(2))
	}
	return splitResult{total: in.total, amounts: amounts}, nil
}

func itemizedSplit(in splitInput) (splitResult, error) {
	if len(in.items) == 0 {
		return splitResult{}, validationf("itemized bills need at least one menu item")
	}
	if err := calculator.ValidateItems(in.items); err != nil {
		return splitResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	for _, item := range in.items {
		for _, consumer := range item.Consumers {
			if !slices.Contains(in.participants, consumer) {
				return splitResult{}, validationf("item %s consumed by %s who is not a participant", item.Name, consumer)
			}
		}
	}

	amounts, total := calculator.ItemizedSplit(in.items)
	for _, p := range in.participants {
		if _, ok := amounts[p]; !ok {
			amounts[p] = decimal.Zero
		}
	}

	menuItems := make([]models.MenuItem, len(in.items))
	for i, item := range in.items {
		menuItems[i] = models.MenuItem{
			Name:      strings.TrimSpace(item.Name),
			Price:     item.Price,
			Consumers: slices.Clone(item.Consumers),
		}
	}
	return splitResult{total: total, amounts: amounts, menuItems: menuItems}, nil
}

// itemsOf converts stored menu items back to calculator input.
func itemsOf(menuItems []models.MenuItem) []calculator.Item {
	items := make([]calculator.Item, len(menuItems))
	for i, m := range menuItems {
		items[i] = calculator.Item{Name: m.Name, Price: m.Price, Consumers: m.Consumers}
	}
	return items
}

// Split is a computed split that has not been persisted.
type Split struct {
	// Participants is the normalized participant order the split was computed over.
	Participants []string
	TotalAmount  decimal.Decimal
	Amounts      map[string]decimal.Decimal
}

// Preview computes the split CreateBill would store for in, without the actor
// checks and without writing anything. Only the split fields of in are used.
func Preview(in NewBill) (Split, error) {
	mode := in.SplitMode
	if mode == "" {
		mode = models.SplitModeEqual
	}
	participants := normalizeParticipants(strings.TrimSpace(in.PaidBy), in.Participants)
	split, err := computeSplit(splitInput{
		mode:          mode,
		total:         in.TotalAmount,
		participants:  participants,
		customAmounts: in.CustomAmounts,
		items:         in.MenuItems,
	})
	if err != nil {
		return Split{}, err
	}
	return Split{Participants: participants, TotalAmount: split.total, Amounts: split.amounts}, nil
}
