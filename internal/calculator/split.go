package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyItemName = errors.New("item name cannot be empty")
	ErrInvalidPrice  = errors.New("item price must be a positive number")
	ErrNoConsumers   = errors.New("item must have at least one consumer")
	ErrDupConsumer   = errors.New("item lists the same consumer more than once")
)

// cent is the tolerance below which a custom split is treated as balanced.
var cent = decimal.New(1, -2)

// Share is one participant's amount in an ordered split.
type Share struct {
	ParticipantID string
	Amount        decimal.Decimal
}

// Item represents a single menu item on the bill.
type Item struct {
	Name      string
	Price     decimal.Decimal
	Consumers []string
}

// RawItem is a menu item as entered by a user, before its price is parsed.
type RawItem struct {
	Name      string
	Price     string
	Consumers []string
}

// EqualSplit divides total evenly among participants, each share rounded to cents.
// The last participant absorbs the rounding remainder, so the shares always sum to
// total rounded to cents. Participants must be unique.
func EqualSplit(total decimal.Decimal, participants []string) map[string]decimal.Decimal {
	splits := make(map[string]decimal.Decimal, len(participants))
	if len(participants) == 0 {
		return splits
	}

	each := total.Div(decimal.NewFromInt(int64(len(participants)))).Round(2)
	allocated := decimal.Zero
	last := len(participants) - 1
	for i, p := range participants {
		if i == last {
			splits[p] = total.Sub(allocated).Round(2)
			break
		}
		splits[p] = each
		allocated = allocated.Add(each)
	}
	return splits
}

// CustomSplit accepts caller-supplied amounts. When they sum to within one cent of total
// they are returned unchanged; otherwise the last share is adjusted so the sum is exact.
func CustomSplit(total decimal.Decimal, shares []Share) map[string]decimal.Decimal {
	splits := make(map[string]decimal.Decimal, len(shares))
	if len(shares) == 0 {
		return splits
	}

	sum := decimal.Zero
	for _, s := range shares {
		splits[s.ParticipantID] = s.Amount
		sum = sum.Add(s.Amount)
	}

	if sum.Sub(total).Abs().GreaterThan(cent) {
		last := shares[len(shares)-1]
		others := sum.Sub(last.Amount)
		splits[last.ParticipantID] = total.Sub(others).Round(2)
	}
	return splits
}

// ItemizedSplit divides each item's price evenly among its consumers and accumulates
// per-participant totals. Only the final totals are rounded, so the rounded shares may
// drift from the returned total (the sum of raw item prices) by up to half a cent per
// participant. Items without consumers contribute to the total only.
func ItemizedSplit(items []Item) (map[string]decimal.Decimal, decimal.Decimal) {
	raw := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for _, item := range items {
		total = total.Add(item.Price)
		if len(item.Consumers) == 0 {
			continue
		}

		perPerson := item.Price.Div(decimal.NewFromInt(int64(len(item.Consumers))))
		for _, consumer := range item.Consumers {
			raw[consumer] = raw[consumer].Add(perPerson)
		}
	}

	splits := make(map[string]decimal.Decimal, len(raw))
	for participant, amount := range raw {
		splits[participant] = amount.Round(2)
	}
	return splits, total
}

// ParsePrice parses a user-entered price. The price must be a positive number;
// a comma is accepted as the decimal separator.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	price, err := decimal.NewFromString(s)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, ErrInvalidPrice
	}
	return price, nil
}

// ParseMenuItems validates raw menu items and parses their prices.
// Every item needs a non-empty name, a positive price, and at least one distinct consumer.
func ParseMenuItems(raw []RawItem) ([]Item, error) {
	items := make([]Item, len(raw))
	for i, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("item %d: %w", i+1, ErrEmptyItemName)
		}
		price, err := ParsePrice(r.Price)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i+1, name, err)
		}
		if err := checkConsumers(r.Consumers); err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i+1, name, err)
		}
		items[i] = Item{Name: name, Price: price, Consumers: r.Consumers}
	}
	return items, nil
}

// ValidateItems checks already-parsed items against the same rules as ParseMenuItems.
func ValidateItems(items []Item) error {
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("item %d: %w", i+1, ErrEmptyItemName)
		}
		if !item.Price.IsPositive() {
			return fmt.Errorf("item %d (%s): %w", i+1, item.Name, ErrInvalidPrice)
		}
		if err := checkConsumers(item.Consumers); err != nil {
			return fmt.Errorf("item %d (%s): %w", i+1, item.Name, err)
		}
	}
	return nil
}

func checkConsumers(consumers []string) error {
	if len(consumers) == 0 {
		return ErrNoConsumers
	}
	seen := make(map[string]struct{}, len(consumers))
	for _, c := range consumers {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s", ErrDupConsumer, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Sum adds up the amounts of a split.
func Sum(splits map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range splits {
		total = total.Add(amount)
	}
	return total
}
