package calculator

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func participantsGen(t *rapid.T) []string {
	n := rapid.IntRange(1, 12).Draw(t, "participants")
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i)
	}
	return ids
}

func centsGen(t *rapid.T, label string) decimal.Decimal {
	return decimal.New(rapid.Int64Range(1, 10_000_000).Draw(t, label), -2)
}

func TestEqualSplitSumsToRoundedTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Up to three decimal places to exercise rounding of the total itself.
		total := decimal.New(rapid.Int64Range(1, 100_000_000).Draw(t, "total"), -3)
		participants := participantsGen(t)

		splits := EqualSplit(total, participants)

		require.Len(t, splits, len(participants))
		require.True(t, Sum(splits).Equal(total.Round(2)),
			"sum %s != rounded total %s", Sum(splits), total.Round(2))
	})
}

func TestCustomSplitReconciles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		participants := participantsGen(t)
		shares := make([]Share, len(participants))
		for i, p := range participants {
			shares[i] = Share{ParticipantID: p, Amount: centsGen(t, "amount")}
		}
		total := centsGen(t, "total")

		splits := CustomSplit(total, shares)

		var inputSum decimal.Decimal
		for _, s := range shares {
			inputSum = inputSum.Add(s.Amount)
		}
		if inputSum.Sub(total).Abs().LessThanOrEqual(cent) {
			for _, s := range shares {
				require.True(t, splits[s.ParticipantID].Equal(s.Amount), "share for %s changed", s.ParticipantID)
			}
			return
		}
		require.True(t, Sum(splits).Equal(total), "sum %s != total %s", Sum(splits), total)
	})
}

func TestItemizedSplitDriftIsBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		participants := participantsGen(t)
		n := rapid.IntRange(1, 20).Draw(t, "items")
		items := make([]Item, n)
		for i := range items {
			k := rapid.IntRange(1, len(participants)).Draw(t, "consumers")
			items[i] = Item{
				Name:      fmt.Sprintf("item%d", i),
				Price:     centsGen(t, "price"),
				Consumers: participants[:k],
			}
		}

		splits, total := ItemizedSplit(items)

		bound := cent.Mul(decimal.NewFromInt(int64(len(splits))))
		drift := Sum(splits).Sub(total).Abs()
		require.True(t, drift.LessThanOrEqual(bound), "drift %s exceeds %s", drift, bound)
	})
}
