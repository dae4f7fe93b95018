package debts

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mmynk/billmate/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func twoPersonBill(id string, createdAt int64, amount string) *models.Bill {
	return &models.Bill{
		ID:           id,
		Restaurant:   "Somtum Der",
		TotalAmount:  d(amount).Mul(decimal.NewFromInt(2)),
		PaidBy:       "owner",
		Participants: []string{"owner", "payer"},
		SplitAmounts: map[string]decimal.Decimal{"owner": d(amount), "payer": d(amount)},
		Payments:     models.NewPayments(),
		Status:       models.BillStatusActive,
		CreatedAt:    createdAt,
	}
}

func TestSummarize_DebtCreditSymmetry(t *testing.T) {
	bill := twoPersonBill("b1", 100, "45.50")
	bills := []*models.Bill{bill}

	debt := Summarize("payer", bills)
	credit := Summarize("owner", bills)

	require.Len(t, debt.Debts, 1)
	require.Empty(t, debt.Credits)
	require.Len(t, credit.Credits, 1)
	require.Empty(t, credit.Debts)
	require.True(t, debt.Debts[0].Amount.Equal(d("45.50")))
	require.True(t, credit.Credits[0].Amount.Equal(d("45.50")))
	require.Equal(t, debt.Debts[0].Status, credit.Credits[0].Status)
	require.Equal(t, "owner", debt.Debts[0].CounterpartyID)
	require.Equal(t, "payer", credit.Credits[0].CounterpartyID)
	require.True(t, debt.TotalDebt.Equal(d("45.50")))

	// Pending payments stay listed even with nothing remaining.
	bill.Payments.Reports["payer"] = models.PaymentReport{Amount: d("45.50"), Status: models.PaymentStatusPending}
	debt = Summarize("payer", bills)
	credit = Summarize("owner", bills)
	require.Len(t, debt.Debts, 1)
	require.Equal(t, StatusPending, debt.Debts[0].Status)
	require.Equal(t, StatusPending, credit.Credits[0].Status)
	require.True(t, debt.Debts[0].Amount.IsZero())

	bill.Payments.Reports["payer"] = models.PaymentReport{Amount: d("45.50"), Status: models.PaymentStatusConfirmed}
	debt = Summarize("payer", bills)
	credit = Summarize("owner", bills)
	require.Empty(t, debt.Debts)
	require.Empty(t, credit.Credits)
	require.True(t, debt.TotalDebt.IsZero())
	require.True(t, credit.TotalCredit.IsZero())
}

func TestSummarize_OverpaymentDoesNotOffsetOtherDebts(t *testing.T) {
	billA := twoPersonBill("a", 200, "50")
	billC := twoPersonBill("c", 100, "50")
	billC.PaidBy = "other"
	billC.Participants = []string{"other", "payer"}
	billC.SplitAmounts = map[string]decimal.Decimal{"other": d("50"), "payer": d("50")}
	// More than the share, e.g. after the payer shrank the bill.
	billA.Payments.Reports["payer"] = models.PaymentReport{Amount: d("500"), Status: models.PaymentStatusPending}

	s := Summarize("payer", []*models.Bill{billA, billC})
	require.Len(t, s.Debts, 2)
	require.Equal(t, "a", s.Debts[0].BillID)
	require.Equal(t, StatusPending, s.Debts[0].Status)
	require.True(t, s.Debts[0].Amount.IsZero(), "got %s", s.Debts[0].Amount)
	require.True(t, s.Debts[1].Amount.Equal(d("50")))
	require.True(t, s.TotalDebt.Equal(d("50")), "got %s", s.TotalDebt)

	owner := Summarize("owner", []*models.Bill{billA, billC})
	require.Len(t, owner.Credits, 1)
	require.True(t, owner.TotalCredit.IsZero(), "got %s", owner.TotalCredit)
}

func TestSummarize_PartialAndRequested(t *testing.T) {
	bill := twoPersonBill("b1", 100, "30")
	bill.Payments.Requests["payer"] = models.PaymentRequest{Amount: d("30"), Status: models.RequestStatusRequested}

	s := Summarize("payer", []*models.Bill{bill})
	require.Len(t, s.Debts, 1)
	require.Equal(t, StatusUnpaid, s.Debts[0].Status)
	require.True(t, s.Debts[0].Requested)

	// A confirmed partial payment keeps the rest listed but out of the total.
	bill.Payments.Reports["payer"] = models.PaymentReport{Amount: d("10"), Status: models.PaymentStatusConfirmed}
	s = Summarize("payer", []*models.Bill{bill})
	require.Len(t, s.Debts, 1)
	require.Equal(t, StatusPaid, s.Debts[0].Status)
	require.True(t, s.Debts[0].Amount.Equal(d("20")))
	require.True(t, s.TotalDebt.IsZero())
}

func TestSummarize_OrderAndIgnoredBills(t *testing.T) {
	older := twoPersonBill("older", 100, "10")
	newer := twoPersonBill("newer", 200, "20")
	tieA := twoPersonBill("tie-a", 150, "1")
	tieB := twoPersonBill("tie-b", 150, "2")
	stranger := twoPersonBill("stranger", 300, "99")
	stranger.Participants = []string{"owner", "someone"}

	s := Summarize("payer", []*models.Bill{older, tieA, newer, tieB, stranger})

	ids := make([]string, len(s.Debts))
	for i, e := range s.Debts {
		ids[i] = e.BillID
	}
	require.Equal(t, []string{"newer", "tie-a", "tie-b", "older"}, ids)
	require.True(t, s.TotalDebt.Equal(d("33")))
	require.Equal(t, []string{"owner"}, s.Counterparties())
}

func TestSummary_WithNames(t *testing.T) {
	s := Summarize("owner", []*models.Bill{twoPersonBill("b1", 1, "5")})
	s = s.WithNames(map[string]string{"payer": "Pat"})
	require.Equal(t, "Pat", s.Credits[0].CounterpartyName)

	s = s.WithNames(nil)
	require.Equal(t, "payer", s.Credits[0].CounterpartyName)
}

func TestSummarize_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 15).Draw(t, "bills")
		bills := make([]*models.Bill, n)
		for i := range bills {
			cents := rapid.Int64Range(1, 100_000).Draw(t, "cents")
			bill := twoPersonBill(fmt.Sprintf("b%d", i), rapid.Int64Range(0, 5).Draw(t, "createdAt"), decimal.New(cents, -2).String())
			if rapid.Bool().Draw(t, "ownerIsPayer") {
				bill.PaidBy = "payer"
			}
			switch rapid.IntRange(0, 3).Draw(t, "payment") {
			case 1:
				bill.Payments.Reports["payer"] = models.PaymentReport{Amount: decimal.New(cents/2, -2), Status: models.PaymentStatusPending}
			case 2:
				bill.Payments.Reports["payer"] = models.PaymentReport{Amount: decimal.New(cents, -2), Status: models.PaymentStatusConfirmed}
			case 3:
				bill.Payments.Requests["payer"] = models.PaymentRequest{Amount: decimal.New(cents, -2), Status: models.RequestStatusRequested}
			}
			bills[i] = bill
		}

		for _, viewer := range []string{"owner", "payer"} {
			first := Summarize(viewer, bills)
			second := Summarize(viewer, bills)
			require.Equal(t, first, second)
		}
	})
}
