package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BillForBalance represents a bill with the minimal information needed for balance calculations.
type BillForBalance struct {
	PayerID string
	Splits  map[string]decimal.Decimal
	// Confirmed maps participant ID to the amount the payer confirmed receiving.
	Confirmed map[string]decimal.Decimal
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberID   string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Fronted bills plus confirmed repayments sent
	TotalOwed  decimal.Decimal // Own shares plus confirmed repayments received
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// CalculateGroupBalances computes balances across multiple bills.
// It aggregates who paid what and who owes what, returning both individual
// member balances and a simplified debt matrix.
//
// Algorithm:
// - For each bill: payer contributed +sum(splits), each participant owes their split
// - For each confirmed payment: sender's paid side grows, receiver's owed side grows
// - Aggregate: net_balance = total_paid - total_owed
// - Debt matrix: greedy matching of largest debtor against largest creditor
func CalculateGroupBalances(bills []BillForBalance) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	member := func(id string) *MemberBalance {
		if _, exists := balances[id]; !exists {
			balances[id] = &MemberBalance{MemberID: id}
		}
		return balances[id]
	}

	for _, bill := range bills {
		// Skip bills without payer (can't calculate balances)
		if bill.PayerID == "" {
			continue
		}

		payer := member(bill.PayerID)
		payer.TotalPaid = payer.TotalPaid.Add(Sum(bill.Splits))

		for participant, share := range bill.Splits {
			m := member(participant)
			m.TotalOwed = m.TotalOwed.Add(share)
		}

		for participant, amount := range bill.Confirmed {
			if participant == bill.PayerID {
				continue
			}
			sender := member(participant)
			sender.TotalPaid = sender.TotalPaid.Add(amount)
			payer.TotalOwed = payer.TotalOwed.Add(amount)
		}
	}

	memberBalances := make([]MemberBalance, 0, len(balances))
	var creditors, debtors []*MemberBalance
	for _, bal := range balances {
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		memberBalances = append(memberBalances, *bal)
		switch {
		case bal.NetBalance.GreaterThan(cent):
			creditors = append(creditors, bal)
		case bal.NetBalance.LessThan(cent.Neg()):
			debtors = append(debtors, bal)
		}
	}
	sort.Slice(memberBalances, func(i, j int) bool {
		return memberBalances[i].MemberID < memberBalances[j].MemberID
	})

	return memberBalances, simplifyDebts(debtors, creditors)
}

// simplifyDebts matches the largest debts with the largest credits to minimize transactions.
func simplifyDebts(debtors, creditors []*MemberBalance) []DebtEdge {
	byMagnitude := func(list []*MemberBalance) {
		sort.Slice(list, func(i, j int) bool {
			a, b := list[i].NetBalance.Abs(), list[j].NetBalance.Abs()
			if !a.Equal(b) {
				return a.GreaterThan(b)
			}
			return list[i].MemberID < list[j].MemberID
		})
	}
	byMagnitude(debtors)
	byMagnitude(creditors)

	debtorBalance := make([]decimal.Decimal, len(debtors))
	for i, d := range debtors {
		debtorBalance[i] = d.NetBalance.Neg()
	}
	creditorBalance := make([]decimal.Decimal, len(creditors))
	for i, c := range creditors {
		creditorBalance[i] = c.NetBalance
	}

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtorBalance[i], creditorBalance[j])
		if amount.GreaterThanOrEqual(cent) {
			edges = append(edges, DebtEdge{
				From:   debtors[i].MemberID,
				To:     creditors[j].MemberID,
				Amount: amount.Round(2),
			})
		}

		debtorBalance[i] = debtorBalance[i].Sub(amount)
		creditorBalance[j] = creditorBalance[j].Sub(amount)

		// Move to next debtor/creditor if fully settled
		if debtorBalance[i].LessThan(cent) {
			i++
		}
		if creditorBalance[j].LessThan(cent) {
			j++
		}
	}
	return edges
}
