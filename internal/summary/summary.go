// Package summary derives the joint-finance totals from the raw ledger.
//
// Which usernames count as ledger members and which one is the investment
// identity is driven by the role on each user record, not by hardcoded
// names: every user-role account is a member, the admin-role account's
// withdrawals represent money moved into external investment.
package summary

import (
	"github.com/naufalaufa/zipal-app/internal/models"
	"github.com/shopspring/decimal"
)

type MemberTotals struct {
	Deposit  decimal.Decimal `json:"deposit"`
	Withdraw decimal.Decimal `json:"withdraw"`
	Balance  decimal.Decimal `json:"balance"`
}

type Summary struct {
	Members             map[string]MemberTotals `json:"members"`
	TotalDepositOverall decimal.Decimal         `json:"total_deposit_overall"`
	TotalUangReal       decimal.Decimal         `json:"total_uang_real"`
	GrandTotal          decimal.Decimal         `json:"grand_total"`
	TotalInvestment     decimal.Decimal         `json:"total_investment"`
}

// Build runs a single grouped pass over the transactions. Sums are
// commutative, so input order is irrelevant. Transactions whose username has
// no user record are skipped; they still show up in raw history.
func Build(users []models.User, txs []models.Transaction) Summary {
	memberTotals := make(map[string]MemberTotals)
	adminUsername := ""
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			adminUsername = u.Username
			continue
		}
		memberTotals[u.Username] = MemberTotals{
			Deposit:  decimal.Zero,
			Withdraw: decimal.Zero,
			Balance:  decimal.Zero,
		}
	}

	adminWithdraw := decimal.Zero
	for _, tx := range txs {
		if tx.Username == adminUsername {
			if tx.Type == models.TxWithdraw {
				adminWithdraw = adminWithdraw.Add(tx.Amount)
			}
			continue
		}
		mt, ok := memberTotals[tx.Username]
		if !ok {
			continue
		}
		switch tx.Type {
		case models.TxDeposit:
			mt.Deposit = mt.Deposit.Add(tx.Amount)
		case models.TxWithdraw:
			mt.Withdraw = mt.Withdraw.Add(tx.Amount)
		}
		memberTotals[tx.Username] = mt
	}

	s := Summary{
		Members:             memberTotals,
		TotalDepositOverall: decimal.Zero,
		TotalUangReal:       decimal.Zero,
		TotalInvestment:     adminWithdraw,
	}
	for username, mt := range memberTotals {
		mt.Balance = mt.Deposit.Sub(mt.Withdraw)
		memberTotals[username] = mt
		s.TotalDepositOverall = s.TotalDepositOverall.Add(mt.Deposit)
		s.TotalUangReal = s.TotalUangReal.Add(mt.Balance)
	}
	s.GrandTotal = s.TotalUangReal.Sub(adminWithdraw)
	return s
}
