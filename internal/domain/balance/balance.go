package balance

import (
	"sort"

	"CnabCtrl/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

// StoreBalance é um agregado efêmero: recalculado a cada consulta,
// nunca persistido.
type StoreBalance struct {
	StoreName        string                     `json:"storeName"`
	Transactions     []*transaction.Transaction `json:"transactions"`
	TotalIncome      decimal.Decimal            `json:"totalIncome"`
	TotalExpenses    decimal.Decimal            `json:"totalExpenses"`
	TotalBalance     decimal.Decimal            `json:"totalBalance"`
	TransactionCount int                        `json:"transactionCount"`
}

// Compute agrupa as transações por loja e calcula os saldos. Função pura:
// o resultado vem ordenado por nome de loja ascendente e as transações de
// cada grupo preservam a ordem de entrada.
func Compute(transactions []*transaction.Transaction) []*StoreBalance {
	groups := make(map[string]*StoreBalance)
	for _, t := range transactions {
		group, ok := groups[t.StoreName]
		if !ok {
			group = &StoreBalance{
				StoreName:     t.StoreName,
				Transactions:  make([]*transaction.Transaction, 0),
				TotalIncome:   decimal.Zero,
				TotalExpenses: decimal.Zero,
			}
			groups[t.StoreName] = group
		}

		group.Transactions = append(group.Transactions, t)
		group.TransactionCount++
		switch t.Nature() {
		case transaction.NatureIncome:
			group.TotalIncome = group.TotalIncome.Add(t.Amount)
		case transaction.NatureExpense:
			group.TotalExpenses = group.TotalExpenses.Add(t.Amount)
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	balances := make([]*StoreBalance, 0, len(groups))
	for _, name := range names {
		group := groups[name]
		group.TotalBalance = group.TotalIncome.Sub(group.TotalExpenses)
		balances = append(balances, group)
	}

	return balances
}
