package balance

import (
	"context"

	appErrors "CnabCtrl/internal/errors"

	"github.com/shopspring/decimal"
)

// Statistics resume o conjunto completo de transações persistidas.
type Statistics struct {
	TotalTransactions int64           `json:"totalTransactions"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	BiggestStore      *StoreBalance   `json:"biggestStore"`
	SmallestStore     *StoreBalance   `json:"smallestStore"`
}

type Service struct {
	Repository Repository
}

func NewService(repository Repository) *Service {
	return &Service{Repository: repository}
}

func (s *Service) GetStoreBalances(ctx context.Context) ([]*StoreBalance, error) {
	transactions, err := s.Repository.GetAll(ctx)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	return Compute(transactions), nil
}

func (s *Service) GetStoreBalance(ctx context.Context, storeName string) (*StoreBalance, error) {
	transactions, err := s.Repository.GetByStore(ctx, storeName)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	if len(transactions) == 0 {
		return nil, appErrors.ErrStoreNotFound
	}
	return Compute(transactions)[0], nil
}

// GetStatistics calcula totais globais e as lojas de maior e menor saldo.
// Empate de saldo extremo: vence a primeira loja em ordem alfabética.
func (s *Service) GetStatistics(ctx context.Context) (*Statistics, error) {
	balances, err := s.GetStoreBalances(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalBalance:  decimal.Zero,
	}

	for _, b := range balances {
		stats.TotalTransactions += int64(b.TransactionCount)
		stats.TotalIncome = stats.TotalIncome.Add(b.TotalIncome)
		stats.TotalExpenses = stats.TotalExpenses.Add(b.TotalExpenses)

		// balances já vem ordenado por nome; comparações estritas
		// preservam a primeira loja em caso de empate.
		if stats.BiggestStore == nil || b.TotalBalance.GreaterThan(stats.BiggestStore.TotalBalance) {
			stats.BiggestStore = b
		}
		if stats.SmallestStore == nil || b.TotalBalance.LessThan(stats.SmallestStore.TotalBalance) {
			stats.SmallestStore = b
		}
	}
	stats.TotalBalance = stats.TotalIncome.Sub(stats.TotalExpenses)

	return stats, nil
}
