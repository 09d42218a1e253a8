package balance

import (
	"context"

	"CnabCtrl/internal/domain/transaction"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*transaction.Transaction, error)
	GetByStore(ctx context.Context, storeName string) ([]*transaction.Transaction, error)
}
