package transaction

import (
	"context"

	"CnabCtrl/internal/pkg"
)

// BatchWriter é a porta transacional de gravação em lote: uma transação
// de armazenamento cobre todos os lotes de uma importação.
type BatchWriter interface {
	Begin(ctx context.Context) (BatchTx, error)
}

type BatchTx interface {
	// Insert grava um lote como um único INSERT de múltiplas linhas.
	Insert(batch []*Transaction) error
	Commit() error
	Rollback() error
}

type Repository interface {
	BatchWriter
	GetAll(ctx context.Context) ([]*Transaction, error)
	GetByStore(ctx context.Context, storeName string) ([]*Transaction, error)
	List(ctx context.Context, storeName string, pagination *pkg.PaginationParams) ([]*Transaction, int64, error)
	Count(ctx context.Context) (int64, error)
}
