package infrastructure

import (
	"context"
	"time"

	"CnabCtrl/internal/domain/balance"
	"CnabCtrl/internal/domain/transaction"
	"CnabCtrl/internal/pkg"
	"CnabCtrl/internal/pkg/query"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	DB *gorm.DB
}

var _ transaction.Repository = (*TransactionRepository)(nil)
var _ balance.Repository = (*TransactionRepository)(nil)

type transactionDB struct {
	Id         string          `gorm:"type:varchar(26);primaryKey;column:id"`
	Type       int             `gorm:"type:smallint;not null;column:type"`
	Date       time.Time       `gorm:"type:date;not null;column:date"`
	Hour       string          `gorm:"type:varchar(8);not null;column:hour"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null;column:amount"`
	CPF        string          `gorm:"type:varchar(11);not null;column:cpf"`
	CardNumber string          `gorm:"type:varchar(12);column:card_number"`
	StoreOwner string          `gorm:"type:varchar(14);column:store_owner"`
	StoreName  string          `gorm:"type:varchar(19);not null;column:store_name"`
	CreatedAt  time.Time       `gorm:"not null;column:created_at"`
}

func toDomainTransaction(tdb *transactionDB) (*transaction.Transaction, error) {
	id, err := pkg.ParseULID(tdb.Id)
	if err != nil {
		return nil, err
	}

	return &transaction.Transaction{
		Id:         id,
		Type:       transaction.Types(tdb.Type),
		Date:       tdb.Date,
		Hour:       tdb.Hour,
		Amount:     tdb.Amount,
		CPF:        tdb.CPF,
		CardNumber: tdb.CardNumber,
		StoreOwner: tdb.StoreOwner,
		StoreName:  tdb.StoreName,
		CreatedAt:  tdb.CreatedAt,
	}, nil
}

func toDBTransaction(t *transaction.Transaction) *transactionDB {
	return &transactionDB{
		Id:         t.Id.String(),
		Type:       int(t.Type),
		Date:       t.Date,
		Hour:       t.Hour,
		Amount:     t.Amount,
		CPF:        t.CPF,
		CardNumber: t.CardNumber,
		StoreOwner: t.StoreOwner,
		StoreName:  t.StoreName,
		CreatedAt:  t.CreatedAt,
	}
}

// Begin abre a transação única que cobre todos os lotes de uma importação.
// SkipHooks desliga callbacks por entidade; cada lote vira um único INSERT
// de múltiplas linhas e o modelo de linhas é descartado após o Insert,
// mantendo a memória limitada pelo tamanho do lote.
func (r *TransactionRepository) Begin(ctx context.Context) (transaction.BatchTx, error) {
	tx := r.DB.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true, SkipDefaultTransaction: true}).
		Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &transactionBatchTx{tx: tx}, nil
}

type transactionBatchTx struct {
	tx *gorm.DB
}

func (b *transactionBatchTx) Insert(batch []*transaction.Transaction) error {
	rows := make([]transactionDB, 0, len(batch))
	for _, t := range batch {
		rows = append(rows, *toDBTransaction(t))
	}
	return b.tx.Table("transactions").Create(&rows).Error
}

func (b *transactionBatchTx) Commit() error {
	return b.tx.Commit().Error
}

func (b *transactionBatchTx) Rollback() error {
	return b.tx.Rollback().Error
}

func (r *TransactionRepository) GetAll(ctx context.Context) ([]*transaction.Transaction, error) {
	q := query.New[transactionDB](r.DB, "transactions").
		Context(ctx).
		Order("store_name ASC, date ASC, hour ASC, id ASC")
	return query.ExecuteAll(q, toDomainTransaction)
}

func (r *TransactionRepository) GetByStore(ctx context.Context, storeName string) ([]*transaction.Transaction, error) {
	q := query.New[transactionDB](r.DB, "transactions").
		Context(ctx).
		Where("store_name = ?", storeName).
		Order("date ASC, hour ASC, id ASC")
	return query.ExecuteAll(q, toDomainTransaction)
}

func (r *TransactionRepository) List(ctx context.Context, storeName string, pagination *pkg.PaginationParams) ([]*transaction.Transaction, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("transactions")
	if storeName != "" {
		baseQuery = baseQuery.Where("store_name = ?", storeName)
	}
	return pkg.Paginate(baseQuery, pagination, "date DESC, hour DESC, id DESC", toDomainTransaction)
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	return query.New[transactionDB](r.DB, "transactions").Context(ctx).Count()
}
