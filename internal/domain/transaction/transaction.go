package transaction

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	Id         ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	Type       Types           `gorm:"type:smallint;not null;index:idx_transactions_type" json:"type"`
	Date       time.Time       `gorm:"type:date;not null;index:idx_transactions_date" json:"date"`
	Hour       string          `gorm:"type:varchar(8);not null" json:"hour"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CPF        string          `gorm:"type:varchar(11);not null;index:idx_transactions_cpf" json:"cpf"`
	CardNumber string          `gorm:"type:varchar(12)" json:"cardNumber"`
	StoreOwner string          `gorm:"type:varchar(14)" json:"storeOwner"`
	StoreName  string          `gorm:"type:varchar(19);not null;index:idx_transactions_store_name" json:"storeName"`
	CreatedAt  time.Time       `gorm:"not null" json:"createdAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Nature deriva a natureza (entrada ou saída) a partir do tipo.
// Nunca é persistida, sempre recalculada.
func (t *Transaction) Nature() Nature {
	return t.Type.Nature()
}

// SignedAmount devolve o valor com o sinal da natureza aplicado:
// positivo para entradas, negativo para saídas.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type.Nature() == NatureExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsValid aplica a invariante de validade: loja e CPF não vazios,
// valor positivo e data real. Parser e gravador revalidam cada registro
// antes da persistência.
func (t *Transaction) IsValid() bool {
	if t.StoreName == "" {
		return false
	}
	if t.CPF == "" {
		return false
	}
	if !t.Amount.IsPositive() {
		return false
	}
	if t.Date.IsZero() {
		return false
	}
	if !t.Type.IsValid() {
		return false
	}
	return true
}
