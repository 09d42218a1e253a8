package cnab

import (
	"context"
	"io"

	"CnabCtrl/internal/domain/transaction"
	"CnabCtrl/internal/logger"
)

// BulkInserter é o gravador em lote consumido pelo importador.
type BulkInserter interface {
	BulkInsert(ctx context.Context, records []*transaction.Transaction, batchSize int) (int64, error)
}

type ImportOptions struct {
	FilePath  string `validate:"required"`
	BatchSize int    `validate:"gte=1"`
}

type ImportReport struct {
	ParsedCount   int           `json:"parsedCount"`
	SkippedLines  []SkippedLine `json:"skippedLines"`
	InsertedCount int64         `json:"insertedCount"`
}

type Importer struct {
	Parser       *Parser
	Transactions BulkInserter
}

func NewImporter(parser *Parser, transactions BulkInserter) *Importer {
	return &Importer{
		Parser:       parser,
		Transactions: transactions,
	}
}

// ImportStream analisa o fluxo CNAB e persiste as transações válidas.
// Um arquivo sem linhas válidas não é erro: o relatório volta zerado e
// cabe ao chamador decidir o que fazer.
func (i *Importer) ImportStream(ctx context.Context, r io.Reader, batchSize int) (*ImportReport, error) {
	result, err := i.Parser.Parse(ctx, r)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{
		ParsedCount:  len(result.Transactions),
		SkippedLines: result.Skipped,
	}

	if len(result.Transactions) == 0 {
		logger.Warn().
			Int("skipped", len(result.Skipped)).
			Msg("Nenhuma transação válida encontrada no arquivo")
		return report, nil
	}

	inserted, err := i.Transactions.BulkInsert(ctx, result.Transactions, batchSize)
	if err != nil {
		return nil, err
	}
	report.InsertedCount = inserted

	return report, nil
}
