package transaction

import (
	"context"

	appErrors "CnabCtrl/internal/errors"
	"CnabCtrl/internal/logger"
	"CnabCtrl/internal/pkg"
)

// DefaultBatchSize é o tamanho de lote usado quando o chamador não define um.
const DefaultBatchSize = 5000

type Service struct {
	Repository Repository
}

func NewService(repository Repository) *Service {
	return &Service{Repository: repository}
}

// BulkInsert persiste os registros em lotes sequenciais dentro de uma única
// transação de armazenamento. Qualquer falha desfaz a operação inteira:
// nenhuma linha permanece gravada. Devolve o total de registros confirmados.
func (s *Service) BulkInsert(ctx context.Context, records []*Transaction, batchSize int) (int64, error) {
	if records == nil {
		return 0, appErrors.NewValidationError("records", "coleção de registros não pode ser nula")
	}
	if len(records) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	valid := make([]*Transaction, 0, len(records))
	for _, record := range records {
		if record != nil && record.IsValid() {
			valid = append(valid, record)
		}
	}
	if dropped := len(records) - len(valid); dropped > 0 {
		logger.Warn().
			Int("dropped", dropped).
			Msg("Registros inválidos descartados antes da gravação")
	}
	if len(valid) == 0 {
		return 0, nil
	}

	now := pkg.SetTimestamps()
	for _, record := range valid {
		record.Id = pkg.GenerateULIDObject()
		record.CreatedAt = now
	}

	tx, err := s.Repository.Begin(ctx)
	if err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}

	var staged int64
	batches := 0
	for start := 0; start < len(valid); start += batchSize {
		if err := ctx.Err(); err != nil {
			_ = tx.Rollback()
			return 0, appErrors.FromError(err).WithDetails(map[string]interface{}{
				"batches_attempted": batches,
				"records_staged":    staged,
			})
		}

		end := min(start+batchSize, len(valid))
		batch := valid[start:end]
		batches++

		if err := tx.Insert(batch); err != nil {
			_ = tx.Rollback()
			return 0, appErrors.NewDatabaseError(err).WithDetails(map[string]interface{}{
				"batches_attempted": batches,
				"records_staged":    staged,
			})
		}
		staged += int64(len(batch))

		logger.Debug().
			Int("batch", batches).
			Int64("staged", staged).
			Msg("Lote preparado")
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return 0, appErrors.NewDatabaseError(err).WithDetails(map[string]interface{}{
			"batches_attempted": batches,
			"records_staged":    staged,
		})
	}

	logger.Info().
		Int("batches", batches).
		Int64("inserted", staged).
		Msg("Importação confirmada")

	return staged, nil
}

func (s *Service) ListTransactions(ctx context.Context, storeName string, pagination *pkg.PaginationParams) (*pkg.PaginatedResponse[*Transaction], error) {
	pagination = pkg.NormalizePagination(pagination)
	transactions, total, err := s.Repository.List(ctx, storeName, pagination)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	return pkg.NewPaginatedResponse(transactions, pagination.Page, pagination.Limit, total), nil
}

func (s *Service) CountTransactions(ctx context.Context) (int64, error) {
	count, err := s.Repository.Count(ctx)
	if err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}
	return count, nil
}
