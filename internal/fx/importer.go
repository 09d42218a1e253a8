package fx

import (
	"context"
	"net/http"
	"os"

	"CnabCtrl/config"
	"CnabCtrl/internal/domain/balance"
	"CnabCtrl/internal/domain/cnab"
	appErrors "CnabCtrl/internal/errors"
	"CnabCtrl/internal/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

// ImporterModule executa a importação do arquivo CNAB e encerra a aplicação.
var ImporterModule = fx.Module("importer",
	fx.Invoke(
		runImport,
	),
)

func runImport(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	importer *cnab.Importer,
	balanceSvc *balance.Service,
	opts *cnab.ImportOptions,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := importFile(context.Background(), cfg, importer, balanceSvc, opts); err != nil {
					logger.Error().Err(err).Msg("Importação falhou")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return nil
		},
	})
}

func importFile(
	ctx context.Context,
	cfg *config.Config,
	importer *cnab.Importer,
	balanceSvc *balance.Service,
	opts *cnab.ImportOptions,
) error {
	// A flag -lote em zero delega o tamanho do lote à configuração.
	if opts.BatchSize <= 0 {
		opts.BatchSize = cfg.Import.BatchSize
	}

	if err := validator.New().Struct(opts); err != nil {
		return appErrors.ParseValidationErrors(err)
	}

	file, err := os.Open(opts.FilePath)
	if err != nil {
		return appErrors.WrapError(err, "FILE_OPEN_ERROR", "Não foi possível abrir o arquivo CNAB", http.StatusUnprocessableEntity)
	}
	defer file.Close()

	logger.Info().
		Str("file", opts.FilePath).
		Int("batch_size", opts.BatchSize).
		Msg("Iniciando importação CNAB")

	report, err := importer.ImportStream(ctx, file, opts.BatchSize)
	if err != nil {
		return err
	}

	logger.Info().
		Int("parsed", report.ParsedCount).
		Int("skipped", len(report.SkippedLines)).
		Int64("inserted", report.InsertedCount).
		Msg("Importação concluída")

	return logSummary(ctx, balanceSvc)
}

func logSummary(ctx context.Context, balanceSvc *balance.Service) error {
	balances, err := balanceSvc.GetStoreBalances(ctx)
	if err != nil {
		return err
	}

	for _, b := range balances {
		logger.Info().
			Str("store", b.StoreName).
			Str("income", b.TotalIncome.StringFixed(2)).
			Str("expenses", b.TotalExpenses.StringFixed(2)).
			Str("balance", b.TotalBalance.StringFixed(2)).
			Int("transactions", b.TransactionCount).
			Msg("Saldo da loja")
	}

	stats, err := balanceSvc.GetStatistics(ctx)
	if err != nil {
		return err
	}

	event := logger.Info().
		Int64("total_transactions", stats.TotalTransactions).
		Str("total_income", stats.TotalIncome.StringFixed(2)).
		Str("total_expenses", stats.TotalExpenses.StringFixed(2)).
		Str("total_balance", stats.TotalBalance.StringFixed(2))
	if stats.BiggestStore != nil {
		event = event.Str("biggest_store", stats.BiggestStore.StoreName)
	}
	if stats.SmallestStore != nil {
		event = event.Str("smallest_store", stats.SmallestStore.StoreName)
	}
	event.Msg("Estatísticas gerais")

	return nil
}
