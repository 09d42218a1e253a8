package fx

import (
	"CnabCtrl/internal/domain/balance"
	"CnabCtrl/internal/domain/cnab"
	"CnabCtrl/internal/domain/transaction"
	"CnabCtrl/internal/infrastructure"

	"go.uber.org/fx"
)

// DomainModule fornece os services do domínio
var DomainModule = fx.Module("domain",
	fx.Provide(
		newParser,
		newTransactionService,
		newBalanceService,
		newImporter,
	),
)

func newParser() *cnab.Parser {
	return cnab.NewParser()
}

func newTransactionService(repo *infrastructure.TransactionRepository) *transaction.Service {
	return transaction.NewService(repo)
}

func newBalanceService(repo *infrastructure.TransactionRepository) *balance.Service {
	return balance.NewService(repo)
}

func newImporter(parser *cnab.Parser, transactionSvc *transaction.Service) *cnab.Importer {
	return cnab.NewImporter(parser, transactionSvc)
}
