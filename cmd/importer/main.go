package main

import (
	"flag"

	"CnabCtrl/internal/domain/cnab"
	appfx "CnabCtrl/internal/fx"

	"go.uber.org/fx"
)

func main() {
	filePath := flag.String("arquivo", "", "caminho do arquivo CNAB a importar")
	batchSize := flag.Int("lote", 0, "tamanho do lote de gravação (0 usa IMPORT_BATCH_SIZE)")
	flag.Parse()

	opts := &cnab.ImportOptions{
		FilePath:  *filePath,
		BatchSize: *batchSize,
	}

	fx.New(
		appfx.AppModule,
		fx.Supply(opts),
	).Run()
}
