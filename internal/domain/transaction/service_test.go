package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"CnabCtrl/internal/domain/transaction"
	"CnabCtrl/internal/pkg"

	"github.com/shopspring/decimal"
)

type fakeBatchTx struct {
	failOnInsert int // 1-based; 0 nunca falha
	inserts      [][]*transaction.Transaction
	committed    bool
	rolledBack   bool
}

func (f *fakeBatchTx) Insert(batch []*transaction.Transaction) error {
	copied := make([]*transaction.Transaction, len(batch))
	copy(copied, batch)
	f.inserts = append(f.inserts, copied)
	if f.failOnInsert > 0 && len(f.inserts) == f.failOnInsert {
		return errors.New("falha simulada de gravação")
	}
	return nil
}

func (f *fakeBatchTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeBatchTx) Rollback() error {
	f.rolledBack = true
	return nil
}

func (f *fakeBatchTx) flattened() []*transaction.Transaction {
	var all []*transaction.Transaction
	for _, batch := range f.inserts {
		all = append(all, batch...)
	}
	return all
}

type fakeRepository struct {
	tx         *fakeBatchTx
	beginErr   error
	beginCalls int
	listed     []*transaction.Transaction
	listTotal  int64
	listErr    error
	listParams *pkg.PaginationParams
	countTotal int64
}

func (f *fakeRepository) Begin(ctx context.Context) (transaction.BatchTx, error) {
	f.beginCalls++
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func (f *fakeRepository) GetAll(ctx context.Context) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (f *fakeRepository) GetByStore(ctx context.Context, storeName string) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (f *fakeRepository) List(ctx context.Context, storeName string, pagination *pkg.PaginationParams) ([]*transaction.Transaction, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	f.listParams = pagination
	return f.listed, f.listTotal, nil
}

func (f *fakeRepository) Count(ctx context.Context) (int64, error) {
	return f.countTotal, nil
}

func makeRecords(n int) []*transaction.Transaction {
	records := make([]*transaction.Transaction, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, &transaction.Transaction{
			Type:      transaction.Sales,
			Date:      time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC),
			Hour:      "10:00:00",
			Amount:    decimal.New(int64(100+i), -2),
			CPF:       "09620676017",
			StoreName: "BAR DO JOÃO",
		})
	}
	return records
}

func TestBulkInsertColecaoNula(t *testing.T) {
	repo := &fakeRepository{tx: &fakeBatchTx{}}
	svc := transaction.NewService(repo)

	_, err := svc.BulkInsert(context.Background(), nil, 10)
	if err == nil {
		t.Fatal("coleção nula deveria ser rejeitada")
	}
	if repo.beginCalls != 0 {
		t.Errorf("nenhuma transação deveria ser aberta, abertas %d", repo.beginCalls)
	}
}

func TestBulkInsertColecaoVazia(t *testing.T) {
	repo := &fakeRepository{tx: &fakeBatchTx{}}
	svc := transaction.NewService(repo)

	inserted, err := svc.BulkInsert(context.Background(), []*transaction.Transaction{}, 10)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if inserted != 0 {
		t.Errorf("esperado 0, obtido %d", inserted)
	}
	if repo.beginCalls != 0 {
		t.Errorf("nenhuma transação deveria ser aberta, abertas %d", repo.beginCalls)
	}
}

func TestBulkInsertParticionaEConfirma(t *testing.T) {
	tx := &fakeBatchTx{}
	repo := &fakeRepository{tx: tx}
	svc := transaction.NewService(repo)

	inserted, err := svc.BulkInsert(context.Background(), makeRecords(5), 2)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if inserted != 5 {
		t.Errorf("esperados 5 confirmados, obtidos %d", inserted)
	}
	if len(tx.inserts) != 3 {
		t.Fatalf("esperados 3 lotes, obtidos %d", len(tx.inserts))
	}
	if len(tx.inserts[0]) != 2 || len(tx.inserts[1]) != 2 || len(tx.inserts[2]) != 1 {
		t.Errorf("tamanhos de lote inesperados: %d, %d, %d", len(tx.inserts[0]), len(tx.inserts[1]), len(tx.inserts[2]))
	}
	if !tx.committed {
		t.Error("transação deveria ter sido confirmada")
	}
	if tx.rolledBack {
		t.Error("transação não deveria ter sido desfeita")
	}
}

func TestBulkInsertAtribuiIdentificadores(t *testing.T) {
	tx := &fakeBatchTx{}
	repo := &fakeRepository{tx: tx}
	svc := transaction.NewService(repo)

	records := makeRecords(3)
	if _, err := svc.BulkInsert(context.Background(), records, 10); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	for i, record := range records {
		if pkg.IsEmptyULID(record.Id) {
			t.Errorf("registro %d sem id atribuído", i)
		}
		if record.CreatedAt.IsZero() {
			t.Errorf("registro %d sem createdAt atribuído", i)
		}
	}
}

func TestBulkInsertAtomicidade(t *testing.T) {
	tx := &fakeBatchTx{failOnInsert: 2}
	repo := &fakeRepository{tx: tx}
	svc := transaction.NewService(repo)

	inserted, err := svc.BulkInsert(context.Background(), makeRecords(5), 2)
	if err == nil {
		t.Fatal("falha no segundo lote deveria propagar erro")
	}
	if inserted != 0 {
		t.Errorf("nenhum registro deve constar como confirmado, obtidos %d", inserted)
	}
	if !tx.rolledBack {
		t.Error("transação deveria ter sido desfeita por completo")
	}
	if tx.committed {
		t.Error("transação não deveria ter sido confirmada")
	}
}

func TestBulkInsertInvarianciaDoTamanhoDoLote(t *testing.T) {
	var results [][]*transaction.Transaction
	var counts []int64

	for _, batchSize := range []int{1, 2, 5000} {
		tx := &fakeBatchTx{}
		repo := &fakeRepository{tx: tx}
		svc := transaction.NewService(repo)

		inserted, err := svc.BulkInsert(context.Background(), makeRecords(7), batchSize)
		if err != nil {
			t.Fatalf("lote %d: erro inesperado: %v", batchSize, err)
		}
		results = append(results, tx.flattened())
		counts = append(counts, inserted)
	}

	for i := 1; i < len(results); i++ {
		if counts[i] != counts[0] {
			t.Errorf("contagens divergentes entre tamanhos de lote: %d != %d", counts[i], counts[0])
		}
		if len(results[i]) != len(results[0]) {
			t.Fatalf("conteúdos divergentes entre tamanhos de lote: %d != %d registros", len(results[i]), len(results[0]))
		}
		for j := range results[i] {
			if !results[i][j].Amount.Equal(results[0][j].Amount) || results[i][j].StoreName != results[0][j].StoreName {
				t.Errorf("registro %d divergente entre tamanhos de lote", j)
			}
		}
	}
}

func TestBulkInsertRevalidaEDescarta(t *testing.T) {
	tx := &fakeBatchTx{}
	repo := &fakeRepository{tx: tx}
	svc := transaction.NewService(repo)

	records := makeRecords(3)
	records[1].StoreName = "" // inválido: deve ser descartado em silêncio

	inserted, err := svc.BulkInsert(context.Background(), records, 10)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if inserted != 2 {
		t.Errorf("esperados 2 confirmados, obtidos %d", inserted)
	}
	if got := len(tx.flattened()); got != 2 {
		t.Errorf("esperados 2 registros gravados, obtidos %d", got)
	}
}

func TestListTransactionsEnvelopePaginado(t *testing.T) {
	repo := &fakeRepository{
		tx:        &fakeBatchTx{},
		listed:    makeRecords(10),
		listTotal: 25,
	}
	svc := transaction.NewService(repo)

	page, err := svc.ListTransactions(context.Background(), "BAR DO JOÃO", &pkg.PaginationParams{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if page.Page != 2 || page.Limit != 10 {
		t.Errorf("página esperada 2/10, obtida %d/%d", page.Page, page.Limit)
	}
	if page.Total != 25 {
		t.Errorf("total esperado 25, obtido %d", page.Total)
	}
	if page.TotalPages != 3 {
		t.Errorf("esperadas 3 páginas, obtidas %d", page.TotalPages)
	}
	if len(page.Data) != 10 {
		t.Errorf("esperados 10 registros na página, obtidos %d", len(page.Data))
	}
}

func TestListTransactionsNormalizaPaginacao(t *testing.T) {
	repo := &fakeRepository{tx: &fakeBatchTx{}}
	svc := transaction.NewService(repo)

	page, err := svc.ListTransactions(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Errorf("paginação nula deveria normalizar para 1/10, obtido %d/%d", page.Page, page.Limit)
	}
	if repo.listParams == nil || repo.listParams.Page != 1 || repo.listParams.Limit != 10 {
		t.Error("repositório deveria receber parâmetros já normalizados")
	}
}

func TestListTransactionsErroDeConsulta(t *testing.T) {
	repo := &fakeRepository{tx: &fakeBatchTx{}, listErr: errors.New("conexão recusada")}
	svc := transaction.NewService(repo)

	if _, err := svc.ListTransactions(context.Background(), "", nil); err == nil {
		t.Fatal("erro de consulta deveria propagar")
	}
}

func TestCountTransactions(t *testing.T) {
	repo := &fakeRepository{tx: &fakeBatchTx{}, countTotal: 42}
	svc := transaction.NewService(repo)

	count, err := svc.CountTransactions(context.Background())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if count != 42 {
		t.Errorf("esperadas 42 transações, obtidas %d", count)
	}
}

func TestBulkInsertCancelamento(t *testing.T) {
	tx := &fakeBatchTx{}
	repo := &fakeRepository{tx: tx}
	svc := transaction.NewService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inserted, err := svc.BulkInsert(ctx, makeRecords(3), 1)
	if err == nil {
		t.Fatal("cancelamento deveria propagar erro")
	}
	if inserted != 0 {
		t.Errorf("nenhum registro deve constar como confirmado, obtidos %d", inserted)
	}
	if !tx.rolledBack {
		t.Error("transação deveria ter sido desfeita após cancelamento")
	}
}
