package cnab

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"CnabCtrl/internal/domain/transaction"
	appErrors "CnabCtrl/internal/errors"
	"CnabCtrl/internal/logger"

	"github.com/shopspring/decimal"
)

// LineLength é o comprimento fixo de uma linha CNAB. Linhas mais curtas
// são completadas com espaços à direita; mais longas são truncadas.
const LineLength = 81

// Offsets dos campos dentro da linha normalizada (base zero, em runas).
const (
	typeStart   = 0
	typeEnd     = 1
	dateStart   = 1
	dateEnd     = 9
	amountStart = 9
	amountEnd   = 19
	cpfStart    = 19
	cpfEnd      = 30
	cardStart   = 30
	cardEnd     = 42
	hourStart   = 42
	hourEnd     = 48
	ownerStart  = 48
	ownerEnd    = 62
	storeStart  = 62
	storeEnd    = 81
)

const (
	dateLayout = "20060102"
	hourLayout = "150405"
)

type SkippedLine struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type ParseResult struct {
	Transactions []*transaction.Transaction
	Skipped      []SkippedLine
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse converte cada linha do fluxo em zero ou uma transação válida,
// preservando a ordem das linhas. Linhas malformadas são registradas e
// puladas; somente falhas de leitura do fluxo ou cancelamento abortam
// a análise inteira. Linhas de qualquer comprimento são aceitas: o
// excedente além de 81 caracteres é descartado antes da decodificação.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*ParseResult, error) {
	result := &ParseResult{
		Transactions: make([]*transaction.Transaction, 0),
		Skipped:      make([]SkippedLine, 0),
	}

	reader := bufio.NewReader(r)
	lineNumber := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, appErrors.FromError(err)
		}

		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, appErrors.WrapError(readErr, "STREAM_READ_ERROR", "Falha ao ler o arquivo CNAB", http.StatusInternalServerError)
		}
		if line == "" && readErr == io.EOF {
			break
		}
		lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			record, err := ParseLine(line)
			switch {
			case err != nil:
				logger.Warn().
					Int("line", lineNumber).
					Err(err).
					Msg("Linha CNAB malformada ignorada")
				result.Skipped = append(result.Skipped, SkippedLine{Line: lineNumber, Reason: err.Error()})
			case record.IsValid():
				result.Transactions = append(result.Transactions, record)
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	return result, nil
}

// ParseLine decodifica uma única linha CNAB nos offsets fixos do layout.
// A linha é normalizada para exatamente 81 caracteres antes da extração.
func ParseLine(line string) (*transaction.Transaction, error) {
	runes := normalize(line)

	typeCode, err := strconv.Atoi(field(runes, typeStart, typeEnd))
	if err != nil {
		return nil, fmt.Errorf("tipo não numérico: %q", field(runes, typeStart, typeEnd))
	}
	txType := transaction.Types(typeCode)
	if !txType.IsValid() {
		return nil, fmt.Errorf("tipo fora do intervalo 1-9: %d", typeCode)
	}

	date, err := time.Parse(dateLayout, field(runes, dateStart, dateEnd))
	if err != nil {
		return nil, fmt.Errorf("data inválida: %q", field(runes, dateStart, dateEnd))
	}

	cents, err := strconv.ParseInt(strings.TrimSpace(field(runes, amountStart, amountEnd)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("valor não numérico: %q", field(runes, amountStart, amountEnd))
	}

	hour, err := time.Parse(hourLayout, field(runes, hourStart, hourEnd))
	if err != nil {
		return nil, fmt.Errorf("hora inválida: %q", field(runes, hourStart, hourEnd))
	}

	return &transaction.Transaction{
		Type: txType,
		Date: date,
		Hour: hour.Format("15:04:05"),
		// Divisão decimal exata: centavos com expoente -2, sem float.
		Amount:     decimal.New(cents, -2),
		CPF:        digitsOnly(field(runes, cpfStart, cpfEnd)),
		CardNumber: strings.TrimSpace(field(runes, cardStart, cardEnd)),
		StoreOwner: strings.TrimSpace(field(runes, ownerStart, ownerEnd)),
		StoreName:  strings.TrimSpace(field(runes, storeStart, storeEnd)),
	}, nil
}

func normalize(line string) []rune {
	runes := []rune(line)
	if len(runes) > LineLength {
		return runes[:LineLength]
	}
	for len(runes) < LineLength {
		runes = append(runes, ' ')
	}
	return runes
}

func field(runes []rune, start, end int) string {
	return string(runes[start:end])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
