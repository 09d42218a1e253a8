package transaction

type Types int

const (
	Debit Types = iota + 1
	Boleto
	Financing
	Credit
	LoanReceipt
	Sales
	TEDReceipt
	DOCReceipt
	Rent
)

type Nature string

const (
	NatureIncome  Nature = "ENTRADA"
	NatureExpense Nature = "SAIDA"
)

type typeInfo struct {
	description string
	nature      Nature
}

// Tabela fixa do layout CNAB: código → descrição e natureza.
var typeTable = map[Types]typeInfo{
	Debit:       {description: "Débito", nature: NatureIncome},
	Boleto:      {description: "Boleto", nature: NatureExpense},
	Financing:   {description: "Financiamento", nature: NatureExpense},
	Credit:      {description: "Crédito", nature: NatureIncome},
	LoanReceipt: {description: "Recebimento Empréstimo", nature: NatureIncome},
	Sales:       {description: "Vendas", nature: NatureIncome},
	TEDReceipt:  {description: "Recebimento TED", nature: NatureIncome},
	DOCReceipt:  {description: "Recebimento DOC", nature: NatureIncome},
	Rent:        {description: "Aluguel", nature: NatureExpense},
}

func (t Types) IsValid() bool {
	_, ok := typeTable[t]
	return ok
}

func (t Types) Nature() Nature {
	return typeTable[t].nature
}

func (t Types) Description() string {
	return typeTable[t].description
}
