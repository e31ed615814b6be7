package entity

// Invoice is a settlement invoice issued by the gateway to the merchant.
type Invoice struct {
	Number             string `json:"invoice_number"`
	Date               string `json:"invoice_date"`
	AmountNoVAT        string `json:"invoice_amount_novat"`
	AmountVAT          string `json:"invoice_amount_vat"`
	Currency           string `json:"invoice_currency"`
	TransactionsNumber string `json:"transactions_number"`
	TransactionsAmount string `json:"transactions_amount"`
	TransferredAmount  string `json:"transferred_amount"`
}

type InvoiceTransactionType string

const (
	InvoiceTransactionCapture    InvoiceTransactionType = "capture"
	InvoiceTransactionRefund     InvoiceTransactionType = "refund"
	InvoiceTransactionChargeback InvoiceTransactionType = "chargeback"
)

// InvoiceTransaction is a transaction settled on an invoice.
type InvoiceTransaction struct {
	MerchantID   string                 `json:"mid"`
	InvoiceID    string                 `json:"invoice_id"`
	EpID         string                 `json:"epid"`
	RRN          string                 `json:"rrn"`
	Amount       string                 `json:"amount"`
	Commission   string                 `json:"commission"`
	Installments string                 `json:"installments"`
	Type         InvoiceTransactionType `json:"type"`
}
