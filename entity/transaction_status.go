package entity

import "github.com/shopspring/decimal"

// TransactionStatus is one entry of a check_status answer.
type TransactionStatus struct {
	MerchantID         string          `json:"merch_id"`
	InvoiceID          string          `json:"invoice_id"`
	Amount             decimal.Decimal `json:"amount"`
	EpID               string          `json:"ep_id"`
	RRN                string          `json:"rrn"`
	Action             string          `json:"action"`
	SecStatus          string          `json:"sec_status"`
	Message            string          `json:"message"`
	Captured           string          `json:"captured"`
	Refunded           string          `json:"refunded"`
	PendingStatus      string          `json:"pending_status"`
	MaskedCard         string          `json:"masked_card"`
	CardExpire         string          `json:"card_expire"`
	NameOnCard         string          `json:"name_on_card"`
	Email              string          `json:"email"`
	Timestamp          string          `json:"timestamp"`
	TranType           string          `json:"tran_type"`
	RecurentExp        string          `json:"recurent_exp"`
	RecurentCancelDate string          `json:"recurent_cancel_date"`
}

// Approved reports whether the gateway approved the transaction.
func (t TransactionStatus) Approved() bool {
	return t.Action == "0"
}
