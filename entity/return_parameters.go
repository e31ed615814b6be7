package entity

import "net/url"

// ReturnParameters are the fields the gateway posts back after a payment.
type ReturnParameters struct {
	Amount     string
	Currency   string
	InvoiceID  string
	EpID       string
	MerchantID string
	Action     string
	Message    string
	Approval   string
	Timestamp  string
	Nonce      string
	FpHash     string
}

// ParseReturn reads the callback fields from a posted form or query string.
func ParseReturn(values url.Values) ReturnParameters {
	return ReturnParameters{
		Amount:     values.Get("amount"),
		Currency:   values.Get("curr"),
		InvoiceID:  values.Get("invoice_id"),
		EpID:       values.Get("ep_id"),
		MerchantID: values.Get("merch_id"),
		Action:     values.Get("action"),
		Message:    values.Get("message"),
		Approval:   values.Get("approval"),
		Timestamp:  values.Get("timestamp"),
		Nonce:      values.Get("nonce"),
		FpHash:     values.Get("fp_hash"),
	}
}

type ReturnStatus string

const (
	ReturnComplete ReturnStatus = "complete"
	ReturnFailed   ReturnStatus = "failed"
	// ReturnInvalid means the signature did not match; the action code is not trusted.
	ReturnInvalid ReturnStatus = "invalid"
)

type ReturnResult struct {
	Success bool         `json:"success"`
	Status  ReturnStatus `json:"response"`
}
