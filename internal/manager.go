package internal

import (
	"context"
	"strings"
	"time"

	"euplatesc/entity"

	"github.com/shopspring/decimal"
)

// CheckStatus queries a transaction by ep id or, when epID is empty, by invoice id.
func (p *Payments) CheckStatus(ctx context.Context, epID, invoiceID string) (*entity.ManagerResponse, error) {
	epID = strings.TrimSpace(epID)
	invoiceID = strings.TrimSpace(invoiceID)
	if epID == "" && invoiceID == "" {
		return nil, entity.NewValidationError("epid", "either epid or invoice_id is required")
	}
	if epID != "" {
		return p.call(ctx, opCheckStatus, required("epid", epID))
	}
	return p.call(ctx, opCheckStatus, required("invoice_id", invoiceID))
}

// Status is CheckStatus with the success payload decoded.
func (p *Payments) Status(ctx context.Context, epID, invoiceID string) ([]entity.TransactionStatus, *entity.ManagerResponse, error) {
	response, err := p.CheckStatus(ctx, epID, invoiceID)
	if err != nil || response.Failed() {
		return nil, response, err
	}
	var statuses []entity.TransactionStatus
	if err = response.Decode(&statuses); err != nil {
		return nil, response, err
	}
	return statuses, response, nil
}

func (p *Payments) Capture(ctx context.Context, epID string) (*entity.ManagerResponse, error) {
	return p.call(ctx, opCapture, required("epid", epID))
}

func (p *Payments) Reversal(ctx context.Context, epID string) (*entity.ManagerResponse, error) {
	return p.call(ctx, opReversal, required("epid", epID))
}

func (p *Payments) PartialCapture(ctx context.Context, epID string, amount decimal.Decimal) (*entity.ManagerResponse, error) {
	value, err := formatAmount("amount", amount)
	if err != nil {
		return nil, err
	}
	return p.call(ctx, opPartialCapture, required("epid", epID), required("amount", value))
}

func (p *Payments) Refund(ctx context.Context, epID string, amount decimal.Decimal, reason string) (*entity.ManagerResponse, error) {
	value, err := formatAmount("amount", amount)
	if err != nil {
		return nil, err
	}
	return p.call(ctx, opRefund, required("epid", epID), required("amount", value), required("reason", reason))
}

func (p *Payments) CancelRecurring(ctx context.Context, epID, reason string) (*entity.ManagerResponse, error) {
	return p.call(ctx, opCancelRecurring, required("epid", epID), optional("reason", reason))
}

func (p *Payments) UpdateInvoiceID(ctx context.Context, epID, invoiceID string) (*entity.ManagerResponse, error) {
	return p.call(ctx, opUpdateInvoiceID, required("epid", epID), required("invoice_id", strings.TrimSpace(invoiceID)))
}

// Invoices lists settlement invoices issued between from and to.
func (p *Payments) Invoices(ctx context.Context, from, to time.Time) (*entity.ManagerResponse, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return p.call(ctx, opInvoices,
		required("mid", p.creds.Merchant()),
		required("from", Date(from)),
		required("to", Date(to)))
}

func (p *Payments) InvoiceList(ctx context.Context, from, to time.Time) ([]entity.Invoice, *entity.ManagerResponse, error) {
	response, err := p.Invoices(ctx, from, to)
	if err != nil || response.Failed() {
		return nil, response, err
	}
	var invoices []entity.Invoice
	if err = response.Decode(&invoices); err != nil {
		return nil, response, err
	}
	return invoices, response, nil
}

// InvoiceTransactions lists the transactions settled on one invoice.
func (p *Payments) InvoiceTransactions(ctx context.Context, invoiceID string) (*entity.ManagerResponse, error) {
	return p.call(ctx, opInvoiceTransactions,
		required("mid", p.creds.Merchant()),
		required("invoice", strings.TrimSpace(invoiceID)))
}

func (p *Payments) InvoiceTransactionList(ctx context.Context, invoiceID string) ([]entity.InvoiceTransaction, *entity.ManagerResponse, error) {
	response, err := p.InvoiceTransactions(ctx, invoiceID)
	if err != nil || response.Failed() {
		return nil, response, err
	}
	var transactions []entity.InvoiceTransaction
	if err = response.Decode(&transactions); err != nil {
		return nil, response, err
	}
	return transactions, response, nil
}

// CapturedTotal sums captured amounts between from and to. An empty mids
// list means every merchant id of the account.
func (p *Payments) CapturedTotal(ctx context.Context, mids []string, from, to time.Time) (*entity.ManagerResponse, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return p.call(ctx, opCapturedTotal,
		optional("mids", strings.Join(mids, ",")),
		required("from", Date(from)),
		required("to", Date(to)))
}

func (p *Payments) CapturedTotals(ctx context.Context, mids []string, from, to time.Time) ([]entity.CapturedTotal, *entity.ManagerResponse, error) {
	response, err := p.CapturedTotal(ctx, mids, from, to)
	if err != nil || response.Failed() {
		return nil, response, err
	}
	var totals []entity.CapturedTotal
	if err = response.Decode(&totals); err != nil {
		return nil, response, err
	}
	return totals, response, nil
}

func (p *Payments) CardArt(ctx context.Context, epID string) (*entity.ManagerResponse, error) {
	return p.call(ctx, opCardArt, required("epid", epID))
}

// SavedCards lists the cards stored for a buyer.
func (p *Payments) SavedCards(ctx context.Context, c2pID, c2pCID string) (*entity.ManagerResponse, error) {
	return p.call(ctx, opSavedCards, required("c2p_id", c2pID), required("c2p_cid", c2pCID))
}

func (p *Payments) SavedCardList(ctx context.Context, c2pID, c2pCID string) ([]entity.SavedCard, *entity.ManagerResponse, error) {
	response, err := p.SavedCards(ctx, c2pID, c2pCID)
	if err != nil || response.Failed() {
		return nil, response, err
	}
	var cards []entity.SavedCard
	if err = response.Decode(&cards); err != nil {
		return nil, response, err
	}
	return cards, response, nil
}

func (p *Payments) RemoveSavedCard(ctx context.Context, c2pID, c2pCID, cardID string) (*entity.ManagerResponse, error) {
	return p.call(ctx, opRemoveSavedCard,
		required("c2p_id", c2pID),
		required("c2p_cid", c2pCID),
		required("c2p_cardid", cardID))
}

// CheckMID returns the description of the configured merchant id.
func (p *Payments) CheckMID(ctx context.Context) (*entity.ManagerResponse, error) {
	return p.call(ctx, opCheckMID)
}

func (p *Payments) MerchantInfo(ctx context.Context) (*entity.Merchant, *entity.ManagerResponse, error) {
	response, err := p.CheckMID(ctx)
	if err != nil || response.Failed() {
		return nil, response, err
	}
	var merchant entity.Merchant
	if err = response.Decode(&merchant); err != nil {
		return nil, response, err
	}
	return &merchant, response, nil
}

func checkRange(from, to time.Time) error {
	if from.IsZero() {
		return entity.NewValidationError("from", "is missing")
	}
	if to.IsZero() {
		return entity.NewValidationError("to", "is missing")
	}
	if to.Before(from) {
		return entity.NewValidationError("to", "is before from")
	}
	return nil
}
