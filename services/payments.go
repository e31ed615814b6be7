package services

import (
	"context"
	"time"

	"euplatesc/entity"

	"github.com/shopspring/decimal"
)

// Payments is the EuPlatesc client surface. Each call is a single
// request/response exchange and may run concurrently with others.
type Payments interface {
	// PaymentURL builds the signed redirect URL that starts a card payment.
	PaymentURL(request *entity.PaymentRequest) (string, error)
	// VerifyReturn checks the signature of the fields the gateway redirected back with.
	VerifyReturn(params entity.ReturnParameters) entity.ReturnResult

	CheckStatus(ctx context.Context, epID, invoiceID string) (*entity.ManagerResponse, error)
	Capture(ctx context.Context, epID string) (*entity.ManagerResponse, error)
	Reversal(ctx context.Context, epID string) (*entity.ManagerResponse, error)
	PartialCapture(ctx context.Context, epID string, amount decimal.Decimal) (*entity.ManagerResponse, error)
	Refund(ctx context.Context, epID string, amount decimal.Decimal, reason string) (*entity.ManagerResponse, error)
	CancelRecurring(ctx context.Context, epID, reason string) (*entity.ManagerResponse, error)
	UpdateInvoiceID(ctx context.Context, epID, invoiceID string) (*entity.ManagerResponse, error)
	Invoices(ctx context.Context, from, to time.Time) (*entity.ManagerResponse, error)
	InvoiceTransactions(ctx context.Context, invoiceID string) (*entity.ManagerResponse, error)
	CapturedTotal(ctx context.Context, mids []string, from, to time.Time) (*entity.ManagerResponse, error)
	CardArt(ctx context.Context, epID string) (*entity.ManagerResponse, error)
	SavedCards(ctx context.Context, c2pID, c2pCID string) (*entity.ManagerResponse, error)
	RemoveSavedCard(ctx context.Context, c2pID, c2pCID, cardID string) (*entity.ManagerResponse, error)
	CheckMID(ctx context.Context) (*entity.ManagerResponse, error)
}
