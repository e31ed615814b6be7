package internal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"euplatesc/entity"

	"github.com/shopspring/decimal"
)

const (
	testAmount      = "1.00"
	recurringMarker = "Base"
)

// PaymentURL returns the gateway URL with the signed payment fields as query
// parameters, in field order.
func (p *Payments) PaymentURL(request *entity.PaymentRequest) (string, error) {
	signed, err := p.BuildPayment(request)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("payment url: %v", err))
		return "", err
	}
	p.logger.Info(fmt.Sprintf("payment url: invoice %s; amount %s %s", secret(request.InvoiceID), request.Amount.StringFixed(2), request.Currency))

	separator := "?"
	if strings.Contains(p.gatewayURL, "?") {
		separator = "&"
	}
	return p.gatewayURL + separator + signed.Wire().Encode(), nil
}

// BuildPayment validates the request and assembles the signed field set of
// the redirect flow. Billing, shipping and page options follow the signature
// and are not covered by it.
func (p *Payments) BuildPayment(request *entity.PaymentRequest) (*entity.SignedRequest, error) {
	if request == nil {
		return nil, entity.NewValidationError("", "payment request is missing")
	}
	amount, err := formatAmount("amount", request.Amount)
	if err != nil {
		return nil, err
	}
	if request.Currency == "" {
		return nil, entity.NewValidationError("currency", "is missing")
	}
	if !request.Currency.Valid() {
		return nil, entity.NewValidationError("currency", fmt.Sprintf("unsupported currency %q", request.Currency))
	}
	invoiceID := strings.TrimSpace(request.InvoiceID)
	if invoiceID == "" {
		return nil, entity.NewValidationError("invoiceId", "is missing")
	}
	if request.OrderDescription == "" {
		return nil, entity.NewValidationError("orderDescription", "is missing")
	}
	if lang := request.Extra.Lang; lang != "" && !lang.Valid() {
		return nil, entity.NewValidationError("lang", fmt.Sprintf("unsupported language %q", lang))
	}
	if p.creds.TestMode {
		amount = testAmount
	}

	now := p.now()
	fields := entity.NewFieldSet(
		entity.Field{Key: "amount", Value: amount},
		entity.Field{Key: "curr", Value: string(request.Currency)},
		entity.Field{Key: "invoice_id", Value: invoiceID},
		entity.Field{Key: "order_desc", Value: request.OrderDescription},
		entity.Field{Key: "merch_id", Value: p.creds.Merchant()},
	)
	if err = p.addTimestampNonce(fields); err != nil {
		return nil, err
	}

	if f := request.Frequency; f != nil {
		days := f.Days
		if days == 0 {
			days = entity.DefaultFrequencyDays
		}
		if days < 0 {
			return nil, entity.NewValidationError("frequency.days", "must be positive")
		}
		fields.Add("recurent_freq", strconv.Itoa(days))
		switch {
		case f.ExpiresAt == nil:
			fields.Add("recurent_exp", Date(now.AddDate(1, 0, 0)))
		case f.ExpiresAt.IsZero():
			return nil, entity.NewValidationError("frequency.expiresAt", "should be a date")
		default:
			fields.Add("recurent_exp", Date(*f.ExpiresAt))
		}
	}
	if request.Valability != nil {
		if request.Valability.IsZero() {
			return nil, entity.NewValidationError("valability", "should be a date")
		}
		fields.Add("valability", Timestamp(*request.Valability))
	}
	fields.AddOptional("c2p_id", request.C2PID)
	fields.AddOptional("c2p_cid", request.C2PCID)

	signer, err := p.signerFor(false)
	if err != nil {
		return nil, err
	}

	unsigned := entity.NewFieldSet()
	if request.Frequency != nil {
		unsigned.Add("recurent", recurringMarker)
	}
	addAddress(unsigned, "", request.Billing)
	addAddress(unsigned, "s", request.Shipping)
	addExtra(unsigned, request.Extra)

	return &entity.SignedRequest{
		Signed:       fields,
		SignatureKey: signatureField,
		Signature:    signer.Sign(fields, LowerHex),
		Unsigned:     unsigned,
	}, nil
}

func addAddress(fields *entity.FieldSet, prefix string, a entity.Address) {
	fields.AddOptional(prefix+"fname", a.FirstName)
	fields.AddOptional(prefix+"lname", a.LastName)
	fields.AddOptional(prefix+"company", a.Company)
	fields.AddOptional(prefix+"add", a.Address)
	fields.AddOptional(prefix+"city", a.City)
	fields.AddOptional(prefix+"state", a.State)
	fields.AddOptional(prefix+"zip", a.Zip)
	fields.AddOptional(prefix+"country", a.Country)
	fields.AddOptional(prefix+"phone", a.Phone)
	fields.AddOptional(prefix+"email", a.Email)
}

func addExtra(fields *entity.FieldSet, e entity.ExtraData) {
	fields.AddOptional("ExtraData", e.Data)
	fields.AddOptional("ExtraData[silenturl]", e.SilentURL)
	fields.AddOptional("ExtraData[successurl]", e.SuccessURL)
	fields.AddOptional("ExtraData[failedurl]", e.FailedURL)
	fields.AddOptional("ExtraData[ep_target]", e.EpTarget)
	fields.AddOptional("ExtraData[ep_method]", e.EpMethod)
	fields.AddOptional("ExtraData[backtosite]", e.BackToSite)
	fields.AddOptional("ExtraData[backtosite_method]", e.BackToSiteMethod)
	fields.AddOptional("ExtraData[expireurl]", e.ExpireURL)
	fields.AddOptional("ExtraData[rate]", e.Rate)
	fields.AddOptional("ExtraData[filtru_rate]", e.FilterRate)
	fields.AddOptional("ExtraData[ep_channel]", e.Channel)
	fields.AddOptional("generate_epid", e.GenerateEpid)
	fields.AddOptional("lang", string(e.Lang))
}

// formatAmount truncates to two fractional digits. Zero counts as missing.
func formatAmount(field string, amount decimal.Decimal) (string, error) {
	truncated := amount.Truncate(2)
	if truncated.IsZero() {
		return "", entity.NewValidationError(field, "is missing")
	}
	if truncated.IsNegative() {
		return "", entity.NewValidationError(field, "must be positive")
	}
	return truncated.StringFixed(2), nil
}

// ParseAmount reads a caller supplied amount, rejecting non numeric input.
func ParseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, entity.NewValidationError("amount", "should be numeric")
	}
	return amount, nil
}

// ParseDate reads YYYY-MM-DD as a UTC date.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, entity.NewValidationError(field, "should be a date (YYYY-MM-DD)")
	}
	return t, nil
}
