package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyRON Currency = "RON"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyRON, CurrencyEUR, CurrencyUSD:
		return true
	}
	return false
}

type Language string

const (
	LanguageRO Language = "ro"
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
	LanguageDE Language = "de"
	LanguageIT Language = "it"
	LanguageES Language = "es"
	LanguageHU Language = "hu"
)

func (l Language) Valid() bool {
	switch l {
	case LanguageRO, LanguageEN, LanguageFR, LanguageDE, LanguageIT, LanguageES, LanguageHU:
		return true
	}
	return false
}

// DefaultFrequencyDays is used when a recurring payment does not set Days.
const DefaultFrequencyDays = 30

// Frequency turns a payment into the base payment of a recurring series.
type Frequency struct {
	// Days between charges; zero means DefaultFrequencyDays.
	Days int
	// ExpiresAt ends the series; nil means one year from today.
	ExpiresAt *time.Time
}

// Address holds billing or shipping details. Empty fields are not sent.
type Address struct {
	FirstName string
	LastName  string
	Company   string
	Address   string
	City      string
	State     string
	Zip       string
	Country   string
	Phone     string
	Email     string
}

// ExtraData holds the redirect and presentation options of the payment page.
type ExtraData struct {
	Data             string
	SilentURL        string
	SuccessURL       string
	FailedURL        string
	EpTarget         string
	EpMethod         string
	BackToSite       string
	BackToSiteMethod string
	ExpireURL        string
	Rate             string
	FilterRate       string
	Channel          string
	GenerateEpid     string
	Lang             Language
}

// PaymentRequest describes a card payment started by redirecting the buyer.
type PaymentRequest struct {
	Amount           decimal.Decimal
	Currency         Currency
	InvoiceID        string
	OrderDescription string

	Frequency *Frequency
	// Valability limits how long the payment page accepts the order.
	Valability *time.Time
	// C2PID and C2PCID reference cards stored for the buyer.
	C2PID  string
	C2PCID string

	Billing  Address
	Shipping Address
	Extra    ExtraData
}
