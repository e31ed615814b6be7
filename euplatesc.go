// Package euplatesc is a client for the EuPlatesc card payment gateway: it
// builds signed payment redirect URLs, calls the signed management API and
// verifies signed return callbacks.
//
//	conf, err := config.GetConfig("config.yml")
//	...
//	client, err := euplatesc.New(conf)
//	paymentURL, err := client.PaymentURL(&entity.PaymentRequest{...})
package euplatesc

import (
	"euplatesc/config"
	"euplatesc/internal"
)

// Client implements services.Payments.
type Client = internal.Payments

type Option = internal.Option

var (
	WithHTTPClient = internal.WithHTTPClient
	WithClock      = internal.WithClock
	WithRandom     = internal.WithRandom
	WithLogger     = internal.WithLogger
	NewLogger      = internal.NewLogger
	ParseAmount    = internal.ParseAmount
)

// New creates a client. The credentials are read once and never change.
func New(conf *config.Config, opts ...Option) (*Client, error) {
	return internal.NewPayments(conf, opts...)
}
