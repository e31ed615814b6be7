package internal

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"

	"euplatesc/config"

	"github.com/stretchr/testify/require"
)

const (
	testMerchant   = "44841002813"
	testSecret     = "A1B2C3D4E5F60718293A4B5C6D7E8F90"
	testUserKey    = "user-key-1"
	testUserAPIKey = "0F0E0D0C0B0A09080706050403020100"
)

var fixedNow = time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)

// constReader returns an endless stream of one byte.
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) (*http.Response, error)

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func testConfig(mutate ...func(*config.Config)) *config.Config {
	conf := &config.Config{}
	conf.Merchant.ID = testMerchant
	conf.Merchant.Secret = testSecret
	conf.Gateway.URL = config.DefaultGatewayURL
	conf.Gateway.ManagerURL = config.DefaultManagerURL
	for _, m := range mutate {
		m(conf)
	}
	return conf
}

func withUser(conf *config.Config) {
	conf.Merchant.UserKey = testUserKey
	conf.Merchant.UserAPIKey = testUserAPIKey
}

func withTestMode(conf *config.Config) {
	conf.Merchant.TestMode = true
}

func newTestPayments(t *testing.T, transport http.RoundTripper, mutate ...func(*config.Config)) *Payments {
	t.Helper()
	p, err := NewPayments(testConfig(mutate...),
		WithClock(func() time.Time { return fixedNow }),
		WithRandom(constReader(0xab)),
		WithHTTPClient(&http.Client{Transport: transport}),
	)
	require.NoError(t, err)
	return p
}
