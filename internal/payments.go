package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"euplatesc/config"
	"euplatesc/entity"
	"euplatesc/services"
)

const signatureField = "fp_hash"

// HTTPDoer sends a single HTTP request. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Payments is the EuPlatesc client. It holds only the immutable credential
// bundle and collaborators, so calls need no locking.
type Payments struct {
	creds          entity.Credentials
	logger         services.LogHandler
	httpClient     HTTPDoer
	gatewayURL     string
	managerURL     string
	now            func() time.Time
	random         io.Reader
	merchantSigner *Signer
	userSigner     *Signer
	testSigner     *Signer
}

var _ services.Payments = (*Payments)(nil)

type Option func(*Payments)

// WithHTTPClient replaces the transport collaborator. Timeouts, retries and
// cancellation beyond the request context belong to it.
func WithHTTPClient(client HTTPDoer) Option {
	return func(p *Payments) {
		p.httpClient = client
	}
}

// WithClock sets the source of the request timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Payments) {
		p.now = now
	}
}

// WithRandom sets the nonce source. It must be cryptographically secure
// outside of tests.
func WithRandom(r io.Reader) Option {
	return func(p *Payments) {
		p.random = r
	}
}

func WithLogger(logger services.LogHandler) Option {
	return func(p *Payments) {
		p.logger = logger
	}
}

// NewPayments creates a client from the configuration. Keys are decoded up
// front so a malformed key fails here rather than on the first call.
func NewPayments(conf *config.Config, opts ...Option) (*Payments, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	creds := conf.Credentials()
	p := &Payments{
		creds:      creds,
		gatewayURL: conf.Gateway.URL,
		managerURL: conf.Gateway.ManagerURL,
		httpClient: &http.Client{Timeout: conf.Gateway.Timeout},
		now:        time.Now,
	}
	if p.gatewayURL == "" {
		p.gatewayURL = config.DefaultGatewayURL
	}
	if p.managerURL == "" {
		p.managerURL = config.DefaultManagerURL
	}

	var err error
	if p.testSigner, err = NewSigner(entity.TestSecretKey); err != nil {
		return nil, err
	}
	if !creds.TestMode {
		if creds.MerchantID == "" {
			return nil, entity.NewValidationError("merchant id", "is missing")
		}
		if p.merchantSigner, err = NewSigner(creds.SecretKey); err != nil {
			return nil, fmt.Errorf("merchant secret: %w", err)
		}
		if creds.UserAPIKey != "" {
			if p.userSigner, err = NewSigner(creds.UserAPIKey); err != nil {
				return nil, fmt.Errorf("user api key: %w", err)
			}
		}
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.SetLogger(WrapLogger(nil, "payments"))
	}
	return p, nil
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
	if p.creds.TestMode {
		p.logger.Warn("test mode: requests use the sandbox account")
	}
}

func (p *Payments) TestMode() bool {
	return p.creds.TestMode
}

func (p *Payments) MerchantID() string {
	return p.creds.Merchant()
}

// call builds the signed field set for op and posts it to the manager.
func (p *Payments) call(ctx context.Context, op operation, params ...param) (*entity.ManagerResponse, error) {
	ctx = WithRequestID(ctx)
	reqID := GetRequestID(ctx)

	request, err := p.signedRequest(op, params...)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("[%s] %s: %v", reqID, op.method, err))
		return nil, err
	}
	p.logger.Info(fmt.Sprintf("[%s] %s: %s", reqID, op.method, describeParams(params)))

	response, err := p.post(ctx, request)
	if err != nil {
		p.logger.Error(fmt.Sprintf("[%s] %s", reqID, op.method), err)
		return nil, err
	}
	if response.Failed() {
		p.logger.Warn(fmt.Sprintf("[%s] %s: gateway error %s: %s %s", reqID, op.method, response.ECode, response.Error, response.Message))
	}
	return response, nil
}

func (p *Payments) post(ctx context.Context, request *entity.SignedRequest) (*entity.ManagerResponse, error) {
	body := request.Wire().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.managerURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			p.logger.Error("close response body", err)
		}
	}(response.Body)

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &entity.HTTPError{StatusCode: response.StatusCode, Body: string(data)}
	}
	p.logger.Debug(fmt.Sprintf("response: %s", string(data)))
	return entity.ParseManagerResponse(data)
}

func describeParams(params []param) string {
	parts := make([]string, 0, len(params))
	for _, prm := range params {
		if prm.value == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", prm.key, secret(prm.value)))
	}
	return strings.Join(parts, "; ")
}

func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}
