// Package sandbox runs a local stand-in for the EuPlatesc gateway. It checks
// request signatures the way the gateway does and answers with signed
// callbacks and canned management responses.
package sandbox

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"euplatesc/config"
	"euplatesc/entity"
	"euplatesc/internal"
	"euplatesc/services"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

const (
	paymentPage = "/tdsprocess/tranzactd.php"
	managerAPI  = "/v3/"
	// approved payments kept for check_status
	maxPayments = 1000
)

// fields covered by fp_hash on the payment page, in signing order
var paymentSignedFields = []string{
	"amount", "curr", "invoice_id", "order_desc", "merch_id", "timestamp", "nonce",
	"recurent_freq", "recurent_exp", "valability", "c2p_id", "c2p_cid",
}

type payment struct {
	EpID      string
	InvoiceID string
	Amount    string
	Currency  string
	Email     string
	Time      time.Time
}

type Server struct {
	conf       *config.Config
	creds      entity.Credentials
	httpServer *http.Server
	router     *httprouter.Router
	logger     services.LogHandler
	merchant   *internal.Signer
	user       *internal.Signer
	now        func() time.Time
	// Decline makes the payment page answer with a declined transaction.
	Decline bool

	mutex    sync.Mutex
	payments map[string]*payment
	// epIDs in arrival order, oldest evicted past maxPayments
	order []string
}

func NewServer(conf *config.Config) (*Server, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	server := &Server{
		conf:     conf,
		creds:    conf.Credentials(),
		now:      time.Now,
		payments: make(map[string]*payment),
		logger:   internal.WrapLogger(nil, "sandbox"),
	}

	var err error
	secret, userKey := server.creds.SecretKey, server.creds.UserAPIKey
	if server.creds.TestMode {
		secret, userKey = entity.TestSecretKey, entity.TestSecretKey
	}
	if server.merchant, err = internal.NewSigner(secret); err != nil {
		return nil, fmt.Errorf("merchant secret: %w", err)
	}
	if userKey != "" {
		if server.user, err = internal.NewSigner(userKey); err != nil {
			return nil, fmt.Errorf("user api key: %w", err)
		}
	}

	server.router = httprouter.New()
	server.Register(server.router)
	server.httpServer = &http.Server{
		Handler: server.router,
	}
	return server, nil
}

func (s *Server) Register(router *httprouter.Router) {
	router.GET(paymentPage, s.paymentPage)
	router.POST(managerAPI, s.manager)
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

// Handler exposes the routes, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Sandbox.BindIP, s.conf.Sandbox.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}
	s.logger.Info(fmt.Sprintf("sandbox gateway on http://%s%s and http://%s%s?action=ws", serverAddress, paymentPage, serverAddress, managerAPI))
	return s.httpServer.Serve(listener)
}

func (s *Server) Close() error {
	return s.httpServer.Close()
}

func (s *Server) paymentPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fields, err := ParseOrdered(r.URL.RawQuery)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("payment page: %v", err))
		http.Error(w, "malformed query", http.StatusBadRequest)
		return
	}
	signed := entity.NewFieldSet()
	for _, key := range paymentSignedFields {
		if value, ok := fields.Get(key); ok {
			signed.Add(key, value)
		}
	}
	hash, _ := fields.Get("fp_hash")
	if !s.merchant.Verify(signed, hash, internal.LowerHex) {
		s.logger.Warn("payment page: invalid fp_hash")
		http.Error(w, "invalid fp_hash", http.StatusBadRequest)
		return
	}
	if merchant, _ := fields.Get("merch_id"); merchant != s.creds.Merchant() {
		http.Error(w, "unknown merchant", http.StatusBadRequest)
		return
	}

	nonce, err := internal.Nonce(nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	value := func(key string) string {
		v, _ := fields.Get(key)
		return v
	}
	result := entity.ReturnParameters{
		Amount:     value("amount"),
		Currency:   value("curr"),
		InvoiceID:  value("invoice_id"),
		EpID:       strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")),
		MerchantID: value("merch_id"),
		Action:     "0",
		Message:    "Approved",
		Approval:   "123456",
		Timestamp:  internal.Timestamp(s.now()),
		Nonce:      nonce,
	}
	if s.Decline {
		result.Action, result.Message, result.Approval = "05", "Do not honor", ""
	}
	result.FpHash = internal.SignReturn(s.merchant, result)

	if result.Action == "0" {
		s.store(&payment{
			EpID:      result.EpID,
			InvoiceID: result.InvoiceID,
			Amount:    result.Amount,
			Currency:  result.Currency,
			Email:     value("email"),
			Time:      s.now(),
		})
	}
	s.logger.Info(fmt.Sprintf("payment page: invoice %s; action %s", result.InvoiceID, result.Action))

	body := encodeReturn(result)
	target := value("ExtraData[successurl]")
	if result.Action != "0" && value("ExtraData[failedurl]") != "" {
		target = value("ExtraData[failedurl]")
	}
	if target != "" {
		http.Redirect(w, r, target+"?"+body, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
	_, _ = io.WriteString(w, body)
}

func (s *Server) store(p *payment) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.payments[p.EpID] = p
	s.payments["invoice:"+p.InvoiceID] = p
	s.order = append(s.order, p.EpID)
	for len(s.order) > maxPayments {
		old := s.payments[s.order[0]]
		delete(s.payments, old.EpID)
		if s.payments["invoice:"+old.InvoiceID] == old {
			delete(s.payments, "invoice:"+old.InvoiceID)
		}
		s.order = s.order[1:]
	}
}

func (s *Server) find(epID, invoiceID string) *payment {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if epID != "" {
		return s.payments[epID]
	}
	return s.payments["invoice:"+invoiceID]
}

func encodeReturn(r entity.ReturnParameters) string {
	return entity.NewFieldSet(
		entity.Field{Key: "amount", Value: r.Amount},
		entity.Field{Key: "curr", Value: r.Currency},
		entity.Field{Key: "invoice_id", Value: r.InvoiceID},
		entity.Field{Key: "ep_id", Value: r.EpID},
		entity.Field{Key: "merch_id", Value: r.MerchantID},
		entity.Field{Key: "action", Value: r.Action},
		entity.Field{Key: "message", Value: r.Message},
		entity.Field{Key: "approval", Value: r.Approval},
		entity.Field{Key: "timestamp", Value: r.Timestamp},
		entity.Field{Key: "nonce", Value: r.Nonce},
		entity.Field{Key: "fp_hash", Value: r.FpHash},
	).Encode()
}

// ParseOrdered decodes a urlencoded string keeping the field order.
func ParseOrdered(raw string) (*entity.FieldSet, error) {
	fields := entity.NewFieldSet()
	if raw == "" {
		return fields, nil
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("decode key %q: %w", key, err)
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("decode value of %s: %w", k, err)
		}
		fields.Add(k, v)
	}
	return fields, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
