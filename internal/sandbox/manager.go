package sandbox

import (
	"fmt"
	"io"
	"net/http"

	"euplatesc/entity"
	"euplatesc/internal"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	ECode   string `json:"ecode"`
}

type successResponse struct {
	Success any `json:"success"`
}

func (s *Server) manager(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("manager: read request body", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	fields, err := ParseOrdered(string(body))
	if err != nil {
		writeJSON(w, errorResponse{Error: "Malformed request", ECode: "2"})
		return
	}

	hash, _ := fields.Get("fp_hash")
	signed := entity.NewFieldSet()
	for _, f := range fields.Fields() {
		if f.Key != "fp_hash" {
			signed.Add(f.Key, f.Value)
		}
	}

	signer := s.merchant
	if ukey, ok := fields.Get("ukey"); ok {
		if ukey != s.creds.UserKey || s.user == nil {
			writeJSON(w, errorResponse{Error: "Invalid user key", ECode: "3"})
			return
		}
		signer = s.user
	} else if mid, _ := fields.Get("mid"); mid != s.creds.Merchant() {
		writeJSON(w, errorResponse{Error: "Invalid merchant id", ECode: "3"})
		return
	}
	if !signer.Verify(signed, hash, internal.UpperHex) {
		s.logger.Warn("manager: invalid fp_hash")
		writeJSON(w, errorResponse{Error: "Invalid hash", Message: "fp_hash mismatch", ECode: "1"})
		return
	}

	value := func(key string) string {
		v, _ := fields.Get(key)
		return v
	}
	method := value("method")
	s.logger.Info(fmt.Sprintf("manager: %s", method))

	switch method {
	case "check_status":
		p := s.find(value("epid"), value("invoice_id"))
		if p == nil {
			writeJSON(w, errorResponse{Error: "Transaction not found", ECode: "10"})
			return
		}
		amount, _ := decimal.NewFromString(p.Amount)
		writeJSON(w, successResponse{Success: []entity.TransactionStatus{{
			MerchantID:    s.creds.Merchant(),
			InvoiceID:     p.InvoiceID,
			Amount:        amount,
			EpID:          p.EpID,
			Action:        "0",
			Message:       "Approved",
			Captured:      "0",
			Refunded:      "0",
			PendingStatus: "0",
			MaskedCard:    "444444xxxxxx4444",
			Email:         p.Email,
			Timestamp:     p.Time.UTC().Format("2006-01-02 15:04:05"),
			TranType:      "Normal",
		}}})
	case "capture", "reversal", "partial_capture", "refund", "cancel_recurring", "update_iid", "c2p_delete":
		if epID := value("epid"); epID != "" && s.find(epID, "") == nil {
			writeJSON(w, errorResponse{Error: "Transaction not found", ECode: "10"})
			return
		}
		writeJSON(w, successResponse{Success: "1"})
	case "invoices":
		writeJSON(w, successResponse{Success: []entity.Invoice{{
			Number:             "EP000001",
			Date:               value("to"),
			Currency:           "RON",
			TransactionsNumber: "1",
		}}})
	case "invoice":
		writeJSON(w, successResponse{Success: []entity.InvoiceTransaction{{
			MerchantID: s.creds.Merchant(),
			InvoiceID:  value("invoice"),
			Type:       entity.InvoiceTransactionCapture,
		}}})
	case "captured_total":
		writeJSON(w, successResponse{Success: []entity.CapturedTotal{{
			MerchantID: s.creds.Merchant(),
			Currency:   "RON",
			Amount:     s.capturedTotal(),
		}}})
	case "cardart":
		writeJSON(w, successResponse{Success: entity.CardArt{EpID: value("epid"), MaskedCard: "444444xxxxxx4444", Brand: "VISA"}})
	case "c2p_cards":
		writeJSON(w, successResponse{Success: []entity.SavedCard{{ID: "1", MaskedCard: "444444xxxxxx4444", Expire: "12-30", CardType: "VISA", Default: "1"}}})
	case "check_mid":
		writeJSON(w, successResponse{Success: entity.Merchant{Name: "Sandbox merchant", Status: "active"}})
	default:
		writeJSON(w, errorResponse{Error: "Invalid method", ECode: "4"})
	}
}

func (s *Server) capturedTotal() decimal.Decimal {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	total := decimal.Zero
	for key, p := range s.payments {
		if key != p.EpID || p.Currency != "RON" {
			continue
		}
		if amount, err := decimal.NewFromString(p.Amount); err == nil {
			total = total.Add(amount)
		}
	}
	return total
}
