package internal

import (
	"fmt"

	"euplatesc/entity"
)

// operation describes one management call: the method tag, whether it is an
// account-management call (user key identification, user API key signing)
// and the digest case the endpoint expects.
type operation struct {
	method  string
	account bool
	digest  DigestCase
}

var (
	opCheckStatus         = operation{method: "check_status", digest: UpperHex}
	opCapture             = operation{method: "capture", account: true, digest: UpperHex}
	opReversal            = operation{method: "reversal", account: true, digest: UpperHex}
	opPartialCapture      = operation{method: "partial_capture", account: true, digest: UpperHex}
	opRefund              = operation{method: "refund", account: true, digest: UpperHex}
	opCancelRecurring     = operation{method: "cancel_recurring", account: true, digest: UpperHex}
	opUpdateInvoiceID     = operation{method: "update_iid", account: true, digest: UpperHex}
	opInvoices            = operation{method: "invoices", account: true, digest: UpperHex}
	opInvoiceTransactions = operation{method: "invoice", account: true, digest: UpperHex}
	opCapturedTotal       = operation{method: "captured_total", account: true, digest: UpperHex}
	opCardArt             = operation{method: "cardart", account: true, digest: UpperHex}
	opSavedCards          = operation{method: "c2p_cards", digest: UpperHex}
	opRemoveSavedCard     = operation{method: "c2p_delete", digest: UpperHex}
	opCheckMID            = operation{method: "check_mid", digest: UpperHex}
)

// param is an operation specific field. Optional params with an empty value
// are left out of the field set.
type param struct {
	key      string
	value    string
	optional bool
}

func required(key, value string) param {
	return param{key: key, value: value}
}

func optional(key, value string) param {
	return param{key: key, value: value, optional: true}
}

// signedRequest is the single request builder shared by every management
// operation: method tag, identification, params, timestamp, nonce, fp_hash.
func (p *Payments) signedRequest(op operation, params ...param) (*entity.SignedRequest, error) {
	if op.account && !p.creds.HasUserCredentials() {
		return nil, &entity.CredentialsError{Operation: op.method}
	}
	for _, prm := range params {
		if !prm.optional && prm.value == "" {
			return nil, entity.NewValidationError(prm.key, "is missing")
		}
	}

	fields := entity.NewFieldSet()
	fields.Add("method", op.method)
	if op.account {
		fields.Add("ukey", p.creds.UserKey)
	} else {
		fields.Add("mid", p.creds.Merchant())
	}
	for _, prm := range params {
		if prm.optional {
			fields.AddOptional(prm.key, prm.value)
		} else {
			fields.Add(prm.key, prm.value)
		}
	}
	if err := p.addTimestampNonce(fields); err != nil {
		return nil, err
	}

	signer, err := p.signerFor(op.account)
	if err != nil {
		return nil, err
	}
	return &entity.SignedRequest{
		Signed:       fields,
		SignatureKey: signatureField,
		Signature:    signer.Sign(fields, op.digest),
	}, nil
}

func (p *Payments) addTimestampNonce(fields *entity.FieldSet) error {
	nonce, err := Nonce(p.random)
	if err != nil {
		return err
	}
	fields.Add("timestamp", Timestamp(p.now()))
	fields.Add("nonce", nonce)
	return nil
}

// signerFor selects the key: the test key in test mode, the user API key for
// account-management calls, the merchant secret otherwise.
func (p *Payments) signerFor(account bool) (*Signer, error) {
	switch {
	case p.creds.TestMode:
		return p.testSigner, nil
	case account:
		if p.userSigner == nil {
			return nil, fmt.Errorf("user api key: %w", entity.ErrInvalidKey)
		}
		return p.userSigner, nil
	default:
		if p.merchantSigner == nil {
			return nil, fmt.Errorf("merchant secret: %w", entity.ErrInvalidKey)
		}
		return p.merchantSigner, nil
	}
}
