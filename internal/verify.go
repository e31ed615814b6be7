package internal

import (
	"fmt"

	"euplatesc/entity"
)

// returnFields rebuilds the field set the gateway signs on the return
// callback. The order is fixed by the gateway.
func returnFields(params entity.ReturnParameters) *entity.FieldSet {
	return entity.NewFieldSet(
		entity.Field{Key: "amount", Value: params.Amount},
		entity.Field{Key: "curr", Value: params.Currency},
		entity.Field{Key: "invoice_id", Value: params.InvoiceID},
		entity.Field{Key: "ep_id", Value: params.EpID},
		entity.Field{Key: "merch_id", Value: params.MerchantID},
		entity.Field{Key: "action", Value: params.Action},
		entity.Field{Key: "message", Value: params.Message},
		entity.Field{Key: "approval", Value: params.Approval},
		entity.Field{Key: "timestamp", Value: params.Timestamp},
		entity.Field{Key: "nonce", Value: params.Nonce},
	)
}

// VerifyReturn checks the callback signature with the merchant secret. The
// action code is only trusted when the signature matches.
func (p *Payments) VerifyReturn(params entity.ReturnParameters) entity.ReturnResult {
	signer, err := p.signerFor(false)
	if err != nil {
		p.logger.Error("verify return", err)
		return entity.ReturnResult{Status: entity.ReturnInvalid}
	}
	if params.FpHash == "" || !signer.Verify(returnFields(params), params.FpHash, UpperHex) {
		p.logger.Warn(fmt.Sprintf("return for invoice %s: signature mismatch", secret(params.InvoiceID)))
		return entity.ReturnResult{Status: entity.ReturnInvalid}
	}
	if params.Action != "0" {
		p.logger.Info(fmt.Sprintf("return for invoice %s: failed with action %s: %s", secret(params.InvoiceID), params.Action, params.Message))
		return entity.ReturnResult{Status: entity.ReturnFailed}
	}
	p.logger.Info(fmt.Sprintf("return for invoice %s: complete, ep id %s", secret(params.InvoiceID), params.EpID))
	return entity.ReturnResult{Success: true, Status: entity.ReturnComplete}
}

// SignReturn computes the callback signature for params. The sandbox uses it
// to answer like the gateway.
func SignReturn(signer *Signer, params entity.ReturnParameters) string {
	return signer.Sign(returnFields(params), UpperHex)
}
