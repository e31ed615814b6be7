package internal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"euplatesc/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture records the posted body and answers with body.
func capture(t *testing.T, posted *string, body string) MockRoundTripper {
	return func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://manager.euplatesc.ro/v3/?action=ws", req.URL.String())
		assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
		data, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		*posted = string(data)
		return jsonResponse(http.StatusOK, body), nil
	}
}

func keysOf(t *testing.T, body string) []string {
	t.Helper()
	var keys []string
	for _, pair := range strings.Split(body, "&") {
		key, _, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		require.NoError(t, err)
		keys = append(keys, k)
	}
	return keys
}

func TestCheckStatus_ByEpID(t *testing.T) {
	var posted string
	p := newTestPayments(t, capture(t, &posted, `{"success":[{"ep_id":"123","amount":"49.44","action":"0","invoice_id":"00000"}]}`))

	statuses, response, err := p.Status(context.Background(), "123", "")
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, response.Failed())
	assert.Equal(t, "123", statuses[0].EpID)
	assert.True(t, statuses[0].Amount.Equal(decimal.RequireFromString("49.44")))
	assert.True(t, statuses[0].Approved())

	assert.Equal(t, []string{"method", "mid", "epid", "timestamp", "nonce", "fp_hash"}, keysOf(t, posted))
	values, err := url.ParseQuery(posted)
	require.NoError(t, err)
	assert.Equal(t, "check_status", values.Get("method"))
	assert.Equal(t, testMerchant, values.Get("mid"))
	assert.Equal(t, "20240305070809", values.Get("timestamp"))

	fields := entity.NewFieldSet(
		entity.Field{Key: "method", Value: "check_status"},
		entity.Field{Key: "mid", Value: testMerchant},
		entity.Field{Key: "epid", Value: "123"},
		entity.Field{Key: "timestamp", Value: "20240305070809"},
		entity.Field{Key: "nonce", Value: strings.Repeat("ab", 16)},
	)
	signer, err := NewSigner(testSecret)
	require.NoError(t, err)
	assert.Equal(t, signer.Sign(fields, UpperHex), values.Get("fp_hash"))
}

func TestCheckStatus_ByInvoiceID(t *testing.T) {
	var posted string
	p := newTestPayments(t, capture(t, &posted, `{"success":"[]"}`))

	_, err := p.CheckStatus(context.Background(), "", "INV-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"method", "mid", "invoice_id", "timestamp", "nonce", "fp_hash"}, keysOf(t, posted))
}

func TestCheckStatus_RequiresAnIdentifier(t *testing.T) {
	called := false
	p := newTestPayments(t, MockRoundTripper(func(req *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(http.StatusOK, `{}`), nil
	}))

	_, err := p.CheckStatus(context.Background(), "", " ")
	assert.ErrorIs(t, err, entity.ErrValidation)
	assert.False(t, called)
}

func TestAccountOperations_RequireUserCredentials(t *testing.T) {
	called := false
	p := newTestPayments(t, MockRoundTripper(func(req *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(http.StatusOK, `{}`), nil
	}), withTestMode)

	ctx := context.Background()
	from := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC)
	calls := map[string]func() (*entity.ManagerResponse, error){
		"capture":  func() (*entity.ManagerResponse, error) { return p.Capture(ctx, "1") },
		"reversal": func() (*entity.ManagerResponse, error) { return p.Reversal(ctx, "1") },
		"partial_capture": func() (*entity.ManagerResponse, error) {
			return p.PartialCapture(ctx, "1", decimal.NewFromInt(1234))
		},
		"refund": func() (*entity.ManagerResponse, error) {
			return p.Refund(ctx, "1", decimal.NewFromInt(1234), "customer request")
		},
		"cancel_recurring": func() (*entity.ManagerResponse, error) { return p.CancelRecurring(ctx, "1", "") },
		"update_iid":       func() (*entity.ManagerResponse, error) { return p.UpdateInvoiceID(ctx, "1", "2") },
		"invoices":         func() (*entity.ManagerResponse, error) { return p.Invoices(ctx, from, to) },
		"invoice":          func() (*entity.ManagerResponse, error) { return p.InvoiceTransactions(ctx, "invoice id") },
		"captured_total":   func() (*entity.ManagerResponse, error) { return p.CapturedTotal(ctx, nil, from, to) },
		"cardart":          func() (*entity.ManagerResponse, error) { return p.CardArt(ctx, "1") },
	}
	for method, call := range calls {
		_, err := call()
		assert.ErrorIs(t, err, entity.ErrMissingCredentials, method)
		assert.ErrorIs(t, err, entity.ErrValidation, method)
		assert.ErrorContains(t, err, method)
	}
	assert.False(t, called)
}

func TestAccountOperations_FieldSets(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		call func(p *Payments) (*entity.ManagerResponse, error)
		keys []string
		want map[string]string
	}{
		{
			name: "capture",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.Capture(ctx, "EP1") },
			keys: []string{"method", "ukey", "epid", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "capture", "ukey": testUserKey, "epid": "EP1"},
		},
		{
			name: "reversal",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.Reversal(ctx, "EP1") },
			keys: []string{"method", "ukey", "epid", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "reversal"},
		},
		{
			name: "partial capture",
			call: func(p *Payments) (*entity.ManagerResponse, error) {
				return p.PartialCapture(ctx, "EP1", decimal.RequireFromString("10.5"))
			},
			keys: []string{"method", "ukey", "epid", "amount", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "partial_capture", "amount": "10.50"},
		},
		{
			name: "refund",
			call: func(p *Payments) (*entity.ManagerResponse, error) {
				return p.Refund(ctx, "EP1", decimal.RequireFromString("3.999"), "damaged")
			},
			keys: []string{"method", "ukey", "epid", "amount", "reason", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "refund", "amount": "3.99", "reason": "damaged"},
		},
		{
			name: "cancel recurring without reason",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.CancelRecurring(ctx, "EP1", "") },
			keys: []string{"method", "ukey", "epid", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "cancel_recurring"},
		},
		{
			name: "update invoice id",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.UpdateInvoiceID(ctx, "EP1", " NEW-1 ") },
			keys: []string{"method", "ukey", "epid", "invoice_id", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "update_iid", "invoice_id": "NEW-1"},
		},
		{
			name: "invoices",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.Invoices(ctx, from, to) },
			keys: []string{"method", "ukey", "mid", "from", "to", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "invoices", "mid": testMerchant, "from": "20220101", "to": "20220201"},
		},
		{
			name: "invoice transactions",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.InvoiceTransactions(ctx, "EP000001") },
			keys: []string{"method", "ukey", "mid", "invoice", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "invoice", "invoice": "EP000001"},
		},
		{
			name: "captured total",
			call: func(p *Payments) (*entity.ManagerResponse, error) {
				return p.CapturedTotal(ctx, []string{"1", "2"}, from, to)
			},
			keys: []string{"method", "ukey", "mids", "from", "to", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "captured_total", "mids": "1,2"},
		},
		{
			name: "card art",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.CardArt(ctx, "EP1") },
			keys: []string{"method", "ukey", "epid", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "cardart"},
		},
		{
			name: "saved cards",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.SavedCards(ctx, "c2p", "cid") },
			keys: []string{"method", "mid", "c2p_id", "c2p_cid", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "c2p_cards", "mid": testMerchant},
		},
		{
			name: "remove saved card",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.RemoveSavedCard(ctx, "c2p", "cid", "7") },
			keys: []string{"method", "mid", "c2p_id", "c2p_cid", "c2p_cardid", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "c2p_delete", "c2p_cardid": "7"},
		},
		{
			name: "check mid",
			call: func(p *Payments) (*entity.ManagerResponse, error) { return p.CheckMID(ctx) },
			keys: []string{"method", "mid", "timestamp", "nonce", "fp_hash"},
			want: map[string]string{"method": "check_mid"},
		},
	}

	userSigner, err := NewSigner(testUserAPIKey)
	require.NoError(t, err)
	merchantSigner, err := NewSigner(testSecret)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var posted string
			p := newTestPayments(t, capture(t, &posted, `{"success":"1"}`), withUser)

			response, err := tt.call(p)
			require.NoError(t, err)
			assert.False(t, response.Failed())
			assert.Equal(t, tt.keys, keysOf(t, posted))

			values, err := url.ParseQuery(posted)
			require.NoError(t, err)
			for key, value := range tt.want {
				assert.Equal(t, value, values.Get(key), key)
			}

			signed := entity.NewFieldSet()
			for _, key := range tt.keys[:len(tt.keys)-1] {
				signed.Add(key, values.Get(key))
			}
			signer := merchantSigner
			if values.Has("ukey") {
				signer = userSigner
			}
			assert.Equal(t, signer.Sign(signed, UpperHex), values.Get("fp_hash"))
		})
	}
}

func TestAccountOperations_TestModeUsesTestKey(t *testing.T) {
	var posted string
	p := newTestPayments(t, capture(t, &posted, `{"success":"1"}`), withUser, withTestMode)

	_, err := p.Capture(context.Background(), "EP1")
	require.NoError(t, err)

	values, err := url.ParseQuery(posted)
	require.NoError(t, err)
	signed := entity.NewFieldSet()
	for _, key := range []string{"method", "ukey", "epid", "timestamp", "nonce"} {
		signed.Add(key, values.Get(key))
	}
	signer, err := NewSigner(entity.TestSecretKey)
	require.NoError(t, err)
	assert.True(t, signer.Verify(signed, values.Get("fp_hash"), UpperHex))
}

func TestManager_ParameterValidation(t *testing.T) {
	p := newTestPayments(t, nil, withUser)
	ctx := context.Background()
	from := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := p.Capture(ctx, "")
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = p.Refund(ctx, "EP1", decimal.Zero, "reason")
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = p.Refund(ctx, "EP1", decimal.NewFromInt(1), "")
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = p.Invoices(ctx, from, from.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = p.Invoices(ctx, time.Time{}, from)
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = p.SavedCards(ctx, "c2p", "")
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestManager_GatewayErrorIsPassedThrough(t *testing.T) {
	var posted string
	p := newTestPayments(t, capture(t, &posted, `{"error":"Invalid hash","message":"fp_hash mismatch","ecode":12}`))

	response, err := p.CheckMID(context.Background())
	require.NoError(t, err)
	assert.True(t, response.Failed())
	assert.Equal(t, "Invalid hash", response.Error)
	assert.Equal(t, "fp_hash mismatch", response.Message)
	assert.Equal(t, entity.ECode("12"), response.ECode)
	assert.JSONEq(t, `{"error":"Invalid hash","message":"fp_hash mismatch","ecode":12}`, string(response.Raw))

	merchant, response, err := p.MerchantInfo(context.Background())
	require.NoError(t, err)
	assert.Nil(t, merchant)
	assert.True(t, response.Failed())
}

func TestManager_TransportErrors(t *testing.T) {
	t.Run("NetworkError", func(t *testing.T) {
		p := newTestPayments(t, MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}))
		_, err := p.CheckMID(context.Background())
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("HTTPStatus", func(t *testing.T) {
		p := newTestPayments(t, MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadGateway, "upstream down"), nil
		}))
		_, err := p.CheckMID(context.Background())
		var httpErr *entity.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
		assert.Equal(t, "upstream down", httpErr.Body)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		p := newTestPayments(t, MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{invalid-json`), nil
		}))
		_, err := p.CheckMID(context.Background())
		assert.ErrorContains(t, err, "parse response")
	})

	t.Run("CancelledContext", func(t *testing.T) {
		p := newTestPayments(t, MockRoundTripper(func(req *http.Request) (*http.Response, error) {
			return nil, req.Context().Err()
		}))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.CheckMID(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestManager_TypedHelpers(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC)

	respond := func(body string) MockRoundTripper {
		return func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, body), nil
		}
	}

	p := newTestPayments(t, respond(`{"success":"[{\"invoice_number\":\"EP1\",\"invoice_currency\":\"RON\"}]"}`), withUser)
	invoices, _, err := p.InvoiceList(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "EP1", invoices[0].Number)

	p = newTestPayments(t, respond(`{"success":[{"mid":"1","epid":"E","type":"refund"}]}`), withUser)
	transactions, _, err := p.InvoiceTransactionList(ctx, "EP1")
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, entity.InvoiceTransactionRefund, transactions[0].Type)

	p = newTestPayments(t, respond(`{"success":[{"mid":"1","currency":"RON","amount":"10.25"},{"mid":"2","currency":"RON","amount":5}]}`), withUser)
	totals, _, err := p.CapturedTotals(ctx, nil, from, to)
	require.NoError(t, err)
	assert.True(t, entity.SumCaptured(totals, "RON").Equal(decimal.RequireFromString("15.25")))

	p = newTestPayments(t, respond(`{"success":[{"id":"9","mask":"444444xxxxxx4444"}]}`))
	cards, _, err := p.SavedCardList(ctx, "c2p", "cid")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "9", cards[0].ID)

	p = newTestPayments(t, respond(`{"success":{"name":"Shop","status":"active"}}`))
	merchant, _, err := p.MerchantInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Shop", merchant.Name)
}

func TestManager_StringWrappedBody(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var posted string
		p := newTestPayments(t, capture(t, &posted, `"{\"success\":[{\"ep_id\":\"123\",\"amount\":\"49.44\",\"action\":\"0\"}]}"`))

		statuses, response, err := p.Status(context.Background(), "123", "")
		require.NoError(t, err)
		require.NotNil(t, response)
		assert.False(t, response.Failed())
		require.Len(t, statuses, 1)
		assert.Equal(t, "123", statuses[0].EpID)
		assert.True(t, strings.HasPrefix(string(response.Raw), `"`))
	})

	t.Run("GatewayError", func(t *testing.T) {
		var posted string
		p := newTestPayments(t, capture(t, &posted, "\n\"{\\\"error\\\":\\\"Invalid hash\\\",\\\"ecode\\\":1}\"\n"))

		response, err := p.CheckStatus(context.Background(), "123", "")
		require.NoError(t, err)
		require.NotNil(t, response)
		assert.True(t, response.Failed())
		assert.Equal(t, "Invalid hash", response.Error)
		assert.Equal(t, entity.ECode("1"), response.ECode)
	})
}
