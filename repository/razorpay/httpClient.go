package razorpayrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/PragyeNawani/wheelify/util/httpx"
)

const baseURL = "https://api.razorpay.com/v1"

type httpRepo struct {
	keyID     string
	keySecret string
	client    *http.Client
}

func NewHTTP(keyID, keySecret string) Repo {
	return &httpRepo{keyID: keyID, keySecret: keySecret, client: httpx.Client()}
}

func (r *httpRepo) KeyID() string { return r.keyID }

func (r *httpRepo) CreateOrder(ctx context.Context, req CreateOrderReq) (*Order, error) {
	receipt := req.Receipt
	if len(receipt) > MaxReceiptLen {
		receipt = receipt[:MaxReceiptLen]
	}
	body := map[string]any{
		"amount":   req.AmountPaise,
		"currency": req.Currency,
		"receipt":  receipt,
	}
	if len(req.Notes) > 0 {
		body["notes"] = req.Notes
	}

	var out struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := r.post(ctx, "/orders", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("razorpay: empty order id")
	}
	return &Order{OrderID: out.ID, AmountPaise: out.Amount, Currency: out.Currency}, nil
}

func (r *httpRepo) VerifySignature(orderID, paymentID, signature string) bool {
	return signatureEqual(ExpectedSignature(orderID, paymentID, r.keySecret), signature)
}

func (r *httpRepo) RefundPayment(ctx context.Context, paymentID string, amountPaise int64, notes map[string]string) (*Refund, error) {
	body := map[string]any{"amount": amountPaise}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	var out struct {
		ID     string `json:"id"`
		Amount int64  `json:"amount"`
	}
	if err := r.post(ctx, "/payments/"+paymentID+"/refund", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("razorpay: empty refund id")
	}
	return &Refund{RefundID: out.ID, AmountPaise: out.Amount}, nil
}

func (r *httpRepo) post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	httpReq.SetBasicAuth(r.keyID, r.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("razorpay %s failed: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
