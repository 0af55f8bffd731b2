package razorpayrepo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Amounts cross this boundary as integers in paise; the provider rejects
// receipt references longer than 40 characters.
const MaxReceiptLen = 40

type CreateOrderReq struct {
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type Order struct {
	OrderID     string
	AmountPaise int64
	Currency    string
}

type Refund struct {
	RefundID    string
	AmountPaise int64
}

type Repo interface {
	CreateOrder(ctx context.Context, req CreateOrderReq) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	RefundPayment(ctx context.Context, paymentID string, amountPaise int64, notes map[string]string) (*Refund, error)
	KeyID() string
}

// ExpectedSignature computes the hex HMAC-SHA256 of "orderID|paymentID"
// keyed by the gateway secret, as documented by Razorpay.
func ExpectedSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureEqual(expected, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}
