package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayOrder is the subset of the gateway order response we keep.
type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // smallest currency unit (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RazorpayClient talks to the payment gateway's order API.
type RazorpayClient struct {
	keyID     string
	keySecret string
	client    *resty.Client
}

func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		client:    resty.New().SetBaseURL(razorpayBaseURL),
	}
}

// SetBaseURL points the client at a different gateway endpoint. Used by tests.
func (rc *RazorpayClient) SetBaseURL(url string) {
	rc.client.SetBaseURL(url)
}

// CreateOrder registers a payment order with the gateway. Amount is in the
// smallest currency unit.
func (rc *RazorpayClient) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error) {
	var order RazorpayOrder
	resp, err := rc.client.R().
		SetBasicAuth(rc.keyID, rc.keySecret).
		SetBody(map[string]interface{}{
			"amount":   amount,
			"currency": currency,
			"receipt":  receipt,
			"notes":    notes,
		}).
		SetResult(&order).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create order: gateway returned %s: %s", resp.Status(), resp.String())
	}
	return &order, nil
}

// VerifySignature checks a gateway callback signature. The expected value is
// HMAC-SHA256(secret, orderID + "|" + paymentID), hex encoded. Comparison is
// constant time; malformed signatures are rejected.
func (rc *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifyRazorpaySignature(rc.keySecret, orderID, paymentID, signature)
}

// VerifyRazorpaySignature is the bare verification primitive.
func VerifyRazorpaySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := mac.Sum(nil)

	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, supplied)
}
