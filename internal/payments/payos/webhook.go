package payos

import (
	"encoding/json"
	"strconv"
)

// WebhookBody is the provider's notification envelope. Data is kept as the
// raw decoded map because the signature covers every top-level field of it,
// whatever the provider decides to send.
type WebhookBody struct {
	Code      string                 `json:"code"`
	Desc      string                 `json:"desc"`
	Success   bool                   `json:"success"`
	Data      map[string]interface{} `json:"data"`
	Signature string                 `json:"signature"`
}

// OrderCode extracts the order code from the data object.
func (w *WebhookBody) OrderCode() (int64, bool) {
	v, ok := w.Data["orderCode"]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Succeeded reports whether the notification describes a successful payment.
// The data-level code is authoritative; the envelope code only describes the
// delivery itself.
func (w *WebhookBody) Succeeded() bool {
	if c, ok := w.Data["code"].(string); ok {
		return c == codeOK
	}
	return w.Code == codeOK && w.Success
}
