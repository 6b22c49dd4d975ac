package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Canonicalize builds the provider signing string from a payload: field
// names sorted lexicographically, values normalized to strings, joined as
// key=value pairs with "&".
func Canonicalize(data map[string]interface{}) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+normalizeValue(data[k]))
	}
	return strings.Join(pairs, "&")
}

// normalizeValue renders a decoded JSON value the way the providers sign it.
// nil and the literal strings "null"/"undefined" become the empty string.
func normalizeValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if t == "null" || t == "undefined" {
			return ""
		}
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Sign computes the hex HMAC-SHA256 of the canonicalized payload.
func Sign(data map[string]interface{}, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(Canonicalize(data)))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifySignature reports whether signature matches the payload under the
// shared secret. Comparison is case-insensitive. Missing secret, payload or
// signature fails closed.
func VerifySignature(data map[string]interface{}, signature, secret string) bool {
	if secret == "" || signature == "" || len(data) == 0 {
		return false
	}
	expected, err := Sign(data, secret)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(strings.ToLower(expected)), []byte(strings.ToLower(signature)))
}
