package payments

import (
	"strings"
	"testing"
)

func TestCanonicalizeSortsAndNormalizes(t *testing.T) {
	data := map[string]interface{}{
		"orderCode": float64(1700000000123),
		"desc":      "success",
		"code":      "00",
		"amount":    float64(49),
		"empty":     nil,
		"nullish":   "null",
	}

	got := Canonicalize(data)
	want := "amount=49&code=00&desc=success&empty=&nullish=&orderCode=1700000000123"
	if got != want {
		t.Fatalf("canonicalize mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestCanonicalizeValueKinds(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string", "abc", "k=abc"},
		{"undefined literal", "undefined", "k="},
		{"integral float", float64(1200000), "k=1200000"},
		{"fractional float", 49.5, "k=49.5"},
		{"int64", int64(42), "k=42"},
		{"bool", true, "k=true"},
		{"nested", map[string]interface{}{"a": "b"}, `k={"a":"b"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Canonicalize(map[string]interface{}{"k": tc.value}); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	secret := "checksum-secret"
	data := map[string]interface{}{
		"orderCode": float64(1700000000123),
		"amount":    float64(1200000),
		"code":      "00",
		"desc":      "success",
	}

	sig, err := Sign(data, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if !VerifySignature(data, sig, secret) {
		t.Fatal("valid signature rejected")
	}
	if !VerifySignature(data, strings.ToUpper(sig), secret) {
		t.Fatal("comparison must be case-insensitive")
	}
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	secret := "checksum-secret"
	data := map[string]interface{}{
		"orderCode": float64(1700000000123),
		"amount":    float64(1200000),
		"code":      "00",
	}
	sig, err := Sign(data, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Any single altered field must break verification.
	for key := range data {
		tampered := map[string]interface{}{}
		for k, v := range data {
			tampered[k] = v
		}
		tampered[key] = "tampered"
		if VerifySignature(tampered, sig, secret) {
			t.Fatalf("tampered field %q passed verification", key)
		}
	}
}

func TestVerifySignatureFailsClosed(t *testing.T) {
	data := map[string]interface{}{"orderCode": float64(1)}
	sig, _ := Sign(data, "secret")

	if VerifySignature(data, sig, "") {
		t.Fatal("missing secret must fail verification")
	}
	if VerifySignature(nil, sig, "secret") {
		t.Fatal("missing payload must fail verification")
	}
	if VerifySignature(data, "", "secret") {
		t.Fatal("missing signature must fail verification")
	}
	if _, err := Sign(data, ""); err == nil {
		t.Fatal("signing with empty secret must error")
	}
}
