package users

import (
	"testing"
	"time"
)

func TestVerificationTokenExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"no expiry never expires", time.Time{}, false},
		{"future expiry valid", time.Now().Add(time.Hour), false},
		{"past expiry expired", time.Now().Add(-time.Minute), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tok := &VerificationToken{ExpiresAt: tc.expiresAt}
			if got := tok.Expired(); got != tc.want {
				t.Fatalf("Expired() = %v, want %v", got, tc.want)
			}
		})
	}
}
