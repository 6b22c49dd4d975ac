package users

import "time"

// VerificationToken purposes.
const (
	TokenPurposeEmailVerify   = "email_verify"
	TokenPurposePasswordReset = "password_reset"
)

// VerificationToken backs the one-time links mailed to users: email
// verification on signup and password resets. Verification tokens do not
// expire; reset tokens carry an ExpiresAt.
type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"uniqueIndex"`
	Purpose   string `gorm:"index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (t *VerificationToken) Expired() bool {
	return !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(time.Now())
}
