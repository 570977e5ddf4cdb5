// Package auth handles password hashing.
//
// New credentials are stored as bcrypt hashes. A bcrypt hash embeds its own
// random salt and cost:
//
//	$2a$12$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost (2^12 rounds)
//	 version
//
// so the credential store keeps one string per user and nothing else.
// Werkzeug hashes imported from the earlier app are still verified; see
// legacy.go.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 12

// MaxPasswordBytes is bcrypt's input limit. Longer inputs are rejected
// instead of being silently truncated.
const MaxPasswordBytes = 72

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService provides bcrypt hashing and verification.
//
// The cost is a field so tests can run at bcrypt.MinCost.
type PasswordService struct {
	cost  int
	dummy []byte
}

// NewPasswordServiceWithCost creates a PasswordService with a custom cost.
// Costs outside bcrypt's range fall back to DefaultCost.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	// A hash of a throwaway value, compared against when the email is
	// unknown so that a failed login costs the same either way.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("nutrition-tracker/no-such-user"), cost)
	return &PasswordService{cost: cost, dummy: dummy}
}

// Hash hashes the plaintext password with bcrypt.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", MaxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash. It returns nil
// on a match and ErrPasswordMismatch on a wrong password; any other error
// means the stored hash itself is unusable.
//
// bcrypt.CompareHashAndPassword compares in constant time. Hashes carried
// over from the earlier app are checked by verifyLegacy.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if isLegacyHash(hash) {
		return verifyLegacy(hash, plaintext)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

// BurnVerify performs a comparison against a fixed dummy hash and discards
// the result. Call it on the unknown-user path of a login.
func (p *PasswordService) BurnVerify(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(p.dummy, []byte(plaintext))
}
