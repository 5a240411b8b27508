package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// fixed bcrypt hash of an unguessable value, compared against when the
// username does not exist so that unknown users cost the same as a wrong
// password.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// PasswordHasher hashes and verifies passwords with bcrypt. Comparison is
// constant-time; plaintext is never stored or compared directly.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost, clamped
// to the range bcrypt accepts. A cost <= 0 selects bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	switch {
	case cost <= 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted bcrypt hash of password suitable for storage.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare verifies password against a stored hash. It returns nil on a
// match and bcrypt's mismatch error otherwise.
func (h *PasswordHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// compareDummy burns one bcrypt comparison against a fixed hash. Used to
// keep validation latency flat when the username is unknown.
func (h *PasswordHasher) compareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
