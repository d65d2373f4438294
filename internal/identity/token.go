package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenTTL = time.Hour

// Issuer signs the session tokens handed to the frontend after login. These
// are separate from the provider-issued ID tokens the Verifier checks.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret}
}

// Issue signs the caller-posted user info as HS256 claims with a one hour
// expiry.
func (i *Issuer) Issue(userInfo map[string]any) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range userInfo {
		claims[k] = v
	}
	claims["exp"] = jwt.NewNumericDate(time.Now().Add(sessionTokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
