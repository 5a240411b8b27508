package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidKey is returned when key material cannot be parsed or is not
// an RSA key.
var ErrInvalidKey = errors.New("invalid key material")

// loadPEM returns s as bytes when it looks like inline PEM, otherwise
// treats s as a file path and reads it.
func loadPEM(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidKey
	}
	if strings.HasPrefix(s, "-----BEGIN") {
		return []byte(s), nil
	}
	return os.ReadFile(s)
}

// ParseSigningKey parses a PEM-encoded RSA private key. s may be inline
// PEM or a file path. PKCS#1 and PKCS#8 encodings are accepted.
func ParseSigningKey(s string) (*rsa.PrivateKey, error) {
	pemBytes, err := loadPEM(s)
	if err != nil {
		return nil, fmt.Errorf("signing key: %w", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("signing key: %w", ErrInvalidKey)
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("signing key is not RSA: %w", ErrInvalidKey)
		}
		return rsaKey, nil
	default:
		return nil, fmt.Errorf("signing key: unexpected PEM block %q: %w", block.Type, ErrInvalidKey)
	}
}

// ParseVerifyKey parses a PEM-encoded RSA public key. s may be inline PEM
// or a file path.
func ParseVerifyKey(s string) (*rsa.PublicKey, error) {
	pemBytes, err := loadPEM(s)
	if err != nil {
		return nil, fmt.Errorf("verify key: %w", err)
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("verify key: %w", ErrInvalidKey)
	}
	switch block.Type {
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("verify key is not RSA: %w", ErrInvalidKey)
		}
		return rsaKey, nil
	default:
		return nil, fmt.Errorf("verify key: unexpected PEM block %q: %w", block.Type, ErrInvalidKey)
	}
}
