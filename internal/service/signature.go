package service

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/boddenberg/rastreio-bfa-go/internal/domain"
)

const signatureIssuer = "rastreio-bfa"

// SignatureClaims are carried by contract signature tokens.
type SignatureClaims struct {
	ContractID string `json:"cid"`
	Type       string `json:"type"`
	jwt.RegisteredClaims
}

// SignatureSigner issues and checks the HS256 tokens embedded in contract
// signature links.
type SignatureSigner struct {
	secret  []byte
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

// NewSignatureSigner creates a signer. Links point at
// <baseURL>/contract-signature.
func NewSignatureSigner(secret string, ttl time.Duration, baseURL string) *SignatureSigner {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SignatureSigner{
		secret:  []byte(secret),
		ttl:     ttl,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Link builds the signature link for a contract.
func (s *SignatureSigner) Link(contractID string) (*domain.SignatureLink, error) {
	if contractID == "" {
		return nil, &domain.ErrValidation{Field: "contractId", Message: "Contrato não informado"}
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := SignatureClaims{
		ContractID: contractID,
		Type:       "contract_signature",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   contractID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			Issuer:    signatureIssuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign contract token: %w", err)
	}

	q := url.Values{}
	q.Set("contractId", contractID)
	q.Set("token", token)

	return &domain.SignatureLink{
		ContractID: contractID,
		URL:        s.baseURL + "/contract-signature?" + q.Encode(),
		ExpiresAt:  expires.UTC().Format(time.RFC3339),
	}, nil
}

// Verify checks a signature token and returns the contract id it was
// issued for.
func (s *SignatureSigner) Verify(token string) (string, error) {
	invalid := &domain.ErrValidation{Field: "token", Message: "Link de assinatura inválido ou expirado"}

	parsed, err := jwt.ParseWithClaims(token, &SignatureClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(signatureIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", invalid
	}

	claims, ok := parsed.Claims.(*SignatureClaims)
	if !ok || !parsed.Valid || claims.Type != "contract_signature" || claims.ContractID == "" {
		return "", invalid
	}
	return claims.ContractID, nil
}
