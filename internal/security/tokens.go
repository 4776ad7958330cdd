package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"transfer-gate/internal/address"
)

// ErrInvalidToken is returned when a token is malformed, expired, or bound to something else.
var ErrInvalidToken = errors.New("invalid token")

// Signature purposes.
const (
	PurposeRecover = "recover"
	PurposeTwoAuth = "two_auth"
)

// AccessClaims are the claims of a bearer token. Subject is the caller's address in hex.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// SignatureClaims attest that Subject signed Purpose over Binding.
type SignatureClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
	Binding string `json:"binding"`
}

// TokenProvider issues and validates bearer and signature JWTs using RS256 or ES256.
type TokenProvider struct {
	privateKey   crypto.Signer
	publicKey    crypto.PublicKey
	issuer       string
	audience     string
	accessTTL    time.Duration
	signatureTTL time.Duration
}

// NewTokenProvider returns a TokenProvider. privateKey may be nil for a verify-only provider.
func NewTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, accessTTL, signatureTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		privateKey:   privateKey,
		publicKey:    publicKey,
		issuer:       issuer,
		audience:     audience,
		accessTTL:    accessTTL,
		signatureTTL: signatureTTL,
	}
}

// RecoverBinding is what recovery signers sign: the owner, the account being
// recovered and where its balance goes.
func RecoverBinding(owner, source, newOwner, newAccount address.Address) string {
	return strings.Join([]string{owner.String(), source.String(), newOwner.String(), newAccount.String()}, ":")
}

// TwoAuthBinding is what an approver signs to accept the role for account.
func TwoAuthBinding(owner, account address.Address) string {
	return owner.String() + ":" + account.String()
}

// IssueAccess issues a bearer token for subject.
func (p *TokenProvider) IssueAccess(subject address.Address) (token string, expiresAt time.Time, err error) {
	claims, expiresAt, err := p.registered(subject, p.accessTTL)
	if err != nil {
		return "", time.Time{}, err
	}
	token, err = p.sign(AccessClaims{RegisteredClaims: claims})
	return token, expiresAt, err
}

// IssueSignature issues a token recording that signer signed purpose over binding.
func (p *TokenProvider) IssueSignature(signer address.Address, purpose, binding string) (string, error) {
	claims, _, err := p.registered(signer, p.signatureTTL)
	if err != nil {
		return "", err
	}
	return p.sign(SignatureClaims{RegisteredClaims: claims, Purpose: purpose, Binding: binding})
}

func (p *TokenProvider) registered(subject address.Address, ttl time.Duration) (jwt.RegisteredClaims, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return jwt.RegisteredClaims{}, time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	return jwt.RegisteredClaims{
		ID:        jti,
		Subject:   subject.String(),
		Issuer:    p.issuer,
		Audience:  jwt.ClaimStrings{p.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}, expiresAt, nil
}

func (p *TokenProvider) sign(claims jwt.Claims) (string, error) {
	if p.privateKey == nil {
		return "", ErrInvalidToken
	}
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", ErrInvalidToken
	}
	t := jwt.NewWithClaims(method, claims)
	return t.SignedString(p.privateKey)
}

func (p *TokenProvider) parse(tokenString string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return p.publicKey, nil
	},
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ErrInvalidToken
	}
	return nil
}

func subjectOf(claims jwt.RegisteredClaims) (address.Address, error) {
	a, err := address.Parse(claims.Subject)
	if err != nil {
		return address.Zero, ErrInvalidToken
	}
	return a, nil
}

// ValidateAccess validates a bearer token (signature, exp, iss, aud) and returns its subject.
// Signature tokens are not bearer tokens.
func (p *TokenProvider) ValidateAccess(tokenString string) (address.Address, error) {
	var claims SignatureClaims
	if err := p.parse(tokenString, &claims); err != nil {
		return address.Zero, err
	}
	if claims.Purpose != "" {
		return address.Zero, ErrInvalidToken
	}
	return subjectOf(claims.RegisteredClaims)
}

// ValidateSignature validates a signature token for purpose and binding and returns the signer.
func (p *TokenProvider) ValidateSignature(tokenString, purpose, binding string) (address.Address, error) {
	var claims SignatureClaims
	if err := p.parse(tokenString, &claims); err != nil {
		return address.Zero, err
	}
	if claims.Purpose != purpose || claims.Binding != binding {
		return address.Zero, ErrInvalidToken
	}
	return subjectOf(claims.RegisteredClaims)
}

// ValidateSignatures validates each token and returns the distinct signers.
// Any invalid token fails the whole set.
func (p *TokenProvider) ValidateSignatures(tokens []string, purpose, binding string) ([]address.Address, error) {
	signers := make([]address.Address, 0, len(tokens))
	for _, t := range tokens {
		signer, err := p.ValidateSignature(t, purpose, binding)
		if err != nil {
			return nil, err
		}
		if !address.Contains(signers, signer) {
			signers = append(signers, signer)
		}
	}
	return signers, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
