package otp

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTTL = 10 * time.Minute

	codeMin = 100000
	codeMax = 999999
)

// Store keeps at most one pending code per email.
type Store interface {
	// Put replaces any pending code for email.
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// Consume reports whether code matches the live record for email and
	// deletes it on match. Expired records are evicted and never match.
	Consume(ctx context.Context, email, code string) (bool, error)
}

// Generate draws a six digit code uniformly from [100000, 999999].
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

type Issuer struct {
	store Store
	ttl   time.Duration
}

func NewIssuer(store Store, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{store: store, ttl: ttl}
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) IssueAndStore(ctx context.Context, email, code string) error {
	return i.store.Put(ctx, NormalizeEmail(email), code, i.ttl)
}

func (i *Issuer) VerifyAndConsume(ctx context.Context, email, code string) (bool, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return false, nil
	}
	return i.store.Consume(ctx, email, code)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
