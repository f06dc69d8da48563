package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidToken is returned for malformed, tampered or expired download tokens.
var ErrInvalidToken = errors.New("invalid download token")

// Claims is the content of a verified download token.
type Claims struct {
	Scope     string
	Path      string
	ExpiresAt time.Time
}

// URLSigner creates and validates signed download tokens for stored files.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewURLSigner constructs a signer with the provided secret and TTL.
func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &URLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL reports how long issued tokens stay valid.
func (s *URLSigner) TTL() time.Duration {
	return s.ttl
}

// Sign returns a token granting read access to relPath. scope names what the file is
// (for example "report" or "receipt") and is only used for logging by the caller.
func (s *URLSigner) Sign(scope, relPath string) (string, time.Time, error) {
	if scope == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("scope and path required")
	}
	if strings.Contains(scope, ".") {
		return "", time.Time{}, fmt.Errorf("scope must not contain '.'")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	token := strings.Join([]string{scope, ts, encodedPath, s.mac(scope, ts, encodedPath)}, ".")
	return token, expiresAt, nil
}

// Verify validates a token and returns its claims. When allowExpired is true the expiry
// check is skipped.
func (s *URLSigner) Verify(token string, allowExpired bool) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: format", ErrInvalidToken)
	}
	scope, ts, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.mac(scope, ts, encodedPath)), []byte(signature)) {
		return nil, fmt.Errorf("%w: signature", ErrInvalidToken)
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp", ErrInvalidToken)
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: path", ErrInvalidToken)
	}
	claims := &Claims{Scope: scope, Path: string(rawPath), ExpiresAt: time.Unix(expUnix, 0)}
	if !allowExpired && s.now().After(claims.ExpiresAt) {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	return claims, nil
}

func (s *URLSigner) mac(scope, ts, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(scope + "|" + ts + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
