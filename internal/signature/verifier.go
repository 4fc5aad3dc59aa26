package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrSecretMissing distinguishes "server not configured" from a plain
// signature mismatch; callers must not treat the two the same way.
var ErrSecretMissing = errors.New("signing secret not configured")

// Verifier checks gateway signatures: hex-encoded HMAC-SHA256 over the
// message with a server-held secret.
type Verifier struct {
	secret []byte
}

func New(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Configured() bool { return len(v.secret) > 0 }

// Verify reports whether sig matches the expected HMAC of message.
// A mismatch is a normal negative result, never an error. Fails closed
// when no secret is configured.
func (v *Verifier) Verify(message, sig string) bool {
	if !v.Configured() {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

// Sign returns the hex HMAC of message. Used by tests and by callers that
// need to produce a signature the gateway will accept.
func (v *Verifier) Sign(message string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
