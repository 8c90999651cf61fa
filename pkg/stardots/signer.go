package stardots

import (
	"context"
	"crypto/md5" //nolint:gosec // the service verifies MD5 signatures
	"encoding/hex"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Authentication header names.
const (
	HeaderTimestamp = "x-stardots-timestamp"
	HeaderNonce     = "x-stardots-nonce"
	HeaderKey       = "x-stardots-key"
	HeaderSign      = "x-stardots-sign"
	HeaderExtra     = "x-stardots-extra"
)

// nonceBase and nonceSpan bound the random nonce suffix to [10000, 19999].
const (
	nonceBase = 10000
	nonceSpan = 10000
)

// Clock supplies the current time to the signer.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// RandSource supplies the random nonce suffix. Implementations shared by a
// Client must be safe for concurrent use. *rand.Rand from math/rand/v2
// satisfies it but is not goroutine-safe on its own.
type RandSource interface {
	IntN(n int) int
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// globalRand uses the goroutine-safe top-level math/rand/v2 functions.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// AuthHeaders is the header set attached to one request.
type AuthHeaders struct {
	Timestamp string
	Nonce     string
	Key       string
	Sign      string
	Extra     string
}

// Apply sets the headers on h, replacing any previous values.
func (a AuthHeaders) Apply(h http.Header) {
	h.Set(HeaderTimestamp, a.Timestamp)
	h.Set(HeaderNonce, a.Nonce)
	h.Set(HeaderKey, a.Key)
	h.Set(HeaderSign, a.Sign)
	h.Set(HeaderExtra, a.Extra)
}

// Signer produces a fresh AuthHeaders for every request.
// It is safe for concurrent use when its RandSource is.
type Signer struct {
	key    string
	secret string
	clock  Clock
	rand   RandSource
	extra  string
}

// NewSigner returns a Signer for the key/secret pair. Nil clock or rnd fall
// back to the system clock and the global random source.
func NewSigner(key, secret string, clock Clock, rnd RandSource) *Signer {
	if clock == nil {
		clock = systemClock{}
	}
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Signer{
		key:    key,
		secret: secret,
		clock:  clock,
		rand:   rnd,
		extra:  extraInfo(),
	}
}

// Headers computes the timestamp, nonce and signature for one request.
func (s *Signer) Headers() AuthHeaders {
	now := s.clock.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	nonce := strconv.FormatInt(now.UnixMilli(), 10) + strconv.Itoa(nonceBase+s.rand.IntN(nonceSpan))

	return AuthHeaders{
		Timestamp: ts,
		Nonce:     nonce,
		Key:       s.key,
		Sign:      Sign(ts, s.secret, nonce),
		Extra:     s.extra,
	}
}

// EditRequest signs req. It has the shape of api.RequestEditorFn.
func (s *Signer) EditRequest(_ context.Context, req *http.Request) error {
	s.Headers().Apply(req.Header)
	return nil
}

// Sign returns the uppercase hex MD5 digest of "timestamp|secret|nonce".
func Sign(timestamp, secret, nonce string) string {
	sum := md5.Sum([]byte(timestamp + "|" + secret + "|" + nonce)) //nolint:gosec // wire format
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// extraInfo is the x-stardots-extra value. It depends only on build
// constants, so it is computed once per Signer.
func extraInfo() string {
	b, _ := json.Marshal(struct {
		SDK      string `json:"sdk"`
		Language string `json:"language"`
		Version  string `json:"version"`
		OS       string `json:"os"`
		Arch     string `json:"arch"`
	}{
		SDK:      "true",
		Language: "go",
		Version:  Version,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	})
	return string(b)
}
