// internal/daily/daily.go
//
// Daily challenge: everyone gets the same secret on a given UTC day.
// The pattern is derived from HMAC-SHA256(salt, "YYYY-MM-DD"), so it cannot
// be predicted without the salt and needs no storage.
package daily

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/robalobadob/mastermind/internal/peg"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PatternFor returns the secret for the day of date.
// Up to six slots the colors are distinct, like a random setter's.
func PatternFor(date time.Time, salt string, slots int) peg.Pattern {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)

	colors := peg.Alphabet()
	out := make(peg.Pattern, slots)
	for i := range out {
		b := int(sum[i%len(sum)])
		if slots <= len(colors) {
			j := i + b%(len(colors)-i)
			colors[i], colors[j] = colors[j], colors[i]
			out[i] = colors[i]
		} else {
			out[i] = colors[b%len(colors)]
		}
	}
	return out
}

// Source is a pattern-setter that always plays the day's secret.
type Source struct {
	Salt string
	Now  func() time.Time
}

// Pattern implements game.PatternSource.
func (s Source) Pattern(_ context.Context, slots int) ([]string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return PatternFor(now(), s.Salt, slots).Tokens(), nil
}
