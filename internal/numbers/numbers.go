package numbers

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/inkgame/inkbot/internal/models"
)

// ErrRangeExhausted is returned when every number in the guild's range is taken.
var ErrRangeExhausted = errors.New("all numbers in range are in use")

// Discord caps display names at 32 characters.
const maxNickLength = 32

// suffixPattern matches a trailing " (NNN)" number suffix on a display name.
var suffixPattern = regexp.MustCompile(`\s*\(\d{3}\)\s*$`)

// Source provides the randomness for number draws.
type Source interface {
	// Intn returns a uniform random int in [0, n)
	Intn(n int) int
}

// Config for the default random source
type Config struct {
	// Optional seed for testing
	Seed int64
}

type randSource struct {
	random *rand.Rand
}

// NewSource creates a seeded random source. A zero seed uses the current time.
func NewSource(cfg *Config) Source {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &randSource{
		random: rand.New(rand.NewSource(seed)),
	}
}

func (r *randSource) Intn(n int) int {
	return r.random.Intn(n)
}

// Allocate draws a unique number in [MinNumber, MaxNumber] for the guild and
// inserts it into UsedNumbers. It draws uniformly and re-draws on collision,
// which degrades to near-exhaustive probing as the free set shrinks;
// acceptable at the scale of a few hundred numbers.
func Allocate(src Source, cfg *models.GuildConfig) (int, error) {
	span := cfg.MaxNumber - cfg.MinNumber + 1
	if span <= 0 || len(cfg.UsedNumbers) >= span {
		return 0, ErrRangeExhausted
	}

	for {
		n := cfg.MinNumber + src.Intn(span)
		if !cfg.UsedNumbers.Contains(n) {
			cfg.UsedNumbers.Add(n)
			return n, nil
		}
	}
}

// Format renders a number as a fixed 3-digit zero-padded string.
func Format(n int) string {
	return fmt.Sprintf("%03d", n)
}

// WithSuffix appends a formatted number suffix to a display name, replacing
// any existing suffix, and truncates to the platform limit.
func WithSuffix(nick, formatted string) string {
	clean := StripSuffix(nick)
	suffixed := fmt.Sprintf("%s (%s)", clean, formatted)
	if runes := []rune(suffixed); len(runes) > maxNickLength {
		suffixed = string(runes[:maxNickLength])
	}
	return suffixed
}

// StripSuffix removes a trailing " (NNN)" suffix from a display name.
func StripSuffix(nick string) string {
	return strings.TrimSpace(suffixPattern.ReplaceAllString(nick, ""))
}

// RestoredNick strips the number suffix from a display name, falling back to
// the user's base handle when nothing readable remains.
func RestoredNick(displayName, username string) string {
	clean := StripSuffix(displayName)
	if clean == "" {
		return username
	}
	return clean
}
