package phone

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	// ErrInvalidFormat is returned when the input does not reduce to a number
	// matching the national pattern.
	ErrInvalidFormat = errors.New("phone: invalid format")

	errEmptyPattern  = errors.New("phone: empty pattern")
	errUnknownRegion = errors.New("phone: unknown region")
)

// Normalizer turns raw input into a canonical key.
type Normalizer interface {
	Normalize(raw string) (string, error)
}

// Config describes the accepted national numbers.
type Config struct {
	// Region is the ISO 3166-1 alpha-2 code the numbers belong to, e.g. "IN".
	Region string
	// Pattern is matched against the whole national significant number.
	Pattern string
	// Strict also requires libphonenumber to accept the number for Region.
	Strict bool
}

// National is the Normalizer for a single country.
type National struct {
	region      string
	countryCode string
	pattern     *regexp.Regexp
	strict      bool
}

// New validates cfg and builds a National normalizer.
func New(cfg Config) (*National, error) {
	region := strings.ToUpper(strings.TrimSpace(cfg.Region))
	cc := phonenumbers.GetCountryCodeForRegion(region)
	if cc == 0 {
		return nil, fmt.Errorf("%w: %q", errUnknownRegion, cfg.Region)
	}

	if strings.TrimSpace(cfg.Pattern) == "" {
		return nil, errEmptyPattern
	}

	// anchor so a partial match never passes
	re, err := regexp.Compile(`^(?:` + cfg.Pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("phone: compile pattern: %w", err)
	}

	return &National{
		region:      region,
		countryCode: strconv.Itoa(cc),
		pattern:     re,
		strict:      cfg.Strict,
	}, nil
}

// Normalize returns the canonical key for raw or ErrInvalidFormat.
//
// Normalize is idempotent: a key it returned normalizes to itself.
func (n *National) Normalize(raw string) (string, error) {
	digits := onlyDigits(raw)
	if digits == "" {
		return "", ErrInvalidFormat
	}

	for _, candidate := range n.candidates(digits) {
		if !n.pattern.MatchString(candidate) {
			continue
		}
		if n.strict && !n.valid(candidate) {
			return "", ErrInvalidFormat
		}
		return candidate, nil
	}

	return "", ErrInvalidFormat
}

// candidates lists the possible national numbers in order of preference.
func (n *National) candidates(digits string) []string {
	out := []string{digits}
	if rest, ok := strings.CutPrefix(digits, "00"+n.countryCode); ok {
		out = append(out, rest)
	}
	if rest, ok := strings.CutPrefix(digits, n.countryCode); ok {
		out = append(out, rest)
	}
	if rest, ok := strings.CutPrefix(digits, "0"); ok {
		out = append(out, rest)
	}
	return out
}

func (n *National) valid(national string) bool {
	num, err := phonenumbers.Parse("+"+n.countryCode+national, n.region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(num, n.region)
}

// E164 formats a key produced by Normalize as an international number.
func (n *National) E164(key string) string {
	return "+" + n.countryCode + key
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
