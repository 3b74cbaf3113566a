// Package matcher decides whether a bank transaction is a property's
// rent payment.
//
// Two classification paths exist:
//   - Score: confidence-scored matching used when classifying freshly
//     synced provider transactions (amount + keyword + nickname + rent
//     vocabulary heuristics).
//   - IsRentPayment: the simpler boolean check used by the stored
//     date-window checker, which is permissive when no keyword is
//     configured.
package matcher

import (
	"math"
	"strings"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
)

// rentKeywords are generic rent vocabulary worth a small confidence
// bump when any of them appear in a description.
var rentKeywords = []string{"rent", "rental", "lease", "housing"}

// Matcher classifies transactions against a property's expected rent.
type Matcher struct {
	config Config
}

// NewMatcher creates a matcher with the given config.
func NewMatcher(config Config) *Matcher {
	return &Matcher{config: config}
}

// Score evaluates a transaction amount and description against the
// property and returns a confidence-scored result.
//
// Scoring: 0.5 for an amount within tolerance, +0.3 if the property
// keyword appears in the description, +0.2 if the tenant nickname
// appears, +0.1 if any generic rent keyword appears (counted once).
// The transaction is accepted when confidence reaches MinConfidence.
func (m *Matcher) Score(amount float64, description string, p *rental.Property) Result {
	desc := strings.ToLower(description)

	r := Result{
		AmountMatch: m.amountMatches(amount, p.RentAmount),
	}

	if r.AmountMatch {
		r.Confidence += 0.5
	}

	if p.Keyword != "" && strings.Contains(desc, strings.ToLower(p.Keyword)) {
		r.KeywordMatch = true
		r.Confidence += 0.3
	}

	if p.TenantNickname != "" && strings.Contains(desc, strings.ToLower(p.TenantNickname)) {
		r.NicknameMatch = true
		r.Confidence += 0.2
	}

	for _, kw := range rentKeywords {
		if strings.Contains(desc, kw) {
			r.RentKeywordMatch = true
			r.Confidence += 0.1
			break
		}
	}

	r.Matched = r.Confidence >= m.config.MinConfidence
	return r
}

// IsRentPayment is the boolean path used by the date-window checker:
// the amount must be within tolerance, and the description must match
// the keyword or nickname when one is configured. A property with no
// keyword accepts any in-tolerance amount.
func (m *Matcher) IsRentPayment(amount float64, description string, p *rental.Property) bool {
	if !m.amountMatches(amount, p.RentAmount) {
		return false
	}

	desc := strings.ToLower(description)

	keywordMatch := true
	if p.Keyword != "" {
		keywordMatch = strings.Contains(desc, strings.ToLower(p.Keyword))
	}
	if p.TenantNickname != "" {
		keywordMatch = keywordMatch || strings.Contains(desc, strings.ToLower(p.TenantNickname))
	}

	return keywordMatch
}

// amountMatches reports whether amount is within tolerance of the
// expected rent. The comparison is inclusive at the boundary.
func (m *Matcher) amountMatches(amount, rentAmount float64) bool {
	tolerance := rentAmount * m.config.AmountTolerance
	return math.Abs(amount-rentAmount) <= tolerance
}
