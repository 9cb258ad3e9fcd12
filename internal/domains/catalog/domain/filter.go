package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceBracket selects one of the fixed buyer-facing price ranges.
type PriceBracket string

const (
	BracketAll        PriceBracket = "all"
	BracketUpTo50     PriceBracket = "0-50"
	Bracket50To100    PriceBracket = "50-100"
	Bracket100To200   PriceBracket = "100-200"
	BracketFrom200    PriceBracket = "200+"
	bracketUnselected PriceBracket = ""
)

// ErrInvalidBracket is returned for an unknown price bracket value.
var ErrInvalidBracket = errors.New("price bracket must be one of all, 0-50, 50-100, 100-200, 200+")

var (
	fifty      = decimal.NewFromInt(50)
	hundred    = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
)

// ParseBracket validates a raw bracket value. An empty value selects every price.
func ParseBracket(raw string) (PriceBracket, error) {
	switch b := PriceBracket(strings.TrimSpace(raw)); b {
	case bracketUnselected, BracketAll:
		return BracketAll, nil
	case BracketUpTo50, Bracket50To100, Bracket100To200, BracketFrom200:
		return b, nil
	default:
		return "", ErrInvalidBracket
	}
}

// Contains reports whether price falls inside the bracket. Bounds are inclusive
// on both ends, so 50, 100 and 200 each belong to two adjacent brackets.
func (b PriceBracket) Contains(price decimal.Decimal) bool {
	switch b {
	case BracketUpTo50:
		return price.LessThanOrEqual(fifty)
	case Bracket50To100:
		return price.GreaterThanOrEqual(fifty) && price.LessThanOrEqual(hundred)
	case Bracket100To200:
		return price.GreaterThanOrEqual(hundred) && price.LessThanOrEqual(twoHundred)
	case BracketFrom200:
		return price.GreaterThanOrEqual(twoHundred)
	default:
		return true
	}
}

// Query holds the optional buyer filters. Zero values match everything.
type Query struct {
	Term     string
	Category string
	Bracket  PriceBracket
}

// Matches reports whether an eligible product satisfies every supplied filter.
func (q Query) Matches(p *Product) bool {
	if q.Term != "" {
		term := strings.ToLower(q.Term)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!strings.Contains(strings.ToLower(p.Category), term) {
			return false
		}
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	return q.Bracket.Contains(p.Price)
}

// Filter returns the eligible products matching q, in their original order.
func Filter(products []*Product, q Query) []*Product {
	visible := make([]*Product, 0, len(products))
	for _, p := range products {
		if p == nil || !p.Eligible() {
			continue
		}
		if q.Matches(p) {
			visible = append(visible, p)
		}
	}
	return visible
}

// Categories lists the distinct non-empty categories across all products,
// eligible or not, in first-seen order.
func Categories(products []*Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0, len(products))
	for _, p := range products {
		if p == nil || p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}
