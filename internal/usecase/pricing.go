package usecase

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"smartclub/internal/data/entity"
	"smartclub/internal/data/repository"

	"go.uber.org/zap"
)

// PriceRule names one matching strategy of the resolver.
type PriceRule int

const (
	RuleExactAlias PriceRule = iota + 1
	RuleSubstring
	RuleFirstNumeric
)

func (r PriceRule) String() string {
	switch r {
	case RuleExactAlias:
		return "exact_alias"
	case RuleSubstring:
		return "substring"
	case RuleFirstNumeric:
		return "first_numeric"
	default:
		return "unknown"
	}
}

// priceRules is the match order; the first rule yielding a price wins.
var priceRules = []PriceRule{RuleExactAlias, RuleSubstring, RuleFirstNumeric}

type PriceQuote struct {
	Rule      PriceRule
	Item      entity.PriceItem
	MatchedOn string
	UnitPrice int
	Total     int
}

type PricingResolver interface {
	// ComputePrice returns the total for seatCount seats of packageID at the
	// club. ok is false when no price can be resolved; err is reserved for
	// store failures.
	ComputePrice(ctx context.Context, clubID, packageID string, seatCount int) (total int, ok bool, err error)
}

type pricingResolver struct {
	clubs repository.ClubRepository
	log   *zap.Logger
}

func NewPricingResolver(clubs repository.ClubRepository, log *zap.Logger) PricingResolver {
	return &pricingResolver{
		clubs: clubs,
		log:   log.With(zap.String("service", "pricing")),
	}
}

func (p *pricingResolver) ComputePrice(ctx context.Context, clubID, packageID string, seatCount int) (int, bool, error) {
	if clubID == "" || packageID == "" || seatCount <= 0 {
		return 0, false, nil
	}

	club, err := p.clubs.FindByID(ctx, clubID)
	if err != nil {
		return 0, false, err
	}
	if club == nil {
		p.log.Debug("Price not resolved - club not found", zap.String("club_id", clubID))
		return 0, false, nil
	}

	quote, ok := ResolvePrice(club.Prices, packageID, seatCount)
	if !ok {
		p.log.Debug("Price not resolved",
			zap.String("club_id", clubID),
			zap.String("package_id", packageID),
		)
		return 0, false, nil
	}

	p.log.Debug("Price resolved",
		zap.String("club_id", clubID),
		zap.String("package_id", packageID),
		zap.Stringer("rule", quote.Rule),
		zap.String("matched_on", quote.MatchedOn),
		zap.Int("unit_price", quote.UnitPrice),
		zap.Int("total", quote.Total),
	)
	return quote.Total, true, nil
}

// ResolvePrice applies priceRules in order against items.
func ResolvePrice(items []entity.PriceItem, packageID string, seatCount int) (PriceQuote, bool) {
	if seatCount <= 0 || len(items) == 0 {
		return PriceQuote{}, false
	}

	pkg := normalizeKey(packageID)
	if pkg == "" {
		return PriceQuote{}, false
	}

	for _, rule := range priceRules {
		quote, ok := applyRule(rule, items, pkg)
		if !ok {
			continue
		}
		total, ok := multiply(quote.UnitPrice, seatCount)
		if !ok {
			return PriceQuote{}, false
		}
		quote.Total = total
		return quote, true
	}
	return PriceQuote{}, false
}

func applyRule(rule PriceRule, items []entity.PriceItem, pkg string) (PriceQuote, bool) {
	for _, item := range items {
		var matchedOn string

		switch rule {
		case RuleExactAlias:
			for _, alias := range item.Aliases() {
				if normalizeKey(alias.Value) == pkg {
					matchedOn = alias.Field
					break
				}
			}
		case RuleSubstring:
			combined := normalizeKey(item.Service + " " + item.Category + " " + item.Type)
			if combined != "" && (strings.Contains(combined, pkg) || strings.Contains(pkg, combined)) {
				matchedOn = combined
			}
		case RuleFirstNumeric:
			matchedOn = "first"
		}

		if matchedOn == "" {
			continue
		}
		if unit, ok := extractPrice(item); ok {
			return PriceQuote{Rule: rule, Item: item, MatchedOn: matchedOn, UnitPrice: unit}, true
		}
	}
	return PriceQuote{}, false
}

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// normalizeKey lower-cases s, turns ASCII punctuation into spaces and
// collapses whitespace.
func normalizeKey(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && strings.ContainsRune(asciiPunct, r) {
			return ' '
		}
		return r
	}, strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// extractPrice prefers PriceNumber, otherwise parses the ASCII digits of
// Price. Digit strings that overflow int do not yield a price.
func extractPrice(item entity.PriceItem) (int, bool) {
	if item.PriceNumber != nil {
		return *item.PriceNumber, true
	}

	var digits strings.Builder
	for _, r := range item.Price {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

func multiply(unit, count int) (int, bool) {
	if unit == 0 {
		return 0, true
	}
	if unit > math.MaxInt/count || unit < math.MinInt/count {
		return 0, false
	}
	return unit * count, true
}
