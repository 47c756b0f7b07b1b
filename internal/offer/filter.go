package offer

import (
	"slices"
	"strings"

	apperrors "sjsage522/offerwatch/pkg/errors"
)

// ApplyCeiling parses the offer price and keeps the offer only when it is at
// most ceiling. Retained offers carry the parsed value and the canonical
// display form.
func ApplyCeiling(o Offer, ceiling float64) (Offer, error) {
	price, ok := ParsePrice(o.PriceRaw)
	if !ok {
		return Offer{}, apperrors.NewUnparseablePrice(o.Keyword, o.PriceRaw)
	}
	if price > ceiling {
		return Offer{}, apperrors.NewPriceCeiling(o.Keyword, price, ceiling)
	}

	o.PriceParsed = &price
	o.PriceDisplay = FormatPrice(price)
	return o, nil
}

// FilterByCeiling applies ApplyCeiling to every offer, preserving order.
func FilterByCeiling(offers []Offer, ceiling float64) ([]Offer, []error) {
	kept := make([]Offer, 0, len(offers))
	var dropped []error
	for _, o := range offers {
		filtered, err := ApplyCeiling(o, ceiling)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		kept = append(kept, filtered)
	}
	return kept, dropped
}

// SortByPublisher orders offers by publisher name, case-insensitively and
// stably.
func SortByPublisher(offers []Offer) {
	slices.SortStableFunc(offers, func(a, b Offer) int {
		return strings.Compare(strings.ToLower(a.Publisher), strings.ToLower(b.Publisher))
	})
}
