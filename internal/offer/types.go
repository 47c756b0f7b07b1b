package offer

// RawItem is one loosely-typed entry of the offer API response. Fields are
// looked up best-effort; nothing outside this package reads it.
type RawItem map[string]any

// Offer is the canonical deal record. It is only built by Normalize.
type Offer struct {
	Keyword      string   `json:"keyword"`
	Identifier   string   `json:"id"`
	Publisher    string   `json:"publisher"`
	Brand        string   `json:"brand,omitempty"`
	Name         string   `json:"name,omitempty"`
	PriceRaw     any      `json:"price_raw,omitempty"`
	PriceParsed  *float64 `json:"price_parsed,omitempty"`
	PriceDisplay string   `json:"price"`
	EndDate      string   `json:"end_date"`
}

// HasPrice reports whether the price passed the parser.
func (o Offer) HasPrice() bool {
	return o.PriceParsed != nil
}

// KeywordGroup holds the offers surviving for one search keyword, in
// display order.
type KeywordGroup struct {
	Keyword string
	Offers  []Offer
}

// UnknownPublisher is used when the API item carries no publisher name.
const UnknownPublisher = "Unknown"

// CurrencySymbol is appended to every rendered price.
const CurrencySymbol = "€"
