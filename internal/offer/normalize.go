package offer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "sjsage522/offerwatch/pkg/errors"
)

// endDatePattern pins the validity timestamp to the API's
// ISO-8601-with-fraction-and-offset form, e.g. 2024-03-10T00:00:00.000+01:00.
var endDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{1,6}(Z|[+-]\d{2}:?\d{2})$`)

var endDateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
}

// EndDateFormat is the rendered form of an offer's end date.
const EndDateFormat = "02.01.2006"

// Normalize maps one raw API item to an Offer. Missing or mistyped nested
// fields reject the whole item with a malformed_item error.
//
// Extraction order: publisher name, first product, first deal, first
// publication profile, its validity window, end date.
func Normalize(keyword string, item RawItem) (Offer, error) {
	if item == nil {
		return Offer{}, apperrors.NewMalformedItem(keyword, "item is not an object")
	}

	content, ok := object(item["content"])
	if !ok {
		return Offer{}, apperrors.NewMalformedItem(keyword, "missing content")
	}

	publisher := CleanText(stringField(content, "publisherName"))
	if publisher == "" {
		publisher = UnknownPublisher
	}

	product, ok := firstObject(content, "products")
	if !ok {
		return Offer{}, apperrors.NewMalformedItem(keyword, "missing products")
	}

	deal, ok := firstObject(content, "deals")
	if !ok {
		return Offer{}, apperrors.NewMalformedItem(keyword, "missing deals")
	}

	profile, ok := firstObject(content, "publicationProfiles")
	if !ok {
		return Offer{}, apperrors.NewMalformedItem(keyword, "missing publicationProfiles")
	}

	validity, ok := object(profile["validity"])
	if !ok {
		return Offer{}, apperrors.NewMalformedItem(keyword, "missing validity")
	}

	rawEnd, ok := validity["endDate"].(string)
	if !ok || rawEnd == "" {
		return Offer{}, apperrors.NewMalformedItem(keyword, "missing end date")
	}
	endDate, err := formatEndDate(rawEnd)
	if err != nil {
		return Offer{}, apperrors.NewMalformedItem(keyword, err.Error())
	}

	var brand string
	if b, ok := object(product["brand"]); ok {
		brand = CleanText(stringField(b, "name"))
	}
	name := CleanText(stringField(product, "name"))

	o := Offer{
		Keyword:   keyword,
		Publisher: publisher,
		Brand:     brand,
		Name:      name,
		PriceRaw:  deal["min"],
		EndDate:   endDate,
	}
	o.Identifier = identifier(item, content, o)

	return o, nil
}

// NormalizeBatch normalizes every item; rejections are returned alongside
// the offers and never stop the batch.
func NormalizeBatch(keyword string, items []RawItem) ([]Offer, []error) {
	offers := make([]Offer, 0, len(items))
	var rejected []error
	for _, item := range items {
		o, err := Normalize(keyword, item)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		offers = append(offers, o)
	}
	return offers, rejected
}

func formatEndDate(raw string) (string, error) {
	if !endDatePattern.MatchString(raw) {
		return "", fmt.Errorf("invalid date format: %s", raw)
	}
	for _, layout := range endDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(EndDateFormat), nil
		}
	}
	return "", fmt.Errorf("invalid date format: %s", raw)
}

// identifier prefers the API id; without one it is built from the fields
// that make an offer distinct so it stays stable across runs.
func identifier(item RawItem, content map[string]any, o Offer) string {
	for _, m := range []map[string]any{content, item} {
		if id := scalarString(m["id"]); id != "" {
			return id
		}
	}
	parts := []string{o.Publisher, o.Brand, o.Name, scalarString(o.PriceRaw), o.EndDate}
	return strings.ToLower(strings.Join(parts, "|"))
}

func object(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case RawItem:
		return m, m != nil
	default:
		return nil, false
	}
}

func firstObject(m map[string]any, key string) (map[string]any, bool) {
	list, ok := m[key].([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return object(list[0])
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case fmt.Stringer:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}
