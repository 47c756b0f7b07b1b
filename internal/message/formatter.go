package message

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"sjsage522/offerwatch/helpers"
	"sjsage522/offerwatch/internal/offer"
)

// DateFormat is used for the header date.
const DateFormat = "02.01.2006"

// Formatter renders keyword groups into one HTML-flavored text block.
type Formatter struct {
	Title     string
	highlight map[string]struct{}
	now       func() time.Time
}

// NewFormatter creates a formatter. Publisher names in highlight are matched
// case-insensitively.
func NewFormatter(title string, highlight []string) *Formatter {
	return &Formatter{
		Title: title,
		highlight: lo.SliceToMap(highlight, func(p string) (string, struct{}) {
			return strings.ToLower(strings.TrimSpace(p)), struct{}{}
		}),
		now: time.Now,
	}
}

// WithClock replaces the header clock.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	f.now = now
	return f
}

// IsHighlighted reports whether publisher gets the emphasis marker.
func (f *Formatter) IsHighlighted(publisher string) bool {
	_, ok := f.highlight[strings.ToLower(strings.TrimSpace(publisher))]
	return ok
}

// Format renders groups in the given order. Empty groups are omitted; ok is
// false when nothing is left to send.
func (f *Formatter) Format(groups []offer.KeywordGroup) (text string, ok bool) {
	sections := make([]string, 0, len(groups))
	for _, g := range groups {
		if len(g.Offers) == 0 {
			continue
		}
		sections = append(sections, f.section(g))
	}

	if len(sections) == 0 {
		return "", false
	}

	header := fmt.Sprintf("🗓 <b>%s (%s)</b>", html.EscapeString(f.Title), f.now().Format(DateFormat))
	return header + "\n\n" + strings.Join(sections, "\n\n"), true
}

func (f *Formatter) section(g offer.KeywordGroup) string {
	offers := slices.Clone(g.Offers)
	offer.SortByPublisher(offers)

	lines := make([]string, 0, len(offers)+1)
	lines = append(lines, fmt.Sprintf("🔎 <b>%s</b>", html.EscapeString(helpers.Capitalize(g.Keyword))))
	for _, o := range offers {
		lines = append(lines, f.line(o))
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) line(o offer.Offer) string {
	publisher := html.EscapeString(o.Publisher)
	product := html.EscapeString(strings.Join(lo.Compact([]string{o.Brand, o.Name}), " "))

	if f.IsHighlighted(o.Publisher) {
		return fmt.Sprintf("🛒 <b>%s</b> — %s: %s (until %s) 💥", publisher, product, o.PriceDisplay, o.EndDate)
	}
	return fmt.Sprintf("🛒 %s — %s: %s (until %s)", publisher, product, o.PriceDisplay, o.EndDate)
}
