package message

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/offerwatch/internal/offer"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
}

func priced(publisher, brand, name, display, end string) offer.Offer {
	return offer.Offer{Publisher: publisher, Brand: brand, Name: name, PriceDisplay: display, EndDate: end}
}

func TestFormat(t *testing.T) {
	f := NewFormatter("Kaufda Offers", []string{"REWE"}).WithClock(fixedClock)

	text, ok := f.Format([]offer.KeywordGroup{
		{Keyword: "lachs", Offers: []offer.Offer{
			priced("REWE", "Followfish", "Lachsfilet", "4.50€", "10.03.2024"),
			priced("Aldi Nord", "", "Räucherlachs", "2.99€", "09.03.2024"),
		}},
		{Keyword: "cheddar"},
	})
	require.True(t, ok)

	want := "🗓 <b>Kaufda Offers (04.03.2024)</b>\n\n" +
		"🔎 <b>Lachs</b>\n" +
		"🛒 Aldi Nord — Räucherlachs: 2.99€ (until 09.03.2024)\n" +
		"🛒 <b>REWE</b> — Followfish Lachsfilet: 4.50€ (until 10.03.2024) 💥"
	assert.Equal(t, want, text)
	assert.NotContains(t, text, "Cheddar")
}

func TestFormatSeveralSections(t *testing.T) {
	f := NewFormatter("Offers", nil).WithClock(fixedClock)

	text, ok := f.Format([]offer.KeywordGroup{
		{Keyword: "parmesan", Offers: []offer.Offer{priced("Lidl", "", "Parmesan", "1.99€", "01.03.2024")}},
		{Keyword: "TONY'S", Offers: []offer.Offer{priced("rewe", "Tony's", "Chocolonely", "3.49€", "01.03.2024")}},
	})
	require.True(t, ok)

	sections := strings.Split(text, "\n\n")
	require.Len(t, sections, 3)
	assert.True(t, strings.HasPrefix(sections[1], "🔎 <b>Parmesan</b>"))
	assert.True(t, strings.HasPrefix(sections[2], "🔎 <b>Tony&#39;s</b>"))
	// no highlight configured
	assert.NotContains(t, text, "💥")
}

func TestFormatEscapesMarkup(t *testing.T) {
	f := NewFormatter("Offers", nil).WithClock(fixedClock)

	text, ok := f.Format([]offer.KeywordGroup{
		{Keyword: "käse", Offers: []offer.Offer{priced("Netto <Marken>", "", "Käse & Brot", "1.00€", "01.03.2024")}},
	})
	require.True(t, ok)
	assert.Contains(t, text, "Netto &lt;Marken&gt;")
	assert.Contains(t, text, "Käse &amp; Brot")
}

func TestFormatSortIsStable(t *testing.T) {
	f := NewFormatter("Offers", nil).WithClock(fixedClock)

	text, ok := f.Format([]offer.KeywordGroup{
		{Keyword: "lachs", Offers: []offer.Offer{
			priced("Rewe", "", "first", "1.00€", "01.03.2024"),
			priced("edeka", "", "second", "1.00€", "01.03.2024"),
			priced("REWE", "", "third", "1.00€", "01.03.2024"),
		}},
	})
	require.True(t, ok)

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[3], "second")
	assert.Contains(t, lines[4], "first")
	assert.Contains(t, lines[5], "third")
}

func TestFormatNoContent(t *testing.T) {
	f := NewFormatter("Offers", []string{"rewe"})

	text, ok := f.Format(nil)
	assert.False(t, ok)
	assert.Empty(t, text)

	text, ok = f.Format([]offer.KeywordGroup{{Keyword: "lachs"}, {Keyword: "cheddar", Offers: []offer.Offer{}}})
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestIsHighlighted(t *testing.T) {
	f := NewFormatter("Offers", []string{" rewe ", "Edeka"})
	assert.True(t, f.IsHighlighted("REWE"))
	assert.True(t, f.IsHighlighted("edeka"))
	assert.False(t, f.IsHighlighted("Lidl"))
}
