package snapshot

import (
	"context"
	"maps"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"sjsage522/offerwatch/internal/offer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot maps a keyword to the identifiers seen for it in the previous run.
// Keywords are stored in their Key form.
type Snapshot map[string][]string

// Key is the snapshot key of keyword. Display case does not matter.
func Key(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// Store persists exactly one generation of Snapshot.
type Store interface {
	// Load returns the previous snapshot. A missing snapshot is an empty one.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the stored snapshot in full
	Save(ctx context.Context, s Snapshot) error

	// Name identifies the backend in logs
	Name() string
}

// FromGroups builds the snapshot for the current run. Identifiers are
// deduplicated and sorted so the stored form is deterministic.
func FromGroups(groups []offer.KeywordGroup) Snapshot {
	s := make(Snapshot, len(groups))
	for _, g := range groups {
		ids := lo.Map(g.Offers, func(o offer.Offer, _ int) string {
			return o.Identifier
		})
		key := Key(g.Keyword)
		ids = lo.Uniq(append(s[key], ids...))
		slices.Sort(ids)
		s[key] = ids
	}
	return s
}

// Contains reports whether id was seen for keyword.
func (s Snapshot) Contains(keyword, id string) bool {
	return slices.Contains(s[Key(keyword)], id)
}

// Diff keeps, per keyword, the offers whose identifier is absent from prev.
func Diff(prev Snapshot, groups []offer.KeywordGroup) []offer.KeywordGroup {
	out := make([]offer.KeywordGroup, 0, len(groups))
	for _, g := range groups {
		fresh := lo.Filter(g.Offers, func(o offer.Offer, _ int) bool {
			return !prev.Contains(g.Keyword, o.Identifier)
		})
		out = append(out, offer.KeywordGroup{Keyword: g.Keyword, Offers: fresh})
	}
	return out
}

// CarryOver copies prev's entries for the given keywords into s when s has
// none, so a keyword that failed this run keeps its history.
func (s Snapshot) CarryOver(prev Snapshot, keywords []string) Snapshot {
	for _, k := range keywords {
		k = Key(k)
		if _, ok := s[k]; ok {
			continue
		}
		if ids, ok := prev[k]; ok {
			s[k] = slices.Clone(ids)
		}
	}
	return s
}

// Equal reports whether both snapshots hold the same identifier sets.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for k, ids := range s {
		o, ok := other[k]
		if !ok {
			return false
		}
		if !maps.Equal(lo.Keyify(ids), lo.Keyify(o)) {
			return false
		}
	}
	return true
}

func encode(s Snapshot) ([]byte, error) {
	if s == nil {
		s = Snapshot{}
	}
	return json.MarshalIndent(s, "", "  ")
}

func decode(data []byte) (Snapshot, error) {
	s := Snapshot{}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s.rekey(), nil
}

// rekey folds keys written with another case into their Key form.
func (s Snapshot) rekey() Snapshot {
	out := make(Snapshot, len(s))
	for k, ids := range s {
		key := Key(k)
		if prev, ok := out[key]; ok {
			ids = lo.Uniq(append(slices.Clone(prev), ids...))
			slices.Sort(ids)
		}
		out[key] = ids
	}
	return out
}
