package worker

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Outcome classifies a finished run
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeNoOffers       Outcome = "no_offers"
	OutcomePartialFailure Outcome = "partial_failure"
)

// KeywordFailure records why a keyword produced no result
type KeywordFailure struct {
	Keyword string
	Err     error
}

// Summary describes one run
type Summary struct {
	RunID    string
	Keywords int
	Dedup    bool

	Fetched  int
	Rejected int
	Retained int
	New      int

	Failed       []KeywordFailure
	Message      string
	Notified     []string
	NotifyErrors []error
}

// FailedKeywords lists the keywords whose fetch failed
func (s Summary) FailedKeywords() []string {
	return lo.Map(s.Failed, func(f KeywordFailure, _ int) string {
		return f.Keyword
	})
}

// Outcome reports partial failure first, then whether anything was found
func (s Summary) Outcome() Outcome {
	switch {
	case len(s.Failed) > 0:
		return OutcomePartialFailure
	case s.Message == "":
		return OutcomeNoOffers
	default:
		return OutcomeSuccess
	}
}

// String renders the final human-readable summary line
func (s Summary) String() string {
	var b strings.Builder

	switch s.Outcome() {
	case OutcomeNoOffers:
		if s.Dedup && s.Retained > 0 {
			b.WriteString("No new offers found.")
		} else {
			b.WriteString("No offers found.")
		}
	case OutcomePartialFailure:
		fmt.Fprintf(&b, "Failed to fetch offers for: %s.", strings.Join(s.FailedKeywords(), ", "))
	default:
		b.WriteString("Offers found.")
	}

	fmt.Fprintf(&b, " keywords=%d fetched=%d retained=%d", s.Keywords, s.Fetched, s.Retained)
	if s.Dedup {
		fmt.Fprintf(&b, " new=%d", s.New)
	}
	if len(s.Notified) > 0 {
		fmt.Fprintf(&b, " notified=%s", strings.Join(s.Notified, ","))
	}
	if len(s.NotifyErrors) > 0 {
		fmt.Fprintf(&b, " notification_failures=%d", len(s.NotifyErrors))
	}
	return b.String()
}
