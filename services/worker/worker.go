package worker

import (
	"context"
	"time"

	"github.com/rs/xid"

	"sjsage522/offerwatch/helpers"
	"sjsage522/offerwatch/internal/fetcher"
	"sjsage522/offerwatch/internal/message"
	"sjsage522/offerwatch/internal/offer"
	"sjsage522/offerwatch/logger"
	apperrors "sjsage522/offerwatch/pkg/errors"
	"sjsage522/offerwatch/services/metrics"
	"sjsage522/offerwatch/services/notifier"
	"sjsage522/offerwatch/services/publisher"
	"sjsage522/offerwatch/services/snapshot"
)

// Options wires a Worker. Store, Publisher and Metrics are optional.
type Options struct {
	Keywords       []string
	MaxPrice       float64
	Fetcher        fetcher.Fetcher
	Formatter      *message.Formatter
	Notifiers      []notifier.Notifier
	Store          snapshot.Store
	Publisher      publisher.Publisher
	Metrics        *metrics.Recorder
	PushgatewayURL string
	Logger         helpers.LoggerInterface
}

// Worker runs the fetch, filter, dedup, format and notify pipeline once
type Worker struct {
	opts Options
}

// NewWorker creates a new worker
func NewWorker(opts Options) *Worker {
	if opts.Logger == nil {
		opts.Logger = helpers.NewFailureLog("")
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRecorder()
	}
	return &Worker{opts: opts}
}

// Run processes every keyword sequentially and delivers the resulting
// message. Only a failure to persist the snapshot is returned as an error;
// fetch, item and notification failures are recorded in the Summary.
func (w *Worker) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{
		RunID:    xid.New().String(),
		Keywords: len(w.opts.Keywords),
		Dedup:    w.opts.Store != nil,
	}
	log := logger.ForWorker().WithStr("run_id", summary.RunID)

	log.Info().
		Strs("keywords", w.opts.Keywords).
		Float64("max_price", w.opts.MaxPrice).
		Bool("dedup", summary.Dedup).
		Msg("Starting run")

	prev := w.loadSnapshot(ctx)

	groups := make([]offer.KeywordGroup, 0, len(w.opts.Keywords))
	for _, keyword := range w.opts.Keywords {
		group, err := w.processKeyword(ctx, keyword, &summary)
		if err != nil {
			summary.Failed = append(summary.Failed, KeywordFailure{Keyword: keyword, Err: err})
			w.opts.Metrics.KeywordFailed(keyword)
			w.opts.Logger.LogError(keyword, err)
			continue
		}
		groups = append(groups, group)
	}

	surfaced := groups
	if w.opts.Store != nil {
		surfaced = snapshot.Diff(prev, groups)
	}
	for _, g := range surfaced {
		summary.New += len(g.Offers)
		w.opts.Metrics.New(g.Keyword, len(g.Offers))
	}

	w.publish(ctx, summary.RunID, surfaced)

	if text, ok := w.opts.Formatter.Format(surfaced); ok {
		summary.Message = text
		w.notify(ctx, text, &summary)
	} else {
		log.Info().Msg("No offers found")
	}

	if w.opts.Store != nil {
		current := snapshot.FromGroups(groups).CarryOver(prev, summary.FailedKeywords())
		if err := w.opts.Store.Save(ctx, current); err != nil {
			return summary, err
		}
		log.Debug().Str("backend", w.opts.Store.Name()).Int("keywords", len(current)).Msg("Snapshot saved")
	}

	w.opts.Metrics.Finished(started)
	if w.opts.PushgatewayURL != "" {
		if err := w.opts.Metrics.Push(ctx, w.opts.PushgatewayURL); err != nil {
			log.Warn().Err(err).Msg("Failed to push metrics")
		}
	}

	w.opts.Logger.LogInfo("Run %s finished in %s: %s", summary.RunID, time.Since(started).Round(time.Millisecond), summary.Outcome())

	return summary, nil
}

// processKeyword fetches, normalizes, filters and sorts the offers of one keyword
func (w *Worker) processKeyword(ctx context.Context, keyword string, summary *Summary) (offer.KeywordGroup, error) {
	log := logger.ForKeyword(keyword)

	items, err := w.opts.Fetcher.FetchOffers(ctx, keyword)
	if err != nil {
		return offer.KeywordGroup{}, err
	}
	summary.Fetched += len(items)
	w.opts.Metrics.Fetched(keyword, len(items))

	offers, malformed := offer.NormalizeBatch(keyword, items)
	kept, dropped := offer.FilterByCeiling(offers, w.opts.MaxPrice)

	for _, err := range append(malformed, dropped...) {
		reason := string(apperrors.TypeOf(err))
		log.Debug().Str("reason", reason).Msg(err.Error())
		w.opts.Metrics.Rejected(keyword, reason)
	}
	summary.Rejected += len(malformed) + len(dropped)

	offer.SortByPublisher(kept)
	summary.Retained += len(kept)
	w.opts.Metrics.Retained(keyword, len(kept))

	log.Info().
		Int("items", len(items)).
		Int("retained", len(kept)).
		Msg("Processed keyword")

	return offer.KeywordGroup{Keyword: keyword, Offers: kept}, nil
}

// loadSnapshot returns the previous snapshot; unreadable state is a first run
func (w *Worker) loadSnapshot(ctx context.Context) snapshot.Snapshot {
	if w.opts.Store == nil {
		return nil
	}
	prev, err := w.opts.Store.Load(ctx)
	if err != nil {
		logger.ForStore().Warn().Err(err).Msg("Snapshot unavailable, treating as first run")
		return snapshot.Snapshot{}
	}
	return prev
}

// publish sends newly surfaced offers to the stream sink, if any
func (w *Worker) publish(ctx context.Context, runID string, groups []offer.KeywordGroup) {
	if w.opts.Publisher == nil {
		return
	}
	log := logger.ForPublisher()

	for _, g := range groups {
		for _, o := range g.Offers {
			if err := w.opts.Publisher.Publish(ctx, runID, o); err != nil {
				log.Error().Err(err).Str("offer", o.Identifier).Msg("Failed to publish offer")
			}
		}
	}

	if err := w.opts.Publisher.TrimStreams(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to trim streams")
	}
}

// notify attempts one delivery per channel; failures are recorded, not returned
func (w *Worker) notify(ctx context.Context, text string, summary *Summary) {
	for _, n := range w.opts.Notifiers {
		err := n.Notify(ctx, text)
		w.opts.Metrics.Notified(n.Name(), err)
		if err != nil {
			summary.NotifyErrors = append(summary.NotifyErrors, err)
			w.opts.Logger.LogError(n.Name(), err)
			continue
		}
		summary.Notified = append(summary.Notified, n.Name())
		logger.ForNotifier(n.Name()).Info().Msg("Message delivered")
	}
}
