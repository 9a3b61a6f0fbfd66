package scraper

import (
	"fmt"

	"acc3scraper/pkg/browser"
	"acc3scraper/pkg/config"
	apperrors "acc3scraper/pkg/errors"
	"acc3scraper/pkg/logger"
	"acc3scraper/pkg/ratelimit"
)

// Scraper orchestrates the resumable extraction run
type Scraper struct {
	cfg         *config.Config
	nav         Navigator
	extractor   RecordExtractor
	sink        Sink
	checkpoints CheckpointStore
	pacer       ratelimit.Pacer
	log         logger.Logger
}

// New creates a Scraper from its collaborators. The caller retains ownership
// of the navigator session and the sink and releases them after Run returns.
func New(cfg *config.Config, nav Navigator, extractor RecordExtractor, sink Sink, checkpoints CheckpointStore, pacer ratelimit.Pacer) *Scraper {
	return &Scraper{
		cfg:         cfg,
		nav:         nav,
		extractor:   extractor,
		sink:        sink,
		checkpoints: checkpoints,
		pacer:       pacer,
		log:         logger.GetLogger(),
	}
}

// Run executes one extraction run: recover the checkpoint, skip forward to
// the resume point, then extract, append and checkpoint page by page until
// the listing is exhausted.
func (s *Scraper) Run() error {
	start, err := s.checkpoints.Load()
	if err != nil {
		return err
	}

	if err := s.nav.Load(s.cfg.Target.URL); err != nil {
		return apperrors.New(apperrors.ErrorTypeNavigation, "failed to load listing", err)
	}

	current := 1
	if start > current {
		s.log.InfoWithFields("Resuming from checkpoint", map[string]interface{}{
			"start_page": start,
		})
	}

	if err := s.skipTo(start, &current); err != nil {
		return err
	}

	pages, total, err := s.extractPages(current)
	if err != nil {
		return err
	}

	s.log.InfoWithFields("Extraction completed", map[string]interface{}{
		"pages":   pages,
		"records": total,
	})
	return nil
}

// skipTo advances the navigator to the resume point without extracting or
// writing anything; those pages are already in the output file. Any failure
// to advance here is fatal: restarting from page 1 instead would duplicate
// rows already written.
func (s *Scraper) skipTo(start int, current *int) error {
	for *current < start {
		result, err := s.nav.Advance()
		if err != nil || result != browser.Advanced {
			s.log.ErrorWithFields("Resume target unreachable", map[string]interface{}{
				"target_page": start,
				"stopped_at":  *current,
				"result":      result.String(),
			})
			return apperrors.New(apperrors.ErrorTypeNavigation,
				fmt.Sprintf("resume target page %d unreachable, stopped at page %d", start, *current), err)
		}
		*current++
	}
	return nil
}

// extractPages runs the steady loop from the current page until the listing
// ends. It returns the number of pages visited and records written.
func (s *Scraper) extractPages(current int) (pages, total int, err error) {
	for {
		s.pacer.Wait()

		html, err := s.nav.Content()
		if err != nil {
			return pages, total, apperrors.New(apperrors.ErrorTypeNavigation, "failed to read page content", err)
		}

		recs, extractErr := s.extractor.Extract(html, current)
		if extractErr != nil {
			// Tolerant parsing: a page that cannot be parsed yields no
			// records but does not abort the run.
			s.log.WithError(extractErr).WithField("page", current).Error("Failed to parse page")
		}

		if err := s.sink.Append(recs); err != nil {
			return pages, total, err
		}
		// The page's rows are durable; only now may the checkpoint move.
		if err := s.checkpoints.Save(current); err != nil {
			return pages, total, err
		}

		pages++
		total += len(recs)
		s.log.InfoWithFields("Page written", map[string]interface{}{
			"page":    current,
			"records": len(recs),
		})

		result, advErr := s.nav.Advance()
		switch result {
		case browser.Advanced:
			current++
		case browser.EndOfListing:
			s.log.InfoWithFields("No more pages", map[string]interface{}{
				"last_page": current,
			})
			return pages, total, nil
		default:
			// Not distinguishable from end-of-listing at this layer; the run
			// still completes with the rows collected so far.
			s.log.WithError(advErr).WithField("page", current).Warn("Navigation failed, treating as end of listing")
			return pages, total, nil
		}
	}
}
