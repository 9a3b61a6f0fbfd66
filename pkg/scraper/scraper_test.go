package scraper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acc3scraper/pkg/browser"
	"acc3scraper/pkg/config"
	"acc3scraper/pkg/ratelimit"
	"acc3scraper/pkg/records"
)

// fakeNavigator serves scripted pages. Advance consumes one scripted result
// per call; Advanced moves to the next page.
type fakeNavigator struct {
	pages   []string
	results []browser.AdvanceResult
	current int
	calls   int
	loadErr error
	events  *[]string
}

func (f *fakeNavigator) Load(url string) error {
	return f.loadErr
}

func (f *fakeNavigator) Content() (string, error) {
	return f.pages[f.current], nil
}

func (f *fakeNavigator) Advance() (browser.AdvanceResult, error) {
	result := f.results[f.calls]
	f.calls++
	if f.events != nil {
		*f.events = append(*f.events, fmt.Sprintf("advance:%s", result))
	}
	switch result {
	case browser.Advanced:
		f.current++
		return result, nil
	case browser.NavigationFailed:
		return result, errors.New("session lost")
	default:
		return result, nil
	}
}

// fakeExtractor emits one record per page carrying the page's content as the
// permit id, so writes can be attributed to pages.
type fakeExtractor struct {
	pagesSeen []int
}

func (f *fakeExtractor) Extract(html string, page int) ([]*records.Record, error) {
	f.pagesSeen = append(f.pagesSeen, page)
	rec := records.New()
	rec.Set(records.FieldPermitID, html)
	return []*records.Record{rec}, nil
}

type fakeSink struct {
	appended [][]*records.Record
	err      error
	events   *[]string
}

func (f *fakeSink) Append(recs []*records.Record) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, recs)
	if f.events != nil {
		*f.events = append(*f.events, "append")
	}
	return nil
}

type fakeStore struct {
	start   int
	loadErr error
	saveErr error
	saved   []int
	events  *[]string
}

func (f *fakeStore) Load() (int, error) {
	return f.start, f.loadErr
}

func (f *fakeStore) Save(page int) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, page)
	if f.events != nil {
		*f.events = append(*f.events, fmt.Sprintf("save:%d", page))
	}
	return nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.RateLimit.MinPageInterval = 0
	return cfg
}

func newTestScraper(nav *fakeNavigator, ex *fakeExtractor, sink *fakeSink, store *fakeStore) *Scraper {
	return New(testConfig(), nav, ex, sink, store, ratelimit.NewIntervalPacer(0))
}

func TestRunUntilEndOfListing(t *testing.T) {
	nav := &fakeNavigator{
		pages:   []string{"page-1", "page-2", "page-3"},
		results: []browser.AdvanceResult{browser.Advanced, browser.Advanced, browser.EndOfListing},
	}
	ex := &fakeExtractor{}
	sink := &fakeSink{}
	store := &fakeStore{start: 1}

	err := newTestScraper(nav, ex, sink, store).Run()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, ex.pagesSeen)
	assert.Equal(t, []int{1, 2, 3}, store.saved)
	require.Len(t, sink.appended, 3)
	got, _ := sink.appended[2][0].Get(records.FieldPermitID)
	assert.Equal(t, "page-3", got)
}

func TestRunResumesFromCheckpoint(t *testing.T) {
	nav := &fakeNavigator{
		pages: []string{"page-1", "page-2", "page-3", "page-4", "page-5", "page-6"},
		results: []browser.AdvanceResult{
			// skip phase: pages 1..4
			browser.Advanced, browser.Advanced, browser.Advanced, browser.Advanced,
			// steady phase
			browser.Advanced, browser.EndOfListing,
		},
	}
	ex := &fakeExtractor{}
	sink := &fakeSink{}
	store := &fakeStore{start: 5}

	err := newTestScraper(nav, ex, sink, store).Run()
	require.NoError(t, err)

	// Pages 1-4 were neither extracted, appended nor re-checkpointed.
	assert.Equal(t, []int{5, 6}, ex.pagesSeen)
	assert.Equal(t, []int{5, 6}, store.saved)
	assert.Len(t, sink.appended, 2)
}

func TestRunSkipFailureIsFatal(t *testing.T) {
	nav := &fakeNavigator{
		pages:   []string{"page-1", "page-2"},
		results: []browser.AdvanceResult{browser.Advanced, browser.EndOfListing},
	}
	ex := &fakeExtractor{}
	sink := &fakeSink{}
	store := &fakeStore{start: 5}

	err := newTestScraper(nav, ex, sink, store).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 5 unreachable")

	// No writes of any kind happened.
	assert.Empty(t, ex.pagesSeen)
	assert.Empty(t, sink.appended)
	assert.Empty(t, store.saved)
}

func TestRunSkipNavigationFailureIsFatal(t *testing.T) {
	nav := &fakeNavigator{
		pages:   []string{"page-1"},
		results: []browser.AdvanceResult{browser.NavigationFailed},
	}
	sink := &fakeSink{}
	store := &fakeStore{start: 2}

	err := newTestScraper(nav, &fakeExtractor{}, sink, store).Run()
	require.Error(t, err)
	assert.Empty(t, sink.appended)
	assert.Empty(t, store.saved)
}

func TestRunSteadyNavigationFailureEndsNormally(t *testing.T) {
	// A broken session mid-listing is not distinguishable from exhaustion;
	// the run completes with the rows collected so far.
	nav := &fakeNavigator{
		pages:   []string{"page-1", "page-2"},
		results: []browser.AdvanceResult{browser.Advanced, browser.NavigationFailed},
	}
	ex := &fakeExtractor{}
	sink := &fakeSink{}
	store := &fakeStore{start: 1}

	err := newTestScraper(nav, ex, sink, store).Run()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, store.saved)
}

func TestRunCheckpointLoadFailureIsFatal(t *testing.T) {
	nav := &fakeNavigator{pages: []string{"page-1"}}
	store := &fakeStore{loadErr: errors.New("corrupt checkpoint")}

	err := newTestScraper(nav, &fakeExtractor{}, &fakeSink{}, store).Run()
	require.Error(t, err)
	assert.Equal(t, 0, nav.calls)
}

func TestRunCheckpointSaveFailureIsFatal(t *testing.T) {
	nav := &fakeNavigator{
		pages:   []string{"page-1"},
		results: []browser.AdvanceResult{browser.EndOfListing},
	}
	sink := &fakeSink{}
	store := &fakeStore{start: 1, saveErr: errors.New("disk full")}

	err := newTestScraper(nav, &fakeExtractor{}, sink, store).Run()
	require.Error(t, err)
	// The page's rows were appended before the failed checkpoint; at most
	// one page is re-done on the next run.
	assert.Len(t, sink.appended, 1)
}

func TestRunSinkFailureIsFatal(t *testing.T) {
	nav := &fakeNavigator{pages: []string{"page-1"}}
	store := &fakeStore{start: 1}

	err := newTestScraper(nav, &fakeExtractor{}, &fakeSink{err: errors.New("write failed")}, store).Run()
	require.Error(t, err)
	assert.Empty(t, store.saved)
}

func TestRunOrderingAppendBeforeCheckpointBeforeAdvance(t *testing.T) {
	var events []string
	nav := &fakeNavigator{
		pages:   []string{"page-1", "page-2"},
		results: []browser.AdvanceResult{browser.Advanced, browser.EndOfListing},
		events:  &events,
	}
	sink := &fakeSink{events: &events}
	store := &fakeStore{start: 1, events: &events}

	err := newTestScraper(nav, &fakeExtractor{}, sink, store).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"append", "save:1", "advance:advanced",
		"append", "save:2", "advance:end_of_listing",
	}, events)
}

func TestRunLoadFailureIsFatal(t *testing.T) {
	nav := &fakeNavigator{loadErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	store := &fakeStore{start: 1}

	err := newTestScraper(nav, &fakeExtractor{}, &fakeSink{}, store).Run()
	require.Error(t, err)
	assert.Empty(t, store.saved)
}
