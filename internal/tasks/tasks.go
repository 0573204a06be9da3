package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/plsync/plsync/internal/match"
	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/norm"
	"github.com/plsync/plsync/internal/retry"
	"github.com/plsync/plsync/internal/services"
	"github.com/plsync/plsync/internal/shared"
)

const (
	defaultWorkers     = 5
	defaultLikeWorkers = 10
	defaultSearchLimit = 10
)

// FuzzyMatch is a word-overlap match held for review before it is accepted.
type FuzzyMatch struct {
	Index           int // Position of the original track in the source listing
	Original        models.Track
	Candidate       models.SearchCandidate
	Quality         match.Quality
	Similarity      float64
	DurationWarning bool
}

// Orphan is a destination track with no counterpart in the source collection.
type Orphan struct {
	Position int // Position within the destination listing
	Artist   string
	Title    string
}

// MatchStats breaks down accepted matches by how they were found.
type MatchStats struct {
	Exact       int
	FuzzyGood   int
	FuzzyMedium int
	FuzzyBad    int
}

func (s *MatchStats) countQuality(q match.Quality) {
	switch q {
	case match.Good:
		s.FuzzyGood++
	case match.Medium:
		s.FuzzyMedium++
	default:
		s.FuzzyBad++
	}
}

// SyncResult contains all data from a full reconciliation run.
type SyncResult struct {
	CollectionName string
	TotalTracks    int  // Tracks in the source collection
	SkippedTracks  int  // Already present at the destination
	FoundTracks    int  // Matched and accepted
	NotFoundTracks int  // No acceptable match
	RemovedTracks  int  // Orphans removed during cleanup
	LikedTracks    int  // Tracks favorited at the destination
	IsDelta        bool // Destination already had tracks
	Stats          MatchStats
	NotFound       []models.Track // Tracks with no acceptable match, in source order
}

// SuccessRate returns the percentage of attempted tracks that were matched.
// Tracks skipped by the delta do not count as attempts.
func (r *SyncResult) SuccessRate() float64 {
	attempted := r.TotalTracks - r.SkippedTracks
	if attempted <= 0 {
		return 100
	}
	return float64(r.FoundTracks) / float64(attempted) * 100
}

// ReviewFuzzyFunc decides which fuzzy matches to accept. It receives matches
// sorted by quality (best first) and returns indices into that slice;
// out-of-range indices are ignored. A nil func accepts everything.
type ReviewFuzzyFunc func(matches []FuzzyMatch) ([]int, error)

// ReviewOrphansFunc decides which orphans to remove. It returns indices into
// the given slice; out-of-range indices are ignored. A nil func removes
// everything.
type ReviewOrphansFunc func(orphans []Orphan) ([]int, error)

// MatchCacher resolves previously confirmed track matches, keyed by the
// normalized source track key. Implementations swallow their own errors; a
// miss and a failure look the same to the engine.
type MatchCacher interface {
	Lookup(ctx context.Context, trackKey string) (trackID string, ok bool)
	Store(ctx context.Context, trackKey, trackID string)
}

// Options controls a single reconciliation run.
type Options struct {
	Workers       int  // Concurrent track searches (default 5)
	LikeWorkers   int  // Concurrent favorite calls (default 10)
	SearchLimit   int  // Results requested per search (default 10)
	ExactOnly     bool // Reject fuzzy word-overlap matches
	LikeTracks    bool // Favorite synced tracks at the destination
	Cleanup       bool // Remove destination tracks absent from the source
	ReviewFuzzy   ReviewFuzzyFunc
	ReviewOrphans ReviewOrphansFunc
}

func (o *Options) applyDefaults() {
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.LikeWorkers <= 0 {
		o.LikeWorkers = defaultLikeWorkers
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = defaultSearchLimit
	}
}

// SyncEngine defines operations for reconciling collections between services.
type SyncEngine interface {
	// Sync reconciles the named source collection into the destination
	// service, creating the destination collection when it does not exist.
	Sync(ctx context.Context, collectionName string, opts Options, progress chan<- ProgressUpdate) (*SyncResult, error)
}

// ReconciliationEngine implements SyncEngine between a source and a
// destination service.
type ReconciliationEngine struct {
	source   services.Service
	dest     services.Service
	logger   *log.Logger
	retryCfg retry.Config
	cache    MatchCacher // optional
}

// NewReconciliationEngine creates an engine. The logger may be nil; cache may
// be nil to disable match caching.
func NewReconciliationEngine(source, dest services.Service, logger *log.Logger, retryCfg retry.Config, cache MatchCacher) *ReconciliationEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ReconciliationEngine{
		source:   source,
		dest:     dest,
		logger:   logger,
		retryCfg: retryCfg,
		cache:    cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ReconciliationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// searchResult wraps a per-track match so the slice can be indexed by the
// missing-list position.
type searchResult struct {
	result match.Result
}

// Sync performs a full reconciliation run.
func (e *ReconciliationEngine) Sync(ctx context.Context, collectionName string, opts Options, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.source == nil || e.dest == nil {
		return nil, fmt.Errorf("%w: sync engine missing a service", shared.ErrServiceUnavailable)
	}
	opts.applyDefaults()

	e.sendProgress(progress, resolveSourceUpdate(collectionName, e.source.Name()))

	srcCollection, err := e.source.FindCollectionByName(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("resolve source collection: %w", err)
	}
	if srcCollection == nil {
		return nil, fmt.Errorf("%w: %q on %s", shared.ErrCollectionNotFound, collectionName, e.source.Name())
	}

	srcTracks, err := e.source.ListTracks(ctx, srcCollection.ID)
	if err != nil {
		return nil, fmt.Errorf("list source tracks: %w", err)
	}

	result := &SyncResult{
		CollectionName: collectionName,
		TotalTracks:    len(srcTracks),
	}

	e.sendProgress(progress, resolveDestUpdate(collectionName, e.dest.Name()))

	destCollection, err := e.dest.FindCollectionByName(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("resolve destination collection: %w", err)
	}

	// Delta: skip source tracks whose normalized key is already present at
	// the destination.
	destKeys := make(map[string]string) // key -> destination track ID
	var destTracks []models.Track
	if destCollection != nil {
		destTracks, err = e.dest.ListTracks(ctx, destCollection.ID)
		if err != nil {
			return nil, fmt.Errorf("list destination tracks: %w", err)
		}
		for _, tr := range destTracks {
			destKeys[norm.Key(tr.Artist, tr.Title)] = tr.ID
		}
		result.IsDelta = len(destTracks) > 0
	}

	srcKeys := make(map[string]struct{}, len(srcTracks))
	var missing []models.Track
	for _, tr := range srcTracks {
		key := norm.Key(tr.Artist, tr.Title)
		srcKeys[key] = struct{}{}
		if _, ok := destKeys[key]; ok {
			result.SkippedTracks++
			continue
		}
		missing = append(missing, tr)
	}

	e.sendProgress(progress, compareUpdate(len(missing), result.SkippedTracks))
	e.logger.Info("computed delta",
		"collection", collectionName,
		"total", result.TotalTracks,
		"missing", len(missing),
		"skipped", result.SkippedTracks)

	results, err := e.searchAll(ctx, missing, opts, progress)
	if err != nil {
		return nil, err
	}

	// Partition in source order: exact and title-only matches are accepted
	// outright, fuzzy word-overlap matches go to review. A hit whose
	// candidate key is already at the destination is counted as skipped
	// before it can reach the reviewer.
	var review []FuzzyMatch
	accepted := make(map[int]models.SearchCandidate) // missing index -> candidate
	unresolved := make(map[int]struct{})
	for i, sr := range results {
		res := sr.result
		if res.Outcome != match.NotFound {
			if _, dup := destKeys[norm.Key(res.Candidate.Artist, res.Candidate.Title)]; dup {
				result.SkippedTracks++
				continue
			}
		}
		switch res.Outcome {
		case match.NotFound:
			unresolved[i] = struct{}{}
		case match.Exact:
			accepted[i] = *res.Candidate
			result.Stats.Exact++
			if res.DurationWarning {
				e.logger.Warn("duration mismatch on exact match",
					"artist", missing[i].Artist, "title", missing[i].Title)
			}
		case match.TitleOnly:
			accepted[i] = *res.Candidate
			result.Stats.countQuality(res.Quality)
		default:
			review = append(review, FuzzyMatch{
				Index:           i,
				Original:        missing[i],
				Candidate:       *res.Candidate,
				Quality:         res.Quality,
				Similarity:      res.Similarity,
				DurationWarning: res.DurationWarning,
			})
		}
	}

	if len(review) > 0 {
		e.sendProgress(progress, reviewUpdate(len(review)))
		acceptedFuzzy, err := e.reviewFuzzy(review, opts.ReviewFuzzy)
		if err != nil {
			return nil, err
		}
		for _, fm := range acceptedFuzzy {
			accepted[fm.Index] = fm.Candidate
			result.Stats.countQuality(fm.Quality)
		}
		// Rejected entries move to unresolved, never silently dropped.
		for _, fm := range review {
			if _, ok := accepted[fm.Index]; !ok {
				unresolved[fm.Index] = struct{}{}
			}
		}
	}

	// Assemble the batch in source order, re-checking each accepted match
	// against the destination in case the search surfaced a track that is
	// already there under a different source spelling.
	var toAdd []string
	seenIDs := make(map[string]struct{})
	for i, tr := range missing {
		if _, ok := unresolved[i]; ok {
			result.NotFound = append(result.NotFound, tr)
			continue
		}
		cand, ok := accepted[i]
		if !ok {
			continue
		}
		if _, dup := destKeys[norm.Key(cand.Artist, cand.Title)]; dup {
			result.SkippedTracks++
			continue
		}
		if _, dup := seenIDs[cand.ID]; dup {
			result.SkippedTracks++
			continue
		}
		seenIDs[cand.ID] = struct{}{}
		toAdd = append(toAdd, cand.ID)
		result.FoundTracks++

		if e.cache != nil {
			e.cache.Store(ctx, norm.Key(tr.Artist, tr.Title), cand.ID)
		}
	}
	result.NotFoundTracks = len(result.NotFound)

	if len(toAdd) > 0 {
		if destCollection == nil {
			e.sendProgress(progress, createCollectionUpdate(collectionName, e.dest.Name()))
			destCollection, err = e.dest.CreateCollection(ctx, collectionName, fmt.Sprintf("Synced from %s", e.source.Name()))
			if err != nil {
				return nil, fmt.Errorf("create destination collection: %w", err)
			}
		}

		e.sendProgress(progress, addTracksUpdate(len(toAdd)))
		if err := e.dest.AddTracks(ctx, destCollection.ID, toAdd); err != nil {
			return nil, fmt.Errorf("add tracks: %w", err)
		}
	}

	if opts.Cleanup && destCollection != nil {
		removed, err := e.cleanup(ctx, destCollection.ID, destTracks, srcKeys, opts.ReviewOrphans, progress)
		if err != nil {
			return nil, err
		}
		result.RemovedTracks = removed
	}

	// Favorites cover the whole destination collection as it stands after
	// adds and cleanup, not just the tracks this run touched.
	if opts.LikeTracks && destCollection != nil {
		finalTracks, err := e.dest.ListTracks(ctx, destCollection.ID)
		if err != nil {
			return nil, fmt.Errorf("list destination tracks: %w", err)
		}
		ids := make([]string, len(finalTracks))
		for i, tr := range finalTracks {
			ids[i] = tr.ID
		}
		liked, err := e.likeAll(ctx, ids, opts.LikeWorkers, progress)
		if err != nil {
			return nil, err
		}
		result.LikedTracks = liked
	}

	e.logger.Info("sync complete",
		"collection", collectionName,
		"found", result.FoundTracks,
		"not_found", result.NotFoundTracks,
		"skipped", result.SkippedTracks,
		"success_rate", fmt.Sprintf("%.1f%%", result.SuccessRate()))
	return result, nil
}

// searchAll fans missing tracks out over a bounded worker pool and
// reassembles the per-track results into input order. A search that still
// fails after retries is absorbed as not-found; only context cancellation
// aborts the run.
func (e *ReconciliationEngine) searchAll(ctx context.Context, missing []models.Track, opts Options, progress chan<- ProgressUpdate) ([]searchResult, error) {
	results := make([]searchResult, len(missing))
	if len(missing) == 0 {
		return results, nil
	}

	workers := opts.Workers
	if workers > len(missing) {
		workers = len(missing)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e.sendProgress(progress, searchTrackUpdate(i+1, len(missing), missing[i]))
				results[i] = e.searchTrack(ctx, missing[i], opts)
			}
		}()
	}

	for i := range missing {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// searchTrack resolves one track against the destination service, trying the
// match cache first and then each query strategy in order.
func (e *ReconciliationEngine) searchTrack(ctx context.Context, tr models.Track, opts Options) searchResult {
	key := norm.Key(tr.Artist, tr.Title)
	if e.cache != nil {
		if id, ok := e.cache.Lookup(ctx, key); ok {
			cand := tr.Candidate()
			cand.ID = id
			return searchResult{
				result: match.Result{Track: tr, Candidate: &cand, Outcome: match.Exact, Quality: match.Good},
			}
		}
	}

	for _, query := range match.Queries(tr) {
		candidates, err := retry.Do(ctx, e.retryCfg, func(ctx context.Context) ([]models.SearchCandidate, error) {
			return e.dest.SearchTracks(ctx, query, opts.SearchLimit)
		})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			e.logger.Warn("search failed", "query", query, "error", err)
			continue
		}

		if res := match.FindBestMatch(tr, candidates, opts.ExactOnly); res.Outcome != match.NotFound {
			return searchResult{result: res}
		}
	}

	return searchResult{result: match.Result{Track: tr, Outcome: match.NotFound}}
}

// reviewFuzzy sorts candidates best-first and applies the review decision.
// An aborted review selects nothing; it does not fail the run.
func (e *ReconciliationEngine) reviewFuzzy(review []FuzzyMatch, fn ReviewFuzzyFunc) ([]FuzzyMatch, error) {
	sort.SliceStable(review, func(i, j int) bool {
		return review[i].Quality < review[j].Quality
	})

	if fn == nil {
		return review, nil
	}

	indices, err := fn(review)
	if err != nil {
		if errors.Is(err, shared.ErrReviewAborted) {
			e.logger.Warn("fuzzy review aborted, accepting nothing")
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy review: %w", err)
	}

	var accepted []FuzzyMatch
	for _, idx := range indices {
		if idx < 0 || idx >= len(review) {
			continue
		}
		accepted = append(accepted, review[idx])
	}
	return accepted, nil
}

// cleanup removes destination tracks that have no counterpart in the source,
// deleting from the highest position down so earlier removals do not shift
// later ones.
func (e *ReconciliationEngine) cleanup(ctx context.Context, destCollectionID string, destTracks []models.Track, srcKeys map[string]struct{}, fn ReviewOrphansFunc, progress chan<- ProgressUpdate) (int, error) {
	var orphans []Orphan
	for pos, tr := range destTracks {
		if _, ok := srcKeys[norm.Key(tr.Artist, tr.Title)]; !ok {
			orphans = append(orphans, Orphan{Position: pos, Artist: tr.Artist, Title: tr.Title})
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	selected := orphans
	if fn != nil {
		indices, err := fn(orphans)
		if err != nil {
			if errors.Is(err, shared.ErrReviewAborted) {
				e.logger.Warn("orphan review aborted, removing nothing")
				return 0, nil
			}
			return 0, fmt.Errorf("orphan review: %w", err)
		}
		selected = selected[:0:0]
		for _, idx := range indices {
			if idx < 0 || idx >= len(orphans) {
				continue
			}
			selected = append(selected, orphans[idx])
		}
	}
	if len(selected) == 0 {
		return 0, nil
	}

	positions := make([]int, len(selected))
	for i, o := range selected {
		positions[i] = o.Position
	}
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))

	e.sendProgress(progress, cleanupUpdate(len(positions)))
	if err := e.dest.RemoveTracksByPosition(ctx, destCollectionID, positions); err != nil {
		return 0, fmt.Errorf("remove orphans: %w", err)
	}
	return len(positions), nil
}

// likeAll favorites the given destination track IDs, skipping those already
// favorited. Individual failures are logged, not fatal.
func (e *ReconciliationEngine) likeAll(ctx context.Context, trackIDs []string, workers int, progress chan<- ProgressUpdate) (int, error) {
	if len(trackIDs) == 0 {
		return 0, nil
	}

	favorited, err := e.dest.GetFavoritedIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list favorites: %w", err)
	}

	var pending []string
	for _, id := range trackIDs {
		if _, ok := favorited[id]; !ok {
			pending = append(pending, id)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	liked := 0
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if err := e.dest.AddFavorite(ctx, id); err != nil {
					e.logger.Warn("failed to favorite track", "id", id, "error", err)
					continue
				}
				mu.Lock()
				liked++
				e.sendProgress(progress, favoritesUpdate(liked, len(pending)))
				mu.Unlock()
			}
		}()
	}

	for _, id := range pending {
		select {
		case jobs <- id:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return liked, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()
	return liked, nil
}
