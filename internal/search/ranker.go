package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"smartnotes/internal/contextutil"
	"smartnotes/internal/embedding"
	"smartnotes/internal/service"
	"smartnotes/internal/storage"
	"smartnotes/internal/vectorstore"
)

// QueryLogger records one telemetry row per search.
type QueryLogger interface {
	Record(ctx context.Context, entry storage.QueryLog) error
}

// Ranker scores notes against a query by keyword match, vector similarity
// or a weighted blend of both.
type Ranker struct {
	notes    storage.NoteStore
	embedder embedding.Embedder
	searcher vectorstore.Searcher
	queryLog QueryLogger
	weights  Weights
	timeout  time.Duration
}

// NewRanker creates a Ranker. queryLog may be nil; timeout <= 0 disables the
// search deadline.
func NewRanker(
	notes storage.NoteStore,
	embedder embedding.Embedder,
	searcher vectorstore.Searcher,
	queryLog QueryLogger,
	weights Weights,
	timeout time.Duration,
) *Ranker {
	return &Ranker{
		notes:    notes,
		embedder: embedder,
		searcher: searcher,
		queryLog: queryLog,
		weights:  weights,
		timeout:  timeout,
	}
}

// scored is a note candidate with its per-signal scores.
type scored struct {
	note     storage.Note
	keyword  float64
	semantic float64
	chunks   []string
	final    float64
}

// Search ranks notes for req. A blank query returns an empty response.
func (r *Ranker) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	logger := contextutil.LoggerFromContext(ctx)

	mode, limit, err := validate(req)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(req.Query)

	resp := &Response{Results: []Result{}, Mode: mode}
	if query != "" {
		searchCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			searchCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		var candidates []scored
		switch mode {
		case ModeKeyword:
			candidates, err = r.keyword(searchCtx, query)
		case ModeSemantic:
			candidates, err = r.semantic(searchCtx, query)
		case ModeHybrid:
			candidates, err = r.hybrid(searchCtx, query)
		}
		if err != nil {
			logger.ErrorContext(ctx, "search failed", "mode", mode, "error", err)
			return nil, err
		}

		resp.TotalFound = len(candidates)
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		for _, c := range candidates {
			chunks := c.chunks
			if chunks == nil {
				chunks = []string{}
			}
			resp.Results = append(resp.Results, Result{Note: c.note, Score: c.final, MatchedChunks: chunks})
		}
	}
	resp.Elapsed = time.Since(start)

	r.record(ctx, req.Query, mode, len(resp.Results), resp.Elapsed)
	logger.DebugContext(ctx, "search completed",
		"mode", mode,
		"results", len(resp.Results),
		"total_found", resp.TotalFound,
		"elapsed", resp.Elapsed,
	)
	return resp, nil
}

func validate(req Request) (Mode, int, error) {
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return "", 0, &service.ValidationError{Field: "search_type", Message: err.Error()}
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return "", 0, &service.ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
	}

	if !utf8.ValidString(req.Query) {
		return "", 0, &service.ValidationError{Field: "query", Message: "must be valid UTF-8"}
	}
	if utf8.RuneCountInString(req.Query) > MaxQueryLength {
		return "", 0, &service.ValidationError{Field: "query", Message: fmt.Sprintf("must be at most %d characters", MaxQueryLength)}
	}
	return mode, limit, nil
}

// record writes the telemetry row. Failures are logged, never returned.
func (r *Ranker) record(ctx context.Context, query string, mode Mode, results int, elapsed time.Duration) {
	if r.queryLog == nil {
		return
	}
	err := r.queryLog.Record(context.WithoutCancel(ctx), storage.QueryLog{
		Query:        query,
		QueryType:    string(mode),
		ResultsCount: results,
		ResponseTime: elapsed,
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record search query", "error", err)
	}
}

// keyword returns notes containing the query, best first. Candidates arrive
// in most-recently-updated order and the sort is stable, so equal scores
// keep that order.
func (r *Ranker) keyword(ctx context.Context, query string) ([]scored, error) {
	all, err := r.keywordScores(ctx, query)
	if err != nil {
		return nil, err
	}

	matches := all[:0]
	for _, c := range all {
		if c.keyword > 0 {
			c.final = c.keyword
			matches = append(matches, c)
		}
	}
	sortByFinal(matches)
	return matches, nil
}

// keywordScores scores every stored note, including non-matching ones.
func (r *Ranker) keywordScores(ctx context.Context, query string) ([]scored, error) {
	var out []scored
	err := r.notes.Scan(ctx, func(n storage.Note) error {
		out = append(out, scored{note: n, keyword: KeywordScore(query, n.Title, n.Content)})
		return nil
	})
	if err != nil {
		return nil, searchErr(err)
	}
	return out, nil
}

// semantic ranks every indexed note by its best chunk similarity.
func (r *Ranker) semantic(ctx context.Context, query string) ([]scored, error) {
	byNote, order, err := r.semanticScores(ctx, query)
	if err != nil {
		return nil, err
	}

	out := make([]scored, 0, len(order))
	for _, id := range order {
		note, err := r.notes.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted after its chunks were scored
			continue
		}
		if err != nil {
			return nil, searchErr(err)
		}
		c := byNote[id]
		c.note = *note
		c.final = c.semantic
		out = append(out, *c)
	}
	sortByFinal(out)
	return out, nil
}

// semanticScores embeds the query and aggregates chunk similarities per
// note. order lists note IDs by first (best) appearance.
func (r *Ranker) semanticScores(ctx context.Context, query string) (map[string]*scored, []string, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, fmt.Errorf("%w: failed to embed query: %v", service.ErrExternalService, err)
	}

	matches, err := r.searcher.Search(ctx, vec, 0)
	if err != nil {
		return nil, nil, searchErr(err)
	}

	byNote := make(map[string]*scored)
	var order []string
	for _, m := range matches {
		c, ok := byNote[m.NoteID]
		if !ok {
			c = &scored{semantic: m.Score}
			byNote[m.NoteID] = c
			order = append(order, m.NoteID)
		}
		if m.Score > c.semantic {
			c.semantic = m.Score
		}
		if len(c.chunks) < matchedChunksPerNote {
			c.chunks = append(c.chunks, m.Text)
		}
	}
	return byNote, order, nil
}

// hybrid blends keyword and semantic scores computed concurrently. Only
// indexed notes take part; a note without chunks is reachable by keyword
// search alone.
func (r *Ranker) hybrid(ctx context.Context, query string) ([]scored, error) {
	var (
		keyword []scored
		byNote  map[string]*scored
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		keyword, err = r.keywordScores(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		byNote, _, err = r.semanticScores(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]scored, 0, len(keyword))
	for _, c := range keyword {
		sem, indexed := byNote[c.note.ID]
		if !indexed {
			continue
		}
		c.semantic = sem.semantic
		c.chunks = sem.chunks
		c.final = r.weights.Keyword*c.keyword + r.weights.Semantic*c.semantic
		out = append(out, c)
	}
	sortByFinal(out)
	return out, nil
}

func sortByFinal(candidates []scored) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].final > candidates[j].final
	})
}

// searchErr keeps deadline errors recognisable and wraps store failures.
func searchErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return &service.StorageError{Op: "search", Err: err}
}
