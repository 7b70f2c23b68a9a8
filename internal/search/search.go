// Package search implements debounced product search with stale-response
// suppression. Query updates arrive per keystroke; a network call is issued
// only after a quiescence window, and a late response for a superseded query
// is discarded rather than allowed to overwrite newer results.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/haugland/velour/internal/catalog"
)

// DefaultWindow is the quiescence window applied when none is configured.
const DefaultWindow = 500 * time.Millisecond

// Backend performs the external search call.
type Backend interface {
	Search(ctx context.Context, query string) ([]catalog.Product, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, query string) ([]catalog.Product, error)

// Search calls f.
func (f BackendFunc) Search(ctx context.Context, query string) ([]catalog.Product, error) {
	return f(ctx, query)
}

// Result is a delivered display source. Fallback reports that the external
// call failed and the products come from the local title match instead.
type Result struct {
	Query    string
	Products []catalog.Product
	Fallback bool
}

// Config configures a Debouncer.
type Config struct {
	// Backend performs the external search. Required.
	Backend Backend
	// Local returns the full locally-held product collection. It is the
	// source for empty queries and the haystack for the fallback match.
	// Required.
	Local func() []catalog.Product
	// Deliver receives results. Only the result for the most recent query is
	// ever delivered. Required.
	Deliver func(Result)
	// Window is the quiescence window. Defaults to DefaultWindow.
	Window time.Duration
	// Logger logs fallback events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Debouncer coalesces query updates and issues at most one external search
// per quiescence window. Each update invalidates the sequence number of any
// prior in-flight request, so stale responses are ignored; identical
// concurrent queries collapse into a single network call.
type Debouncer struct {
	backend Backend
	local   func() []catalog.Product
	deliver func(Result)
	window  time.Duration
	lg      *zap.Logger

	group singleflight.Group

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer

	// deliverMu serializes deliveries. It is held across the final staleness
	// check and the deliver call, so a result superseded between the two can
	// never land after the newer query's result.
	deliverMu sync.Mutex
}

// NewDebouncer builds a Debouncer from cfg.
func NewDebouncer(cfg Config) *Debouncer {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Debouncer{
		backend: cfg.Backend,
		local:   cfg.Local,
		deliver: cfg.Deliver,
		window:  cfg.Window,
		lg:      cfg.Logger,
	}
}

// Update records a new query value. A blank query cancels any pending search
// and immediately reverts the display source to the full local collection. A
// non-blank query (re)arms the quiescence timer. Surrounding whitespace is not
// significant: a whitespace-only query counts as blank.
func (d *Debouncer) Update(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	d.mu.Lock()
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if query == "" {
		d.mu.Unlock()
		d.deliverLatest(seq, Result{Query: "", Products: d.local()})
		return
	}

	d.timer = time.AfterFunc(d.window, func() {
		d.fire(ctx, seq, query)
	})
	d.mu.Unlock()
}

// Stop cancels any pending search. Results already in flight are suppressed.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire runs the external search for query issued at sequence seq. The
// sequence is checked again after the call returns: if a newer query was
// issued meanwhile, the result is dropped.
func (d *Debouncer) fire(ctx context.Context, seq uint64, query string) {
	if d.stale(seq) {
		return
	}

	v, err, _ := d.group.Do(query, func() (any, error) {
		return d.backend.Search(ctx, query)
	})

	result := Result{Query: query}
	if err != nil {
		// No retry: fall back to a local case-insensitive title match.
		d.lg.Warn("Search failed, using local fallback",
			zap.String("query", query), zap.Error(err))
		result.Products = catalog.MatchTitle(d.local(), query)
		result.Fallback = true
	} else {
		result.Products = v.([]catalog.Product)
	}

	d.deliverLatest(seq, result)
}

// deliverLatest delivers result unless seq has been superseded. The staleness
// check and the delivery happen under one lock, so once a newer update has
// delivered, an older in-flight result can no longer be let through.
func (d *Debouncer) deliverLatest(seq uint64, result Result) {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()
	if d.stale(seq) {
		return
	}
	d.deliver(result)
}

func (d *Debouncer) stale(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seq != d.seq
}
