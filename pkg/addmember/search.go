package addmember

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/scheduler"
)

// SearchDebounce is the quiet period before a query reaches the provider.
const SearchDebounce = 200 * time.Millisecond

// SearchProvider looks up profiles by free text. Ordering is up to the
// provider.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]Profile, error)
}

// SearchFunc adapts a function to [SearchProvider].
type SearchFunc func(ctx context.Context, query string) ([]Profile, error)

// Search implements [SearchProvider].
func (f SearchFunc) Search(ctx context.Context, query string) ([]Profile, error) {
	return f(ctx, query)
}

// ResultsFunc receives the results of the latest query.
type ResultsFunc func(query string, results []Profile)

// Searcher debounces queries and forwards only the latest one to the
// provider. Provider errors are reported as an empty result set.
type Searcher struct {
	provider  SearchProvider
	onResults ResultsFunc
	sched     *scheduler.Scheduler
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc

	mu      sync.Mutex
	query   string
	results []Profile
}

type searchSettings struct {
	clock  scheduler.Clock
	logger *log.Logger
}

// SearchOption configures a [Searcher].
type SearchOption func(*searchSettings)

// WithClock replaces the debounce clock.
func WithClock(c scheduler.Clock) SearchOption { return func(s *searchSettings) { s.clock = c } }

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) SearchOption { return func(s *searchSettings) { s.logger = l } }

// NewSearcher creates a searcher over p. onResults may be nil.
func NewSearcher(p SearchProvider, onResults ResultsFunc, opts ...SearchOption) *Searcher {
	st := searchSettings{}
	for _, opt := range opts {
		opt(&st)
	}
	if st.clock == nil {
		st.clock = scheduler.NewTimerClock(SearchDebounce)
	}
	if st.logger == nil {
		st.logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Searcher{
		provider:  p,
		onResults: onResults,
		logger:    st.logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.sched = scheduler.New(st.clock, s.run, scheduler.WithLogger(st.logger))
	return s
}

// Query records q and schedules a search.
func (s *Searcher) Query(q string) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
	s.sched.Schedule(scheduler.TriggerQuery)
}

// Results returns the results of the last completed search.
func (s *Searcher) Results() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Profile(nil), s.results...)
}

// Close cancels any pending or running search.
func (s *Searcher) Close() {
	s.cancel()
	s.sched.Close()
}

func (s *Searcher) run(scheduler.Trigger) {
	s.mu.Lock()
	q := strings.TrimSpace(s.query)
	s.mu.Unlock()

	var results []Profile
	if q != "" {
		var err error
		results, err = s.provider.Search(s.ctx, q)
		if err != nil {
			s.logger.Debug("search failed", "query", q, "err", err)
			results = nil
		}
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()
	if s.onResults != nil {
		s.onResults(q, results)
	}
}

// Directory is an in-memory [SearchProvider] matching names by
// case-insensitive substring.
type Directory struct {
	profiles []Profile
	limit    int
}

// DefaultSearchLimit caps directory results.
const DefaultSearchLimit = 10

// NewDirectory returns a directory over profiles.
func NewDirectory(profiles ...Profile) *Directory {
	return &Directory{profiles: profiles, limit: DefaultSearchLimit}
}

// LoadDirectory reads a JSON array of profiles.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "directory file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read directory %s", path)
	}
	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse directory %s", path)
	}
	return NewDirectory(profiles...), nil
}

// Len returns the number of profiles.
func (d *Directory) Len() int { return len(d.profiles) }

// Search implements [SearchProvider].
func (d *Directory) Search(ctx context.Context, query string) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Profile
	for _, p := range d.profiles {
		if q == "" || !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
		if d.limit > 0 && len(out) == d.limit {
			break
		}
	}
	return out, nil
}
