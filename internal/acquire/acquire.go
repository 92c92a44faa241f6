// Package acquire fetches raw search results from the upstream providers.
package acquire

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen/internal/model"
	"github.com/sells-group/leadgen/pkg/localbiz"
	"github.com/sells-group/leadgen/pkg/serper"
)

// Provider names recorded on each Fetch.
const (
	ProviderSearch    = "serper"
	ProviderDirectory = "localbiz"
)

// ErrProviderDisabled is recorded when a provider has no client configured.
var ErrProviderDisabled = eris.New("acquire: provider not configured")

// Options holds the fixed request parameters sent to the providers.
type Options struct {
	Language       string // search locale hint
	Country        string // search region hint
	Zoom           int
	DirLanguage    string
	DirRegion      string
	DirLimit       int
	RequestTimeout time.Duration // upper bound per request; 0 leaves the client's own timeout
}

// Acquired holds one outcome per provider.
type Acquired struct {
	Search    model.Fetch
	Directory model.Fetch
}

// Acquirer issues the two read-only provider queries for a search.
type Acquirer struct {
	search    serper.Client
	directory localbiz.Client
	opts      Options
}

// New creates an Acquirer. Either client may be nil, in which case that
// provider always yields an empty result.
func New(search serper.Client, directory localbiz.Client, opts Options) *Acquirer {
	return &Acquirer{search: search, directory: directory, opts: opts}
}

// Acquire queries both providers concurrently and waits for both. It never
// fails: a provider error is recorded on its Fetch and the payload is empty.
func (a *Acquirer) Acquire(ctx context.Context, term string, lat, lng float64) Acquired {
	var out Acquired

	var g errgroup.Group
	g.Go(func() error {
		out.Search = a.run(ctx, ProviderSearch, func(ctx context.Context) (map[string]any, error) {
			if a.search == nil {
				return nil, ErrProviderDisabled
			}
			return a.search.Maps(ctx, serper.MapsRequest{
				Query:     term,
				Language:  a.opts.Language,
				Country:   a.opts.Country,
				Latitude:  lat,
				Longitude: lng,
				Zoom:      a.opts.Zoom,
			})
		})
		return nil
	})
	g.Go(func() error {
		out.Directory = a.run(ctx, ProviderDirectory, func(ctx context.Context) (map[string]any, error) {
			if a.directory == nil {
				return nil, ErrProviderDisabled
			}
			return a.directory.Search(ctx, localbiz.SearchRequest{
				Query:           term,
				Latitude:        lat,
				Longitude:       lng,
				Limit:           a.opts.DirLimit,
				Language:        a.opts.DirLanguage,
				Region:          a.opts.DirRegion,
				ExtractContacts: true,
			})
		})
		return nil
	})
	_ = g.Wait()

	return out
}

func (a *Acquirer) run(ctx context.Context, provider string, fn func(context.Context) (map[string]any, error)) model.Fetch {
	if a.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := fn(ctx)
	f := model.Fetch{
		Provider: provider,
		Duration: time.Since(start),
	}

	log := zap.L().With(zap.String("component", "acquire"), zap.String("provider", provider))
	if err != nil {
		f.Err = err
		f.Result = model.RawResult{}
		if eris.Is(err, ErrProviderDisabled) {
			log.Debug("provider disabled, using empty result")
		} else {
			log.Warn("provider request failed, using empty result",
				zap.Duration("duration", f.Duration),
				zap.Error(err),
			)
		}
		return f
	}

	f.Result = model.RawResult(result)
	log.Debug("provider request complete", zap.Duration("duration", f.Duration))
	return f
}
