package snippets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnsupportedScheme is returned for URIs no fetcher handles.
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
	// ErrLoaderClosed is delivered to loads requested after Close.
	ErrLoaderClosed = errors.New("loader closed")
)

// ImageSource fetches images asynchronously. done runs at most once and
// never after the returned subscription is disposed.
type ImageSource interface {
	Load(uri string, done func(*ebiten.Image, error)) *Subscription
}

// Dispatcher runs fn on the thread that owns the scene. *Scene implements it.
type Dispatcher interface {
	Post(fn func())
}

// Fetcher opens the raw bytes behind a URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) (io.ReadCloser, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	return f(ctx, uri)
}

// FileFetcher reads "file://" URIs and bare paths from fsys.
func FileFetcher(fsys fs.FS) Fetcher {
	return FetcherFunc(func(_ context.Context, uri string) (io.ReadCloser, error) {
		name := strings.TrimPrefix(uri, "file://")
		name = strings.TrimPrefix(path.Clean("/"+name), "/")
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", uri, err)
		}
		return f, nil
	})
}

// HTTPFetcher fetches "http" and "https" URIs with client. A nil client
// uses http.DefaultClient.
func HTTPFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return FetcherFunc(func(ctx context.Context, uri string) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", uri, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", uri, err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", uri, resp.Status)
		}
		return resp.Body, nil
	})
}

// DefaultFetcher routes http and https URIs to an HTTPFetcher and file URIs
// or bare paths to a FileFetcher over fsys. Other schemes fail with
// ErrUnsupportedScheme.
func DefaultFetcher(fsys fs.FS, client *http.Client) Fetcher {
	files := FileFetcher(fsys)
	web := HTTPFetcher(client)
	return FetcherFunc(func(ctx context.Context, uri string) (io.ReadCloser, error) {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", uri, err)
		}
		switch u.Scheme {
		case "http", "https":
			return web.Fetch(ctx, uri)
		case "", "file":
			return files.Fetch(ctx, uri)
		default:
			return nil, fmt.Errorf("fetch %s: %w %q", uri, ErrUnsupportedScheme, u.Scheme)
		}
	})
}

// LoaderOptions configures a Loader. Zero values pick defaults.
type LoaderOptions struct {
	// Fetcher defaults to DefaultFetcher over the working directory and
	// http.DefaultClient.
	Fetcher Fetcher
	// Dispatcher receives completions. Nil runs done on the fetch goroutine.
	Dispatcher Dispatcher
	Logger     zerolog.Logger
	// NoCache disables keeping decoded images between loads.
	NoCache bool
}

// Loader fetches and decodes images on background goroutines. Concurrent
// loads of the same URI share one fetch, and decoded images are cached.
type Loader struct {
	fetcher  Fetcher
	dispatch Dispatcher
	log      zerolog.Logger
	noCache  bool

	group singleflight.Group

	mu     sync.Mutex
	cache  map[string]*ebiten.Image
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type inlineDispatcher struct{}

func (inlineDispatcher) Post(fn func()) { fn() }

// NewLoader creates a loader.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Fetcher == nil {
		opts.Fetcher = DefaultFetcher(os.DirFS("."), nil)
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = inlineDispatcher{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		fetcher:  opts.Fetcher,
		dispatch: opts.Dispatcher,
		log:      opts.Logger.With().Str("component", "loader").Logger(),
		noCache:  opts.NoCache,
		cache:    make(map[string]*ebiten.Image),
		ctx:      ctx,
		cancel:   cancel,
	}
}

type loadRequest struct {
	done      func(*ebiten.Image, error)
	cancelled atomic.Bool
}

func (r *loadRequest) finish(img *ebiten.Image, err error) {
	if r.cancelled.Swap(true) {
		return
	}
	r.done(img, err)
}

// Load fetches uri in the background and hands the result to done through
// the dispatcher. Disposing the subscription abandons the result; the fetch
// itself keeps running so other waiters and the cache still benefit.
func (l *Loader) Load(uri string, done func(*ebiten.Image, error)) *Subscription {
	req := &loadRequest{done: done}
	sub := NewSubscription(func() { req.cancelled.Store(true) })

	l.mu.Lock()
	closed := l.closed
	cached := l.cache[uri]
	if !closed && cached == nil {
		l.wg.Add(1)
	}
	l.mu.Unlock()

	switch {
	case closed:
		l.dispatch.Post(func() { req.finish(nil, fmt.Errorf("load %s: %w", uri, ErrLoaderClosed)) })
	case cached != nil:
		l.dispatch.Post(func() { req.finish(cached, nil) })
	default:
		go func() {
			defer l.wg.Done()
			img, err := l.fetch(uri)
			l.dispatch.Post(func() { req.finish(img, err) })
		}()
	}
	return sub
}

// fetch returns the decoded image for uri, sharing work with concurrent
// callers asking for the same URI.
func (l *Loader) fetch(uri string) (*ebiten.Image, error) {
	v, err, shared := l.group.Do(uri, func() (any, error) {
		rc, err := l.fetcher.Fetch(l.ctx, uri)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		src, format, err := image.Decode(rc)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", uri, err)
		}
		img := ebiten.NewImageFromImage(src)
		if !l.noCache {
			l.mu.Lock()
			l.cache[uri] = img
			l.mu.Unlock()
		}
		b := src.Bounds()
		l.log.Debug().Str("uri", uri).Str("format", format).
			Int("width", b.Dx()).Int("height", b.Dy()).Msg("image decoded")
		return img, nil
	})
	if err != nil {
		l.log.Warn().Err(err).Str("uri", uri).Msg("image load failed")
		return nil, err
	}
	if shared {
		l.log.Debug().Str("uri", uri).Msg("image fetch shared")
	}
	return v.(*ebiten.Image), nil
}

// Cached reports whether a decoded image for uri is cached.
func (l *Loader) Cached(uri string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache[uri] != nil
}

// Evict drops uri from the cache so the next Load fetches it again.
func (l *Loader) Evict(uri string) {
	l.mu.Lock()
	delete(l.cache, uri)
	l.mu.Unlock()
}

// Close cancels in-flight fetches and waits for the loader's goroutines to
// exit. Later loads fail with ErrLoaderClosed. Safe to call more than once.
func (l *Loader) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.cancel()
	l.wg.Wait()
	return nil
}
