package covers

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"io"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/phanxgames/drift"
)

// Config tunes a Loader. Zero fields take defaults.
type Config struct {
	// MaxBytes bounds the decoded pixel memory kept in the cache.
	MaxBytes int64

	// Concurrency limits parallel fetches during Preload and background
	// loads started by Peek.
	Concurrency int

	Logger logrus.FieldLogger
}

const (
	defaultMaxBytes    = 256 << 20
	defaultConcurrency = 4
	defaultMaxPinned   = 16
)

// ErrNotCached is recorded for a cover the cache refused to admit once the
// pinned overflow is full. Peek stops refetching it until Retry.
var ErrNotCached = errors.New("covers: not admitted to cache")

// Loader fetches covers once, decodes them, and keeps the results in a
// cost-bounded cache. It is safe for concurrent use.
type Loader struct {
	fetcher Fetcher
	cache   *ristretto.Cache[string, image.Image]
	group   singleflight.Group
	log     logrus.FieldLogger
	sem     chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[drift.ImageID]struct{}
	failed  map[drift.ImageID]error

	// pinned holds covers the cache rejected, up to maxPinned.
	pinned    map[drift.ImageID]image.Image
	maxPinned int
}

// NewLoader creates a loader reading through f.
func NewLoader(f Fetcher, cfg Config) (*Loader, error) {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	cache, err := ristretto.NewCache[string, image.Image](&ristretto.Config[string, image.Image]{
		NumCounters: 10000,
		MaxCost:     cfg.MaxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("covers: cache: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		fetcher: f,
		cache:   cache,
		log:     log,
		sem:     make(chan struct{}, cfg.Concurrency),
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[drift.ImageID]struct{}),
		failed:  make(map[drift.ImageID]error),

		pinned:    make(map[drift.ImageID]image.Image),
		maxPinned: defaultMaxPinned,
	}, nil
}

// Get returns the decoded cover, fetching it if needed. Concurrent calls
// for the same id share one fetch.
func (l *Loader) Get(ctx context.Context, id drift.ImageID) (image.Image, error) {
	if img, ok := l.lookup(id); ok {
		return img, nil
	}
	v, err, _ := l.group.Do(string(id), func() (any, error) {
		if img, ok := l.lookup(id); ok {
			return img, nil
		}
		img, err := l.load(ctx, id)
		if err != nil {
			return nil, err
		}
		l.store(id, img)
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

func (l *Loader) lookup(id drift.ImageID) (image.Image, bool) {
	if img, ok := l.cache.Get(string(id)); ok {
		return img, true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.pinned[id]
	return img, ok
}

// store caches img. A cover the cache drops or refuses is pinned instead,
// or marked ErrNotCached when the pinned set is full.
func (l *Loader) store(id drift.ImageID, img image.Image) {
	key := string(id)
	if l.cache.Set(key, img, imageCost(img)) {
		l.cache.Wait()
		if _, ok := l.cache.Get(key); ok {
			return
		}
	}
	fields := logrus.Fields{"cover": key, "cost": imageCost(img)}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pinned) < l.maxPinned {
		l.pinned[id] = img
		l.log.WithFields(fields).Debug("cover rejected by cache, pinned")
		return
	}
	l.failed[id] = fmt.Errorf("%w: %s", ErrNotCached, id)
	l.log.WithFields(fields).Warn("cover rejected by cache")
}

func (l *Loader) load(ctx context.Context, id drift.ImageID) (image.Image, error) {
	rc, err := l.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, format, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("covers: %s: %w", id, err)
	}
	l.log.WithFields(logrus.Fields{
		"cover":  string(id),
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("cover decoded")
	return img, nil
}

// Peek returns a cached cover without blocking. On a miss it starts a
// background load unless one is running or a previous attempt failed.
func (l *Loader) Peek(id drift.ImageID) (image.Image, bool) {
	if img, ok := l.lookup(id); ok {
		return img, true
	}
	l.mu.Lock()
	_, busy := l.pending[id]
	_, failed := l.failed[id]
	if busy || failed || l.ctx.Err() != nil {
		l.mu.Unlock()
		return nil, false
	}
	l.pending[id] = struct{}{}
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		err := l.withSlot(l.ctx, func() error {
			_, err := l.Get(l.ctx, id)
			return err
		})

		l.mu.Lock()
		delete(l.pending, id)
		if err != nil && l.ctx.Err() == nil {
			l.failed[id] = err
		}
		l.mu.Unlock()
		if err != nil && l.ctx.Err() == nil {
			l.log.WithError(err).WithField("cover", string(id)).Warn("cover load failed")
		}
	}()
	return nil, false
}

// Err returns the error from a failed background load of id, if any.
func (l *Loader) Err(id drift.ImageID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failed[id]
}

// Retry forgets a failed background load so the next Peek tries again.
func (l *Loader) Retry(id drift.ImageID) {
	l.mu.Lock()
	delete(l.failed, id)
	l.mu.Unlock()
}

// Preload fetches every id with bounded parallelism and returns the first
// error. Covers that load before a failure stay cached.
func (l *Loader) Preload(ctx context.Context, ids []drift.ImageID) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cap(l.sem))
	for _, id := range ids {
		eg.Go(func() error {
			_, err := l.Get(ctx, id)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("covers: preload: %w", err)
	}
	return nil
}

// Close stops background loads, waits for them, and releases the cache.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
	l.cache.Close()
	l.mu.Lock()
	clear(l.pinned)
	l.mu.Unlock()
}

func (l *Loader) withSlot(ctx context.Context, fn func() error) error {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()
	return fn()
}

// Decode decodes a PNG, JPEG or WebP image, returning the format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	return img, format, nil
}

// imageCost estimates decoded memory as four bytes per pixel.
func imageCost(img image.Image) int64 {
	b := img.Bounds()
	return int64(max(b.Dx(), 1)) * int64(max(b.Dy(), 1)) * 4
}
