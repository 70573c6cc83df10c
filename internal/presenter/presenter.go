// Package presenter turns projection series into chart descriptions and renders
// them onto the mount points of a page.
package presenter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ChartRenderer draws a description as an encoded image.
type ChartRenderer interface {
	Render(d Description, f Format) ([]byte, error)
}

// Keyed renderers name their output settings, e.g. "go-chart:1024x512", so
// images drawn with other settings get other cache keys.
type Keyed interface {
	Key() string
}

// SnapshotStore persists rendered images between runs.
type SnapshotStore interface {
	LoadSnapshot(key string) ([]byte, error)
	SaveSnapshot(key string, f Format, img []byte) error
}

// Presenter renders descriptions onto pages.
type Presenter struct {
	scenario   ChartRenderer
	comparison ChartRenderer
	cache      *Cache
	store      SnapshotStore
	log        logrus.FieldLogger
}

// Option customizes a Presenter.
type Option func(*Presenter)

func WithScenarioRenderer(r ChartRenderer) Option   { return func(p *Presenter) { p.scenario = r } }
func WithComparisonRenderer(r ChartRenderer) Option { return func(p *Presenter) { p.comparison = r } }
func WithCache(c *Cache) Option                     { return func(p *Presenter) { p.cache = c } }
func WithStore(s SnapshotStore) Option              { return func(p *Presenter) { p.store = s } }

// New builds a Presenter with the go-chart scenario renderer, the go-charts
// comparison renderer and a DefaultCacheTTL cache.
func New(log logrus.FieldLogger, opts ...Option) *Presenter {
	p := &Presenter{
		scenario:   NewRenderer(DefaultWidth, DefaultHeight),
		comparison: NewComparisonRenderer(DefaultWidth, DefaultHeight),
		cache:      NewCache(DefaultCacheTTL),
		log:        log,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Present renders d into the page's mount. A page without that mount is left
// untouched and no error is returned; renderer errors are returned as is.
func (p *Presenter) Present(page *Page, mount string, d Description) error {
	if page == nil || !page.HasMount(mount) {
		p.log.WithField("mount", mount).Debug("presenter: mount absent, chart skipped")
		return nil
	}
	r := p.scenario
	if d.Comparison {
		r = p.comparison
	}
	key, err := cacheKey(page, mount, r, d)
	if err != nil {
		return err
	}
	img, err := p.image(key, r, d, page.Format)
	if err != nil {
		return err
	}
	page.attach(&Chart{Mount: mount, Description: d, Image: img, Format: page.Format})
	p.log.WithFields(logrus.Fields{"page": page.ID, "mount": mount, "bytes": len(img)}).Debug("presenter: chart mounted")
	return nil
}

func (p *Presenter) image(key string, r ChartRenderer, d Description, f Format) ([]byte, error) {
	if img, ok := p.cache.Get(key); ok {
		return img, nil
	}
	if p.store != nil {
		img, err := p.store.LoadSnapshot(key)
		if err == nil {
			p.cache.Set(key, img)
			return img, nil
		}
		if !errors.Is(err, ErrSnapshotMissing) {
			p.log.WithError(err).WithField("key", key).Warn("presenter: snapshot lookup failed")
		}
	}

	img, err := r.Render(d, f)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, img)
	if p.store != nil {
		if err := p.store.SaveSnapshot(key, f, img); err != nil {
			p.log.WithError(err).WithField("key", key).Warn("presenter: snapshot save failed")
		}
	}
	return img, nil
}

// ErrSnapshotMissing is what a SnapshotStore returns for unknown keys.
var ErrSnapshotMissing = errors.New("snapshot not found")

func cacheKey(page *Page, mount string, r ChartRenderer, d Description) (string, error) {
	fp, err := d.Fingerprint()
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", mount, err)
	}
	if k, ok := r.(Keyed); ok {
		fp = append(fp, k.Key()...)
	}
	sum := sha256.Sum256(fp)
	return page.ID + "|" + mount + "|" + string(page.Format) + "|" + hex.EncodeToString(sum[:8]), nil
}
