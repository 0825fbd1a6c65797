// Package browser maintains shared headless Chrome state for scrapers that
// need JavaScript rendering. One browser process runs per channel; pages are
// reused per (channel, domain) so a retailer keeps its cookies across
// requests.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Channel selects which Chrome binary backs a page.
type Channel string

const (
	// ChannelManaged uses the browser rod downloads and manages itself.
	ChannelManaged Channel = "managed"
	// ChannelSystem uses the Chrome installed on the host.
	ChannelSystem Channel = "system"
)

type pageEntry struct {
	mu   sync.Mutex
	page *rod.Page
}

// Pool owns the browsers and their per-domain pages.
type Pool struct {
	mu       sync.RWMutex
	browsers map[Channel]*rod.Browser
	pages    map[string]*pageEntry
	group    singleflight.Group
	timeout  time.Duration
	logger   *zap.Logger
}

// NewPool builds an empty pool. Browsers launch lazily on first use.
func NewPool(timeout time.Duration, logger *zap.Logger) *Pool {
	return &Pool{
		browsers: make(map[Channel]*rod.Browser),
		pages:    make(map[string]*pageEntry),
		timeout:  timeout,
		logger:   logger,
	}
}

// FetchHTML renders a URL in the channel's browser and returns the page
// HTML after the load event.
func (p *Pool) FetchHTML(ctx context.Context, channel Channel, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid url %q", rawURL)
	}

	entry, err := p.page(ctx, channel, u.Host)
	if err != nil {
		return "", err
	}

	// One navigation at a time per page; concurrent same-domain fetches
	// would otherwise race on the shared tab.
	entry.mu.Lock()
	defer entry.mu.Unlock()

	bound := entry.page.Context(ctx).Timeout(p.timeout)
	if err := bound.Navigate(rawURL); err != nil {
		return "", fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	if err := bound.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", rawURL, err)
	}
	return bound.HTML()
}

// page returns the entry for (channel, domain), creating it once even under
// concurrent first use.
func (p *Pool) page(ctx context.Context, channel Channel, domain string) (*pageEntry, error) {
	key := string(channel) + "|" + domain

	p.mu.RLock()
	entry, ok := p.pages[key]
	p.mu.RUnlock()
	if ok {
		return entry, nil
	}

	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		p.mu.RLock()
		entry, ok := p.pages[key]
		p.mu.RUnlock()
		if ok {
			return entry, nil
		}

		b, err := p.browser(ctx, channel)
		if err != nil {
			return nil, err
		}
		incognito, err := b.Incognito()
		if err != nil {
			return nil, fmt.Errorf("incognito context: %w", err)
		}
		page, err := incognito.Page(proto.TargetCreateTarget{})
		if err != nil {
			return nil, fmt.Errorf("create page: %w", err)
		}

		entry = &pageEntry{page: page}
		p.mu.Lock()
		p.pages[key] = entry
		p.mu.Unlock()

		p.logger.Debug("Browser context created",
			zap.String("channel", string(channel)),
			zap.String("domain", domain))
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*pageEntry), nil
}

// browser returns the channel's browser, launching or relaunching as needed.
func (p *Pool) browser(ctx context.Context, channel Channel) (*rod.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if b := p.browsers[channel]; b != nil {
		if _, err := b.Version(); err == nil {
			return b, nil
		}
		p.logger.Warn("Stale browser connection, relaunching",
			zap.String("channel", string(channel)))
		_ = b.Close()
		delete(p.browsers, channel)
		p.dropPagesLocked(channel)
	}

	controlURL, err := launchChannel(channel)
	if err != nil {
		return nil, err
	}

	// Browsers outlive any single fetch, so they do not take the caller's
	// context; pages bind it per navigation.
	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	p.browsers[channel] = b

	p.logger.Info("Browser launched", zap.String("channel", string(channel)))
	return b, nil
}

func launchChannel(channel Channel) (string, error) {
	if channel == ChannelSystem {
		bin, ok := launcher.LookPath()
		if !ok {
			return "", errors.New("no system chrome found")
		}
		return launcher.New().Bin(bin).Headless(true).Launch()
	}
	return launcher.New().Headless(true).Launch()
}

func (p *Pool) dropPagesLocked(channel Channel) {
	prefix := string(channel) + "|"
	for key := range p.pages {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(p.pages, key)
		}
	}
}

// Shutdown closes every page and browser. Close failures are logged and
// otherwise ignored.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, entry := range p.pages {
		if err := entry.page.Close(); err != nil {
			p.logger.Debug("Page close failed", zap.String("context", key), zap.Error(err))
		}
		delete(p.pages, key)
	}
	for channel, b := range p.browsers {
		if err := b.Close(); err != nil {
			p.logger.Debug("Browser close failed", zap.String("channel", string(channel)), zap.Error(err))
		}
		delete(p.browsers, channel)
	}
}
