package browser

import (
	"context"
	"net/http"

	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
)

// Fetcher adapts a pool channel to the fetch.Fetcher interface so scrapers
// can swap between plain HTTP and rendered pages without caring which.
type Fetcher struct {
	pool    *Pool
	channel Channel
}

var _ fetch.Fetcher = (*Fetcher)(nil)

// Fetcher returns a fetch.Fetcher backed by this pool's channel.
func (p *Pool) Fetcher(channel Channel) *Fetcher {
	return &Fetcher{pool: p, channel: channel}
}

// Fetch renders the URL and returns its HTML. Navigation failures surface
// as errors; a rendered page always reads as a 200 text/html result.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*fetch.Result, error) {
	html, err := f.pool.FetchHTML(ctx, f.channel, url)
	if err != nil {
		return nil, err
	}
	return &fetch.Result{
		Body:        []byte(html),
		Status:      http.StatusOK,
		ContentType: "text/html",
	}, nil
}
