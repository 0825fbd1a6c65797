package pipeline

import (
	"fmt"
	"time"

	"github.com/ryanrhee/snowboard-db-sub000/internal/scrape"
	"github.com/ryanrhee/snowboard-db-sub000/internal/store"
)

// RetailerStatus is cache coverage for one retailer's host.
type RetailerStatus struct {
	Name         string     `json:"name"`
	Host         string     `json:"host"`
	CachedPages  int        `json:"cachedPages"`
	ExpiredPages int        `json:"expiredPages"`
	NewestFetch  *time.Time `json:"newestFetch,omitempty"`
}

// StatusReport summarizes HTTP cache coverage per retailer plus what the
// primary store holds.
type StatusReport struct {
	Retailers []RetailerStatus `json:"retailers"`
	Boards    int              `json:"boards"`
	Listings  int              `json:"listings"`
}

// Status reports how much of each retailer is already cached, so an
// operator can judge whether a slow scrape is needed before a run.
func (p *Pipeline) Status() (*StatusReport, error) {
	stats, err := p.cache.HostStats()
	if err != nil {
		return nil, fmt.Errorf("host stats: %w", err)
	}
	byHost := make(map[string]store.HostStat, len(stats))
	for _, st := range stats {
		byHost[st.Host] = st
	}

	report := &StatusReport{}
	for _, rp := range scrape.RetailerPrimePages() {
		rs := RetailerStatus{Name: rp.Retailer, Host: rp.Host}
		if st, ok := byHost[rp.Host]; ok {
			rs.CachedPages = st.Pages
			rs.ExpiredPages = st.Expired
			if !st.NewestFetch.IsZero() {
				t := st.NewestFetch
				rs.NewestFetch = &t
			}
		}
		report.Retailers = append(report.Retailers, rs)
	}

	if report.Boards, err = p.store.CountBoards(); err != nil {
		return nil, fmt.Errorf("count boards: %w", err)
	}
	if report.Listings, err = p.store.CountListings(); err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	return report, nil
}
