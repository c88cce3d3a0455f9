package session

import (
	"context"
	"sync"
	"time"

	"github.com/AlexZinkM/multi-wallet/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ProfileFetcher loads the profile of a wallet address
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, address string) (*model.Profile, error)
}

// ProfileSync fetches missing profile fields at most once per address,
// after a debounce delay so bursts of requests collapse into one fetch.
type ProfileSync struct {
	fetcher ProfileFetcher
	store   *Store
	delay   time.Duration
	timeout time.Duration
	logger  *zap.Logger

	group     singleflight.Group
	mu        sync.Mutex
	scheduled map[string]*time.Timer
	done      map[string]bool
}

// NewProfileSync creates a profile synchronizer writing into store
func NewProfileSync(fetcher ProfileFetcher, store *Store, delay time.Duration, logger *zap.Logger) *ProfileSync {
	return &ProfileSync{
		fetcher:   fetcher,
		store:     store,
		delay:     delay,
		timeout:   10 * time.Second,
		logger:    logger.Named("profile"),
		scheduled: make(map[string]*time.Timer),
		done:      make(map[string]bool),
	}
}

// Request schedules a fetch for address unless one already ran.
// Repeated calls within the delay push the fetch back.
func (p *ProfileSync) Request(address string) {
	if address == "" || p.fetcher == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done[address] {
		return
	}
	if t, ok := p.scheduled[address]; ok {
		t.Reset(p.delay)
		return
	}
	p.scheduled[address] = time.AfterFunc(p.delay, func() { p.run(address) })
}

// Refresh fetches the profile now. Concurrent calls for one address share a fetch.
func (p *ProfileSync) Refresh(ctx context.Context, address string) (*model.Profile, error) {
	v, err, _ := p.group.Do(address, func() (any, error) {
		profile, err := p.fetcher.FetchProfile(ctx, address)
		if err != nil {
			return nil, err
		}
		p.store.Dispatch(ctx, ProfileFetched{
			Address:       address,
			Username:      profile.Username,
			ProfilePicURL: profile.ProfilePicURL,
		})
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Profile), nil
}

// Stop cancels pending fetches
func (p *ProfileSync) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for address, t := range p.scheduled {
		t.Stop()
		delete(p.scheduled, address)
	}
}

func (p *ProfileSync) run(address string) {
	p.mu.Lock()
	delete(p.scheduled, address)
	if p.done[address] {
		p.mu.Unlock()
		return
	}
	p.done[address] = true
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if _, err := p.Refresh(ctx, address); err != nil {
		// best effort: the profile is display-only
		p.logger.Warn("profile fetch failed", zap.String("address", address), zap.Error(err))
	}
}
