// Package poller orchestrates the poll cycle: fetch the current track,
// compare its fingerprint against the last published one, and on change
// patch the document and publish it. One cycle runs to completion before
// the next begins, so no state here needs locking.
package poller

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nowsync/nowsync/internal/document"
	"github.com/nowsync/nowsync/internal/gitrepo"
	"github.com/nowsync/nowsync/internal/track"
)

// Fetcher returns the most recent listening event, or an error when the
// service could not produce one (the poller treats that as "absent").
type Fetcher interface {
	CurrentTrack(ctx context.Context) (*track.Track, error)
}

// Publisher pushes the updated document to the repository.
type Publisher interface {
	Publish(ctx context.Context, file, message string) error
}

// Config is the poller's immutable runtime configuration.
type Config struct {
	// ReadmePath is the document's full filesystem path.
	ReadmePath string
	// ReadmeFile is the repo-relative name handed to the publisher.
	ReadmeFile string
	// Interval is the delay between cycle starts.
	Interval time.Duration
	// Location is the timezone for rendered timestamps.
	Location *time.Location

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

// Poller holds the last-published fingerprint and runs cycles against it.
type Poller struct {
	cfg       Config
	fetcher   Fetcher
	publisher Publisher

	// lastFingerprint advances only after a fully successful publish, so a
	// failed cycle retries the same change on the next tick.
	lastFingerprint string
}

// New creates a poller with immutable config.
func New(cfg Config, fetcher Fetcher, publisher Publisher) (*Poller, error) {
	if cfg.ReadmePath == "" || cfg.ReadmeFile == "" {
		return nil, errors.New("poller: readme path and file required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if fetcher == nil || publisher == nil {
		return nil, errors.New("poller: fetcher and publisher required")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Poller{
		cfg:             cfg,
		fetcher:         fetcher,
		publisher:       publisher,
		lastFingerprint: track.SentinelFingerprint,
	}, nil
}

// LastFingerprint reports the fingerprint of the last published track.
func (p *Poller) LastFingerprint() string {
	return p.lastFingerprint
}

// RunOnce performs exactly one poll cycle and reports whether it completed
// without error (no-op cycles count as success). Every error is contained:
// it is logged, the fingerprint is left unchanged, and the next cycle
// retries; the return value exists so one-shot callers can exit non-zero.
func (p *Poller) RunOnce(ctx context.Context) bool {
	t, err := p.fetcher.CurrentTrack(ctx)
	if err != nil {
		log.Printf("ERROR failed to get track information: %v", err)
		return false
	}

	fp := track.Fingerprint(t)
	if fp == p.lastFingerprint {
		log.Printf("INFO track unchanged, skipping update")
		return true
	}

	if !p.publish(ctx, t) {
		return false
	}
	p.lastFingerprint = fp
	return true
}

// publish patches the document and pushes the change. Returns true only
// when the document reflects the track and every repository step succeeded
// (or nothing needed to be done).
func (p *Poller) publish(ctx context.Context, t *track.Track) bool {
	id := uuid.NewString()
	now := p.cfg.Now().In(p.cfg.Location)

	data, err := os.ReadFile(p.cfg.ReadmePath)
	if err != nil {
		log.Printf("ERROR publish %s: reading document: %v", id, err)
		return false
	}

	res := document.Patch(string(data), document.Render(t, now))
	if res.ExtraRegions > 0 {
		log.Printf("WARN publish %s: document has %d extra now-playing regions; replaced the first only", id, res.ExtraRegions)
	}
	if !res.Changed {
		// Document already shows this track; nothing to write or commit.
		log.Printf("INFO publish %s: no changes detected, skipping update", id)
		return true
	}

	if err := os.WriteFile(p.cfg.ReadmePath, []byte(res.Text), 0644); err != nil {
		log.Printf("ERROR publish %s: writing document: %v", id, err)
		return false
	}

	if err := p.publisher.Publish(ctx, p.cfg.ReadmeFile, gitrepo.CommitMessage(now)); err != nil {
		log.Printf("ERROR publish %s: %v", id, err)
		return false
	}

	log.Printf("INFO publish %s: repository updated with amended now-playing information (%s - %s)", id, t.Name, t.Artist)
	return true
}

// Run executes a cycle immediately, then on every interval tick until ctx
// is canceled. Cycles never overlap.
func (p *Poller) Run(ctx context.Context) error {
	p.RunOnce(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}
