package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rappelscan/backend/internal/domain"
)

// WatchConfig holds configuration for the favorites watch loop
type WatchConfig struct {
	Concurrency int // Favorites checked in parallel
	FeedLimit   int // Records requested per feed query
}

// WatchService checks saved favorites against the recall feed and keeps the alerts
// of the latest cycle in memory.
type WatchService struct {
	feed        domain.RecallFeed
	store       domain.FavoriteStore
	log         logrus.FieldLogger
	concurrency int
	feedLimit   int

	mu     sync.RWMutex
	alerts []domain.Alert
}

// NewWatchService creates a watch service. store is only read.
func NewWatchService(feed domain.RecallFeed, store domain.FavoriteStore, logger logrus.FieldLogger, config WatchConfig) *WatchService {
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	limit := config.FeedLimit
	if limit <= 0 {
		limit = 20
	}
	return &WatchService{
		feed:        feed,
		store:       store,
		log:         logger.WithField("component", "watch"),
		concurrency: concurrency,
		feedLimit:   limit,
		alerts:      []domain.Alert{},
	}
}

// CheckAll checks every favorite independently and returns one result per favorite,
// in input order. A failed lookup is reported in that favorite's result and never
// affects the others.
func (s *WatchService) CheckAll(ctx context.Context, favorites []domain.Favorite) []domain.FavoriteCheck {
	checks := make([]domain.FavoriteCheck, len(favorites))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, fav := range favorites {
		g.Go(func() error {
			checks[i] = s.checkFavorite(ctx, fav)
			return nil
		})
	}
	_ = g.Wait()

	return checks
}

// checkFavorite runs the exact barcode lookup, then the text lookup when needed
func (s *WatchService) checkFavorite(ctx context.Context, fav domain.Favorite) domain.FavoriteCheck {
	check := domain.FavoriteCheck{Favorite: fav}
	if !fav.HasIdentity() {
		check.Skipped = true
		return check
	}
	log := s.log.WithField("favorite_id", fav.ID)

	var exact []domain.RecallRecord
	var exactErr error
	if barcode := strings.TrimSpace(fav.Barcode); barcode != "" {
		exact, exactErr = s.feed.ByGTIN(ctx, barcode, s.feedLimit)
		if exactErr != nil {
			log.WithError(exactErr).Warn("Barcode lookup failed")
		}
		if len(exact) > 0 {
			check.Recalls = MatchFavorite(fav, exact, nil)
			return check
		}
	}

	phrase := SearchPhrase(fav)
	if phrase == "" {
		check.Err = exactErr
		return check
	}

	text, err := s.feed.Search(ctx, phrase, s.feedLimit)
	if err != nil {
		log.WithError(err).WithField("phrase", phrase).Warn("Text lookup failed")
		check.Err = errors.Join(exactErr, err)
		return check
	}

	check.Recalls = MatchFavorite(fav, exact, text)
	return check
}

// AlertsFrom collects the alerts of matched checks
func AlertsFrom(checks []domain.FavoriteCheck) []domain.Alert {
	alerts := []domain.Alert{}
	for _, c := range checks {
		if c.Matched() {
			alerts = append(alerts, c.Alert())
		}
	}
	return alerts
}

// Refresh lists the favorites, checks them all and replaces the current alerts.
// If the favorites cannot be listed, the current alerts are kept.
func (s *WatchService) Refresh(ctx context.Context) ([]domain.Alert, error) {
	favorites, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	started := time.Now()
	checks := s.CheckAll(ctx, favorites)
	alerts := AlertsFrom(checks)

	var failed, skipped int
	for _, c := range checks {
		switch {
		case c.Skipped:
			skipped++
		case c.Err != nil:
			failed++
		}
	}
	s.log.WithFields(logrus.Fields{
		"favorites": len(favorites),
		"alerts":    len(alerts),
		"failed":    failed,
		"skipped":   skipped,
		"duration":  time.Since(started).String(),
	}).Info("Watch cycle completed")

	s.mu.Lock()
	s.alerts = alerts
	s.mu.Unlock()

	return s.Alerts(), nil
}

// Alerts returns a copy of the current alerts
func (s *WatchService) Alerts() []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Dismiss removes the alert for favoriteID from the current set.
// Nothing is persisted: the next Refresh raises it again if the recall is still live.
func (s *WatchService) Dismiss(favoriteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.Alert, 0, len(s.alerts))
	removed := false
	for _, a := range s.alerts {
		if a.FavoriteID == favoriteID {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	s.alerts = kept
	return removed
}

// Run refreshes immediately and then on every tick until ctx is cancelled
func (s *WatchService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Refresh(ctx); err != nil {
			s.log.WithError(err).Error("Watch cycle failed")
		}
		select {
		case <-ctx.Done():
			s.log.Info("Stopping watch loop")
			return
		case <-ticker.C:
		}
	}
}
