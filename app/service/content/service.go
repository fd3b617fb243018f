package content

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"salescoach/app/util/errkind"

	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	fetchTimeout = 3 * time.Second
	snapshotTTL  = 5 * time.Minute
	snapshotKey  = "snapshot"
)

// Source is the read-only content store the library pulls snapshots from.
type Source interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Service hands out validated content snapshots with a TTL cache. A fetch that
// times out or fails falls back to the last good snapshot; it is a hard error
// only when there is nothing cached at all.
type Service struct {
	source   Source
	cache    *cache.Cache
	validate *validator.Validate

	mu       sync.RWMutex
	lastGood *Snapshot
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		source:   do.MustInvoke[Source](di),
		cache:    cache.New(snapshotTTL, snapshotTTL),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if cached, ok := s.cache.Get(snapshotKey); ok {
		return cached.(*Snapshot), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	snap, err := s.source.LoadSnapshot(fetchCtx)
	if err == nil {
		if err = s.Validate(snap); err != nil {
			return nil, err
		}

		s.cache.SetDefault(snapshotKey, snap)

		s.mu.Lock()
		s.lastGood = snap
		s.mu.Unlock()

		return snap, nil
	}

	s.mu.RLock()
	stale := s.lastGood
	s.mu.RUnlock()

	if stale != nil {
		slog.Warn("Content fetch failed, serving stale snapshot", "error", err)
		return stale, nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return nil, oops.Code(errkind.Timeout).Errorf("content fetch timed out with empty cache: %w", err)
	}

	return nil, oops.Code(errkind.Upstream).Errorf("failed to load content snapshot: %w", err)
}

// Validate checks every pattern mapping at load time. An offer pattern must
// resolve to an offer (or at least one offer must exist for the documented
// first-offer fallback); a battlecard pattern with an unknown competitor is
// fine only if a default card exists to fall back to.
func (s *Service) Validate(snap *Snapshot) error {
	for i := range snap.TriggerPatterns {
		p := &snap.TriggerPatterns[i]

		if err := s.validate.Struct(p); err != nil {
			return oops.Code(errkind.Validation).Errorf("invalid trigger pattern %q: %w", p.ID, err)
		}

		switch p.Kind {
		case KindBattlecard:
			if snap.BattlecardByID(p.CompetitorID) == nil && snap.DefaultBattlecard() == nil {
				return oops.Code(errkind.Validation).
					Errorf("battlecard pattern %q: no card for competitor %q and no default card", p.ID, p.CompetitorID)
			}
		case KindOffer:
			if snap.OfferByID(p.OfferID) == nil && len(snap.Offers) == 0 {
				return oops.Code(errkind.Validation).
					Errorf("offer pattern %q: unmapped offer %q and no offers to fall back to", p.ID, p.OfferID)
			}
		}
	}

	return nil
}
