package muscles

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

const (
	megabyte     = 1024 * 1024
	cacheSize    = 5 * megabyte
	listCacheKey = "muscles::list"
)

type muscleStore interface {
	Add(ctx context.Context, muscle Muscle) error
	List(ctx context.Context) ([]Muscle, error)
}

// Service serves the muscles catalog. The rendered list is kept in an
// in-process cache until it expires or a muscle is added.
type Service struct {
	repo     muscleStore
	cache    *freecache.Cache
	cacheTTL time.Duration
}

func NewService(repo muscleStore, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    freecache.NewCache(cacheSize),
		cacheTTL: cacheTTL,
	}
}

func (s *Service) Create(ctx context.Context, newMuscle NewMuscle) (_ *Muscle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.muscles.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := newMuscle.Validate(); err != nil {
		return nil, err
	}

	muscle := Muscle{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(newMuscle.Name),
		Image: newMuscle.Image,
	}
	if err := s.repo.Add(ctx, muscle); err != nil {
		return nil, err
	}

	s.cache.Del([]byte(listCacheKey))
	log.Debugf("muscle [%s] added: %s", muscle.Name, muscle.ID)

	return &muscle, nil
}

// ListJSON returns the JSON encoded muscles list, from cache when possible.
func (s *Service) ListJSON(ctx context.Context) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.muscles.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if cached, err := s.cache.Get([]byte(listCacheKey)); err == nil {
		log.Tracef("muscles list found in cache")
		return cached, nil
	}

	muscles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if muscles == nil {
		muscles = []Muscle{}
	}

	musclesJson, err := json.Marshal(muscles)
	if err != nil {
		return nil, err
	}

	if s.cacheTTL > 0 {
		if err := s.cache.Set([]byte(listCacheKey), musclesJson, int(s.cacheTTL.Seconds())); err != nil {
			log.Errorf("failed to cache muscles list: %s", err)
		}
	}

	return musclesJson, nil
}
