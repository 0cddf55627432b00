package sysconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/kestrel-hr/kestrel/internal/platform/httpx"
	"github.com/kestrel-hr/kestrel/internal/shared"
)

const (
	cacheKey = "sysconfig:current"
	cacheTTL = 10 * time.Minute
)

// Service reads and writes the singleton configuration. Reads go
// through Redis with a singleflight guard so a cold cache produces one
// database hit no matter how many sessions start at once.
type Service struct {
	logger *slog.Logger
	repo   *Repository
	cache  *redis.Client
	group  singleflight.Group
}

func NewService(logger *slog.Logger, repo *Repository, cache *redis.Client) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

// Get returns the current configuration. A missing row yields an empty
// config so fresh installs render with defaults.
func (s *Service) Get(ctx context.Context) (Config, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cfg Config
			if err := json.Unmarshal(raw, &cfg); err == nil {
				return cfg, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("sysconfig: cache read failed", "error", err)
		}
	}

	v, err, _ := s.group.Do(cacheKey, func() (any, error) {
		cfg, err := s.repo.Get(ctx)
		if errors.Is(err, shared.ErrNotFound) {
			return Config{}, nil
		}
		if err != nil {
			return Config{}, err
		}
		s.fillCache(ctx, cfg)
		return cfg, nil
	})
	if err != nil {
		return Config{}, err
	}
	return v.(Config), nil
}

// Set validates and stores the configuration, then refreshes the cache.
func (s *Service) Set(ctx context.Context, cfg Config) error {
	if err := validate(cfg); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return err
	}
	s.fillCache(ctx, cfg)
	return nil
}

func (s *Service) fillCache(ctx context.Context, cfg Config) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
		s.logger.Warn("sysconfig: cache write failed", "error", err)
	}
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.CompanyName) == "" {
		return fmt.Errorf("%w: company_name is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(cfg.Phone) == "" {
		return fmt.Errorf("%w: phone is required", httpx.ErrValidation)
	}
	if _, err := mail.ParseAddress(cfg.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", httpx.ErrValidation)
	}
	return nil
}
