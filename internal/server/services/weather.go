package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/dmitrijs2005/skywatch/internal/server/weather"
	validation "github.com/go-ozzo/ozzo-validation"
)

// WeatherProvider fetches current conditions from upstream.
type WeatherProvider interface {
	Current(ctx context.Context, area string) (*weather.Report, error)
}

// WeatherCache is a best-effort read-through cache in front of a provider.
type WeatherCache interface {
	Get(ctx context.Context, area string) (*weather.Report, bool, error)
	Set(ctx context.Context, area string, r *weather.Report) error
}

// WeatherRequest is the input of WeatherService.Lookup.
type WeatherRequest struct {
	Area string `json:"area"`
}

func (r WeatherRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Area, validation.Required),
	)
}

type WeatherService struct {
	provider WeatherProvider
	cache    WeatherCache
	log      logging.Logger
}

// NewWeatherService wires a provider and cache. A nil cache disables caching.
func NewWeatherService(p WeatherProvider, c WeatherCache, log logging.Logger) *WeatherService {
	if c == nil {
		c = weather.NopCache{}
	}
	return &WeatherService{provider: p, cache: c, log: log}
}

// Lookup returns current conditions for the requested area. Cache failures
// are logged and bypassed.
//
// Errors: common.ErrorInvalidInput, common.ErrorNotFound (unknown area),
// common.ErrorInternal.
func (s *WeatherService) Lookup(ctx context.Context, req WeatherRequest) (*weather.Report, error) {
	req.Area = strings.ToLower(strings.TrimSpace(req.Area))
	if err := req.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	area := req.Area
	log := logging.FromContext(ctx, s.log)

	cached, ok, err := s.cache.Get(ctx, area)
	if err != nil {
		log.Warn(ctx, "weather cache read failed", "err", err)
	} else if ok {
		return cached, nil
	}

	report, err := s.provider.Current(ctx, area)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		log.Error(ctx, "weather lookup failed", "err", err, "area", area)
		return nil, common.ErrorInternal
	}

	if err := s.cache.Set(ctx, area, report); err != nil {
		log.Warn(ctx, "weather cache write failed", "err", err)
	}
	return report, nil
}
