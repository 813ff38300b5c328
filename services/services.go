// Package services ties the providers, the analytics and the archive together
// into the operations the API and the CLI expose.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"foodintel/apperr"
	"foodintel/cache"
	"foodintel/clients"
	"foodintel/logger"
	"foodintel/models"
)

// ShoppingSearcher is the commerce search collaborator.
type ShoppingSearcher interface {
	SearchShopping(ctx context.Context, q clients.ShoppingQuery) ([]models.RawListing, error)
}

// TrendSearcher is the search-trend collaborator.
type TrendSearcher interface {
	SearchTrend(ctx context.Context, q clients.TrendQuery) ([]models.TrendSeries, error)
}

// RegistryFetcher is the product registry collaborator.
type RegistryFetcher interface {
	Fetch(ctx context.Context, q models.RegistryQuery) (models.RegistryResult, error)
}

// TextGenerator produces report prose from a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ReportArchive stores generated reports.
type ReportArchive interface {
	Save(ctx context.Context, r *models.Report) error
	Get(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, limit int) ([]models.Report, error)
}

// sectionState maps the error of one analysis section to the state shown
// for it. A nil error is StateOK.
func sectionState(err error) (models.SectionState, string) {
	if err == nil {
		return models.StateOK, ""
	}
	switch apperr.KindOf(err) {
	case apperr.KindEmpty:
		return models.StateEmpty, apperr.MessageOf(err)
	case apperr.KindInsufficientData:
		return models.StateInsufficientData, apperr.MessageOf(err)
	case apperr.KindConfig:
		return models.StateDisabled, apperr.MessageOf(err)
	default:
		return models.StateError, apperr.MessageOf(err)
	}
}

// cached runs fetch through the cache. Cache failures are logged and
// otherwise ignored; fetch errors are never cached.
func cached[T any](ctx context.Context, c cache.Client, ttl time.Duration, log *logger.Logger, namespace string, request any, fetch func() (T, error)) (T, error) {
	key, err := cache.Key(namespace, request)
	if err != nil {
		return fetch()
	}

	if data, err := c.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			log.Debug().Str("key", key).Msg("cache hit")
			return v, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}

	if data, err := json.Marshal(v); err == nil {
		if err := c.Set(ctx, key, data, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return v, nil
}
