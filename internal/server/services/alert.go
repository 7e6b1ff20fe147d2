package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/dmitrijs2005/skywatch/internal/dbx"
	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/dmitrijs2005/skywatch/internal/server/config"
	"github.com/dmitrijs2005/skywatch/internal/server/models"
	"github.com/dmitrijs2005/skywatch/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

// AlertMinWords is the shortest accepted alert message, in words.
const AlertMinWords = 4

// AlertRequest is the input of AlertService.Create.
type AlertRequest struct {
	Message string `json:"message"`
	City    string `json:"city"`
}

func (r AlertRequest) normalized() AlertRequest {
	r.Message = strings.ToLower(strings.TrimSpace(r.Message))
	r.City = normalizeCity(r.City)
	return r
}

func (r AlertRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required, minWords(AlertMinWords)),
		validation.Field(&r.City, validation.Required),
	)
}

// AlertService stores and looks up city alerts. Message and city are
// lowercased on write and city on read.
type AlertService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	storeTimeout time.Duration
	log          logging.Logger
}

func NewAlertService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *AlertService {
	return &AlertService{
		db:           db,
		repomanager:  m,
		storeTimeout: cfg.StoreTimeout,
		log:          log,
	}
}

// Create validates and persists an alert.
//
// Errors: common.ErrorInvalidInput, common.ErrorInternal.
func (s *AlertService) Create(ctx context.Context, req AlertRequest) (*models.Alert, error) {
	req = req.normalized()
	if err := req.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	alert := &models.Alert{
		Message: req.Message,
		City:    req.City,
	}

	sctx, cancel := dbx.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	created, err := s.repomanager.Alerts(s.db).Create(sctx, alert)
	if err != nil {
		logging.FromContext(ctx, s.log).Error(ctx, "alert insert failed", "err", err)
		return nil, common.ErrorInternal
	}
	return created, nil
}

// GetByCity returns the first alert recorded for city.
//
// Errors: common.ErrorInvalidInput (empty city), common.ErrorNotFound,
// common.ErrorInternal.
func (s *AlertService) GetByCity(ctx context.Context, city string) (*models.Alert, error) {
	city = normalizeCity(city)
	if city == "" {
		return nil, invalidInput(errors.New("city: cannot be blank"))
	}

	sctx, cancel := dbx.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	alert, err := s.repomanager.Alerts(s.db).FindByCity(sctx, city)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		logging.FromContext(ctx, s.log).Error(ctx, "alert lookup failed", "err", err, "city", city)
		return nil, common.ErrorInternal
	}
	return alert, nil
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
