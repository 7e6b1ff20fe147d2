package httpserver

import (
	"context"

	"github.com/dmitrijs2005/skywatch/internal/server/models"
	"github.com/dmitrijs2005/skywatch/internal/server/services"
	"github.com/dmitrijs2005/skywatch/internal/server/weather"
)

// UserService is the account API the handlers depend on.
type UserService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.AuthResult, error)
}

// AlertService is the alert API the handlers depend on.
type AlertService interface {
	Create(ctx context.Context, req services.AlertRequest) (*models.Alert, error)
	GetByCity(ctx context.Context, city string) (*models.Alert, error)
}

// WeatherService is the weather API the handlers depend on.
type WeatherService interface {
	Lookup(ctx context.Context, req services.WeatherRequest) (*weather.Report, error)
}
