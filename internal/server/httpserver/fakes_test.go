package httpserver

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/dmitrijs2005/skywatch/internal/dbx"
	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/dmitrijs2005/skywatch/internal/server/config"
	"github.com/dmitrijs2005/skywatch/internal/server/models"
	alertsrepo "github.com/dmitrijs2005/skywatch/internal/server/repositories/alerts"
	usersrepo "github.com/dmitrijs2005/skywatch/internal/server/repositories/users"
	"github.com/dmitrijs2005/skywatch/internal/server/services"
	"github.com/dmitrijs2005/skywatch/internal/server/weather"
)

const testSecret = "test-secret"

// ---- service fakes ----

type fakeUsers struct {
	res *services.AuthResult
	err error
}

func (f *fakeUsers) Register(ctx context.Context, req services.RegisterRequest) (*services.AuthResult, error) {
	return f.res, f.err
}
func (f *fakeUsers) Login(ctx context.Context, req services.LoginRequest) (*services.AuthResult, error) {
	return f.res, f.err
}

type fakeAlerts struct {
	created   *services.AlertRequest
	createErr error

	alert   *models.Alert
	getErr  error
	gotCity string
}

func (f *fakeAlerts) Create(ctx context.Context, req services.AlertRequest) (*models.Alert, error) {
	f.created = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Alert{ID: 1, Message: req.Message, City: req.City}, nil
}
func (f *fakeAlerts) GetByCity(ctx context.Context, city string) (*models.Alert, error) {
	f.gotCity = city
	return f.alert, f.getErr
}

type fakeWeather struct {
	report *weather.Report
	err    error
}

func (f *fakeWeather) Lookup(ctx context.Context, req services.WeatherRequest) (*weather.Report, error) {
	return f.report, f.err
}

// ---- in-memory store for end-to-end flows through the real services ----

type memUsers struct {
	mu sync.Mutex
	m  map[string]*models.User
}

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := r.m[key]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.m[key] = &cp
	return u, nil
}

func (r *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.m[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type memAlerts struct {
	mu sync.Mutex
	a  []*models.Alert
}

func (r *memAlerts) Create(ctx context.Context, a *models.Alert) (*models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = int64(len(r.a) + 1)
	r.a = append(r.a, a)
	return a, nil
}

func (r *memAlerts) FindByCity(ctx context.Context, city string) (*models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.a {
		if a.City == city {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memRepoManager struct {
	users  *memUsers
	alerts *memAlerts
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *memRepoManager) Alerts(dbx.DBTX) alertsrepo.Repository        { return m.alerts }

// ---- helpers ----

func newServer(us UserService, as AlertService, ws WeatherService) *HTTPServer {
	return NewHTTPServer(Options{SecretKey: testSecret, CookieSecure: true}, logging.Nop{}, us, as, ws)
}

// newLiveServer wires the real services over the in-memory store.
func newLiveServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{SecretKey: testSecret, StoreTimeout: time.Second}
	rm := &memRepoManager{users: &memUsers{m: map[string]*models.User{}}, alerts: &memAlerts{}}

	s := newServer(
		services.NewUserService(nil, rm, cfg, logging.Nop{}),
		services.NewAlertService(nil, rm, cfg, logging.Nop{}),
		&fakeWeather{},
	)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.AccessTokenCookieName {
			return c
		}
	}
	return nil
}
