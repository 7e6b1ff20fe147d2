package services

import (
	"context"
	"database/sql"
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
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:    "k",
		StoreTimeout: time.Second,
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeUsersRepo keeps users in memory keyed by lowercased email, the way
// the unique index on lower(email) does.
type fakeUsersRepo struct {
	mu     sync.Mutex
	byMail map[string]*models.User

	getErr    error
	createErr error

	sawDeadline bool
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byMail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	key := strings.ToLower(u.Email)
	if _, ok := f.byMail[key]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.CreatedAt = time.Now()
	cp := *u
	f.byMail[key] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, f.sawDeadline = ctx.Deadline()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byMail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeAlertsRepo struct {
	alerts []*models.Alert

	createErr error
	findErr   error
	lastQuery string
}

func (f *fakeAlertsRepo) Create(ctx context.Context, a *models.Alert) (*models.Alert, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = int64(len(f.alerts) + 1)
	f.alerts = append(f.alerts, a)
	return a, nil
}

func (f *fakeAlertsRepo) FindByCity(ctx context.Context, city string) (*models.Alert, error) {
	f.lastQuery = city
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, a := range f.alerts {
		if a.City == city {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeAlertsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Alerts(db dbx.DBTX) alertsrepo.Repository     { return m.a }

func newUserService(t *testing.T, u *fakeUsersRepo) *UserService {
	t.Helper()
	return NewUserService(nil, &fakeRepoManager{u: u}, testConfig(), logging.Nop{})
}

func newAlertService(t *testing.T, a *fakeAlertsRepo) *AlertService {
	t.Helper()
	return NewAlertService(nil, &fakeRepoManager{a: a}, testConfig(), logging.Nop{})
}
