package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/auth"
)

type stubUserRepo struct {
	users map[string]*models.User
}

var _ repositories.IUserRepository = (*stubUserRepo)(nil)

func (r *stubUserRepo) Create(_ context.Context, u *models.User) (int64, error) {
	if _, ok := r.users[u.Email]; ok {
		return 0, repositories.ErrDuplicateEmail
	}
	u.ID = int64(len(r.users) + 1)
	r.users[u.Email] = u
	return u.ID, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *stubUserRepo) List(context.Context, uint64, uint64) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (r *stubUserRepo) UpdateRole(ctx context.Context, id int64, role models.RoleType) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.RoleType = role
	return nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubSiteConfigRepo struct {
	rows map[string]models.SiteConfig
}

var _ repositories.ISiteConfigRepository = (*stubSiteConfigRepo)(nil)

func (r *stubSiteConfigRepo) GetAll(context.Context) ([]*models.SiteConfig, error) {
	return nil, nil
}

func (r *stubSiteConfigRepo) GetByKeys(context.Context, []string) ([]*models.SiteConfig, error) {
	return nil, nil
}

func (r *stubSiteConfigRepo) UpsertMany(_ context.Context, entries []models.SiteConfig) error {
	for _, e := range entries {
		r.rows[e.Key] = e
	}
	return nil
}

func (r *stubSiteConfigRepo) InsertDefaults(_ context.Context, entries []models.SiteConfig) error {
	for _, e := range entries {
		if _, ok := r.rows[e.Key]; !ok {
			r.rows[e.Key] = e
		}
	}
	return nil
}

func TestCreateDefaultData_SettingsKeepExistingValues(t *testing.T) {
	settings := &stubSiteConfigRepo{rows: map[string]models.SiteConfig{
		models.ConfigContactEmail: {Key: models.ConfigContactEmail, Value: "office@tongji.edu.cn", Label: "联系邮箱"},
	}}
	users := &stubUserRepo{users: map[string]*models.User{}}

	require.NoError(t, CreateDefaultData(context.Background(), settings, users, AdminAccount{}, zerolog.Nop()))

	assert.Len(t, settings.rows, 5)
	assert.Equal(t, "office@tongji.edu.cn", settings.rows[models.ConfigContactEmail].Value)
	assert.Equal(t, "倒计时目标时间", settings.rows[models.ConfigCountdownTarget].Label)
	assert.Empty(t, users.users)
}

func TestCreateDefaultData_Admin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		users := &stubUserRepo{users: map[string]*models.User{}}
		settings := &stubSiteConfigRepo{rows: map[string]models.SiteConfig{}}
		admin := AdminAccount{Email: " Admin@Tongji.edu.cn ", Password: "secret123", Name: "管理员", School: "同济大学"}

		require.NoError(t, CreateDefaultData(context.Background(), settings, users, admin, zerolog.Nop()))

		created := users.users["admin@tongji.edu.cn"]
		require.NotNil(t, created)
		assert.Equal(t, models.RoleAdmin, created.RoleType)
		assert.True(t, auth.CheckPassword(created.Password, "secret123"))
	})

	t.Run("promotes existing student", func(t *testing.T) {
		users := &stubUserRepo{users: map[string]*models.User{
			"a@b.cn": {ID: 1, Email: "a@b.cn", RoleType: models.RoleStudent},
		}}
		settings := &stubSiteConfigRepo{rows: map[string]models.SiteConfig{}}

		require.NoError(t, CreateDefaultData(context.Background(), settings, users, AdminAccount{Email: "a@b.cn"}, zerolog.Nop()))
		assert.Equal(t, models.RoleAdmin, users.users["a@b.cn"].RoleType)
	})

	t.Run("short password is reported", func(t *testing.T) {
		users := &stubUserRepo{users: map[string]*models.User{}}
		settings := &stubSiteConfigRepo{rows: map[string]models.SiteConfig{}}

		err := CreateDefaultData(context.Background(), settings, users, AdminAccount{Email: "x@y.cn", Password: "123"}, zerolog.Nop())
		assert.Error(t, err)
		assert.Empty(t, users.users)
		assert.Len(t, settings.rows, 5)
	})
}
