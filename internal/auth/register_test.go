package auth

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/popmakeup/popmakeup-backend/internal/users"
	pkgAuth "github.com/popmakeup/popmakeup-backend/pkg/auth"
	"github.com/popmakeup/popmakeup-backend/pkg/config"
	"github.com/popmakeup/popmakeup-backend/pkg/db"
	"github.com/popmakeup/popmakeup-backend/pkg/db/dbtest"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRegisterService(t *testing.T) (*registerService, *db.Client, *bytes.Buffer) {
	t.Helper()
	client := dbtest.Client(t, t.Name())
	buf := &bytes.Buffer{}
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		PasswordConfig: config.PasswordConfig{},
		Logger:         logger.New(logger.Options{ServiceName: "auth-test", Output: buf}),
	})
	require.NoError(t, err)
	return svc.(*registerService), client, buf
}

func TestRegisterCreatesUser(t *testing.T) {
	svc, client, _ := newRegisterService(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{Username: "hanako", Email: " Hanako@Example.COM ", Password: "pw-1"})
	require.NoError(t, err)
	assert.Equal(t, "hanako@example.com", dto.Email)
	assert.Equal(t, int64(1), dto.EmployeeNo)
	assert.True(t, dto.IsActive)

	var stored models.User
	require.NoError(t, client.DB().First(&stored, dto.ID).Error)
	ok, err := security.VerifyPassword("pw-1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	second, err := svc.Register(context.Background(), RegisterRequest{Username: "taro", Email: "taro@example.com", Password: "pw-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.EmployeeNo)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newRegisterService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "hanako", Email: "hanako@example.com", Password: "pw-1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "other", Email: "HANAKO@example.com", Password: "pw-2"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "Email already registered", typed.Message())
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newRegisterService(t)
	ctx := context.Background()

	for _, req := range []RegisterRequest{
		{Username: "", Email: "a@example.com", Password: "pw"},
		{Username: "a", Email: "not-an-email", Password: "pw"},
		{Username: "a", Email: "a@example.com", Password: ""},
	} {
		_, err := svc.Register(ctx, req)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "req %+v got %v", req, err)
	}
}

// staleAllocator hands out an already-taken employee number for the first n calls.
type staleAllocator struct {
	*users.Repository
	mu    sync.Mutex
	stale int
}

func (s *staleAllocator) NextEmployeeNo(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale > 0 {
		s.stale--
		return 1, nil
	}
	return s.Repository.NextEmployeeNo(ctx)
}

func TestRegisterRetriesEmployeeNoCollision(t *testing.T) {
	svc, _, buf := newRegisterService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "first", Email: "first@example.com", Password: "pw"})
	require.NoError(t, err)

	shared := &staleAllocator{stale: 2}
	svc.repoFor = func(tx *gorm.DB) registerRepository {
		shared.Repository = users.NewRepository(tx)
		return shared
	}

	dto, err := svc.Register(ctx, RegisterRequest{Username: "second", Email: "second@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), dto.EmployeeNo)
	assert.Contains(t, buf.String(), "user.employee_no_retry")
}

func TestRegisterGivesUpAfterMaxAttempts(t *testing.T) {
	svc, _, _ := newRegisterService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "first", Email: "first@example.com", Password: "pw"})
	require.NoError(t, err)

	shared := &staleAllocator{stale: maxEmployeeNoAttempts}
	svc.repoFor = func(tx *gorm.DB) registerRepository {
		shared.Repository = users.NewRepository(tx)
		return shared
	}

	_, err = svc.Register(ctx, RegisterRequest{Username: "second", Email: "second@example.com", Password: "pw"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal), "got %v", err)
}

func TestRegisterThenLoginThenMe(t *testing.T) {
	svc, client, _ := newRegisterService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "hanako", Email: "hanako@example.com", Password: "pw-1"})
	require.NoError(t, err)

	authSvc, _ := buildTestService(t, users.NewRepository(client.DB()))
	tokens, err := authSvc.Login(ctx, LoginRequest{Username: "hanako", Password: "pw-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	claims, err := pkgAuth.ParseAccessToken(testJWT, tokens.AccessToken)
	require.NoError(t, err)
	me, err := authSvc.Me(ctx, claims.UserID, claims.Username())
	require.NoError(t, err)
	assert.Equal(t, "hanako", me.UserName)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, client, _ := newRegisterService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterRequest{Username: "hanako", Email: "a@example.com", Password: "pw-a"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: " hanako ", Email: "b@example.com", Password: "pw-b"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "Username already registered", typed.Message())

	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	authSvc, _ := buildTestService(t, users.NewRepository(client.DB()))
	_, err = authSvc.Login(ctx, LoginRequest{Username: "hanako", Password: "pw-a"})
	require.NoError(t, err)
	me, err := authSvc.Me(ctx, first.ID, "hanako")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", me.Email)
}
