package auth

import (
	"context"
	"errors"
	"testing"

	autherrors "github.com/digitalmerch4862/KingdomKids-sub000/internal/auth/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, u *User) error
	getByEmailFn func(ctx context.Context, email string) (*User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*User, error)
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error { return f.createFn(ctx, u) }
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return f.getByIDFn(ctx, id)
}

func testUser(t *testing.T, password string, active bool) *User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &User{
		ID:       uuid.New(),
		Name:     "Ruth Admin",
		Email:    "ruth@kingdomkids.local",
		Password: string(hashed),
		Role:     RoleAdmin,
		IsActive: active,
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	user := testUser(t, "opensesame", true)
	repo := &fakeRepo{getByEmailFn: func(ctx context.Context, email string) (*User, error) {
		if email == user.Email {
			return user, nil
		}
		return nil, gorm.ErrRecordNotFound
	}}
	svc := NewService(repo)
	ctx := context.Background()

	access, refresh, resp, err := svc.Login(ctx, user.Email, "opensesame")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, RoleAdmin, resp.Role)

	_, _, _, err = svc.Login(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)

	_, _, _, err = svc.Login(ctx, "nobody@kingdomkids.local", "opensesame")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	user := testUser(t, "opensesame", false)
	repo := &fakeRepo{getByEmailFn: func(ctx context.Context, email string) (*User, error) {
		return user, nil
	}}
	svc := NewService(repo)

	_, _, _, err := svc.Login(context.Background(), user.Email, "opensesame")
	assert.ErrorIs(t, err, autherrors.ErrUserInactive)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	user := testUser(t, "opensesame", true)
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) { return user, nil },
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo)
	ctx := context.Background()

	_, refresh, _, err := svc.Login(ctx, user.Email, "opensesame")
	assert.NoError(t, err)

	access, newRefresh, resp, err := svc.RefreshToken(ctx, refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)
	assert.Equal(t, user.Email, resp.Email)

	_, _, _, err = svc.RefreshToken(ctx, "garbage.token.value")
	assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
}

func TestRegister(t *testing.T) {
	var created *User
	repo := &fakeRepo{createFn: func(ctx context.Context, u *User) error {
		created = u
		return nil
	}}
	svc := NewService(repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Grace Teacher",
		Email:    "  Grace@KingdomKids.local ",
		Password: "verysecret",
		Role:     RoleTeacher,
	})
	assert.NoError(t, err)
	assert.Equal(t, "grace@kingdomkids.local", resp.Email)
	assert.Equal(t, RoleTeacher, resp.Role)

	// Stored hash verifies against the plain password.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("verysecret")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeRepo{createFn: func(ctx context.Context, u *User) error {
		return errors.New(`duplicate key value violates unique constraint "uq_user_email"`)
	}}
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Grace Teacher",
		Email:    "grace@kingdomkids.local",
		Password: "verysecret",
		Role:     RoleTeacher,
	})
	assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
}

func TestGetMe(t *testing.T) {
	user := testUser(t, "opensesame", true)
	repo := &fakeRepo{getByIDFn: func(ctx context.Context, id uuid.UUID) (*User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, gorm.ErrRecordNotFound
	}}
	svc := NewService(repo)
	ctx := context.Background()

	me, err := svc.GetMe(ctx, user.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, user.Email, me.Email)

	_, err = svc.GetMe(ctx, uuid.NewString())
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)

	_, err = svc.GetMe(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}
