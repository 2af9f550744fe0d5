package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ivklim/airport-api/internal/domain"
	"github.com/ivklim/airport-api/internal/repository"
)

type fakeUsers struct {
	byEmail map[string]*domain.User
	nextID  int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*domain.User{}, nextID: 1}
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrConflict
	}
	u.ID = f.nextID
	f.nextID++
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newTestService(users UserStore) *Service {
	return New(users, []byte("test-secret"), time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)
	ctx := context.Background()

	u, err := svc.Register(ctx, "pilot@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "correct horse battery", u.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse battery")))

	token, err := svc.Login(ctx, "pilot@example.com", "correct horse battery")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.False(t, claims.IsStaff)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "longenoughpassword")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, "ok@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@example.com", "longenoughpassword")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dup@example.com", "anotherlongpassword")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "pilot@example.com", "correct horse battery")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "pilot@example.com", "wrong password here")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email must be indistinguishable from a wrong password.
	_, err = svc.Login(ctx, "ghost@example.com", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseTokenRejectsForgedAndExpired(t *testing.T) {
	users := newFakeUsers()
	ctx := context.Background()

	issuer := newTestService(users)
	_, err := issuer.Register(ctx, "pilot@example.com", "correct horse battery")
	require.NoError(t, err)
	token, err := issuer.Login(ctx, "pilot@example.com", "correct horse battery")
	require.NoError(t, err)

	otherKey := New(users, []byte("different-secret"), time.Hour)
	_, err = otherKey.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := New(users, []byte("test-secret"), -time.Minute)
	staleToken, err := expired.Login(ctx, "pilot@example.com", "correct horse battery")
	require.NoError(t, err)
	_, err = expired.ParseToken(staleToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStaffClaimRoundTrip(t *testing.T) {
	users := newFakeUsers()
	svc := newTestService(users)
	ctx := context.Background()

	u, err := svc.Register(ctx, "admin@example.com", "longenoughpassword")
	require.NoError(t, err)
	u.IsStaff = true

	token, err := svc.Login(ctx, "admin@example.com", "longenoughpassword")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, u.ID, claims.UserID)
}
