package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/domain"
	"github.com/phrazzld/sird-api/internal/mocks"
	"github.com/phrazzld/sird-api/internal/platform/memory"
	"github.com/phrazzld/sird-api/internal/service"
	"github.com/phrazzld/sird-api/internal/service/auth"
	"github.com/phrazzld/sird-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "a-long-enough-password"

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	passwords := auth.NewBcryptWithCost(bcrypt.MinCost)
	svc := service.NewUserService(memory.NewUserStore(testLogger()), passwords, passwords, testLogger())
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Ana@Example.com ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.HashedPassword)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "ana@example.com", testPassword)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("authenticates with any email casing", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "ANA@example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ana@example.com", "not-the-password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", testPassword)
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("lookups", func(t *testing.T) {
		byID, err := svc.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		byEmail, err := svc.GetUserByEmail(ctx, "ANA@EXAMPLE.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		_, err = svc.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserService_RegisterValidation(t *testing.T) {
	t.Parallel()

	users := new(mocks.UserStore)
	passwords := new(mocks.Passwords)
	svc := service.NewUserService(users, passwords, passwords, testLogger())

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "invalid email", email: "not-an-email", password: testPassword, wantErr: domain.ErrInvalidEmail},
		{name: "short password", email: "a@example.com", password: "short", wantErr: domain.ErrPasswordTooShort},
		{name: "empty password", email: "a@example.com", password: "", wantErr: domain.ErrEmptyPassword},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Register(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	passwords.AssertNotCalled(t, "Hash", mock.Anything)
}

func TestUserService_RegisterFailures(t *testing.T) {
	t.Parallel()

	t.Run("hashing fails", func(t *testing.T) {
		t.Parallel()

		users := new(mocks.UserStore)
		passwords := new(mocks.Passwords)
		failure := errors.New("entropy exhausted")
		passwords.On("Hash", testPassword).Return("", failure)

		svc := service.NewUserService(users, passwords, passwords, testLogger())
		_, err := svc.Register(context.Background(), "a@example.com", testPassword)

		assert.ErrorIs(t, err, failure)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store fails", func(t *testing.T) {
		t.Parallel()

		users := new(mocks.UserStore)
		passwords := new(mocks.Passwords)
		failure := errors.New("connection reset")
		passwords.On("Hash", testPassword).Return("hashed", nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.HashedPassword == "hashed" && u.Password == ""
		})).Return(failure)

		svc := service.NewUserService(users, passwords, passwords, testLogger())
		_, err := svc.Register(context.Background(), "a@example.com", testPassword)

		var svcErr *service.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "register", svcErr.Operation)
		assert.ErrorIs(t, err, failure)
		users.AssertExpectations(t)
	})
}

func TestUserService_AuthenticateStoreFailure(t *testing.T) {
	t.Parallel()

	users := new(mocks.UserStore)
	passwords := new(mocks.Passwords)
	failure := errors.New("timeout")
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(nil, failure)

	svc := service.NewUserService(users, passwords, passwords, testLogger())
	_, err := svc.Authenticate(context.Background(), "A@example.com", testPassword)

	assert.ErrorIs(t, err, failure)
	assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
}
