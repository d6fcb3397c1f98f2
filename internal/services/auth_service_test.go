package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tienda/internal/models"
	"tienda/internal/services"
)

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo *MockUserRepository) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, time.Hour, zap.NewNop())
}

func registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Profile:         models.Profile{Name: "Ana Torres", Email: "ana@example.com"},
		Password:        "secreto123",
		ConfirmPassword: "secreto123",
	}
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ana@example.com" && u.Role == models.RoleCustomer &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secreto123")) == nil
	})).Return(nil).Once()

	user, err := authService.RegisterUser(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", user.Name)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(models.ErrDuplicate).Once()
	_, err = authService.RegisterUser(context.Background(), registerRequest())
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestAuthService_RegisterUser_PasswordMismatch(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	req := registerRequest()
	req.ConfirmPassword = "otra-clave"
	_, err := authService.RegisterUser(context.Background(), req)

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Las contraseñas no coinciden", verr.Message)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.DefaultCost)
	user := &models.User{ID: 12, Email: "ana@example.com", Password: string(hashedPassword), Role: models.RoleCustomer}

	mockRepo.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)

	token, got, err := authService.LoginUser(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, uint(12), got.ID)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, float64(12), claims["user_id"])
	assert.Equal(t, "ana@example.com", claims["correo"])
	assert.Equal(t, models.RoleCustomer, claims["rol"])

	// Wrong password
	_, _, err = authService.LoginUser(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_LoginUser_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByEmail", mock.Anything, "nadie@example.com").Return(nil, models.ErrNotFound).Once()

	_, _, err := authService.LoginUser(context.Background(), models.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))

	t.Run("expired", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(testJWTSecret))
		require.NoError(t, err)

		_, err = authService.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("other_secret"))
		require.NoError(t, err)

		_, err = authService.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := authService.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		mockRepo.On("GetByEmail", mock.Anything, "admin@tienda.pe").Return(nil, models.ErrNotFound).Once()
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleAdmin && u.Email == "admin@tienda.pe"
		})).Return(nil).Once()

		require.NoError(t, authService.EnsureAdmin(context.Background(), "admin@tienda.pe", "admin123"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("keeps existing admin", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		mockRepo.On("GetByEmail", mock.Anything, "admin@tienda.pe").Return(&models.User{ID: 1}, nil).Once()

		require.NoError(t, authService.EnsureAdmin(context.Background(), "admin@tienda.pe", "admin123"))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
