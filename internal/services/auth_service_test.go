package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockOrderLinker is a mock implementation of services.OrderLinker
type MockOrderLinker struct {
	mock.Mock
}

func (m *MockOrderLinker) LinkOrders(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	slog.SetDefault(testLog)
	os.Exit(m.Run())
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo *MockUserRepository, linker *MockOrderLinker) *services.AuthService {
	return services.NewAuthService(repo, linker, testJWTSecret, time.Hour, testLog)
}

func notFound(what string) error {
	return fmt.Errorf("user with %s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, new(MockOrderLinker))

	newUser := func() *models.User {
		return &models.User{Username: "testuser", Email: " Test@Example.com", Password: "password123"}
	}

	// Test successful registration
	user := newUser()
	mockRepo.On("GetByUsername", mock.Anything, "testuser").Return(nil, notFound("username")).Once()
	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, notFound("email")).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("GetByUsername", mock.Anything, "testuser").Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, newUser())
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Contains(t, err.Error(), "username 'testuser' already taken")
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByUsername", mock.Anything, "testuser").Return(nil, notFound("username")).Once()
	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(ctx, newUser())
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)

	// Test invalid input
	err = authService.RegisterUser(ctx, &models.User{Username: "ab", Email: "nope", Password: "short"})
	assert.ErrorIs(t, err, services.ErrValidation)
	var verr *services.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	linker := new(MockOrderLinker)
	authService := newAuthService(mockRepo, linker)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful login links earlier orders
	mockRepo.On("GetByUsername", mock.Anything, user.Username).Return(user, nil).Once()
	linker.On("LinkOrders", mock.Anything, user).Return(int64(2), nil).Once()

	token, loggedIn, err := authService.LoginUser(ctx, "testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user, loggedIn)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Username, claims["username"])
	mockRepo.AssertExpectations(t)
	linker.AssertExpectations(t)

	// Test login by email
	mockRepo.On("GetByUsername", mock.Anything, "test@example.com").Return(nil, notFound("username")).Once()
	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
	linker.On("LinkOrders", mock.Anything, user).Return(int64(0), nil).Once()
	_, _, err = authService.LoginUser(ctx, "test@example.com", "password123")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	linker.AssertExpectations(t)

	// Test invalid credentials (wrong password) does not link
	mockRepo.On("GetByUsername", mock.Anything, user.Username).Return(user, nil).Once()
	_, _, err = authService.LoginUser(ctx, "testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
	linker.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByUsername", mock.Anything, "nonexistentuser").Return(nil, notFound("username")).Once()
	mockRepo.On("GetByEmail", mock.Anything, "nonexistentuser").Return(nil, notFound("email")).Once()
	_, _, err = authService.LoginUser(ctx, "nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), new(MockOrderLinker))

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Test malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Test wrong secret
	forged, _ := token.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(forged)
	assert.Error(t, err)

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_UserFromToken(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, new(MockOrderLinker))
	user := &models.User{ID: "user-123", Username: "testuser"}

	token, err := authService.IssueToken(user)
	assert.NoError(t, err)

	mockRepo.On("GetByID", mock.Anything, "user-123").Return(user, nil).Once()
	got, err := authService.UserFromToken(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, user, got)

	// Deleted users lose access
	mockRepo.On("GetByID", mock.Anything, "user-123").Return(nil, notFound("ID")).Once()
	_, err = authService.UserFromToken(ctx, token)
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}
