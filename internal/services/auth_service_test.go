package services_test

import (
	"context"
	"testing"
	"time"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateToken(userID string, token string) error {
	args := m.Called(userID, token)
	return args.Error(0)
}

func (m *MockUserRepository) ChangeRole(userID string, role models.Role) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(userID string, url string) error {
	args := m.Called(userID, url)
	return args.Error(0)
}

// memoryCache is an in-memory IdentityCache used instead of Redis in tests.
type memoryCache struct {
	entries map[string][]byte
	lastTTL int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	blob, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return blob, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.entries[key] = value
	c.lastTTL = ttlSeconds
	return nil
}

func (c *memoryCache) Del(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

// signTestToken signs a token the way the service does, so tests can mint
// tokens with arbitrary scopes and lifetimes.
func signTestToken(t *testing.T, email, scope string, ttl time.Duration) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)
	return signed
}

func hashedPassword(t *testing.T, plain string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuthService_RegisterFirstUserBecomesAdministrator(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, newMemoryCache(), testJWTSecret)

	mockRepo.On("GetByEmail", "first@example.com").Return(nil, nil).Once()
	mockRepo.On("Count").Return(int64(0), nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	created, err := service.Register(&models.User{
		Username: "first",
		Email:    "first@example.com",
		Password: "password123",
		Role:     models.RoleStandard,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, created.Role)
	// Password is stored hashed, never in plain text.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterLaterUserIsStandardRegardlessOfRequest(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, newMemoryCache(), testJWTSecret)

	mockRepo.On("GetByEmail", "second@example.com").Return(nil, nil).Once()
	mockRepo.On("Count").Return(int64(1), nil).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	// Asking for administrator is ignored.
	created, err := service.Register(&models.User{
		Username: "second",
		Email:    "second@example.com",
		Password: "password123",
		Role:     models.RoleAdministrator,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleStandard, created.Role)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, newMemoryCache(), testJWTSecret)

	existing := &models.User{ID: "u1", Email: "taken@example.com"}
	mockRepo.On("GetByEmail", "taken@example.com").Return(existing, nil).Once()

	created, err := service.Register(&models.User{
		Username: "dupe",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.Nil(t, created)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, newMemoryCache(), testJWTSecret)

	user := &models.User{
		ID:       "u1",
		Email:    "login@example.com",
		Password: hashedPassword(t, "password123"),
		Role:     models.RoleStandard,
	}

	// Successful login issues a pair and persists the refresh token.
	mockRepo.On("GetByEmail", "login@example.com").Return(user, nil).Once()
	mockRepo.On("UpdateToken", "u1", mock.AnythingOfType("string")).Return(nil).Once()
	access, refresh, err := service.Login("login@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)
	mockRepo.AssertExpectations(t)

	// Wrong password and unknown email produce the same answer.
	mockRepo.On("GetByEmail", "login@example.com").Return(user, nil).Once()
	_, _, err = service.Login("login@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, nil).Once()
	_, _, err = service.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RefreshRotationAndReuseDetection(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, newMemoryCache(), testJWTSecret)

	user := &models.User{
		ID:       "u1",
		Email:    "rotate@example.com",
		Password: hashedPassword(t, "password123"),
		Role:     models.RoleStandard,
	}

	var stored string
	mockRepo.On("GetByEmail", "rotate@example.com").Return(user, nil)
	mockRepo.On("UpdateToken", "u1", mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		stored = args.String(1)
		user.RefreshToken = stored
	}).Return(nil)

	_, firstRefresh, err := service.Login("rotate@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, firstRefresh, stored)

	// Tokens embed an issued-at second; move past it so the rotated pair
	// differs from the first.
	time.Sleep(1100 * time.Millisecond)

	// Rotating with the stored token succeeds and replaces it.
	access, secondRefresh, err := service.Refresh(firstRefresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEqual(t, firstRefresh, secondRefresh)
	assert.Equal(t, secondRefresh, user.RefreshToken)

	// Replaying the rotated-out token is reuse: refused, and the stored
	// token is cleared so the live one dies with it.
	_, _, err = service.Refresh(firstRefresh)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	assert.Empty(t, user.RefreshToken)
}

func TestAuthService_LogoutClearsTokenAndCachedIdentity(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cache := newMemoryCache()
	service := services.NewAuthService(mockRepo, cache, testJWTSecret)

	user := &models.User{ID: "u1", Email: "leaving@example.com", Role: models.RoleStandard}
	blob, err := models.EncodeSnapshot(user.Snapshot())
	assert.NoError(t, err)
	assert.NoError(t, cache.Set(context.Background(), "user:leaving@example.com", blob, 900))

	mockRepo.On("UpdateToken", "u1", "").Return(nil).Once()
	assert.NoError(t, service.Logout(context.Background(), user))
	mockRepo.AssertExpectations(t)

	gone, err := cache.Get(context.Background(), "user:leaving@example.com")
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAuthService_RefreshRejectsAccessToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, newMemoryCache(), testJWTSecret)

	access := signTestToken(t, "scoped@example.com", "access_token", time.Minute)
	_, _, err := service.Refresh(access)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything)
}

func TestAuthService_ResolveUserCacheMissPopulatesCache(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cache := newMemoryCache()
	service := services.NewAuthService(mockRepo, cache, testJWTSecret)

	user := &models.User{
		ID:       "u1",
		Username: "cached",
		Email:    "cached@example.com",
		Role:     models.RoleModerator,
	}
	mockRepo.On("GetByEmail", "cached@example.com").Return(user, nil).Once()

	token := signTestToken(t, "cached@example.com", "access_token", time.Minute)
	resolved, err := service.ResolveUser(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", resolved.ID)
	assert.Equal(t, models.RoleModerator, resolved.Role)
	mockRepo.AssertExpectations(t)

	// The miss wrote a snapshot with the 15 minute TTL.
	blob, _ := cache.Get(context.Background(), "user:cached@example.com")
	assert.NotNil(t, blob)
	assert.Equal(t, 900, cache.lastTTL)

	// Second resolution is served from the cache; the single Once() above
	// proves the directory is not consulted again.
	resolved, err = service.ResolveUser(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", resolved.ID)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ResolveUserDiscardsStaleSnapshotVersion(t *testing.T) {
	mockRepo := new(MockUserRepository)
	cache := newMemoryCache()
	service := services.NewAuthService(mockRepo, cache, testJWTSecret)

	// A blob written by an older build has the wrong version and must be
	// ignored in favor of the directory.
	snap := models.UserSnapshot{Version: 0, ID: "old", Email: "versioned@example.com"}
	blob, err := models.EncodeSnapshot(snap)
	assert.NoError(t, err)
	assert.NoError(t, cache.Set(context.Background(), "user:versioned@example.com", blob, 900))

	user := &models.User{ID: "u2", Email: "versioned@example.com", Role: models.RoleStandard}
	mockRepo.On("GetByEmail", "versioned@example.com").Return(user, nil).Once()

	token := signTestToken(t, "versioned@example.com", "access_token", time.Minute)
	resolved, err := service.ResolveUser(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "u2", resolved.ID)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ResolveUserBadTokens(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewAuthService(mockRepo, newMemoryCache(), testJWTSecret)

	// Garbage.
	_, err := service.ResolveUser(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	// Expired.
	expired := signTestToken(t, "late@example.com", "access_token", -time.Minute)
	_, err = service.ResolveUser(context.Background(), expired)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	// Refresh token presented where an access token belongs.
	refresh := signTestToken(t, "late@example.com", "refresh_token", time.Minute)
	_, err = service.ResolveUser(context.Background(), refresh)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything)
}
