package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	scopeAccess  = "access_token"
	scopeRefresh = "refresh_token"

	// identityCacheTTLSeconds bounds how stale a cached identity may get.
	// Entries are never invalidated on user mutation; they just expire.
	identityCacheTTLSeconds = 900
)

func cacheKeyUser(email string) string { return "user:" + email }

// AuthService handles registration, login, token issuance and identity
// resolution for every authenticated request.
type AuthService struct {
	userRepo        repositories.UserRepository
	cache           IdentityCache
	jwtSecret       []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, cache IdentityCache, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		cache:           cache,
		jwtSecret:       []byte(jwtSecret),
		accessDuration:  15 * time.Minute,
		refreshDuration: 7 * 24 * time.Hour,
	}
}

// Register creates a new account. The very first user in an empty directory
// becomes administrator; everyone after that is standard no matter what the
// payload asked for.
func (s *AuthService) Register(user *models.User) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s already registered: %w", user.Email, apperrors.ErrConflict)
	}

	count, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		user.Role = models.RoleAdministrator
	} else {
		user.Role = models.RoleStandard
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues an access/refresh token pair.
// The refresh token is persisted so reuse of a rotated-out token can be
// detected later.
func (s *AuthService) Login(email, password string) (access string, refresh string, err error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", "", err
	}
	// Same answer for unknown email and wrong password.
	if user == nil {
		return "", "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}

	access, refresh, err = s.issuePair(user.Email)
	if err != nil {
		return "", "", err
	}
	if err := s.userRepo.UpdateToken(user.ID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh rotates the token pair. A refresh token that does not match the
// stored one is treated as reuse: the stored token is cleared and the caller
// has to log in again.
func (s *AuthService) Refresh(refreshToken string) (access string, refresh string, err error) {
	email, err := s.subjectFromToken(refreshToken, scopeRefresh)
	if err != nil {
		return "", "", err
	}
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", fmt.Errorf("unknown subject: %w", apperrors.ErrUnauthenticated)
	}
	if user.RefreshToken != refreshToken {
		if clearErr := s.userRepo.UpdateToken(user.ID, ""); clearErr != nil {
			log.Printf("failed to clear refresh token for user %s: %v", user.ID, clearErr)
		}
		return "", "", fmt.Errorf("refresh token mismatch: %w", apperrors.ErrUnauthenticated)
	}

	access, refresh, err = s.issuePair(user.Email)
	if err != nil {
		return "", "", err
	}
	if err := s.userRepo.UpdateToken(user.ID, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Logout clears the stored refresh token and drops the cached identity so a
// fresh snapshot is read on the next login. Issued access tokens stay valid
// until they expire.
func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	if err := s.userRepo.UpdateToken(user.ID, ""); err != nil {
		return err
	}
	key := cacheKeyUser(user.Email)
	if err := s.cache.Del(ctx, key); err != nil {
		log.Printf("identity cache del %q failed: %v", key, err)
	}
	return nil
}

// ResolveUser proves the identity behind a bearer access token: validate the
// token, then the cache, then the directory. The gate only proves identity;
// role and ownership checks belong to the resource services.
func (s *AuthService) ResolveUser(ctx context.Context, accessToken string) (*models.User, error) {
	email, err := s.subjectFromToken(accessToken, scopeAccess)
	if err != nil {
		return nil, err
	}

	key := cacheKeyUser(email)
	if blob, err := s.cache.Get(ctx, key); err != nil {
		// A broken cache degrades to a directory read.
		log.Printf("identity cache get %q failed: %v", key, err)
	} else if blob != nil {
		snap, err := models.DecodeSnapshot(blob)
		if err == nil {
			return snap.User(), nil
		}
		log.Printf("discarding unreadable identity snapshot for %q: %v", key, err)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("unknown subject: %w", apperrors.ErrUnauthenticated)
	}

	blob, err := models.EncodeSnapshot(user.Snapshot())
	if err == nil {
		if err := s.cache.Set(ctx, key, blob, identityCacheTTLSeconds); err != nil {
			log.Printf("identity cache set %q failed: %v", key, err)
		}
	}
	return user, nil
}

func (s *AuthService) issuePair(email string) (string, string, error) {
	access, err := s.signToken(email, scopeAccess, s.accessDuration)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.signToken(email, scopeRefresh, s.refreshDuration)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *AuthService) signToken(email, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", scope, err)
	}
	return signed, nil
}

// subjectFromToken validates signature, expiry and scope and extracts the
// subject email.
func (s *AuthService) subjectFromToken(tokenString, wantScope string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", apperrors.ErrUnauthenticated)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", apperrors.ErrUnauthenticated)
	}
	if scope, _ := claims["scope"].(string); scope != wantScope {
		return "", fmt.Errorf("invalid scope for token: %w", apperrors.ErrUnauthenticated)
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", fmt.Errorf("token missing subject: %w", apperrors.ErrUnauthenticated)
	}
	return email, nil
}
