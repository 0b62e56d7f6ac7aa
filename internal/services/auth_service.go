package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication failed")
	ErrEmailTaken         = errors.New("user already exists")
)

// AssertionVerifier validates a federated identity assertion and returns its
// claims. The production implementation is GoogleJWKSClient.
type AssertionVerifier interface {
	Verify(idToken string) (*GoogleClaims, error)
}

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	google AssertionVerifier
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:     db,
		cfg:    cfg,
		google: NewGoogleJWKSClient(cfg.GoogleJWKSURL, cfg.GoogleClientID),
	}
}

// AdminLogin checks locally-administered credentials and issues a signed
// session token. Only accounts with role admin hold a password.
func (s *AuthService) AdminLogin(req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password required")
	}

	var admin models.User
	if err := s.db.Where("email = ? AND role = ?", req.Email, models.RoleAdmin).First(&admin).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signSessionToken(&admin)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &dto.AdminLoginResponse{
		Message: "Admin login successful",
		Token:   token,
		Admin: dto.UserResponse{
			ID:    admin.ID,
			Email: admin.Email,
			Role:  admin.Role,
		},
	}, nil
}

// CreateAdmin provisions a new administrator account. The only way an admin
// comes into existence; federated login never auto-provisions one.
func (s *AuthService) CreateAdmin(req *dto.CreateAdminRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("all fields are required")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hash),
		AuthProvider: "password",
		Role:         models.RoleAdmin,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return &admin, nil
}

// GoogleLogin verifies a federated assertion and resolves (or provisions) the
// account. The assertion itself is echoed back as the bearer token.
func (s *AuthService) GoogleLogin(req *dto.GoogleLoginRequest) (*dto.GoogleLoginResponse, error) {
	if req.IDToken == "" {
		return nil, errors.New("no token provided")
	}

	claims, err := s.google.Verify(req.IDToken)
	if err != nil {
		slog.Error("google token verification failed", "error", err)
		return nil, ErrUnauthenticated
	}

	user, err := s.resolveFederated(claims)
	if err != nil {
		return nil, err
	}

	return &dto.GoogleLoginResponse{
		Message: "Login successful",
		Token:   req.IDToken,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	}, nil
}

// ResolveBearer resolves a bearer token to an account. Ordered attempt, first
// success wins:
//  1. locally-signed session token; when the signature checks out but the
//     account is gone, fall through and reinterpret the token
//  2. federated Google assertion, auto-provisioning a user account on first login
//
// Every failure collapses to ErrUnauthenticated so the response never reveals
// which interpretation was attempted.
func (s *AuthService) ResolveBearer(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	if userID, err := s.parseSessionToken(token); err == nil {
		var user models.User
		if err := s.db.First(&user, "id = ?", userID).Error; err == nil {
			return &user, nil
		}
	}

	claims, err := s.google.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.resolveFederated(claims)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// resolveFederated maps verified assertion claims to an account, creating a
// role=user account on first login. An existing account with the assertion's
// email gets the Google subject linked instead of tripping the unique index.
func (s *AuthService) resolveFederated(claims *GoogleClaims) (*models.User, error) {
	googleUID := claims.Sub
	email := claims.Email
	if email == "" {
		email = googleUID + "@users.noreply.accounts.google.com"
	}

	var user models.User
	err := s.db.Where("google_uid = ? OR email = ?", googleUID, email).First(&user).Error
	if err == nil {
		if user.GoogleUID == nil {
			if err := s.db.Model(&user).Updates(map[string]interface{}{
				"google_uid":    googleUID,
				"auth_provider": "google",
			}).Error; err != nil {
				return nil, fmt.Errorf("failed to link google account: %w", err)
			}
			user.GoogleUID = &googleUID
			user.AuthProvider = "google"
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	name := claims.Name
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	user = models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		GoogleUID:    &googleUID,
		AuthProvider: "google",
		Role:         models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		// Lost a concurrent first-login race; the row exists now.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.db.Where("google_uid = ?", googleUID).First(&user).Error; err == nil {
				return &user, nil
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// signSessionToken mints the local 7-day HS256 session token. The sub and
// role claims are the only fields ResolveBearer reads back.
func (s *AuthService) signSessionToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) parseSessionToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrUnauthenticated
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return userID, nil
}
