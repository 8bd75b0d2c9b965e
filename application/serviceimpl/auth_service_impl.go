package serviceimpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelkeep/domain/models"
	"travelkeep/domain/repositories"
	"travelkeep/domain/services"
	"travelkeep/infrastructure/oauth"
	"travelkeep/pkg/logger"
	"travelkeep/pkg/utils"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	googleOAuth *oauth.GoogleOAuth
	jwtSecret   string
}

func NewAuthService(
	userRepo repositories.UserRepository,
	googleOAuth *oauth.GoogleOAuth,
	jwtSecret string,
) services.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		googleOAuth: googleOAuth,
		jwtSecret:   jwtSecret,
	}
}

func (s *AuthServiceImpl) GetGoogleAuthURL(state string) string {
	return s.googleOAuth.GetAuthURL(state)
}

func (s *AuthServiceImpl) HandleGoogleCallback(ctx context.Context, code string) (string, *models.User, error) {
	tokenResp, err := s.googleOAuth.ExchangeCode(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	userInfo, err := s.googleOAuth.GetUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get user info: %w", err)
	}

	user, err := s.findOrCreateGoogleUser(ctx, userInfo)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find or create user: %w", err)
	}

	now := time.Now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(ctx, user.ID, user); err != nil {
		logger.AuthError("update_last_login", "Failed to record login time", err, map[string]interface{}{
			"user_id": user.ID.String(),
		})
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Email, s.jwtSecret, tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Auth("google_login", "User signed in with Google", map[string]interface{}{
		"user_id": user.ID.String(),
		"email":   user.Email,
	})

	return token, user, nil
}

func (s *AuthServiceImpl) GetCurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	userCtx, err := utils.ValidateTokenStringToUUID(tokenString, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userCtx.ID)
}

func (s *AuthServiceImpl) findOrCreateGoogleUser(ctx context.Context, info *oauth.GoogleUserInfo) (*models.User, error) {
	// Returning users are matched by Google's stable subject ID.
	user, err := s.userRepo.GetByProviderID(ctx, "google", info.ID)
	if err == nil {
		updated := false
		if info.Picture != "" && user.Avatar != info.Picture {
			user.Avatar = info.Picture
			updated = true
		}
		if info.GivenName != "" && user.FirstName != info.GivenName {
			user.FirstName = info.GivenName
			updated = true
		}
		if info.FamilyName != "" && user.LastName != info.FamilyName {
			user.LastName = info.FamilyName
			updated = true
		}
		if updated {
			user.UpdatedAt = time.Now()
			if err := s.userRepo.Update(ctx, user.ID, user); err != nil {
				logger.AuthError("profile_refresh", "Failed to refresh profile fields", err, map[string]interface{}{
					"user_id": user.ID.String(),
				})
			}
		}
		return user, nil
	}

	// Link the Google identity to an account that signed up earlier with
	// the same address.
	user, err = s.userRepo.GetByEmail(ctx, info.Email)
	if err == nil {
		user.Provider = "google"
		user.ProviderID = info.ID
		if user.Avatar == "" && info.Picture != "" {
			user.Avatar = info.Picture
		}
		user.UpdatedAt = time.Now()
		if err := s.userRepo.Update(ctx, user.ID, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	now := time.Now()
	newUser := &models.User{
		ID:         uuid.New(),
		Email:      info.Email,
		Username:   s.generateUsername(info.Email, info.GivenName),
		FirstName:  info.GivenName,
		LastName:   info.FamilyName,
		Avatar:     info.Picture,
		Provider:   "google",
		ProviderID: info.ID,
		IsActive:   true,
		LastLogin:  &now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	logger.Auth("user_created", "New user registered via Google", map[string]interface{}{
		"user_id": newUser.ID.String(),
		"email":   newUser.Email,
	})

	return newUser, nil
}

func (s *AuthServiceImpl) generateUsername(email, givenName string) string {
	base := strings.Split(email, "@")[0]
	if givenName != "" {
		base = givenName
	}
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(base))

	if len(base) < 3 {
		base = "user"
	}

	// Random suffix keeps usernames unique without a retry loop.
	return fmt.Sprintf("%s_%s", base, uuid.New().String()[:8])
}
