// Package auth 提供认证服务
package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/common/crypto"
	"github.com/hotelflamingo/reservation-backend/internal/common/errors"
	"github.com/hotelflamingo/reservation-backend/internal/common/jwt"
	"github.com/hotelflamingo/reservation-backend/internal/common/utils"
	"github.com/hotelflamingo/reservation-backend/internal/models"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
)

// AuthService 认证服务
type AuthService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	jwtManager *jwt.Manager
}

// NewAuthService 创建认证服务
func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	jwtManager *jwt.Manager,
) *AuthService {
	return &AuthService{
		db:         db,
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// OAuthLoginRequest 第三方登录请求
type OAuthLoginRequest struct {
	Provider string  `json:"provider" binding:"required"`
	OAuthID  string  `json:"oauth_id" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar,omitempty"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User      *UserInfo      `json:"user"`
	TokenPair *jwt.TokenPair `json:"token"`
	IsNewUser bool           `json:"is_new_user"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID     int64   `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
	Role   string  `json:"role"`
}

// Register 邮箱注册
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.ValidateEmail(email) {
		return nil, errors.ErrEmailInvalid
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrEmailExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.RoleCustomer,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, jwt.UserTypeUser, user.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	return &LoginResponse{
		User:      s.toUserInfo(user),
		TokenPair: tokenPair,
		IsNewUser: true,
	}, nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// 不区分账号不存在和密码错误
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, errors.ErrPasswordError
	}

	if user.Status == models.UserStatusDisabled {
		return nil, errors.ErrPermissionDenied.WithMessage("账号已被禁用")
	}

	userType := jwt.UserTypeUser
	if user.IsAdmin() {
		userType = jwt.UserTypeAdmin
	}
	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, userType, user.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	return &LoginResponse{
		User:      s.toUserInfo(user),
		TokenPair: tokenPair,
	}, nil
}

// OAuthLogin 第三方登录（自动注册）
func (s *AuthService) OAuthLogin(ctx context.Context, req *OAuthLoginRequest) (*LoginResponse, error) {
	switch req.Provider {
	case models.OAuthProviderGoogle, models.OAuthProviderGitHub, models.OAuthProviderMicrosoft:
	default:
		return nil, errors.ErrOAuthProvider
	}

	user, isNew, err := s.findOrCreateOAuthUser(ctx, req)
	if err != nil {
		return nil, err
	}

	if user.Status == models.UserStatusDisabled {
		return nil, errors.ErrPermissionDenied.WithMessage("账号已被禁用")
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, jwt.UserTypeUser, user.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	return &LoginResponse{
		User:      s.toUserInfo(user),
		TokenPair: tokenPair,
		IsNewUser: isNew,
	}, nil
}

// findOrCreateOAuthUser 查找或创建第三方登录用户
// 优先按第三方 ID 匹配，其次按邮箱绑定既有账号
func (s *AuthService) findOrCreateOAuthUser(ctx context.Context, req *OAuthLoginRequest) (*models.User, bool, error) {
	user, err := s.userRepo.GetByOAuthID(ctx, req.Provider, req.OAuthID)
	if err == nil {
		return user, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, errors.ErrDatabaseError.WithError(err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.ValidateEmail(email) {
		return nil, false, errors.ErrEmailInvalid
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		// 绑定第三方 ID 到既有账号
		if bindErr := s.bindOAuthID(ctx, user, req.Provider, req.OAuthID); bindErr != nil {
			return nil, false, bindErr
		}
		return user, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, errors.ErrDatabaseError.WithError(err)
	}

	name := req.Name
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	user = &models.User{
		Email:  email,
		Name:   name,
		Avatar: req.Avatar,
		Role:   models.RoleCustomer,
		Status: models.UserStatusActive,
	}
	switch req.Provider {
	case models.OAuthProviderGoogle:
		user.GoogleID = &req.OAuthID
	case models.OAuthProviderGitHub:
		user.GitHubID = &req.OAuthID
	case models.OAuthProviderMicrosoft:
		user.MicrosoftID = &req.OAuthID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, errors.ErrDatabaseError.WithError(err)
	}
	return user, true, nil
}

// bindOAuthID 绑定第三方 ID
func (s *AuthService) bindOAuthID(ctx context.Context, user *models.User, provider, oauthID string) error {
	var column string
	switch provider {
	case models.OAuthProviderGoogle:
		column = "google_id"
	case models.OAuthProviderGitHub:
		column = "github_id"
	case models.OAuthProviderMicrosoft:
		column = "microsoft_id"
	default:
		return errors.ErrOAuthProvider
	}
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{column: oauthID}); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// RefreshToken 刷新 Token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	tokenPair, err := s.jwtManager.RefreshToken(refreshToken)
	if err != nil {
		if err == jwt.ErrTokenExpired {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrTokenInvalid
	}
	return tokenPair, nil
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return user, nil
}

// toUserInfo 转换为用户信息
func (s *AuthService) toUserInfo(user *models.User) *UserInfo {
	return &UserInfo{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Avatar: user.Avatar,
		Role:   user.Role,
	}
}
