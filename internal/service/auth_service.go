package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tiffinbox/tiffin_go_server/config"
	"github.com/tiffinbox/tiffin_go_server/internal/model"
	"github.com/tiffinbox/tiffin_go_server/internal/model/dto"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/jwt"
	"github.com/tiffinbox/tiffin_go_server/internal/pkg/queue"
	"github.com/tiffinbox/tiffin_go_server/internal/repository"
)

var (
	ErrUserExists         = errors.New("User with this phone or email already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUserNotFound       = errors.New("User not found. Please sign up first.")
)

type AuthService struct {
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	emailQueue       *queue.Queue
	cfg              *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	emailQueue *queue.Queue,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailQueue:       emailQueue,
		cfg:              cfg,
	}
}

// Register 用户注册
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	exists, err := s.userRepo.ExistsByPhoneOrEmail(req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         "customer",
		Address:      req.Address,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// 欢迎邮件走队列异步发送
	if s.emailQueue != nil {
		job := &queue.EmailJob{
			Type:     queue.EmailTypeWelcome,
			To:       user.Email,
			UserName: user.Name,
		}
		if err := s.emailQueue.Push(ctx, job); err != nil {
			log.Printf("Failed to enqueue welcome email: %v", err)
		}
	}

	return s.buildLoginResponse(user)
}

// Login 手机号+密码登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByPhone(req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.buildLoginResponse(user)
}

// OTPLogin 短信登录：号码已由前端 Firebase 校验，这里只找用户发 Token
func (s *AuthService) OTPLogin(req *dto.OTPLoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByPhone(req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.buildLoginResponse(user)
}

// UpdateProfile 更新用户资料；地址变更会通知后台（配送信息要同步）
func (s *AuthService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Address != nil && *req.Address != user.Address {
		n := &model.Notification{
			Message: fmt.Sprintf("User %s updated their address to: %s", user.Name, *req.Address),
			Type:    model.NotificationTypeAddress,
		}
		if err := s.notificationRepo.Create(n); err != nil {
			log.Printf("Failed to create address notification: %v", err)
		}
		user.Address = *req.Address
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return s.buildLoginResponse(user)
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) buildLoginResponse(user *model.User) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User: &dto.UserInfo{
			ID:      user.ID,
			Name:    user.Name,
			Phone:   user.Phone,
			Email:   user.Email,
			Role:    user.Role,
			Address: user.Address,
		},
	}, nil
}
