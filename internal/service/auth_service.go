package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/blogmind_server/config"
	"github.com/qs3c/blogmind_server/internal/model"
	"github.com/qs3c/blogmind_server/internal/model/dto"
	"github.com/qs3c/blogmind_server/internal/pkg/jwt"
	"github.com/qs3c/blogmind_server/internal/pkg/oauth"
	"github.com/qs3c/blogmind_server/internal/pkg/queue"
	"github.com/qs3c/blogmind_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUsernameExists     = errors.New("用户名已被使用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidVerifyCode  = errors.New("验证码无效或已过期")
	ErrAlreadyVerified    = errors.New("邮箱已验证")
	ErrUserNotFound       = errors.New("用户不存在")
)

const otpTTL = 10 * time.Minute

// Principal 已认证的调用方
type Principal struct {
	UserID   int64
	Verified bool
}

// MailEnqueuer 邮件任务入队
type MailEnqueuer interface {
	Push(ctx context.Context, job *queue.MailJob) error
}

type AuthService struct {
	userRepo    *repository.UserRepository
	membership  *MembershipService
	mailQueue   MailEnqueuer
	githubOAuth *oauth.GithubOAuth
	cfg         *config.Config
}

func NewAuthService(
	userRepo *repository.UserRepository,
	membership *MembershipService,
	mailQueue MailEnqueuer,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		membership: membership,
		mailQueue:  mailQueue,
		cfg:        cfg,
		githubOAuth: oauth.NewGithubOAuth(
			cfg.OAuth.Github.ClientID,
			cfg.OAuth.Github.ClientSecret,
			cfg.OAuth.Github.RedirectURI,
		),
	}
}

// Register 用户注册，发送邮箱验证码
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	expiresAt := time.Now().Add(otpTTL)
	user := &model.User{
		Username:     req.Username,
		Email:        &email,
		PasswordHash: &passwordStr,
		OTPCode:      &code,
		OTPExpiresAt: &expiresAt,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.enqueueMail(ctx, &queue.MailJob{Kind: queue.MailKindOTP, To: email, Username: user.Username, Code: code})

	return &dto.RegisterResponse{UserID: user.ID}, nil
}

// Login 用户登录。未验证邮箱的用户可以登录，但不能使用付费功能。
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(ctx, user)
}

// VerifyEmail 校验 6 位验证码
func (s *AuthService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidVerifyCode
		}
		return nil, err
	}
	if user.EmailVerified {
		return nil, ErrAlreadyVerified
	}

	if !user.OTPMatches(req.Code, time.Now()) {
		return nil, ErrInvalidVerifyCode
	}

	if err := s.userRepo.MarkVerified(user.ID); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.OTPCode = nil
	user.OTPExpiresAt = nil

	s.enqueueMail(ctx, &queue.MailJob{Kind: queue.MailKindWelcome, To: user.EmailAddress(), Username: user.Username})

	return s.issueToken(ctx, user)
}

// ResendOTP 重新生成并发送验证码
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetOTP(user.ID, code, time.Now().Add(otpTTL)); err != nil {
		return err
	}

	s.enqueueMail(ctx, &queue.MailJob{Kind: queue.MailKindOTP, To: user.EmailAddress(), Username: user.Username, Code: code})
	return nil
}

// Authenticate 把 token 中的用户 ID 解析为调用方身份
func (s *AuthService) Authenticate(userID int64) (Principal, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, ErrUserNotFound
		}
		return Principal{}, err
	}
	return Principal{UserID: user.ID, Verified: user.EmailVerified}, nil
}

// GetGithubAuthURL 获取 GitHub 授权 URL
func (s *AuthService) GetGithubAuthURL(state string) string {
	return s.githubOAuth.GetAuthURL(state)
}

// GithubCallback 处理 GitHub OAuth 回调
func (s *AuthService) GithubCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.githubOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	githubUser, err := s.githubOAuth.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get github user: %w", err)
	}

	user, err := s.findOrCreateGithubUser(githubUser)
	if err != nil {
		return nil, err
	}

	return s.issueToken(ctx, user)
}

// findOrCreateGithubUser 按 github_id 查找；同邮箱的已有账号直接绑定
func (s *AuthService) findOrCreateGithubUser(gh *oauth.GithubUser) (*model.User, error) {
	githubID := fmt.Sprintf("%d", gh.ID)

	user, err := s.userRepo.GetByGithubID(githubID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := strings.ToLower(gh.Email)
	if email != "" {
		existing, err := s.userRepo.GetByEmail(email)
		if err == nil {
			if err := s.userRepo.LinkGithub(existing.ID, githubID); err != nil {
				return nil, err
			}
			existing.GithubID = &githubID
			existing.EmailVerified = true
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user = &model.User{
		Username:      gh.Login,
		GithubID:      &githubID,
		AvatarURL:     gh.AvatarURL,
		EmailVerified: true,
	}
	if email != "" {
		user.Email = &email
	}

	exists, err := s.userRepo.ExistsByUsername(user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		user.Username = fmt.Sprintf("%s_%d", gh.Login, gh.ID)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *model.User) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  buildUserInfo(ctx, user, s.membership),
	}, nil
}

func (s *AuthService) enqueueMail(ctx context.Context, job *queue.MailJob) {
	if s.mailQueue == nil {
		return
	}
	if err := s.mailQueue.Push(ctx, job); err != nil {
		log.Printf("Failed to enqueue %s mail for %s: %v", job.Kind, job.To, err)
	}
}

// buildUserInfo 组装用户信息，会员信息读取失败时省略
func buildUserInfo(ctx context.Context, user *model.User, membership *MembershipService) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.EmailAddress(),
		AvatarURL:     user.AvatarURL,
		Bio:           user.Bio,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
	}

	if membership != nil {
		m, err := membership.GetInfo(ctx, user.ID)
		if err != nil {
			log.Printf("Failed to load membership for user %d: %v", user.ID, err)
		} else {
			info.Membership = m
		}
	}

	return info
}

// generateOTP 6 位数字验证码
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
