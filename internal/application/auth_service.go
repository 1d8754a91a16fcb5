package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/config"
	"github.com/oksasatya/bienesraices/internal/domain/entity"
	repo "github.com/oksasatya/bienesraices/internal/domain/repository"
	"github.com/oksasatya/bienesraices/pkg/helpers"
	"github.com/oksasatya/bienesraices/pkg/mailer"
	"github.com/oksasatya/bienesraices/pkg/mailer/templates"
)

const tokenBytes = 32

// Audit actions
const (
	ActionRegister      = "register"
	ActionConfirm       = "confirm"
	ActionLogin         = "login"
	ActionLoginFailed   = "login_failed"
	ActionForgot        = "forgot_password"
	ActionResetPassword = "reset_password"
)

// Mailer hands an email job to the delivery pipeline.
type Mailer interface {
	Dispatch(ctx context.Context, job mailer.EmailJob) error
}

type AuthService struct {
	Users  repo.UserRepository
	Audit  repo.AuditRepository
	JWT    *helpers.JWTManager
	Mail   Mailer
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, audit repo.AuditRepository, jwt *helpers.JWTManager, mail Mailer, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Audit: audit, JWT: jwt, Mail: mail, Cfg: cfg, Logger: logger}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is a signed session token and its expiry (zero when unbounded).
type Session struct {
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register stores a new unconfirmed account and mails its confirmation link.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	if err := checkLengths(
		lengthRule{"nombre", strings.TrimSpace(in.Name), maxNameLen},
		lengthRule{"email", email, maxEmailLen},
	); err != nil {
		return nil, err
	}
	existing, err := s.Users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := helpers.GenToken(tokenBytes)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: strings.TrimSpace(in.Name), Email: email, Password: hash}
	u.SetToken(token)
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendMail(ctx, u, templates.ConfirmAccount,
		templates.NewConfirmAccountData(s.Cfg.AppName, u.Name, u.Email, s.Cfg.ConfirmURL(token)))
	s.audit(ctx, ActionRegister, u.ID, u.Email, nil)
	return u, nil
}

// Confirm consumes a confirmation token. Tokens are single use.
func (s *AuthService) Confirm(ctx context.Context, token string) (*entity.User, error) {
	u, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}
	u.Confirmed = true
	u.ClearToken()
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("confirm user: %w", err)
	}
	s.audit(ctx, ActionConfirm, u.ID, u.Email, nil)
	return u, nil
}

// Login checks credentials and issues a session token. Failures are reported
// as unknown email, unconfirmed account, then wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, Session, error) {
	email = normalizeEmail(email)
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		s.audit(ctx, ActionLoginFailed, "", email, map[string]any{"reason": "unknown_email"})
		return nil, Session{}, ErrUserNotFound
	}
	if err != nil {
		return nil, Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if !u.Confirmed {
		s.audit(ctx, ActionLoginFailed, u.ID, email, map[string]any{"reason": "not_confirmed"})
		return nil, Session{}, ErrAccountNotConfirmed
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		s.audit(ctx, ActionLoginFailed, u.ID, email, map[string]any{"reason": "wrong_password"})
		return nil, Session{}, ErrWrongPassword
	}

	token, exp, err := s.JWT.GenerateSessionToken(u.ID, u.Name)
	if err != nil {
		helpers.LogError(s.Logger, "generate session token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, Session{}, err
	}
	s.audit(ctx, ActionLogin, u.ID, u.Email, nil)
	return u, Session{Token: token, ExpiresAt: exp}, nil
}

// ForgotPassword issues a reset token for a registered email and mails it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := helpers.GenToken(tokenBytes)
	if err != nil {
		return err
	}
	u.SetToken(token)
	if err := s.Users.Update(ctx, u); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.sendMail(ctx, u, templates.ResetPassword,
		templates.NewResetPasswordData(s.Cfg.AppName, u.Name, u.Email, s.Cfg.ResetURL(token)))
	s.audit(ctx, ActionForgot, u.ID, u.Email, nil)
	return nil
}

// CheckResetToken reports whether token is a pending reset token.
func (s *AuthService) CheckResetToken(ctx context.Context, token string) error {
	_, err := s.byToken(ctx, token)
	return err
}

// ResetPassword replaces the password and consumes the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	u, err := s.byToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ClearToken()
	if err := s.Users.Update(ctx, u); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	s.audit(ctx, ActionResetPassword, u.ID, u.Email, nil)
	return nil
}

// UserByID backs the session middleware.
func (s *AuthService) UserByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *AuthService) byToken(ctx context.Context, token string) (*entity.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	u, err := s.Users.GetByToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	return u, nil
}

// sendMail never fails the calling operation; the account state is already saved.
func (s *AuthService) sendMail(ctx context.Context, u *entity.User, template string, data map[string]any) {
	if s.Mail == nil {
		return
	}
	job := mailer.TemplateJob(u.Email, template, data)
	if err := s.Mail.Dispatch(ctx, job); err != nil {
		helpers.LogError(s.Logger, "dispatch email failed", err, logrus.Fields{"user_id": u.ID, "template": template})
	}
}

func (s *AuthService) audit(ctx context.Context, action, userID, email string, meta map[string]any) {
	if s.Audit == nil {
		return
	}
	ci := clientInfoFrom(ctx)
	err := s.Audit.Insert(ctx, entity.AuditEntry{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        ci.IP,
		UserAgent: ci.UserAgent,
		Metadata:  meta,
	})
	if err != nil {
		helpers.LogError(s.Logger, "audit insert failed", err, logrus.Fields{"action": action})
	}
}
