package service

import (
	"context"
	"errors"

	"github.com/mailsign/signup-backend/internal/auth/session"
	"github.com/mailsign/signup-backend/internal/common/clock"
	commoncrypto "github.com/mailsign/signup-backend/internal/common/crypto"
	"github.com/mailsign/signup-backend/internal/common/logger"
	"github.com/mailsign/signup-backend/internal/mail"
	userdomain "github.com/mailsign/signup-backend/internal/user/domain"
	userrepo "github.com/mailsign/signup-backend/internal/user/repository"
)

const (
	confirmationSubject = "Sign Email ✅"
	confirmationHTML    = "<h4>Congratulations! You have successfully signed up for our service.</h4>"
)

type AuthService struct {
	repo     userrepo.Repository
	sessions session.Store
	mailer   mail.Mailer
	hasher   commoncrypto.PasswordHasher
	idGen    commoncrypto.IDGenerator
	tokens   *TokenIssuer
	clock    clock.Clock
	log      *logger.Logger
	mailFrom string
}

type AuthServiceDeps struct {
	Repo     userrepo.Repository
	Sessions session.Store
	Mailer   mail.Mailer
	Hasher   commoncrypto.PasswordHasher
	IDGen    commoncrypto.IDGenerator
	Tokens   *TokenIssuer
	Clock    clock.Clock
	Log      *logger.Logger
	MailFrom string
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	return &AuthService{
		repo:     deps.Repo,
		sessions: deps.Sessions,
		mailer:   deps.Mailer,
		hasher:   deps.Hasher,
		idGen:    deps.IDGen,
		tokens:   deps.Tokens,
		clock:    deps.Clock,
		log:      deps.Log,
		mailFrom: deps.MailFrom,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type RegisterResult struct {
	User userdomain.User
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	Email     string
	SessionID string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Email, input.Password); err != nil {
		incrementRegistrations("validation_failed")
		return RegisterResult{}, err
	}

	_, err := s.repo.FindByEmail(ctx, input.Email)
	if err == nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_email_exists",
		}).Warn("register failed: already exists")
		incrementRegistrations("conflict")
		return RegisterResult{}, ErrUserAlreadyExists
	}
	if !errors.Is(err, userrepo.ErrUserNotFound) {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_lookup_failed",
		}).Errorf("register failed: %v", err)
		incrementRegistrations("error")
		return RegisterResult{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		incrementRegistrations("error")
		return RegisterResult{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		incrementRegistrations("error")
		return RegisterResult{}, err
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the lookup above;
		// the unique index decides, and the loser lands here.
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			incrementRegistrations("conflict")
			return RegisterResult{}, ErrUserAlreadyExists
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		incrementRegistrations("error")
		return RegisterResult{}, err
	}

	// The user record is durable from here on. A failed dispatch is
	// reported to the caller but never rolls the record back.
	if err := s.mailer.Send(ctx, mail.Message{
		From:    s.mailFrom,
		To:      user.Email,
		Subject: confirmationSubject,
		HTML:    confirmationHTML,
	}); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_email_failed",
		}).Errorf("confirmation email dispatch failed: %v", err)
		incrementEmailsFailed()
		incrementRegistrations("email_failed")
		return RegisterResult{}, ErrEmailDispatchFailed.WithCause(err)
	}

	incrementEmailsSent()
	incrementRegistrations("success")

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	return RegisterResult{User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validateCredentials(input.Email, input.Password); err != nil {
		incrementLogins("validation_failed")
		return LoginResult{}, err
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			incrementLogins("not_found")
			return LoginResult{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		incrementLogins("error")
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		incrementLogins("invalid_password")
		return LoginResult{}, ErrInvalidPassword
	}

	// Token and session are two independent channels issued together;
	// nothing downstream unifies them.
	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		incrementLogins("error")
		return LoginResult{}, err
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_session_bind_failed",
		}).Errorf("login failed: session bind error: %v", err)
		incrementLogins("error")
		return LoginResult{}, err
	}

	incrementLogins("success")

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return LoginResult{
		Token:     token,
		Email:     user.Email,
		SessionID: sess.ID,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		// The session may be left in an indeterminate state here; the
		// client only sees the generic failure message.
		s.log.WithFields(ctx, logger.Fields{
			"action": "logout_destroy_failed",
		}).Errorf("logout failed: %v", err)
		return ErrLogoutFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"action": "logout_success",
	}).Info("logout success")

	return nil
}
