package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// CreateUser signs a new user up. u.Password is the plaintext password; only
// its bcrypt hash is stored.
func (s *Service) CreateUser(ctx context.Context, u model.User) (int64, error) {
	return call(s, ctx, "create_user", func(ctx context.Context) (int64, error) {
		hash, err := s.hashPassword(u.Password)
		if err != nil {
			return 0, err
		}
		u.Password = hash
		return s.tracker.CreateUser(ctx, u)
	}, slog.String("username", u.Username))
}

func (s *Service) hashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", store.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %w", store.ErrInvalidArgument, err)
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Login checks credential and password and records the login. credential is
// tried as a username first and then as an email. With remember set the
// credential is kept as the remembered session; otherwise any remembered
// session is cleared.
func (s *Service) Login(ctx context.Context, credential, password string, remember bool) (*model.User, error) {
	credential = strings.TrimSpace(credential)
	return call(s, ctx, "login", func(ctx context.Context) (*model.User, error) {
		if credential == "" {
			return nil, ErrInvalidCredentials
		}
		u, err := s.resolveCredential(ctx, credential)
		if err != nil {
			return nil, err
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return s.tracker.RecordLogin(ctx, u.ID, credential, remember)
	}, slog.String("credential", credential), slog.Bool("remember", remember))
}

func (s *Service) resolveCredential(ctx context.Context, credential string) (*model.User, error) {
	u, err := s.tracker.GetUserByUsername(ctx, credential)
	if errors.Is(err, store.ErrNotFound) {
		u, err = s.tracker.GetUserByEmail(ctx, credential)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	return u, err
}

// Logout forgets the remembered session.
func (s *Service) Logout(ctx context.Context) error {
	return exec(s, ctx, "logout", s.tracker.ClearRememberedSession)
}

// ResumeSession returns the user named by the remembered session, or
// store.ErrNotFound when nothing is remembered.
func (s *Service) ResumeSession(ctx context.Context) (*model.User, error) {
	return call(s, ctx, "resume_session", func(ctx context.Context) (*model.User, error) {
		session, ok, err := s.tracker.RememberedSession(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no remembered session", store.ErrNotFound)
		}
		return s.tracker.GetUser(ctx, session.UserID)
	})
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return call(s, ctx, "get_user", func(ctx context.Context) (*model.User, error) {
		return s.tracker.GetUser(ctx, userID)
	}, slog.Int64("user_id", userID))
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return call(s, ctx, "get_user_by_username", func(ctx context.Context) (*model.User, error) {
		return s.tracker.GetUserByUsername(ctx, username)
	}, slog.String("username", username))
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return call(s, ctx, "get_user_by_email", func(ctx context.Context) (*model.User, error) {
		return s.tracker.GetUserByEmail(ctx, email)
	})
}

func (s *Service) UpdateUserTheme(ctx context.Context, userID int64, theme model.Theme) error {
	return exec(s, ctx, "update_user_theme", func(ctx context.Context) error {
		return s.tracker.UpdateUserTheme(ctx, userID, theme)
	}, slog.Int64("user_id", userID), slog.String("theme", string(theme)))
}

func (s *Service) UpdateUserLoginInfo(ctx context.Context, userID int64) (*model.User, error) {
	return call(s, ctx, "update_user_login_info", func(ctx context.Context) (*model.User, error) {
		return s.tracker.UpdateUserLoginInfo(ctx, userID)
	}, slog.Int64("user_id", userID))
}

// DeleteUser removes the account and everything it owns.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	return exec(s, ctx, "delete_user", func(ctx context.Context) error {
		return s.tracker.DeleteUser(ctx, userID)
	}, slog.Int64("user_id", userID))
}

func (s *Service) SetRememberedSession(ctx context.Context, userID int64, credential string) (*model.RememberedSession, error) {
	return call(s, ctx, "set_remembered_session", func(ctx context.Context) (*model.RememberedSession, error) {
		return s.tracker.SetRememberedSession(ctx, userID, credential)
	}, slog.Int64("user_id", userID))
}

// GetRememberedSession returns the remembered session; ok is false when
// there is none.
func (s *Service) GetRememberedSession(ctx context.Context) (session *model.RememberedSession, ok bool, err error) {
	err = exec(s, ctx, "get_remembered_session", func(ctx context.Context) error {
		var err error
		session, ok, err = s.tracker.RememberedSession(ctx)
		return err
	})
	return session, ok, err
}

func (s *Service) ClearRememberedSession(ctx context.Context) error {
	return exec(s, ctx, "clear_remembered_session", s.tracker.ClearRememberedSession)
}
