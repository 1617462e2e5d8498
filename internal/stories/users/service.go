package users

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"smm-storefront/internal/infra/panelapi"
	"smm-storefront/internal/querycache"
	"smm-storefront/internal/session"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrCurrentPassword    = errors.New("current password is required to set a new one")
)

// Service provides account operations on top of the panel API
type Service struct {
	panel  Panel
	cache  *querycache.Cache
	logger *slog.Logger
}

// NewService creates a new user service
func NewService(panel Panel, cache *querycache.Cache, logger *slog.Logger) *Service {
	return &Service{
		panel:  panel,
		cache:  cache,
		logger: logger,
	}
}

// Login exchanges credentials for a session. Nothing is sent when a field is
// empty.
func (s *Service) Login(ctx context.Context, creds Credentials) (session.Session, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return session.Session{}, ErrMissingCredentials
	}

	resp, err := s.panel.Login(ctx, panelapi.LoginRequest{Username: username, Password: creds.Password})
	if err != nil {
		return session.Session{}, errors.Wrap(err, "login")
	}
	if resp.AccessToken == "" {
		return session.Session{}, errors.New("login: panel returned no access token")
	}

	s.logger.Info("User signed in", "username", username)
	return session.New(resp.AccessToken, s.cache), nil
}

// Logout ends the panel session and drops every cached resource of the token.
// A panel failure is logged, the local session ends regardless.
func (s *Service) Logout(ctx context.Context, sess session.Session) error {
	if err := s.panel.Logout(ctx, sess.Token); err != nil {
		s.logger.Warn("Panel logout failed", "error", err)
	}
	if err := s.cache.InvalidateAll(ctx, sess.Token); err != nil {
		return errors.Wrap(err, "invalidate cache")
	}
	return nil
}

func (s *Service) Detail(ctx context.Context, sess session.Session) (*User, error) {
	u, err := querycache.Fetch(ctx, s.cache, querycache.ResourceUserDetail, sess.Token,
		func(ctx context.Context) (User, error) {
			raw, err := s.panel.UserDetail(ctx, sess.Token)
			if err != nil {
				return User{}, err
			}
			return userFromDTO(raw), nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "user detail")
	}
	return &u, nil
}

func (s *Service) History(ctx context.Context, sess session.Session) ([]LoginRecord, error) {
	records, err := querycache.Fetch(ctx, s.cache, querycache.ResourceLoginHistory, sess.Token,
		func(ctx context.Context) ([]LoginRecord, error) {
			raw, err := s.panel.LoginHistory(ctx, sess.Token)
			if err != nil {
				return nil, err
			}
			return lo.Map(raw, func(h panelapi.LoginHistoryItem, _ int) LoginRecord {
				return LoginRecord{IP: h.IP, UserAgent: h.UserAgent, CreatedAt: h.CreatedAt}
			}), nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "login history")
	}
	return records, nil
}

func (s *Service) UpdateProfile(ctx context.Context, sess session.Session, upd ProfileUpdate) (*User, error) {
	if upd.NewPassword != "" || upd.ConfirmPassword != "" {
		if upd.NewPassword != upd.ConfirmPassword {
			return nil, ErrPasswordMismatch
		}
		if upd.CurrentPassword == "" {
			return nil, ErrCurrentPassword
		}
	}

	raw, err := s.panel.UpdateProfile(ctx, sess.Token, panelapi.UpdateProfileRequest{
		Email:           strings.TrimSpace(upd.Email),
		Language:        upd.Language,
		CurrentPassword: upd.CurrentPassword,
		NewPassword:     upd.NewPassword,
	})
	if err != nil {
		return nil, errors.Wrap(err, "update profile")
	}

	if err := sess.Invalidate(ctx, querycache.ResourceUserDetail); err != nil {
		s.logger.Warn("Failed to invalidate user detail", "error", err)
	}

	u := userFromDTO(raw)
	return &u, nil
}

// Session rebuilds a session from a stored token.
func (s *Service) Session(token string) session.Session {
	return session.New(token, s.cache)
}

func userFromDTO(u *panelapi.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Balance:  u.Balance,
		Currency: u.Currency,
		Language: u.Language,
	}
}
