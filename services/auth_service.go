package services

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yashrajoria/pharmacy-storefront/auth"
	"github.com/yashrajoria/pharmacy-storefront/clients"
	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
	"github.com/yashrajoria/pharmacy-storefront/models"
)

// AuthService runs the register, login and logout flows for one browser.
type AuthService struct {
	api      clients.Requester
	sessions *auth.SessionStore
	logger   *zap.Logger
}

func NewAuthService(api clients.Requester, sessions *auth.SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodPost, "/users/register", req, nil); err != nil {
		s.logger.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		if apperrors.StatusOf(err) == http.StatusBadRequest || apperrors.StatusOf(err) == http.StatusConflict {
			return apperrors.Wrap(apperrors.ErrBadRequest, &registrationRejected{cause: err})
		}
		return err
	}
	s.logger.Info("User registered", zap.String("email", req.Email))
	return nil
}

// Login persists the returned credential only when the backend accepted the
// credentials and the token decodes into a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var resp models.LoginResponse
	if err := s.api.Do(ctx, http.MethodPost, "/users/login", req, &resp); err != nil {
		// a 401 here means wrong credentials, not an expired session; keep
		// only the HTTP cause so the login form is not redirected to itself
		if errors.Is(err, apperrors.ErrAuthExpired) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidCredentials, errors.Unwrap(err))
		}
		s.logger.Error("Login request failed", zap.Error(err))
		return nil, err
	}

	session, err := s.sessions.Persist(resp.Token)
	if err != nil {
		s.logger.Error("Backend issued an unusable token", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}
	s.logger.Info("User logged in", zap.String("user_id", session.UserID))
	return session, nil
}

func (s *AuthService) Logout() {
	s.sessions.Clear()
}

type registrationRejected struct{ cause error }

func (r *registrationRejected) Error() string { return r.cause.Error() }
func (r *registrationRejected) Unwrap() error { return r.cause }
func (r *registrationRejected) UserMessage() string {
	return "Registration failed. The email may already be in use."
}
