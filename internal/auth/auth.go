// Package auth validates bearer JWTs and exposes the caller id to handlers.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/apperror"
)

type contextKey string

const userIDKey contextKey = "userID"

type Middleware struct {
	secret     []byte
	dispatcher *apperror.Dispatcher
	logger     *zap.Logger
}

func NewMiddleware(secret string, dispatcher *apperror.Dispatcher, logger *zap.Logger) *Middleware {
	return &Middleware{
		secret:     []byte(secret),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Authenticate проверяет заголовок Authorization и кладет id пользователя в контекст
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.verify(r.Header.Get("Authorization"))
		if err != nil {
			m.logger.Debug("authentication failed", zap.Error(err))
			m.dispatcher.Dispatch(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (m *Middleware) verify(header string) (string, error) {
	if header == "" {
		return "", apperror.FromKey(apperror.KeyJWTNotExists)
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", apperror.FromKey(apperror.KeyBearerInvalid)
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.Wrap(apperror.KeyTokenExpiredError, err)
		}
		return "", apperror.Wrap(apperror.KeyJSONWebTokenError, err)
	}

	if claims.Subject == "" {
		return "", apperror.FromKey(apperror.KeyNotAuthorized)
	}
	return claims.Subject, nil
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated caller id, or "" when auth is disabled.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
