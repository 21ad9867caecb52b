package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"teamshub/backend/pkg/utils"
)

// UserClaims кастомные claims для JWT
type UserClaims struct {
	UserID      uuid.UUID `json:"user_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Email       string    `json:"email,omitempty"`
	jwt.StandardClaims
}

// ContextKey тип для ключей контекста
type ContextKey string

const (
	// Context keys
	UserIDKey      ContextKey = "user_id"
	WorkspaceIDKey ContextKey = "workspace_id"
	TokenKey       ContextKey = "token"

	// DefaultTokenTTL время жизни токена по умолчанию
	DefaultTokenTTL = 24 * time.Hour
)

// Authenticator выпуск и проверка JWT токенов
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator создает проверку токенов с секретом из конфигурации
func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Authenticator{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Middleware проверка JWT токена из заголовка Authorization
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Получение токена из заголовка
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Проверка формата заголовка
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		tokenString := parts[1]

		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Добавление user_id и workspace_id в контекст
		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, WorkspaceIDKey, claims.WorkspaceID)
		ctx = context.WithValue(ctx, TokenKey, tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GenerateToken генерация JWT токена
func (a *Authenticator) GenerateToken(userID, workspaceID uuid.UUID, email string) (string, error) {
	now := a.now()
	claims := &UserClaims{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Email:       email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(a.ttl).Unix(),
			IssuedAt:  now.Unix(),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken валидация токена
func (a *Authenticator) ValidateToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	if claims.WorkspaceID == uuid.Nil {
		return nil, fmt.Errorf("token has no workspace")
	}

	return claims, nil
}

// GetUserIDFromContext получение user_id из контекста
func GetUserIDFromContext(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}

// GetWorkspaceIDFromContext получение workspace_id из контекста
func GetWorkspaceIDFromContext(ctx context.Context) uuid.UUID {
	if workspaceID, ok := ctx.Value(WorkspaceIDKey).(uuid.UUID); ok {
		return workspaceID
	}
	return uuid.Nil
}

// WithWorkspace кладет user_id и workspace_id в контекст
func WithWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, WorkspaceIDKey, workspaceID)
}
