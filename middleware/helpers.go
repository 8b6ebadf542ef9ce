package middleware

import (
	"context"
	"errors"
)

type contextKey string

const credentialsContextKey contextKey = "credentials"

func withCredentials(ctx context.Context, creds *Credentials) context.Context {
	return context.WithValue(ctx, credentialsContextKey, creds)
}

// GetCredentialsFromContext достаёт результат аутентификации, положенный
// auth-middleware. Ошибка означает, что обработчик смонтирован без
// middleware, то есть ошибку композиции, а не запроса.
func GetCredentialsFromContext(ctx context.Context) (*Credentials, error) {
	creds, ok := ctx.Value(credentialsContextKey).(*Credentials)
	if !ok || creds == nil {
		return nil, errors.New("credentials not found in context")
	}
	return creds, nil
}
