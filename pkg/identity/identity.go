package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// Provider is the identity-provider boundary: given a bearer token it
// returns the authenticated actor id, or an error when there is none.
// The booking engine never consults ambient session state; the actor id
// extracted here is passed explicitly into every operation.
type Provider interface {
	ActorFromToken(tokenString string) (string, error)
}

type hmacProvider struct {
	secret []byte
}

func NewHMACProvider(secret string) Provider {
	return &hmacProvider{secret: []byte(secret)}
}

func (p *hmacProvider) ActorFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}

// SignToken issues an HS256 token for the given actor id. Exposed for
// tests and local tooling; production tokens come from the marketplace's
// auth service using the same secret.
func SignToken(secret, actorID string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": actorID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

type contextKey string

const actorKey contextKey = "actor_id"

// WithActor returns a context carrying the authenticated actor id.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// ActorFromContext returns the authenticated actor id, or "" when the
// request carried no valid identity.
func ActorFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(actorKey).(string); ok {
		return id
	}
	return ""
}
