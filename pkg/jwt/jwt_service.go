package jwt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"foodgram/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	issuer              = "FOODGRAM"
	userTokenTTL        = 120 * time.Minute
	purposeClaim        = "purpose"
	purposeResetPasword = "reset_password"
)

type (
	JWTService interface {
		GenerateTokenUser(userId string, role string) string
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(ctx context.Context, token string) (string, string, error)
		RevokeToken(ctx context.Context, token string) error
		GenerateTokenForgetPassword(data map[string]any, duration time.Duration) (string, error)
		ValidateTokenForgetPassword(token string) (jwt.MapClaims, error)
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		denylist  TokenDenylist
		now       func() time.Time
	}
)

func NewJWTService(secretKey string, denylist TokenDenylist) JWTService {
	if denylist == nil {
		denylist = NewMemoryDenylist()
	}
	return &jwtService{
		secretKey: secretKey,
		issuer:    issuer,
		denylist:  denylist,
		now:       time.Now,
	}
}

func (j *jwtService) GenerateTokenUser(userId string, role string) string {
	now := j.now()
	claims := jwtUserClaim{
		userId,
		role,
		jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(userTokenTTL)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tx, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Println(err)
	}
	return tx
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) userClaims(token string) (*jwtUserClaim, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || claims.UserID == "" || claims.ID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (j *jwtService) GetUserIDByToken(ctx context.Context, token string) (string, string, error) {
	claims, err := j.userClaims(token)
	if err != nil {
		return "", "", err
	}

	revoked, err := j.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", "", fmt.Errorf("check token denylist: %w", err)
	}
	if revoked {
		return "", "", domain.ErrTokenRevoked
	}

	return claims.UserID, claims.Role, nil
}

func (j *jwtService) RevokeToken(ctx context.Context, token string) error {
	claims, err := j.userClaims(token)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return j.denylist.Revoke(ctx, claims.ID, ttl)
}

func (j *jwtService) GenerateTokenForgetPassword(data map[string]any, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{}

	for key, value := range data {
		claims[key] = value
	}

	now := j.now()
	claims["exp"] = now.Add(duration).Unix()
	claims["iat"] = now.Unix()
	claims["iss"] = j.issuer
	claims[purposeClaim] = purposeResetPasword

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) ValidateTokenForgetPassword(token string) (jwt.MapClaims, error) {
	t_Token, err := jwt.Parse(token, j.parseToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.MapClaims{}, domain.ErrTokenExpired
		}
		return jwt.MapClaims{}, domain.ErrTokenInvalid
	}

	if !t_Token.Valid {
		return jwt.MapClaims{}, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(jwt.MapClaims)
	if !ok || claims[purposeClaim] != purposeResetPasword {
		return jwt.MapClaims{}, domain.ErrTokenInvalid
	}
	return claims, nil
}
