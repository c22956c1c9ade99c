// Package jwt выпускает и проверяет пары JWT-токенов (access + refresh).
//
// Оба токена подписываются HS256 одним секретом и различаются полем
// token_type; refresh-токен дополнительно несёт jti, по которому хранилище
// сессий отслеживает его одноразовое использование.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType различает access и refresh токены.
type TokenType string

const (
	Access  TokenType = "access"
	Refresh TokenType = "refresh"
)

// ErrWrongTokenType — токен валиден, но другого типа (например, refresh вместо access).
var ErrWrongTokenType = errors.New("wrong token type")

// CustomClaims — данные, хранящиеся в токене.
type CustomClaims struct {
	UserID int64     `json:"user_id"`
	Email  string    `json:"email"`
	Type   TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Pair — выпущенная пара токенов.
type Pair struct {
	Access           string
	Refresh          string
	RefreshID        string
	RefreshExpiresAt time.Time
}

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	GeneratePair(userID int64, email string) (*Pair, error)
	ParseToken(tokenStr string, want TokenType) (*CustomClaims, error)
}

// MakerImpl реализует Maker с секретным ключом и временем жизни токенов.
type MakerImpl struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTMaker создаёт MakerImpl.
func NewJWTMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GeneratePair выпускает access и refresh токены для пользователя.
func (j *MakerImpl) GeneratePair(userID int64, email string) (*Pair, error) {
	const op = "jwt.GeneratePair"
	now := time.Now()

	access, _, err := j.sign(userID, email, Access, now, j.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refresh, refreshID, err := j.sign(userID, email, Refresh, now, j.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Pair{
		Access:           access,
		Refresh:          refresh,
		RefreshID:        refreshID,
		RefreshExpiresAt: now.Add(j.refreshTTL),
	}, nil
}

func (j *MakerImpl) sign(userID int64, email string, typ TokenType, now time.Time, ttl time.Duration) (string, string, error) {
	id := uuid.NewString()
	claims := CustomClaims{
		UserID: userID,
		Email:  email,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", "", err
	}
	return token, id, nil
}

// ParseToken проверяет подпись, срок действия и тип токена.
func (j *MakerImpl) ParseToken(tokenStr string, want TokenType) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongTokenType)
	}
	return claims, nil
}
