package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 登录用户信息在 gin context 中的 key
const (
	AuthUserIDKey   = "auth_user_id"
	AuthUsernameKey = "auth_username"
	AuthRoleKey     = "auth_role"
)

// JWTConfig JWT 鉴权配置
type JWTConfig struct {
	Secret      string
	ExpireHours int
	Issuer      string
}

// Claims 控制台令牌载荷
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken 签发用户令牌
func IssueToken(cfg JWTConfig, userID uint, username, role string) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(cfg.ExpireHours) * time.Hour)
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken 解析并校验用户令牌
func ParseToken(cfg JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Auth JWT 鉴权中间件，解析 Bearer token 并注入用户信息
func Auth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		claims, err := ParseToken(cfg, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthUsernameKey, claims.Username)
		c.Set(AuthRoleKey, claims.Role)
		c.Next()
	}
}

// CurrentUserID 从 gin context 读取登录用户 ID，未登录返回 0
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(AuthUserIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentUsername 从 gin context 读取登录用户名
func CurrentUsername(c *gin.Context) string {
	return c.GetString(AuthUsernameKey)
}
