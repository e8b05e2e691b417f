package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/qms_management/configs"
)

// SessionCookieName 是携带会话 Token 的 Cookie 名称
const SessionCookieName = "qms_session"

// Claims 定义了会话 Cookie 中签名 Token 携带的声明。
// JTI (ID) 即服务端会话存储中的会话 ID。
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueSessionToken 为给定会话签发 HS256 Token，作为 Cookie 值下发。
// 签名只用于防止 Cookie 被篡改；会话是否有效以服务端存储为准。
func IssueSessionToken(sessionID, userID, username, role string, expiresAt time.Time) (string, error) {
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    "qms_backend",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.AppConfig.SessionSecret))
}

// parseSessionToken 验证 Cookie 中 Token 的签名并提取声明
func parseSessionToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 确保token的签名方法是我们期望的 HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(configs.AppConfig.SessionSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// ResolveSession 从请求中解析当前会话。
// 无 Cookie、签名无效或会话已销毁/过期时返回 false，而不是错误——
// 调用方（中间件）负责把"未认证"转换为 401 响应。
func ResolveSession(store *SessionStore, c *gin.Context) (Session, string, bool) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == "" {
		return Session{}, "", false
	}

	claims, err := parseSessionToken(cookie)
	if err != nil {
		return Session{}, "", false
	}

	session, found := store.Get(claims.ID)
	if !found {
		return Session{}, "", false
	}
	return session, claims.ID, true
}

// SessionMiddleware 是一个Gin中间件，用于验证基于 Cookie 的会话。
// 验证通过后把用户身份写入 Gin 上下文，供后续处理程序使用。
func SessionMiddleware(store *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, sessionID, ok := ResolveSession(store, c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未认证或会话无效/过期"})
			return
		}

		c.Set("userID", session.UserID)
		c.Set("username", session.Username)
		c.Set("role", session.Role)
		c.Set("sessionID", sessionID)

		c.Next()
	}
}

// RequireRoles 返回一个角色检查中间件：当前用户角色不在允许集合内时返回 403。
// 必须挂载在 SessionMiddleware 之后。
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "当前角色无权执行此操作"})
	}
}
