package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/qms_management/internal/auth"
	"github.com/qms_management/internal/repositories"
	"github.com/qms_management/pkg/utils"
)

// AuthHandler 封装了登录/登出/当前用户相关的 HTTP 处理逻辑
type AuthHandler struct {
	userRepo repositories.UserRepository
	sessions *auth.SessionStore
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userRepo repositories.UserRepository, sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, sessions: sessions}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	User UserInfo `json:"user"`
}

// Login godoc
// @Summary 用户登录
// @Description 验证用户名密码，成功后建立服务端会话并下发会话 Cookie
// @Tags auth
// @Accept  json
// @Produce  json
// @Param credentials body LoginRequest true "登录凭证"
// @Success 200 {object} utils.SuccessResponse{data=LoginResponse} "登录成功，返回用户信息"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 401 {object} utils.APIErrorResponse "无效的用户名或密码"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	user, err := h.userRepo.GetActiveByUsername(req.Username)
	if err != nil {
		// 未找到和密码错误返回同一错误，不泄露用户是否存在
		utils.RespondUnauthorizedError(c, "无效的用户名或密码")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.RespondUnauthorizedError(c, "无效的用户名或密码")
		return
	}

	sessionID, expiresAt := h.sessions.Create(user.ID, user.Username, user.Role)

	tokenString, err := auth.IssueSessionToken(sessionID, user.ID, user.Username, user.Role, expiresAt)
	if err != nil {
		h.sessions.Destroy(sessionID)
		log.Printf("Failed to sign session token: %v", err)
		utils.RespondInternalServerError(c, "无法建立会话")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, tokenString, int(time.Until(expiresAt).Seconds()), "/", "", false, true)

	loginResp := LoginResponse{
		User: UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}
	utils.RespondSuccess(c, http.StatusOK, loginResp, "登录成功")
}

// Logout godoc
// @Summary 用户登出
// @Description 销毁当前会话并清除会话 Cookie
// @Tags auth
// @Produce  json
// @Success 200 {object} utils.SuccessResponse "成功登出"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("sessionID")
	if sessionID != "" {
		h.sessions.Destroy(sessionID)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	utils.RespondSuccess(c, http.StatusOK, nil, "成功登出")
}

// Me godoc
// @Summary 获取当前登录用户
// @Description 返回当前会话对应的用户信息
// @Tags auth
// @Produce  json
// @Success 200 {object} utils.SuccessResponse{data=UserInfo}
// @Failure 401 {object} utils.APIErrorResponse "未认证或会话无效/过期"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	info := UserInfo{
		ID:       c.GetString("userID"),
		Username: c.GetString("username"),
		Role:     c.GetString("role"),
	}
	utils.RespondSuccess(c, http.StatusOK, info, "")
}
