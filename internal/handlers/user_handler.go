package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qms_management/internal/services"
	"github.com/qms_management/pkg/utils"
)

// UserHandler 封装了用户管理相关的 HTTP 处理逻辑，全部路由仅 Admin 可访问
type UserHandler struct {
	service services.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例
func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUserPayload 定义了创建用户的 JSON 结构体
type CreateUserPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// CreateUser godoc
// @Summary 创建新用户
// @Tags Users
// @Accept json
// @Produce json
// @Param user body CreateUserPayload true "用户信息"
// @Success 201 {object} utils.SuccessResponse{data=models.User}
// @Failure 400 {object} utils.APIErrorResponse "参数校验失败"
// @Failure 409 {object} utils.APIErrorResponse "用户名已存在"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var payload CreateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	user, err := h.service.CreateUser(payload.Username, payload.Password, payload.Role, c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			utils.RespondConflictError(c, "用户名已存在")
		case errors.Is(err, services.ErrInvalidRole),
			errors.Is(err, utils.ErrEmptyUsername),
			errors.Is(err, utils.ErrShortPassword):
			utils.RespondValidationError(c, err.Error())
		default:
			log.Printf("Failed to create user: %v", err)
			utils.RespondInternalServerError(c, "创建用户失败")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, user, "用户创建成功")
}

// ListUsers godoc
// @Summary 获取用户列表
// @Tags Users
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]models.User}
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		utils.RespondInternalServerError(c, "获取用户列表失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, users, "")
}

// GetUser godoc
// @Summary 获取单个用户
// @Tags Users
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} utils.SuccessResponse{data=models.User}
// @Failure 404 {object} utils.APIErrorResponse "用户未找到"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondNotFoundError(c, "用户")
			return
		}
		log.Printf("Failed to get user %s: %v", c.Param("id"), err)
		utils.RespondInternalServerError(c, "获取用户失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, user, "")
}

// UpdateUser godoc
// @Summary 更新用户
// @Description 部分更新：密码字段为空时保持原密码不变
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Param user body services.UpdateUserPayload true "待更新字段"
// @Success 200 {object} utils.SuccessResponse{data=models.User}
// @Failure 400 {object} utils.APIErrorResponse "参数校验失败"
// @Failure 404 {object} utils.APIErrorResponse "用户未找到"
// @Failure 409 {object} utils.APIErrorResponse "用户名已存在"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var payload services.UpdateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	user, err := h.service.UpdateUser(c.Param("id"), payload, c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.RespondNotFoundError(c, "用户")
		case errors.Is(err, services.ErrUsernameTaken):
			utils.RespondConflictError(c, "用户名已存在")
		case errors.Is(err, services.ErrInvalidRole),
			errors.Is(err, utils.ErrEmptyUsername),
			errors.Is(err, utils.ErrShortPassword):
			utils.RespondValidationError(c, err.Error())
		default:
			log.Printf("Failed to update user %s: %v", c.Param("id"), err)
			utils.RespondInternalServerError(c, "更新用户失败")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, user, "用户更新成功")
}

// DeactivateUser godoc
// @Summary 停用用户（软删除）
// @Description 停用后该用户无法登录，已有会话在过期前仍然有效
// @Tags Users
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.APIErrorResponse "用户未找到"
// @Router /users/{id} [delete]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	h.setActive(c, h.service.DeactivateUser, "用户已停用", "停用用户失败")
}

// ActivateUser godoc
// @Summary 重新激活用户
// @Tags Users
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.APIErrorResponse "用户未找到"
// @Router /users/{id}/activate [post]
func (h *UserHandler) ActivateUser(c *gin.Context) {
	h.setActive(c, h.service.ActivateUser, "用户已激活", "激活用户失败")
}

func (h *UserHandler) setActive(c *gin.Context, op func(id, actorID string) error, okMessage, failMessage string) {
	id := c.Param("id")
	if err := op(id, c.GetString("userID")); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondNotFoundError(c, "用户")
			return
		}
		log.Printf("%s %s: %v", failMessage, id, err)
		utils.RespondInternalServerError(c, failMessage)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, okMessage)
}
