package services

import (
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/qms_management/internal/models"
	"github.com/qms_management/internal/repositories"
	"github.com/qms_management/pkg/utils"
)

// ErrUserNotFound 表示用户未找到
var ErrUserNotFound = errors.New("用户未找到")

// ErrInvalidRole 表示角色不在合法角色列表中
var ErrInvalidRole = errors.New("无效的用户角色")

// ErrUsernameTaken 表示用户名已被占用（服务层错误）
var ErrUsernameTaken = errors.New("用户名已存在")

// UpdateUserPayload 定义了更新用户的可选字段。密码为空表示不修改。
type UpdateUserPayload struct {
	Username *string `json:"username,omitempty" binding:"omitempty,max=255"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// UserService 定义了用户管理服务的接口。
// 所有操作仅限 Admin 调用（由路由中间件保证）。用户从不物理删除。
type UserService interface {
	CreateUser(username, password, role, actorID string) (*models.User, error)
	ListUsers() ([]models.User, error)
	GetUser(id string) (*models.User, error)
	UpdateUser(id string, payload UpdateUserPayload, actorID string) (*models.User, error)
	DeactivateUser(id, actorID string) error
	ActivateUser(id, actorID string) error
	// EnsureDefaultAdmin 在用户表为空时创建默认管理员账号
	EnsureDefaultAdmin() error
}

// userService 是 UserService 的实现
type userService struct {
	repo repositories.UserRepository
}

// NewUserService 创建一个新的 userService 实例
func NewUserService(repo repositories.UserRepository) UserService {
	return &userService{repo: repo}
}

// CreateUser 校验并创建新用户，密码以 bcrypt 哈希存储
func (s *userService) CreateUser(username, password, role, actorID string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, utils.ErrEmptyUsername
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	created, err := s.repo.Create(user, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return created, nil
}

// ListUsers 返回全部用户
func (s *userService) ListUsers() ([]models.User, error) {
	return s.repo.List()
}

// GetUser 按 ID 获取用户
func (s *userService) GetUser(id string) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser 部分更新用户。密码只有在提供且非空时才重新哈希。
func (s *userService) UpdateUser(id string, payload UpdateUserPayload, actorID string) (*models.User, error) {
	updates := make(map[string]interface{})

	if payload.Username != nil {
		username := strings.TrimSpace(*payload.Username)
		if username == "" {
			return nil, utils.ErrEmptyUsername
		}
		updates["username"] = username
	}
	if payload.Password != nil && *payload.Password != "" {
		if err := utils.ValidatePassword(*payload.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}
	if payload.Role != nil {
		if !models.IsValidRole(*payload.Role) {
			return nil, ErrInvalidRole
		}
		updates["role"] = *payload.Role
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.repo.Update(id, updates, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repositories.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// DeactivateUser 停用用户（软删除语义）
func (s *userService) DeactivateUser(id, actorID string) error {
	err := s.repo.Deactivate(id, actorID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// ActivateUser 恢复停用的用户
func (s *userService) ActivateUser(id, actorID string) error {
	err := s.repo.Activate(id, actorID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// EnsureDefaultAdmin 在用户表为空时创建默认管理员（admin/admin123）。
// 仅用于首次启动引导，生产环境应立即修改该账号密码。
func (s *userService) EnsureDefaultAdmin() error {
	count, err := s.repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := s.CreateUser("admin", "admin123", models.RoleAdmin, ""); err != nil {
		return err
	}
	log.Println("已创建默认管理员账号 (username: admin)。请在生产环境中立即修改密码。")
	return nil
}
