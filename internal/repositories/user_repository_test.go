package repositories

import (
	"errors"
	"strings"
	"testing"

	"github.com/qms_management/internal/models"
)

func newTestUser(username string) *models.User {
	return &models.User{
		Username:     username,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
		Role:         models.RoleInspector,
		IsActive:     true,
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormUserRepository(database)

	if _, err := repo.Create(newTestUser("alice"), ""); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := repo.Create(newTestUser("alice"), ""); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
}

func TestUserDeactivateHidesFromLogin(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormUserRepository(database)

	user, err := repo.Create(newTestUser("bob"), "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := repo.GetActiveByUsername("bob"); err != nil {
		t.Fatalf("expected active lookup to succeed, got %v", err)
	}

	if err := repo.Deactivate(user.ID, "admin-1"); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	// 停用后登录查找失败，但按 ID 仍能管理
	if _, err := repo.GetActiveByUsername("bob"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected deactivated user to be hidden from login lookup, got %v", err)
	}
	got, err := repo.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected user to be inactive")
	}

	// 重新激活后恢复登录
	if err := repo.Activate(user.ID, "admin-1"); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if _, err := repo.GetActiveByUsername("bob"); err != nil {
		t.Errorf("expected reactivated user to be found, got %v", err)
	}
}

func TestUserUpdateMasksPasswordInAudit(t *testing.T) {
	database := newTestDB(t)
	repo := NewGormUserRepository(database)
	auditRepo := NewGormAuditRepository(database)

	user, err := repo.Create(newTestUser("carol"), "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := repo.Update(user.ID, map[string]interface{}{"password_hash": "$2a$10$newhashnewhashnewhashnewhashnewhash"}, "admin-1"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	entries, err := auditRepo.ListByEntity("users", user.ID)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	for _, e := range entries {
		if e.Changes == nil {
			continue
		}
		if strings.Contains(*e.Changes, "$2a$") {
			t.Errorf("audit changes must not contain the password hash: %s", *e.Changes)
		}
		if strings.Contains(*e.Changes, "updated_at") {
			t.Errorf("audit changes must not contain the timestamp column: %s", *e.Changes)
		}
	}
}
