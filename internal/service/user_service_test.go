package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

func newUserFixture() (*mocks, UserService) {
	m := newMocks()
	return m, NewUserService(m.repository(), testLogger())
}

// ── CreateUser ──

func TestCreateUser_Success(t *testing.T) {
	m, svc := newUserFixture()

	resp, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Username: "  maria ",
		Name:     "Maria Silva",
		Email:    "Maria.Silva@Escola.AO",
		Password: "inicial123",
		Role:     "secretary",
	}, "admin-1")
	if err != nil {
		t.Fatalf("期望创建成功，实际错误: %v", err)
	}
	if resp.Username != "maria" {
		t.Errorf("期望用户名去除空格，实际=%q", resp.Username)
	}
	if resp.Email != "maria.silva@escola.ao" {
		t.Errorf("期望邮箱转小写，实际=%s", resp.Email)
	}
	if !resp.MustChangePassword || !resp.Active {
		t.Error("期望新账号启用且首次登录须改密码")
	}

	stored := m.users.users[resp.ID]
	if stored.CreatedBy == nil || *stored.CreatedBy != "admin-1" {
		t.Error("期望记录创建人")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("inicial123")) != nil {
		t.Error("期望密码以 bcrypt 存储")
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	_, svc := newUserFixture()
	req := &dto.CreateUserRequest{Username: "joao", Name: "João", Email: "joao@escola.ao", Password: "inicial123", Role: "professor"}

	if _, err := svc.CreateUser(context.Background(), req, "admin-1"); err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}
	req.Username = "JOAO"
	_, err := svc.CreateUser(context.Background(), req, "admin-1")
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("期望 ErrUsernameExists，实际=%v", err)
	}
}

func TestCreateUser_UnknownRole(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Username: "x", Name: "X", Email: "x@escola.ao", Password: "inicial123", Role: "reitor",
	}, "admin-1")
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("期望 ErrUnknownRole，实际=%v", err)
	}
}

func TestCreateUser_WeakPassword(t *testing.T) {
	_, svc := newUserFixture()

	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Username: "fraco", Name: "Fraco", Email: "f@escola.ao", Password: "12345678", Role: "student",
	}, "admin-1")
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("期望 ErrWeakPassword，实际=%v", err)
	}
}

// ── AssignRole / SetActive ──

func TestAssignRole(t *testing.T) {
	m, svc := newUserFixture()
	u := seedUser(t, m, "pendente", "segredo123", model.RolePending, true)
	ctx := context.Background()

	resp, err := svc.AssignRole(ctx, u.UserID, &dto.AssignRoleRequest{Role: "pedagogic"}, "admin-1")
	if err != nil {
		t.Fatalf("AssignRole 失败: %v", err)
	}
	if resp.Role != string(model.RolePedagogic) {
		t.Errorf("期望角色=pedagogic，实际=%s", resp.Role)
	}
	if m.users.users[u.UserID].Role != model.RolePedagogic {
		t.Error("期望角色已持久化")
	}

	_, err = svc.AssignRole(ctx, "admin-1", &dto.AssignRoleRequest{Role: "student"}, "admin-1")
	if !errors.Is(err, ErrUserSelfRoleChange) {
		t.Errorf("期望 ErrUserSelfRoleChange，实际=%v", err)
	}

	_, err = svc.AssignRole(ctx, "inexistente", &dto.AssignRoleRequest{Role: "student"}, "admin-1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}

func TestSetActive(t *testing.T) {
	m, svc := newUserFixture()
	u := seedUser(t, m, "prof", "segredo123", model.RoleProfessor, true)
	ctx := context.Background()

	resp, err := svc.SetActive(ctx, u.UserID, false, "admin-1")
	if err != nil {
		t.Fatalf("SetActive 失败: %v", err)
	}
	if resp.Active {
		t.Error("期望账号已停用")
	}

	_, err = svc.SetActive(ctx, "admin-1", false, "admin-1")
	if !errors.Is(err, ErrUserSelfDisable) {
		t.Errorf("期望 ErrUserSelfDisable，实际=%v", err)
	}
}

// ── ResetPassword ──

func TestResetPassword(t *testing.T) {
	m, svc := newUserFixture()
	u := seedUser(t, m, "aluno", "segredo123", model.RoleStudent, true)

	resp, err := svc.ResetPassword(context.Background(), u.UserID, "admin-1")
	if err != nil {
		t.Fatalf("ResetPassword 失败: %v", err)
	}
	if len(resp.TempPassword) != 10 {
		t.Errorf("期望临时密码 10 位，实际=%d", len(resp.TempPassword))
	}
	if err := validatePassword(resp.TempPassword); err != nil {
		t.Errorf("期望临时密码满足密码规则，实际=%v", err)
	}

	stored := m.users.users[u.UserID]
	if !stored.MustChangePassword {
		t.Error("期望重置后须修改密码")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(resp.TempPassword)) != nil {
		t.Error("期望临时密码可登录")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pw, err := generateTempPassword(10)
		if err != nil {
			t.Fatalf("generateTempPassword 失败: %v", err)
		}
		if validatePassword(pw) != nil {
			t.Errorf("临时密码不满足规则: %s", pw)
		}
		seen[pw] = true
	}
	if len(seen) < 2 {
		t.Error("期望临时密码随机")
	}
}

// ── List ──

func TestListUsers_FilterByRole(t *testing.T) {
	m, svc := newUserFixture()
	seedUser(t, m, "p1", "segredo123", model.RoleProfessor, true)
	seedUser(t, m, "p2", "segredo123", model.RoleProfessor, true)
	seedUser(t, m, "s1", "segredo123", model.RoleSecretary, true)

	list, total, err := svc.List(context.Background(), &dto.UserListRequest{Role: "professor"})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("期望 2 位教师，实际 total=%d len=%d", total, len(list))
	}
}
