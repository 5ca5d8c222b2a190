package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,role"`
}

// CreateUserRequest 管理员创建账号
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,notblank,min=3,max=50"`
	Name     string `json:"name"     binding:"required,notblank,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Role     string `json:"role"     binding:"required,role"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

// SetActiveRequest 启用/停用账号
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// ResetPasswordResponse 重置密码后返回一次性临时密码
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}
