package model

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePedagogic Role = "pedagogic"
	RoleFinance   Role = "finance"
	RoleSecretary Role = "secretary"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
	RolePending   Role = "pending" // 新注册、尚未分配角色
)

// Capability 操作能力，路由按能力而不是角色名鉴权
type Capability string

const (
	CapManageCalendar   Capability = "manage_calendar"
	CapManageCurriculum Capability = "manage_curriculum"
	CapManageAdmissions Capability = "manage_admissions"
	CapRecordGrades     Capability = "record_grades"
	CapManageStaff      Capability = "manage_staff"
	CapManageConfig     Capability = "manage_config"
	CapManageUsers      Capability = "manage_users"
	CapViewAcademic     Capability = "view_academic"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageCalendar: true, CapManageCurriculum: true, CapManageAdmissions: true,
		CapRecordGrades: true, CapManageStaff: true, CapManageConfig: true,
		CapManageUsers: true, CapViewAcademic: true,
	},
	RolePedagogic: {
		CapManageCalendar: true, CapManageCurriculum: true, CapManageAdmissions: true,
		CapRecordGrades: true, CapViewAcademic: true,
	},
	RoleSecretary: {
		CapManageAdmissions: true, CapManageStaff: true, CapViewAcademic: true,
	},
	RoleFinance: {
		CapViewAcademic: true,
	},
	RoleProfessor: {
		CapRecordGrades: true, CapViewAcademic: true,
	},
	RoleStudent: {
		CapViewAcademic: true,
	},
	RolePending: {},
}

// ParseRole 将字符串解析为角色；未知值返回 false
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleCapabilities[r]
	return r, ok
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can 角色是否具备某项能力
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

// Capabilities 返回角色的能力列表（用于 /auth/me 回显）
func (r Role) Capabilities() []Capability {
	all := []Capability{
		CapManageCalendar, CapManageCurriculum, CapManageAdmissions, CapRecordGrades,
		CapManageStaff, CapManageConfig, CapManageUsers, CapViewAcademic,
	}
	out := make([]Capability, 0, len(all))
	for _, c := range all {
		if r.Can(c) {
			out = append(out, c)
		}
	}
	return out
}
