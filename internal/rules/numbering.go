package rules

import "fmt"

// 计数器作用域
const (
	ScopeEnrollment = "enrollment"
	ScopeStudent    = "student"
)

// ScopeProfessor 教师编号按学年起始年份分别计数
func ScopeProfessor(year int) string {
	return fmt.Sprintf("professor:%d", year)
}

// EnrollmentNumber INS-000001
func EnrollmentNumber(n int64) string {
	return fmt.Sprintf("INS-%06d", n)
}

// StudentNumber ALU-000001
func StudentNumber(n int64) string {
	return fmt.Sprintf("ALU-%06d", n)
}

// ProfessorCode PROF/2025/0001
func ProfessorCode(year int, n int64) string {
	return fmt.Sprintf("PROF/%d/%04d", year, n)
}
