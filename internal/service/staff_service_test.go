package service

import (
	"context"
	"errors"
	"testing"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

func newStaffFixture() (*mocks, StaffService) {
	m := newMocks()
	return m, NewStaffService(m.repository(), testLogger())
}

// ── Professor ──

func TestCreateProfessor_CodesPerHiringYear(t *testing.T) {
	m, svc := newStaffFixture()
	ctx := context.Background()
	current := seedYear(t, m, "2025/2026", model.YearActive, true)
	older := seedYear(t, m, "2024/2025", model.YearClosed, false)

	a, err := svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: " Carlos Neto ", Email: "Carlos@Escola.AO"}, "admin-1")
	if err != nil {
		t.Fatalf("CreateProfessor 失败: %v", err)
	}
	b, _ := svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: "Maria João", Email: "maria@escola.ao"}, "admin-1")
	c, _ := svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: "Pedro", Email: "pedro@escola.ao", YearID: older.YearID}, "admin-1")

	if a.Code != "PROF/2025/0001" || b.Code != "PROF/2025/0002" {
		t.Errorf("期望 PROF/2025/0001、0002，实际=%s/%s", a.Code, b.Code)
	}
	if c.Code != "PROF/2024/0001" {
		t.Errorf("期望每个学年独立编号 PROF/2024/0001，实际=%s", c.Code)
	}
	if a.YearID != current.YearID || a.FullName != "Carlos Neto" || a.Email != "carlos@escola.ao" || !a.Active {
		t.Errorf("教师信息不符: %+v", a)
	}
}

func TestCreateProfessor_Errors(t *testing.T) {
	m, svc := newStaffFixture()
	ctx := context.Background()

	_, err := svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: "X", Email: "x@escola.ao"}, "admin-1")
	if !errors.Is(err, ErrNoCurrentAcademicYear) {
		t.Errorf("期望没有当前学年时 ErrNoCurrentAcademicYear，实际=%v", err)
	}
	_, err = svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: "X", Email: "x@escola.ao", YearID: "year-x"}, "admin-1")
	if !errors.Is(err, ErrAcademicYearNotFound) {
		t.Errorf("期望 ErrAcademicYearNotFound，实际=%v", err)
	}

	seedYear(t, m, "2025/2026", model.YearActive, true)
	if _, err := svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: "X", Email: "x@escola.ao"}, "admin-1"); err != nil {
		t.Fatalf("CreateProfessor 失败: %v", err)
	}
	_, err = svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: "Y", Email: "X@ESCOLA.AO"}, "admin-1")
	if !errors.Is(err, ErrProfessorEmailExists) {
		t.Errorf("期望邮箱重复 ErrProfessorEmailExists，实际=%v", err)
	}
}

func TestUpdateProfessor(t *testing.T) {
	m, svc := newStaffFixture()
	ctx := context.Background()
	seedYear(t, m, "2025/2026", model.YearActive, true)
	a, _ := svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: "Carlos", Email: "carlos@escola.ao"}, "admin-1")
	b, _ := svc.CreateProfessor(ctx, &dto.CreateProfessorRequest{FullName: "Maria", Email: "maria@escola.ao"}, "admin-1")

	degree, inactive := "Mestre", false
	resp, err := svc.UpdateProfessor(ctx, a.ID, &dto.UpdateProfessorRequest{Degree: &degree, Active: &inactive}, "admin-1")
	if err != nil {
		t.Fatalf("UpdateProfessor 失败: %v", err)
	}
	if resp.Degree != "Mestre" || resp.Active || resp.Code != a.Code || resp.FullName != "Carlos" {
		t.Errorf("期望只更新传入字段，实际=%+v", resp)
	}

	taken := "Maria@escola.ao"
	_, err = svc.UpdateProfessor(ctx, a.ID, &dto.UpdateProfessorRequest{Email: &taken}, "admin-1")
	if !errors.Is(err, ErrProfessorEmailExists) {
		t.Errorf("期望 ErrProfessorEmailExists，实际=%v", err)
	}

	// 自己的邮箱不算冲突
	same := "MARIA@escola.ao"
	if _, err := svc.UpdateProfessor(ctx, b.ID, &dto.UpdateProfessorRequest{Email: &same}, "admin-1"); err != nil {
		t.Errorf("期望保存自身邮箱成功，实际=%v", err)
	}

	if _, err := svc.GetProfessor(ctx, "prof-x"); !errors.Is(err, ErrProfessorNotFound) {
		t.Errorf("期望 ErrProfessorNotFound，实际=%v", err)
	}

	list, total, _ := svc.ListProfessors(ctx, &dto.PaginationRequest{Page: 1, PageSize: 1})
	if total != 2 || len(list) != 1 || list[0].Code != "PROF/2025/0001" {
		t.Errorf("期望按编号分页，实际 total=%d list=%+v", total, list)
	}
}

// ── Student ──

func TestListStudents(t *testing.T) {
	m, svc := newStaffFixture()
	ctx := context.Background()
	_ = m.students.Create(ctx, &model.Student{Number: "ALU-000002", CourseID: "course-a", FullName: "B", Active: true})
	_ = m.students.Create(ctx, &model.Student{Number: "ALU-000001", CourseID: "course-a", FullName: "A", Active: true})
	other := &model.Student{Number: "ALU-000003", CourseID: "course-b", FullName: "C"}
	_ = m.students.Create(ctx, other)

	list, total, err := svc.ListStudents(ctx, &dto.StudentListRequest{CourseID: "course-a"})
	if err != nil {
		t.Fatalf("ListStudents 失败: %v", err)
	}
	if total != 2 || list[0].Number != "ALU-000001" {
		t.Errorf("期望按学号排序的 2 名学生，实际 total=%d first=%s", total, list[0].Number)
	}

	got, err := svc.GetStudent(ctx, other.StudentID)
	if err != nil || got.Number != "ALU-000003" || got.Active {
		t.Errorf("GetStudent 结果不符: %+v err=%v", got, err)
	}
	if _, err := svc.GetStudent(ctx, "student-x"); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际=%v", err)
	}
}
