package service

import (
	"context"
	"errors"
	"testing"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

type subjectFixture struct {
	m        *mocks
	svc      SubjectService
	courseID string
}

func newSubjectFixture(t *testing.T) *subjectFixture {
	t.Helper()
	m := newMocks()
	course := &model.Course{Code: "EI", Name: "Engenharia Informática", Capacity: 30, Active: true}
	if err := m.courses.Create(context.Background(), course); err != nil {
		t.Fatalf("写入课程失败: %v", err)
	}
	return &subjectFixture{m: m, svc: NewSubjectService(m.repository(), testLogger()), courseID: course.CourseID}
}

func (f *subjectFixture) create(t *testing.T, code, name string, gradeID *string) *dto.SubjectResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.courseID, &dto.CreateSubjectRequest{
		GradeID: gradeID, Code: code, Name: name, CurricularYear: 1,
	}, "admin-1")
	if err != nil {
		t.Fatalf("创建科目 %s 失败: %v", code, err)
	}
	return resp
}

// ── Create ──

func TestCreateSubject_Defaults(t *testing.T) {
	f := newSubjectFixture(t)

	s := f.create(t, "PRG1", "Programação I", nil)
	if s.Area != string(model.AreaCore) || s.Period != 1 || !s.Active {
		t.Errorf("默认值不符: area=%s period=%d active=%v", s.Area, s.Period, s.Active)
	}

	_, err := f.svc.Create(context.Background(), f.courseID, &dto.CreateSubjectRequest{Code: "PRG1", Name: "Outra", CurricularYear: 1}, "admin-1")
	if !errors.Is(err, ErrSubjectCodeExists) {
		t.Errorf("期望 ErrSubjectCodeExists，实际=%v", err)
	}

	_, err = f.svc.Create(context.Background(), "inexistente", &dto.CreateSubjectRequest{Code: "X", Name: "X", CurricularYear: 1}, "admin-1")
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际=%v", err)
	}
}

func TestCreateSubject_ProjectDisablesSpecialRules(t *testing.T) {
	f := newSubjectFixture(t)

	resp, err := f.svc.Create(context.Background(), f.courseID, &dto.CreateSubjectRequest{
		Code: "TFC", Name: "Trabalho de Fim de Curso", CurricularYear: 4, Area: string(model.AreaProject),
		LawOfSevenApplicable: true, RequiresTwoPositives: true,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 失败: %v", err)
	}
	if !resp.IsProject || resp.LawOfSevenApplicable || resp.RequiresTwoPositives {
		t.Errorf("期望项目科目不适用七分规则和双及格，实际 %+v", resp)
	}
}

func TestCreateSubject_RomanAutoLink(t *testing.T) {
	f := newSubjectFixture(t)
	ctx := context.Background()
	grade := &model.CurriculumGrade{CourseID: f.courseID, Name: "Plano", Status: model.GradeActive, AutoRomanPrecedence: true}
	_ = f.m.grades.Create(ctx, grade)

	one := f.create(t, "MAT1", "Matemática I", &grade.GradeID)
	two := f.create(t, "MAT2", "Matemática II", &grade.GradeID)
	if len(two.Prerequisites) != 1 || two.Prerequisites[0] != one.ID {
		t.Errorf("期望 Matemática II 自动依赖 Matemática I，实际=%v", two.Prerequisites)
	}

	// 前驱不存在时不做处理
	four := f.create(t, "MAT4", "Matemática IV", &grade.GradeID)
	if len(four.Prerequisites) != 0 {
		t.Errorf("期望缺少前驱时无先修，实际=%v", four.Prerequisites)
	}

	// 方案未开启时不自动关联
	plain := &model.CurriculumGrade{CourseID: f.courseID, Name: "Outro", Status: model.GradeDraft}
	_ = f.m.grades.Create(ctx, plain)
	three := f.create(t, "MAT3", "Matemática III", &plain.GradeID)
	if len(three.Prerequisites) != 0 {
		t.Errorf("期望未开启自动关联时无先修，实际=%v", three.Prerequisites)
	}
}

func TestCreateSubject_GradeFromOtherCourse(t *testing.T) {
	f := newSubjectFixture(t)
	grade := &model.CurriculumGrade{CourseID: "outro-curso", Name: "Plano", Status: model.GradeActive}
	_ = f.m.grades.Create(context.Background(), grade)

	_, err := f.svc.Create(context.Background(), f.courseID, &dto.CreateSubjectRequest{
		GradeID: &grade.GradeID, Code: "X", Name: "X", CurricularYear: 1,
	}, "admin-1")
	if !errors.Is(err, ErrSubjectGradeMismatch) {
		t.Errorf("期望 ErrSubjectGradeMismatch，实际=%v", err)
	}
}

// ── 先修关系 ──

func TestAddPrerequisite_RejectsCycle(t *testing.T) {
	f := newSubjectFixture(t)
	ctx := context.Background()
	a := f.create(t, "A", "Álgebra", nil)
	b := f.create(t, "B", "Cálculo", nil)
	c := f.create(t, "C", "Análise", nil)

	if _, err := f.svc.AddPrerequisite(ctx, b.ID, a.ID, "admin-1"); err != nil {
		t.Fatalf("B→A 失败: %v", err)
	}
	resp, err := f.svc.AddPrerequisite(ctx, c.ID, b.ID, "admin-1")
	if err != nil {
		t.Fatalf("C→B 失败: %v", err)
	}
	if len(resp.Prerequisites) != 1 || resp.Prerequisites[0] != b.ID {
		t.Errorf("期望 C 依赖 B，实际=%v", resp.Prerequisites)
	}

	_, err = f.svc.AddPrerequisite(ctx, a.ID, c.ID, "admin-1")
	if !errors.Is(err, ErrPrerequisiteCycle) {
		t.Errorf("期望 ErrPrerequisiteCycle，实际=%v", err)
	}

	_, err = f.svc.AddPrerequisite(ctx, a.ID, a.ID, "admin-1")
	if !errors.Is(err, ErrSelfPrerequisite) {
		t.Errorf("期望 ErrSelfPrerequisite，实际=%v", err)
	}

	_, err = f.svc.AddPrerequisite(ctx, b.ID, a.ID, "admin-1")
	if !errors.Is(err, ErrPrerequisiteEdgeExists) {
		t.Errorf("期望 ErrPrerequisiteEdgeExists，实际=%v", err)
	}
}

func TestAddPrerequisite_OtherCourse(t *testing.T) {
	f := newSubjectFixture(t)
	ctx := context.Background()
	a := f.create(t, "A", "Álgebra", nil)
	foreign := &model.Subject{CourseID: "outro-curso", Code: "Z", Name: "Zoologia"}
	_ = f.m.subjects.Create(ctx, foreign)

	_, err := f.svc.AddPrerequisite(ctx, a.ID, foreign.SubjectID, "admin-1")
	if !errors.Is(err, ErrPrerequisiteCourse) {
		t.Errorf("期望 ErrPrerequisiteCourse，实际=%v", err)
	}
}

func TestRemovePrerequisite(t *testing.T) {
	f := newSubjectFixture(t)
	ctx := context.Background()
	a := f.create(t, "A", "Álgebra", nil)
	b := f.create(t, "B", "Cálculo", nil)
	_, _ = f.svc.AddPrerequisite(ctx, b.ID, a.ID, "admin-1")

	if err := f.svc.RemovePrerequisite(ctx, b.ID, a.ID); err != nil {
		t.Fatalf("RemovePrerequisite 失败: %v", err)
	}
	if err := f.svc.RemovePrerequisite(ctx, b.ID, a.ID); !errors.Is(err, ErrPrerequisiteNotFound) {
		t.Errorf("期望 ErrPrerequisiteNotFound，实际=%v", err)
	}

	// 删除后 A→B 不再成环
	if _, err := f.svc.AddPrerequisite(ctx, a.ID, b.ID, "admin-1"); err != nil {
		t.Errorf("期望删除旧边后可反向添加，实际=%v", err)
	}
}

// ── Delete ──

func TestDeleteSubject_BlockedByGrades(t *testing.T) {
	f := newSubjectFixture(t)
	ctx := context.Background()
	s := f.create(t, "A", "Álgebra", nil)
	f.m.subjects.refs[s.ID] = 3

	if err := f.svc.Delete(ctx, s.ID, "admin-1"); !errors.Is(err, ErrSubjectInUse) {
		t.Errorf("期望 ErrSubjectInUse，实际=%v", err)
	}

	f.m.subjects.refs[s.ID] = 0
	if err := f.svc.Delete(ctx, s.ID, "admin-1"); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := f.svc.Get(ctx, s.ID); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("期望 ErrSubjectNotFound，实际=%v", err)
	}
}

func TestDeleteSubject_BlockedByAdmissionRequirement(t *testing.T) {
	f := newSubjectFixture(t)
	ctx := context.Background()
	s := f.create(t, "MAT", "Matemática", nil)
	f.m.prereqs.byCourse["course-other"] = []model.PrerequisiteRequirement{
		{CourseID: "course-other", SubjectID: s.ID, Mandatory: true},
	}

	if err := f.svc.Delete(ctx, s.ID, "admin-1"); !errors.Is(err, ErrSubjectInUse) {
		t.Errorf("期望被先修要求引用时 ErrSubjectInUse，实际=%v", err)
	}

	delete(f.m.prereqs.byCourse, "course-other")
	if err := f.svc.Delete(ctx, s.ID, "admin-1"); err != nil {
		t.Fatalf("解除引用后 Delete 失败: %v", err)
	}
}

func TestListSubjectsByCourse(t *testing.T) {
	f := newSubjectFixture(t)
	ctx := context.Background()
	a := f.create(t, "A", "Álgebra", nil)
	b := f.create(t, "B", "Cálculo", nil)
	_, _ = f.svc.AddPrerequisite(ctx, b.ID, a.ID, "admin-1")

	list, err := f.svc.ListByCourse(ctx, f.courseID)
	if err != nil {
		t.Fatalf("ListByCourse 失败: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 个科目，实际=%d", len(list))
	}
	for _, s := range list {
		if s.ID == b.ID && (len(s.Prerequisites) != 1 || s.Prerequisites[0] != a.ID) {
			t.Errorf("期望列表中 B 带上先修 A，实际=%v", s.Prerequisites)
		}
	}
}
