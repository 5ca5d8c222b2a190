package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

type enrollmentFixture struct {
	m      *mocks
	svc    EnrollmentService
	year   *model.AcademicYear
	course *model.Course
}

// newEnrollmentFixture 当前学年 2025/2026，报名期 2025-10-01 至 2025-10-15
func newEnrollmentFixture(t *testing.T, now time.Time) *enrollmentFixture {
	t.Helper()
	m := newMocks()
	ctx := context.Background()

	year := seedYear(t, m, "2025/2026", model.YearActive, true)
	_ = m.events.Create(ctx, &model.CalendarEvent{
		YearID: year.YearID, Title: "Inscrições", Type: model.EventEnrollment,
		StartDate: date("2025-10-01"), EndDate: date("2025-10-15"), Status: model.EventActive,
	})
	course := &model.Course{Code: "EI", Name: "Engenharia Informática", Capacity: 2, MinimumScore: dec("10"), Active: true}
	if err := m.courses.Create(ctx, course); err != nil {
		t.Fatalf("写入课程失败: %v", err)
	}

	academics := NewAcademicConfigService(m.repository(), testAcademicConfig(), nil, testLogger())
	svc := NewEnrollmentService(m.repository(), testAcademicConfig(), academics, testLogger()).(*enrollmentService)
	svc.now = func() time.Time { return now }
	return &enrollmentFixture{m: m, svc: svc, year: year, course: course}
}

func (f *enrollmentFixture) request(name, sex, birth, id string) *dto.SubmitEnrollmentRequest {
	return &dto.SubmitEnrollmentRequest{
		FullName:     name,
		Sex:          sex,
		BirthDate:    birth,
		IdentityCard: id,
		Email:        id + "@Mail.AO",
		Phone:        "+244-" + id,
		CourseID:     f.course.CourseID,
	}
}

func (f *enrollmentFixture) submit(t *testing.T, name, sex, birth, id string) *dto.EnrollmentResponse {
	t.Helper()
	resp, err := f.svc.Submit(context.Background(), f.request(name, sex, birth, id))
	if err != nil {
		t.Fatalf("提交报名 %s 失败: %v", name, err)
	}
	return resp
}

func (f *enrollmentFixture) scores(t *testing.T, entries ...dto.TestScoreEntry) *dto.BatchResult {
	t.Helper()
	res, err := f.svc.RecordTestScores(context.Background(), &dto.RecordTestScoresRequest{Entries: entries}, "admin-1")
	if err != nil {
		t.Fatalf("RecordTestScores 失败: %v", err)
	}
	return res
}

var octFifth = time.Date(2025, 10, 5, 10, 0, 0, 0, time.UTC)

// ── Submit ──

func TestSubmit_AssignsSequentialNumbers(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)

	a := f.submit(t, "Ana Silva", "F", "2004-02-10", "001")
	b := f.submit(t, "Bruno Costa", "M", "2003-07-21", "002")
	if a.Number != "INS-000001" || b.Number != "INS-000002" {
		t.Errorf("期望编号 INS-000001/INS-000002，实际=%s/%s", a.Number, b.Number)
	}
	if a.Email != "001@mail.ao" {
		t.Errorf("期望邮箱小写保存，实际=%s", a.Email)
	}
	if a.YearID != f.year.YearID || a.CourseName != "Engenharia Informática" {
		t.Errorf("期望归属当前学年与课程，实际 year=%s course=%s", a.YearID, a.CourseName)
	}
	if a.MatriculationStatus != "pending" || a.Approved || a.TestScore != nil {
		t.Errorf("新报名状态不符: %+v", a)
	}
}

func TestSubmit_Duplicate(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	f.submit(t, "Ana Silva", "F", "2004-02-10", "001")

	req := f.request("Outra Pessoa", "F", "2004-02-10", "999")
	req.Email = "001@mail.ao"
	_, err := f.svc.Submit(context.Background(), req)
	if !errors.Is(err, ErrEnrollmentDuplicate) {
		t.Errorf("期望邮箱重复返回 ErrEnrollmentDuplicate，实际=%v", err)
	}
}

func TestSubmit_Window(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		open bool
	}{
		{"报名期首日", time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC), true},
		{"报名期末日", time.Date(2025, 10, 15, 20, 0, 0, 0, time.UTC), true},
		// 罗安达时间已是 10 月 16 日
		{"报名期结束后", time.Date(2025, 10, 15, 23, 30, 0, 0, time.UTC), false},
		{"报名期之前", time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEnrollmentFixture(t, tt.now)
			_, err := f.svc.Submit(context.Background(), f.request("Ana", "F", "2004-02-10", "001"))
			if tt.open && err != nil {
				t.Errorf("期望报名成功，实际=%v", err)
			}
			if !tt.open && !errors.Is(err, ErrEnrollmentClosed) {
				t.Errorf("期望 ErrEnrollmentClosed，实际=%v", err)
			}
		})
	}
}

func TestSubmit_NoCurrentYear(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	f.m.years.years[f.year.YearID].IsCurrent = false

	_, err := f.svc.Submit(context.Background(), f.request("Ana", "F", "2004-02-10", "001"))
	if !errors.Is(err, ErrEnrollmentClosed) {
		t.Errorf("期望没有当前学年时不开放报名，实际=%v", err)
	}
}

func TestSubmit_InactiveCourse(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	f.m.courses.courses[f.course.CourseID].Active = false

	_, err := f.svc.Submit(context.Background(), f.request("Ana", "F", "2004-02-10", "001"))
	if !errors.Is(err, ErrCourseInactive) {
		t.Errorf("期望 ErrCourseInactive，实际=%v", err)
	}
}

// ── 既往成绩与资格 ──

func TestSubmit_PriorGradesAndEligibility(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	ctx := context.Background()
	mat := &model.Subject{CourseID: f.course.CourseID, Code: "MAT", Name: "Matemática"}
	fis := &model.Subject{CourseID: f.course.CourseID, Code: "FIS", Name: "Física"}
	_ = f.m.subjects.Create(ctx, mat)
	_ = f.m.subjects.Create(ctx, fis)
	f.m.prereqs.byCourse[f.course.CourseID] = []model.PrerequisiteRequirement{
		{CourseID: f.course.CourseID, SubjectID: mat.SubjectID, MinimumGrade: dec("12"), Mandatory: true},
		{CourseID: f.course.CourseID, SubjectID: fis.SubjectID, MinimumGrade: dec("10"), Mandatory: true},
	}

	req := f.request("Ana", "F", "2004-02-10", "001")
	req.PreviousSchool = "Liceu Nº 1"
	req.PriorGrades = []dto.PriorGradeItem{{SubjectID: mat.SubjectID, Grade: "13,5", CompletionYear: 2024}}
	e, err := f.svc.Submit(ctx, req)
	if err != nil {
		t.Fatalf("Submit 失败: %v", err)
	}

	res, err := f.svc.Eligibility(ctx, e.ID)
	if err != nil {
		t.Fatalf("Eligibility 失败: %v", err)
	}
	if res.Eligible || len(res.Missing) != 1 {
		t.Errorf("期望缺少 Física 而不合格，实际 eligible=%v missing=%v", res.Eligible, res.Missing)
	}

	if _, err := f.svc.UpsertPriorGrade(ctx, e.ID, &dto.PriorGradeItem{SubjectID: fis.SubjectID, Grade: "11"}, "admin-1"); err != nil {
		t.Fatalf("UpsertPriorGrade 失败: %v", err)
	}
	res, _ = f.svc.Eligibility(ctx, e.ID)
	if !res.Eligible {
		t.Errorf("期望补录后合格，实际=%+v", res)
	}

	grades, _ := f.svc.ListPriorGrades(ctx, e.ID)
	if len(grades) != 2 {
		t.Fatalf("期望 2 条既往成绩，实际=%d", len(grades))
	}
	for _, g := range grades {
		if g.SubjectID == mat.SubjectID && g.Grade != "13.50" {
			t.Errorf("期望逗号小数保存为 13.50，实际=%s", g.Grade)
		}
	}
}

func TestSubmit_PriorGradeValidation(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	mat := &model.Subject{CourseID: f.course.CourseID, Code: "MAT", Name: "Matemática"}
	_ = f.m.subjects.Create(context.Background(), mat)

	req := f.request("Ana", "F", "2004-02-10", "001")
	req.PriorGrades = []dto.PriorGradeItem{{SubjectID: mat.SubjectID, Grade: "12"}, {SubjectID: mat.SubjectID, Grade: "14"}}
	if _, err := f.svc.Submit(context.Background(), req); !errors.Is(err, ErrPriorGradeDuplicate) {
		t.Errorf("期望 ErrPriorGradeDuplicate，实际=%v", err)
	}

	req.PriorGrades = []dto.PriorGradeItem{{SubjectID: "inexistente", Grade: "12"}}
	if _, err := f.svc.Submit(context.Background(), req); !errors.Is(err, ErrPriorGradeSubject) {
		t.Errorf("期望 ErrPriorGradeSubject，实际=%v", err)
	}
	if len(f.m.enrollments.items) != 0 {
		t.Error("期望校验失败时不写入报名")
	}
}

// ── 入学考试成绩 ──

func TestRecordTestScores_SkipsMalformed(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	a := f.submit(t, "Ana", "F", "2004-02-10", "001")
	b := f.submit(t, "Bruno", "M", "2003-07-21", "002")

	res := f.scores(t,
		dto.TestScoreEntry{EnrollmentID: a.ID, Score: "15,75"},
		dto.TestScoreEntry{EnrollmentID: b.ID, Score: "abc"},
		dto.TestScoreEntry{EnrollmentID: b.ID, Score: "21"},
		dto.TestScoreEntry{EnrollmentID: "inexistente", Score: "12"},
	)
	if res.Total != 4 || res.Applied != 1 || res.Skipped != 3 {
		t.Errorf("期望 total=4 applied=1 skipped=3，实际=%+v", res)
	}
	if len(res.Errors) != 3 || res.Errors[0].Index != 1 || res.Errors[2].Index != 3 {
		t.Errorf("期望错误条目保留原始下标，实际=%+v", res.Errors)
	}
	if len(res.Errors) == 3 && res.Errors[2].Reason != ErrInvalidEntryID.Error() {
		t.Errorf("期望非法 ID 只跳过该条，实际原因=%s", res.Errors[2].Reason)
	}

	got, _ := f.svc.GetByID(context.Background(), a.ID)
	if got.TestScore == nil || *got.TestScore != "15.75" {
		t.Errorf("期望成绩 15.75，实际=%v", got.TestScore)
	}

	// 空字符串清除成绩
	f.scores(t, dto.TestScoreEntry{EnrollmentID: a.ID, Score: ""})
	got, _ = f.svc.GetByID(context.Background(), a.ID)
	if got.TestScore != nil {
		t.Errorf("期望成绩被清除，实际=%v", *got.TestScore)
	}
}

func TestRecordTestScores_UnknownIDSkipped(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	a := f.submit(t, "Ana", "F", "2004-02-10", "001")

	res := f.scores(t,
		dto.TestScoreEntry{EnrollmentID: "00000000-0000-4000-8000-000000000099", Score: "12"},
		dto.TestScoreEntry{EnrollmentID: "", Score: "12"},
		dto.TestScoreEntry{EnrollmentID: a.ID, Score: "13"},
	)
	if res.Applied != 1 || res.Skipped != 2 {
		t.Fatalf("期望 applied=1 skipped=2，实际=%+v", res)
	}
	reasons := map[int]string{}
	for _, e := range res.Errors {
		reasons[e.Index] = e.Reason
	}
	if reasons[0] != ErrEnrollmentNotFound.Error() || reasons[1] != ErrInvalidEntryID.Error() {
		t.Errorf("期望 0=不存在 1=ID 无效，实际=%v", reasons)
	}
}

// ── 录取排名 ──

func TestRunAdmission_RanksWithTieBreak(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	ctx := context.Background()
	young := f.submit(t, "Jovem", "F", "2005-01-01", "001")
	old := f.submit(t, "Mais Velho", "M", "2001-01-01", "002")
	mid := f.submit(t, "Médio", "F", "2003-01-01", "003")
	low := f.submit(t, "Abaixo", "M", "2002-01-01", "004")
	edge := f.submit(t, "No Limite", "F", "2002-06-01", "005")
	f.submit(t, "Sem Nota", "M", "2002-01-01", "006")

	f.scores(t,
		dto.TestScoreEntry{EnrollmentID: young.ID, Score: "15"},
		dto.TestScoreEntry{EnrollmentID: old.ID, Score: "15"},
		dto.TestScoreEntry{EnrollmentID: mid.ID, Score: "12"},
		dto.TestScoreEntry{EnrollmentID: low.ID, Score: "9.99"},
		dto.TestScoreEntry{EnrollmentID: edge.ID, Score: "10"},
	)

	res, err := f.svc.RunAdmission(ctx, f.course.CourseID, &dto.RunAdmissionRequest{}, "admin-1")
	if err != nil {
		t.Fatalf("RunAdmission 失败: %v", err)
	}
	if res.YearID != f.year.YearID || res.Criterion != "older_first" {
		t.Errorf("期望当前学年与 older_first，实际 year=%s criterion=%s", res.YearID, res.Criterion)
	}
	if res.EligibleCount != 4 || res.ApprovedCount != 2 {
		t.Errorf("期望合格 4 人录取 2 人，实际=%d/%d", res.EligibleCount, res.ApprovedCount)
	}

	wantOrder := []string{old.ID, young.ID, mid.ID, edge.ID}
	for i, r := range res.Ranking {
		if r.EnrollmentID != wantOrder[i] || r.Position != i+1 {
			t.Errorf("名次 %d 期望 %s，实际=%s", i+1, wantOrder[i], r.EnrollmentID)
		}
		if r.Approved != (i < 2) {
			t.Errorf("名次 %d 录取状态不符: %v", i+1, r.Approved)
		}
	}
	if res.Ranking[0].Score != "15.00" {
		t.Errorf("期望分数格式 15.00，实际=%s", res.Ranking[0].Score)
	}

	st, _ := f.svc.GetStatus(ctx, "ins-000002")
	if !st.Approved || st.ResultAt == nil || st.CourseName != "Engenharia Informática" {
		t.Errorf("公开查询结果不符: %+v", st)
	}

	// 扩大名额后重新排名，结果整体替换
	f.m.courses.courses[f.course.CourseID].Capacity = 3
	res, _ = f.svc.RunAdmission(ctx, f.course.CourseID, &dto.RunAdmissionRequest{}, "admin-1")
	if res.ApprovedCount != 3 {
		t.Errorf("期望重新排名后录取 3 人，实际=%d", res.ApprovedCount)
	}
	if f.m.enrollments.items[low.ID].Approved {
		t.Error("期望低于最低分的报名不被录取")
	}

	runs, _ := f.svc.ListAdmissionRuns(ctx, f.course.CourseID)
	if len(runs) != 2 || runs[0].ApprovedCount != 3 || runs[0].RunBy != "admin-1" {
		t.Errorf("期望两条审计记录且最新在前，实际=%+v", runs)
	}
}

func TestRunAdmission_ConfiguredTieBreak(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	ctx := context.Background()
	academics := NewAcademicConfigService(f.m.repository(), testAcademicConfig(), nil, testLogger())
	if _, err := academics.Update(ctx, validConfigRequest(), "admin-1"); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}

	man := f.submit(t, "Homem", "M", "2001-01-01", "001")
	woman := f.submit(t, "Mulher", "F", "2005-01-01", "002")
	f.scores(t,
		dto.TestScoreEntry{EnrollmentID: man.ID, Score: "14"},
		dto.TestScoreEntry{EnrollmentID: woman.ID, Score: "14"},
	)
	f.m.courses.courses[f.course.CourseID].Capacity = 1

	res, err := f.svc.RunAdmission(ctx, f.course.CourseID, &dto.RunAdmissionRequest{}, "admin-1")
	if err != nil {
		t.Fatalf("RunAdmission 失败: %v", err)
	}
	if res.Criterion != "female_first" || res.Ranking[0].EnrollmentID != woman.ID || !res.Ranking[0].Approved {
		t.Errorf("期望 female_first 录取女性候选人，实际=%+v", res)
	}
}

func TestRunAdmission_Errors(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	ctx := context.Background()

	_, err := f.svc.RunAdmission(ctx, "inexistente", &dto.RunAdmissionRequest{}, "admin-1")
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际=%v", err)
	}
	_, err = f.svc.RunAdmission(ctx, f.course.CourseID, &dto.RunAdmissionRequest{YearID: "year-x"}, "admin-1")
	if !errors.Is(err, ErrAcademicYearNotFound) {
		t.Errorf("期望 ErrAcademicYearNotFound，实际=%v", err)
	}

	f.m.years.years[f.year.YearID].IsCurrent = false
	_, err = f.svc.RunAdmission(ctx, f.course.CourseID, &dto.RunAdmissionRequest{}, "admin-1")
	if !errors.Is(err, ErrNoCurrentAcademicYear) {
		t.Errorf("期望 ErrNoCurrentAcademicYear，实际=%v", err)
	}
}

// ── 注册 ──

func TestMatriculate(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	ctx := context.Background()
	a := f.submit(t, "Ana", "F", "2004-02-10", "001")
	b := f.submit(t, "Bruno", "M", "2003-07-21", "002")

	if _, err := f.svc.Matriculate(ctx, a.ID, "admin-1"); !errors.Is(err, ErrEnrollmentNotApproved) {
		t.Errorf("期望未录取时 ErrEnrollmentNotApproved，实际=%v", err)
	}

	f.scores(t,
		dto.TestScoreEntry{EnrollmentID: a.ID, Score: "16"},
		dto.TestScoreEntry{EnrollmentID: b.ID, Score: "13"},
	)
	if _, err := f.svc.RunAdmission(ctx, f.course.CourseID, &dto.RunAdmissionRequest{}, "admin-1"); err != nil {
		t.Fatalf("RunAdmission 失败: %v", err)
	}

	res, err := f.svc.Matriculate(ctx, a.ID, "admin-1")
	if err != nil {
		t.Fatalf("Matriculate 失败: %v", err)
	}
	if res.StudentNumber != "ALU-000001" || res.CourseID != f.course.CourseID {
		t.Errorf("期望学号 ALU-000001，实际=%+v", res)
	}
	if _, err := f.svc.Matriculate(ctx, a.ID, "admin-1"); !errors.Is(err, ErrAlreadyMatriculated) {
		t.Errorf("期望 ErrAlreadyMatriculated，实际=%v", err)
	}

	// 名额减少后第二位已录取者无法注册
	f.m.courses.courses[f.course.CourseID].Capacity = 1
	if _, err := f.svc.Matriculate(ctx, b.ID, "admin-1"); !errors.Is(err, ErrNoSeatsAvailable) {
		t.Errorf("期望 ErrNoSeatsAvailable，实际=%v", err)
	}
}

func TestCancelMatriculation_ReusesStudentNumber(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	ctx := context.Background()
	a := f.submit(t, "Ana", "F", "2004-02-10", "001")
	f.scores(t, dto.TestScoreEntry{EnrollmentID: a.ID, Score: "16"})
	_, _ = f.svc.RunAdmission(ctx, f.course.CourseID, &dto.RunAdmissionRequest{}, "admin-1")

	if err := f.svc.CancelMatriculation(ctx, a.ID, "admin-1"); !errors.Is(err, ErrNotMatriculated) {
		t.Errorf("期望 ErrNotMatriculated，实际=%v", err)
	}

	first, err := f.svc.Matriculate(ctx, a.ID, "admin-1")
	if err != nil {
		t.Fatalf("Matriculate 失败: %v", err)
	}
	if err := f.svc.CancelMatriculation(ctx, a.ID, "admin-1"); err != nil {
		t.Fatalf("CancelMatriculation 失败: %v", err)
	}
	if f.m.students.students[first.StudentID].Active {
		t.Error("期望取消注册后学生停用")
	}
	st, _ := f.svc.GetStatus(ctx, a.Number)
	if st.MatriculationStatus != "pending" {
		t.Errorf("期望状态回到 pending，实际=%s", st.MatriculationStatus)
	}

	again, err := f.svc.Matriculate(ctx, a.ID, "admin-1")
	if err != nil {
		t.Fatalf("重新注册失败: %v", err)
	}
	if again.StudentID != first.StudentID || again.StudentNumber != "ALU-000001" {
		t.Errorf("期望沿用原学号，实际=%+v", again)
	}
	if len(f.m.students.students) != 1 || !f.m.students.students[first.StudentID].Active {
		t.Error("期望只有一名学生且已重新启用")
	}
}

func TestGetStatus_NotFound(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	if _, err := f.svc.GetStatus(context.Background(), "INS-999999"); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("期望 ErrEnrollmentNotFound，实际=%v", err)
	}
}

func TestListEnrollments_Filters(t *testing.T) {
	f := newEnrollmentFixture(t, octFifth)
	ctx := context.Background()
	a := f.submit(t, "Ana Silva", "F", "2004-02-10", "001")
	f.submit(t, "Bruno Costa", "M", "2003-07-21", "002")
	f.scores(t, dto.TestScoreEntry{EnrollmentID: a.ID, Score: "16"})
	_, _ = f.svc.RunAdmission(ctx, f.course.CourseID, &dto.RunAdmissionRequest{}, "admin-1")

	list, total, err := f.svc.List(ctx, &dto.EnrollmentListRequest{ApprovedOnly: true})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 1 || list[0].ID != a.ID {
		t.Errorf("期望只列出已录取的 Ana，实际 total=%d", total)
	}

	_, total, _ = f.svc.List(ctx, &dto.EnrollmentListRequest{Keyword: "costa"})
	if total != 1 {
		t.Errorf("期望按姓名搜索到 1 条，实际=%d", total)
	}
}
