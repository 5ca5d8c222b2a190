package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 测试装配 ──

// mocks 一组互相关联的内存仓储
type mocks struct {
	users       *mockUserRepo
	years       *mockAcademicYearRepo
	events      *mockCalendarEventRepo
	periods     *mockLecturePeriodRepo
	levels      *mockAcademicLevelRepo
	courses     *mockCourseRepo
	grades      *mockCurriculumGradeRepo
	subjects    *mockSubjectRepo
	prereqs     *mockPrerequisiteRepo
	enrollments *mockEnrollmentRepo
	histories   *mockHistoryRepo
	runs        *mockAdmissionRunRepo
	students    *mockStudentRepo
	professors  *mockProfessorRepo
	marks       *mockStudentGradeRepo
	config      *mockAcademicConfigRepo
	sequences   *mockSequenceRepo
	rooms       *mockRoomRepo
	classes     *mockClassGroupRepo
	lessons     *mockLessonRepo
	subs        *mockSubscriptionRepo
	notices     *mockNoticeRepo
}

func newMocks() *mocks {
	m := &mocks{
		users:       newMockUserRepo(),
		years:       newMockAcademicYearRepo(),
		events:      newMockCalendarEventRepo(),
		periods:     newMockLecturePeriodRepo(),
		levels:      newMockAcademicLevelRepo(),
		grades:      newMockCurriculumGradeRepo(),
		subjects:    newMockSubjectRepo(),
		enrollments: newMockEnrollmentRepo(),
		histories:   newMockHistoryRepo(),
		runs:        newMockAdmissionRunRepo(),
		students:    newMockStudentRepo(),
		professors:  newMockProfessorRepo(),
		config:      &mockAcademicConfigRepo{},
		sequences:   newMockSequenceRepo(),
		rooms:       newMockRoomRepo(),
		lessons:     newMockLessonRepo(),
		subs:        newMockSubscriptionRepo(),
		notices:     newMockNoticeRepo(),
	}
	m.courses = newMockCourseRepo(m.enrollments)
	m.enrollments.courses = m.courses
	m.prereqs = newMockPrerequisiteRepo(m.subjects)
	m.marks = newMockStudentGradeRepo(m.subjects)
	m.classes = newMockClassGroupRepo(m.subjects)
	return m
}

// repository 没有 db 的聚合，Transaction 直接在自身上执行
func (m *mocks) repository() *repository.Repository {
	return &repository.Repository{
		User:            m.users,
		AcademicYear:    m.years,
		CalendarEvent:   m.events,
		LecturePeriod:   m.periods,
		AcademicLevel:   m.levels,
		Course:          m.courses,
		CurriculumGrade: m.grades,
		Subject:         m.subjects,
		Prerequisite:    m.prereqs,
		Enrollment:      m.enrollments,
		History:         m.histories,
		AdmissionRun:    m.runs,
		Student:         m.students,
		Professor:       m.professors,
		StudentGrade:    m.marks,
		AcademicConfig:  m.config,
		Sequence:        m.sequences,
		Room:            m.rooms,
		ClassGroup:      m.classes,
		Lesson:          m.lessons,
		Subscription:    m.subs,
		Notice:          m.notices,
	}
}

func testAcademicConfig() config.AcademicConfig {
	return config.AcademicConfig{
		Timezone:          "Africa/Luanda",
		EnforceClosedYear: true,
		DefaultTieBreak:   "older_first",
		ConfigCacheTTL:    time.Minute,
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// idGen 按前缀与序号生成确定的 UUID，与数据库主键格式一致
type idGen struct {
	prefix string
	n      int
}

func (g *idGen) next() string {
	g.n++
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s-%d", g.prefix, g.n))).String()
}

func conflict(what string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrConflict, what)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	ids   idGen
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), ids: idGen{prefix: "user"}}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) {
			return conflict("users_username_key")
		}
	}
	if user.UserID == "" {
		user.UserID = m.ids.next()
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if role != "" && string(u.Role) != role {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func paginate[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

// ── Mock AcademicYearRepository ──

type mockAcademicYearRepo struct {
	years map[string]*model.AcademicYear
	ids   idGen
}

func newMockAcademicYearRepo() *mockAcademicYearRepo {
	return &mockAcademicYearRepo{years: make(map[string]*model.AcademicYear), ids: idGen{prefix: "year"}}
}

func (m *mockAcademicYearRepo) Create(_ context.Context, year *model.AcademicYear) error {
	for _, y := range m.years {
		if y.Code == year.Code {
			return conflict("academic_years_code_key")
		}
	}
	if year.YearID == "" {
		year.YearID = m.ids.next()
	}
	if year.Version == 0 {
		year.Version = 1
	}
	cp := *year
	m.years[year.YearID] = &cp
	return nil
}

func (m *mockAcademicYearRepo) GetByID(_ context.Context, id string) (*model.AcademicYear, error) {
	if y, ok := m.years[id]; ok {
		cp := *y
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) GetCurrent(_ context.Context) (*model.AcademicYear, error) {
	for _, y := range m.years {
		if y.IsCurrent {
			cp := *y
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) List(_ context.Context) ([]model.AcademicYear, error) {
	var result []model.AcademicYear
	for _, y := range m.years {
		result = append(result, *y)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

// Update 与真实实现一致：版本号不匹配返回 ErrOptimisticLock，成功后版本号加一
func (m *mockAcademicYearRepo) Update(_ context.Context, year *model.AcademicYear) error {
	stored, ok := m.years[year.YearID]
	if !ok || stored.Version != year.Version {
		return apperrors.ErrOptimisticLock
	}
	year.Version++
	cp := *year
	m.years[year.YearID] = &cp
	return nil
}

func (m *mockAcademicYearRepo) Delete(_ context.Context, id string) error {
	delete(m.years, id)
	return nil
}

func (m *mockAcademicYearRepo) LockAll(_ context.Context) error { return nil }

func (m *mockAcademicYearRepo) ClearCurrent(_ context.Context, exceptID string) error {
	for id, y := range m.years {
		if id != exceptID && y.IsCurrent {
			y.IsCurrent = false
			y.Version++
		}
	}
	return nil
}

func (m *mockAcademicYearRepo) CloseOtherActive(_ context.Context, exceptID string) (int64, error) {
	var n int64
	for id, y := range m.years {
		if id != exceptID && y.Status == model.YearActive {
			y.Status = model.YearClosed
			y.IsCurrent = false
			y.Version++
			n++
		}
	}
	return n, nil
}

// ── Mock CalendarEventRepository ──

type mockCalendarEventRepo struct {
	events map[string]*model.CalendarEvent
	ids    idGen
}

func newMockCalendarEventRepo() *mockCalendarEventRepo {
	return &mockCalendarEventRepo{events: make(map[string]*model.CalendarEvent), ids: idGen{prefix: "event"}}
}

func (m *mockCalendarEventRepo) Create(_ context.Context, ev *model.CalendarEvent) error {
	if ev.EventID == "" {
		ev.EventID = m.ids.next()
	}
	cp := *ev
	m.events[ev.EventID] = &cp
	return nil
}

func (m *mockCalendarEventRepo) GetByID(_ context.Context, id string) (*model.CalendarEvent, error) {
	if ev, ok := m.events[id]; ok {
		cp := *ev
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalendarEventRepo) Update(_ context.Context, ev *model.CalendarEvent) error {
	cp := *ev
	m.events[ev.EventID] = &cp
	return nil
}

func (m *mockCalendarEventRepo) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *mockCalendarEventRepo) ListByYear(_ context.Context, yearID string) ([]model.CalendarEvent, error) {
	var result []model.CalendarEvent
	for _, ev := range m.events {
		if ev.YearID == yearID {
			result = append(result, *ev)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockCalendarEventRepo) ListByYearAndType(ctx context.Context, yearID string, t model.EventType) ([]model.CalendarEvent, error) {
	all, _ := m.ListByYear(ctx, yearID)
	var result []model.CalendarEvent
	for _, ev := range all {
		if ev.Type == t {
			result = append(result, ev)
		}
	}
	return result, nil
}

// ── Mock LecturePeriodRepository ──

type mockLecturePeriodRepo struct {
	periods map[string]*model.LecturePeriod
	ids     idGen
}

func newMockLecturePeriodRepo() *mockLecturePeriodRepo {
	return &mockLecturePeriodRepo{periods: make(map[string]*model.LecturePeriod), ids: idGen{prefix: "period"}}
}

func (m *mockLecturePeriodRepo) Create(_ context.Context, p *model.LecturePeriod) error {
	for _, x := range m.periods {
		if x.YearID == p.YearID && x.Number == p.Number {
			return conflict("uq_lecture_period_year_number")
		}
	}
	if p.PeriodID == "" {
		p.PeriodID = m.ids.next()
	}
	cp := *p
	m.periods[p.PeriodID] = &cp
	return nil
}

func (m *mockLecturePeriodRepo) GetByID(_ context.Context, id string) (*model.LecturePeriod, error) {
	if p, ok := m.periods[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLecturePeriodRepo) GetCurrent(_ context.Context, yearID string) (*model.LecturePeriod, error) {
	for _, p := range m.periods {
		if p.YearID == yearID && p.IsCurrent {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLecturePeriodRepo) Update(_ context.Context, p *model.LecturePeriod) error {
	cp := *p
	m.periods[p.PeriodID] = &cp
	return nil
}

func (m *mockLecturePeriodRepo) ListByYear(_ context.Context, yearID string) ([]model.LecturePeriod, error) {
	var result []model.LecturePeriod
	for _, p := range m.periods {
		if p.YearID == yearID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (m *mockLecturePeriodRepo) LockByYear(_ context.Context, _ string) error { return nil }

func (m *mockLecturePeriodRepo) ClearCurrent(_ context.Context, yearID, exceptID string) error {
	for id, p := range m.periods {
		if p.YearID == yearID && id != exceptID {
			p.IsCurrent = false
		}
	}
	return nil
}

// ── Mock AcademicLevelRepository ──

type mockAcademicLevelRepo struct {
	levels map[string]*model.AcademicLevel
	ids    idGen
}

func newMockAcademicLevelRepo() *mockAcademicLevelRepo {
	return &mockAcademicLevelRepo{levels: make(map[string]*model.AcademicLevel), ids: idGen{prefix: "level"}}
}

func (m *mockAcademicLevelRepo) Create(_ context.Context, level *model.AcademicLevel) error {
	for _, l := range m.levels {
		if l.Code == level.Code {
			return conflict("academic_levels_code_key")
		}
	}
	if level.LevelID == "" {
		level.LevelID = m.ids.next()
	}
	cp := *level
	m.levels[level.LevelID] = &cp
	return nil
}

func (m *mockAcademicLevelRepo) GetByID(_ context.Context, id string) (*model.AcademicLevel, error) {
	if l, ok := m.levels[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicLevelRepo) List(_ context.Context) ([]model.AcademicLevel, error) {
	var result []model.AcademicLevel
	for _, l := range m.levels {
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockAcademicLevelRepo) Update(_ context.Context, level *model.AcademicLevel) error {
	cp := *level
	m.levels[level.LevelID] = &cp
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses     map[string]*model.Course
	enrollments *mockEnrollmentRepo
	ids         idGen
}

func newMockCourseRepo(enrollments *mockEnrollmentRepo) *mockCourseRepo {
	return &mockCourseRepo{
		courses:     make(map[string]*model.Course),
		enrollments: enrollments,
		ids:         idGen{prefix: "course"},
	}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.courses {
		if c.Code == course.Code {
			return conflict("courses_code_key")
		}
	}
	if course.CourseID == "" {
		course.CourseID = m.ids.next()
	}
	cp := *course
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Course, error) {
	return m.GetByID(ctx, id)
}

func (m *mockCourseRepo) List(_ context.Context, activeOnly bool) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if activeOnly && !c.Active {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	cp := *course
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) CountApproved(_ context.Context, courseID, yearID string) (int64, error) {
	var n int64
	for _, e := range m.enrollments.items {
		if e.CourseID == courseID && e.Approved && (yearID == "" || e.YearID == yearID) {
			n++
		}
	}
	return n, nil
}

func (m *mockCourseRepo) CountMatriculated(_ context.Context, courseID, yearID string) (int64, error) {
	var n int64
	for _, e := range m.enrollments.items {
		if e.CourseID == courseID && e.MatriculationStatus == model.MatriculationDone && (yearID == "" || e.YearID == yearID) {
			n++
		}
	}
	return n, nil
}

// ── Mock CurriculumGradeRepository ──

type mockCurriculumGradeRepo struct {
	grades map[string]*model.CurriculumGrade
	ids    idGen
}

func newMockCurriculumGradeRepo() *mockCurriculumGradeRepo {
	return &mockCurriculumGradeRepo{grades: make(map[string]*model.CurriculumGrade), ids: idGen{prefix: "grade"}}
}

func (m *mockCurriculumGradeRepo) Create(_ context.Context, grade *model.CurriculumGrade) error {
	if grade.GradeID == "" {
		grade.GradeID = m.ids.next()
	}
	cp := *grade
	m.grades[grade.GradeID] = &cp
	return nil
}

func (m *mockCurriculumGradeRepo) GetByID(_ context.Context, id string) (*model.CurriculumGrade, error) {
	if g, ok := m.grades[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCurriculumGradeRepo) GetActiveByCourse(_ context.Context, courseID string) (*model.CurriculumGrade, error) {
	for _, g := range m.grades {
		if g.CourseID == courseID && g.Status == model.GradeActive {
			cp := *g
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCurriculumGradeRepo) ListByCourse(_ context.Context, courseID string) ([]model.CurriculumGrade, error) {
	var result []model.CurriculumGrade
	for _, g := range m.grades {
		if g.CourseID == courseID {
			result = append(result, *g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].GradeID < result[j].GradeID })
	return result, nil
}

func (m *mockCurriculumGradeRepo) Update(_ context.Context, grade *model.CurriculumGrade) error {
	cp := *grade
	m.grades[grade.GradeID] = &cp
	return nil
}

func (m *mockCurriculumGradeRepo) LockByCourse(_ context.Context, _ string) error { return nil }

func (m *mockCurriculumGradeRepo) ObsoleteOthers(_ context.Context, courseID, exceptID string) error {
	for id, g := range m.grades {
		if g.CourseID == courseID && g.Status == model.GradeActive && id != exceptID {
			g.Status = model.GradeObsolete
		}
	}
	return nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
	edges    map[string][]string // subject → required
	refs     map[string]int64    // 成绩引用数
	ids      idGen
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{
		subjects: make(map[string]*model.Subject),
		edges:    make(map[string][]string),
		refs:     make(map[string]int64),
		ids:      idGen{prefix: "subject"},
	}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	for _, s := range m.subjects {
		if s.CourseID == subject.CourseID && s.Code == subject.Code {
			return conflict("uq_subject_course_code")
		}
	}
	if subject.SubjectID == "" {
		subject.SubjectID = m.ids.next()
	}
	cp := *subject
	m.subjects[subject.SubjectID] = &cp
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) FindByName(_ context.Context, courseID, name string) (*model.Subject, error) {
	for _, s := range m.subjects {
		if s.CourseID == courseID && strings.EqualFold(s.Name, name) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	cp := *subject
	m.subjects[subject.SubjectID] = &cp
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	delete(m.subjects, id)
	delete(m.edges, id)
	return nil
}

func (m *mockSubjectRepo) ListByCourse(_ context.Context, courseID string) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		if s.CourseID == courseID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CurricularYear != result[j].CurricularYear {
			return result[i].CurricularYear < result[j].CurricularYear
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockSubjectRepo) CountGradeReferences(_ context.Context, id string) (int64, error) {
	return m.refs[id], nil
}

func (m *mockSubjectRepo) PrerequisiteEdges(_ context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(m.edges))
	for k, v := range m.edges {
		out[k] = append([]string(nil), v...)
	}
	return out, nil
}

func (m *mockSubjectRepo) ListPrerequisites(_ context.Context, subjectID string) ([]model.Subject, error) {
	var result []model.Subject
	for _, id := range m.edges[subjectID] {
		if s, ok := m.subjects[id]; ok {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockSubjectRepo) AddPrerequisite(_ context.Context, edge *model.SubjectPrerequisite) error {
	for _, id := range m.edges[edge.SubjectID] {
		if id == edge.RequiredSubjectID {
			return conflict("subject_prerequisites_pkey")
		}
	}
	m.edges[edge.SubjectID] = append(m.edges[edge.SubjectID], edge.RequiredSubjectID)
	return nil
}

func (m *mockSubjectRepo) RemovePrerequisite(_ context.Context, subjectID, requiredID string) (int64, error) {
	list := m.edges[subjectID]
	for i, id := range list {
		if id == requiredID {
			m.edges[subjectID] = append(list[:i], list[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

// ── Mock PrerequisiteRepository ──

type mockPrerequisiteRepo struct {
	byCourse map[string][]model.PrerequisiteRequirement
	subjects *mockSubjectRepo
}

func newMockPrerequisiteRepo(subjects *mockSubjectRepo) *mockPrerequisiteRepo {
	return &mockPrerequisiteRepo{byCourse: make(map[string][]model.PrerequisiteRequirement), subjects: subjects}
}

func (m *mockPrerequisiteRepo) ListByCourse(_ context.Context, courseID string) ([]model.PrerequisiteRequirement, error) {
	var result []model.PrerequisiteRequirement
	for _, r := range m.byCourse[courseID] {
		if s, ok := m.subjects.subjects[r.SubjectID]; ok {
			cp := *s
			r.Subject = &cp
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *mockPrerequisiteRepo) CountBySubject(_ context.Context, subjectID string) (int64, error) {
	var n int64
	for _, reqs := range m.byCourse {
		for _, r := range reqs {
			if r.SubjectID == subjectID {
				n++
			}
		}
	}
	return n, nil
}

func (m *mockPrerequisiteRepo) ReplaceForCourse(_ context.Context, courseID string, reqs []model.PrerequisiteRequirement) error {
	m.byCourse[courseID] = append([]model.PrerequisiteRequirement(nil), reqs...)
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	items   map[string]*model.Enrollment
	courses *mockCourseRepo
	ids     idGen
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{items: make(map[string]*model.Enrollment), ids: idGen{prefix: "enr"}}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	for _, x := range m.items {
		if x.IdentityCard == e.IdentityCard || strings.EqualFold(x.Email, e.Email) || x.Phone == e.Phone {
			return conflict("enrollments_unique")
		}
	}
	if e.EnrollmentID == "" {
		e.EnrollmentID = m.ids.next()
	}
	cp := *e
	cp.Course = nil
	m.items[e.EnrollmentID] = &cp
	return nil
}

func (m *mockEnrollmentRepo) withCourse(e *model.Enrollment) *model.Enrollment {
	cp := *e
	if m.courses != nil {
		if c, ok := m.courses.courses[e.CourseID]; ok {
			course := *c
			cp.Course = &course
		}
	}
	return &cp
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	if e, ok := m.items[id]; ok {
		return m.withCourse(e), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetByNumber(_ context.Context, number string) (*model.Enrollment, error) {
	for _, e := range m.items {
		if e.Number == number {
			return m.withCourse(e), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) Update(_ context.Context, e *model.Enrollment) error {
	cp := *e
	cp.Course = nil
	m.items[e.EnrollmentID] = &cp
	return nil
}

func (m *mockEnrollmentRepo) sorted() []model.Enrollment {
	var result []model.Enrollment
	for _, e := range m.items {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result
}

func (m *mockEnrollmentRepo) List(_ context.Context, f repository.EnrollmentFilter, offset, limit int) ([]model.Enrollment, int64, error) {
	var result []model.Enrollment
	for _, e := range m.sorted() {
		if f.CourseID != "" && e.CourseID != f.CourseID {
			continue
		}
		if f.YearID != "" && e.YearID != f.YearID {
			continue
		}
		if f.ApprovedOnly && !e.Approved {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(e.FullName+" "+e.Number), strings.ToLower(f.Search)) {
			continue
		}
		result = append(result, e)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockEnrollmentRepo) ListRankable(_ context.Context, courseID, yearID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.sorted() {
		if e.CourseID == courseID && e.YearID == yearID && e.TestScore != nil {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEnrollmentRepo) FindDuplicate(_ context.Context, identityCard, email, phone string) (*model.Enrollment, error) {
	for _, e := range m.items {
		if e.IdentityCard == identityCard || strings.EqualFold(e.Email, email) || e.Phone == phone {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) SetTestScore(_ context.Context, id string, score *decimal.Decimal) (int64, error) {
	e, ok := m.items[id]
	if !ok {
		return 0, nil
	}
	e.TestScore = score
	if score == nil {
		e.Approved = false
		e.ResultAt = nil
	}
	return 1, nil
}

func (m *mockEnrollmentRepo) ResetApproval(_ context.Context, courseID, yearID string) error {
	for _, e := range m.items {
		if e.CourseID == courseID && e.YearID == yearID {
			e.Approved = false
			e.ResultAt = nil
		}
	}
	return nil
}

func (m *mockEnrollmentRepo) Approve(_ context.Context, ids []string, at time.Time) error {
	for _, id := range ids {
		if e, ok := m.items[id]; ok {
			e.Approved = true
			t := at
			e.ResultAt = &t
		}
	}
	return nil
}

func (m *mockEnrollmentRepo) SetMatriculationStatus(_ context.Context, id string, status model.MatriculationStatus) error {
	if e, ok := m.items[id]; ok {
		e.MatriculationStatus = status
	}
	return nil
}

// ── Mock AcademicHistoryRepository ──

type mockHistoryRepo struct {
	histories map[string]*model.AcademicHistory // key: enrollment_id
	ids       idGen
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{histories: make(map[string]*model.AcademicHistory), ids: idGen{prefix: "history"}}
}

func (m *mockHistoryRepo) Create(_ context.Context, h *model.AcademicHistory) error {
	if _, ok := m.histories[h.EnrollmentID]; ok {
		return conflict("academic_histories_enrollment_id_key")
	}
	if h.HistoryID == "" {
		h.HistoryID = m.ids.next()
	}
	cp := *h
	m.histories[h.EnrollmentID] = &cp
	return nil
}

func (m *mockHistoryRepo) GetByEnrollment(_ context.Context, enrollmentID string) (*model.AcademicHistory, error) {
	if h, ok := m.histories[enrollmentID]; ok {
		cp := *h
		cp.Grades = append([]model.SubjectGrade(nil), h.Grades...)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHistoryRepo) UpsertGrade(_ context.Context, g *model.SubjectGrade) error {
	for _, h := range m.histories {
		if h.HistoryID != g.HistoryID {
			continue
		}
		for i := range h.Grades {
			if h.Grades[i].SubjectID == g.SubjectID {
				h.Grades[i] = *g
				return nil
			}
		}
		h.Grades = append(h.Grades, *g)
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── Mock AdmissionRunRepository ──

type mockAdmissionRunRepo struct {
	runs []model.AdmissionRun
	ids  idGen
}

func newMockAdmissionRunRepo() *mockAdmissionRunRepo {
	return &mockAdmissionRunRepo{ids: idGen{prefix: "run"}}
}

func (m *mockAdmissionRunRepo) Create(_ context.Context, run *model.AdmissionRun) error {
	if run.RunID == "" {
		run.RunID = m.ids.next()
	}
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockAdmissionRunRepo) ListByCourse(_ context.Context, courseID string, limit int) ([]model.AdmissionRun, error) {
	var result []model.AdmissionRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].CourseID == courseID {
			result = append(result, m.runs[i])
		}
	}
	return paginate(result, 0, limit), nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	ids      idGen
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student), ids: idGen{prefix: "student"}}
}

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	if s.StudentID == "" {
		s.StudentID = m.ids.next()
	}
	cp := *s
	m.students[s.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByEnrollment(_ context.Context, enrollmentID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.EnrollmentID == enrollmentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, s *model.Student) error {
	cp := *s
	m.students[s.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) List(_ context.Context, courseID string, offset, limit int) ([]model.Student, int64, error) {
	var result []model.Student
	for _, s := range m.students {
		if courseID != "" && s.CourseID != courseID {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return paginate(result, offset, limit), int64(len(result)), nil
}

// ── Mock ProfessorRepository ──

type mockProfessorRepo struct {
	professors map[string]*model.Professor
	ids        idGen
}

func newMockProfessorRepo() *mockProfessorRepo {
	return &mockProfessorRepo{professors: make(map[string]*model.Professor), ids: idGen{prefix: "prof"}}
}

func (m *mockProfessorRepo) Create(_ context.Context, p *model.Professor) error {
	for _, x := range m.professors {
		if strings.EqualFold(x.Email, p.Email) {
			return conflict("professors_email_key")
		}
	}
	if p.ProfessorID == "" {
		p.ProfessorID = m.ids.next()
	}
	cp := *p
	m.professors[p.ProfessorID] = &cp
	return nil
}

func (m *mockProfessorRepo) GetByID(_ context.Context, id string) (*model.Professor, error) {
	if p, ok := m.professors[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfessorRepo) Update(_ context.Context, p *model.Professor) error {
	for id, x := range m.professors {
		if id != p.ProfessorID && strings.EqualFold(x.Email, p.Email) {
			return conflict("professors_email_key")
		}
	}
	cp := *p
	m.professors[p.ProfessorID] = &cp
	return nil
}

func (m *mockProfessorRepo) List(_ context.Context, offset, limit int) ([]model.Professor, int64, error) {
	var result []model.Professor
	for _, p := range m.professors {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return paginate(result, offset, limit), int64(len(result)), nil
}

// ── Mock StudentGradeRepository ──

type mockStudentGradeRepo struct {
	grades   []*model.StudentGrade
	subjects *mockSubjectRepo
	ids      idGen
}

func newMockStudentGradeRepo(subjects *mockSubjectRepo) *mockStudentGradeRepo {
	return &mockStudentGradeRepo{subjects: subjects, ids: idGen{prefix: "mark"}}
}

func (m *mockStudentGradeRepo) Upsert(_ context.Context, g *model.StudentGrade) error {
	cp := *g
	cp.Subject = nil
	for i, x := range m.grades {
		if x.StudentID == g.StudentID && x.SubjectID == g.SubjectID && x.PeriodID == g.PeriodID {
			cp.StudentGradeID = x.StudentGradeID
			m.grades[i] = &cp
			return nil
		}
	}
	cp.StudentGradeID = m.ids.next()
	m.grades = append(m.grades, &cp)
	return nil
}

func (m *mockStudentGradeRepo) Get(_ context.Context, studentID, subjectID, periodID string) (*model.StudentGrade, error) {
	for _, x := range m.grades {
		if x.StudentID == studentID && x.SubjectID == subjectID && x.PeriodID == periodID {
			cp := *x
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentGradeRepo) ListByStudent(_ context.Context, studentID, yearID string) ([]model.StudentGrade, error) {
	var result []model.StudentGrade
	for _, x := range m.grades {
		if x.StudentID != studentID || (yearID != "" && x.YearID != yearID) {
			continue
		}
		cp := *x
		if s, ok := m.subjects.subjects[x.SubjectID]; ok {
			sub := *s
			cp.Subject = &sub
		}
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockStudentGradeRepo) ListBySubjectPeriod(_ context.Context, subjectID, periodID string) ([]model.StudentGrade, error) {
	var result []model.StudentGrade
	for _, x := range m.grades {
		if x.SubjectID == subjectID && x.PeriodID == periodID {
			result = append(result, *x)
		}
	}
	return result, nil
}

// ── Mock AcademicConfigRepository ──

type mockAcademicConfigRepo struct {
	cfg *model.GlobalAcademicConfig
}

func (m *mockAcademicConfigRepo) Get(_ context.Context) (*model.GlobalAcademicConfig, error) {
	if m.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.cfg
	return &cp, nil
}

func (m *mockAcademicConfigRepo) Create(_ context.Context, cfg *model.GlobalAcademicConfig) error {
	if m.cfg != nil {
		return conflict("global_academic_config_pkey")
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	cp := *cfg
	m.cfg = &cp
	return nil
}

func (m *mockAcademicConfigRepo) Update(_ context.Context, cfg *model.GlobalAcademicConfig) error {
	if m.cfg == nil || m.cfg.Version != cfg.Version {
		return apperrors.ErrOptimisticLock
	}
	cfg.Version++
	cp := *cfg
	m.cfg = &cp
	return nil
}

// ── Mock SequenceRepository ──

type mockSequenceRepo struct {
	values map[string]int64
}

func newMockSequenceRepo() *mockSequenceRepo {
	return &mockSequenceRepo{values: make(map[string]int64)}
}

func (m *mockSequenceRepo) Next(_ context.Context, scope string) (int64, error) {
	m.values[scope]++
	return m.values[scope], nil
}

// ── Mock JSONCache / TokenBlacklist ──

type mockCache struct {
	values map[string]interface{}
	gets   int
}

func newMockCache() *mockCache {
	return &mockCache{values: make(map[string]interface{})}
}

func (c *mockCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return fmt.Errorf("miss")
	}
	if cfg, ok := v.(*model.GlobalAcademicConfig); ok {
		if out, ok := dest.(*model.GlobalAcademicConfig); ok {
			*out = *cfg
			return nil
		}
	}
	return fmt.Errorf("type mismatch")
}

func (c *mockCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if cfg, ok := value.(*model.GlobalAcademicConfig); ok {
		cp := *cfg
		c.values[key] = &cp
	}
	return nil
}

func (c *mockCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

type mockBlacklist struct {
	jtis map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{jtis: make(map[string]time.Duration)}
}

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.jtis[jti] = ttl
	return nil
}

func (b *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := b.jtis[jti]
	return ok, nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
	ids   idGen
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room), ids: idGen{prefix: "room"}}
}

func (m *mockRoomRepo) nameTaken(name, except string) bool {
	for _, r := range m.rooms {
		if r.RoomID != except && !r.DeletedAt.Valid && strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	if m.nameTaken(room.Name, "") {
		return conflict("uq_rooms_name")
	}
	if room.RoomID == "" {
		room.RoomID = m.ids.next()
	}
	cp := *room
	m.rooms[room.RoomID] = &cp
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok && !r.DeletedAt.Valid {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context, includeInactive bool) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if r.DeletedAt.Valid || (!includeInactive && !r.Active) {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	if m.nameTaken(room.Name, room.RoomID) {
		return conflict("uq_rooms_name")
	}
	cp := *room
	m.rooms[room.RoomID] = &cp
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string, deletedBy string) error {
	if r, ok := m.rooms[id]; ok {
		r.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		r.DeletedBy = &deletedBy
	}
	return nil
}

// ── Mock ClassGroupRepository ──

type mockClassGroupRepo struct {
	classes  map[string]*model.ClassGroup
	subjects map[[2]string]*model.ClassSubject
	catalog  *mockSubjectRepo
	ids      idGen
}

func newMockClassGroupRepo(catalog *mockSubjectRepo) *mockClassGroupRepo {
	return &mockClassGroupRepo{
		classes:  make(map[string]*model.ClassGroup),
		subjects: make(map[[2]string]*model.ClassSubject),
		catalog:  catalog,
		ids:      idGen{prefix: "class"},
	}
}

func (m *mockClassGroupRepo) nameTaken(c *model.ClassGroup) bool {
	for _, x := range m.classes {
		if x.ClassID != c.ClassID && x.CourseID == c.CourseID && x.YearID == c.YearID && x.Name == c.Name {
			return true
		}
	}
	return false
}

func (m *mockClassGroupRepo) Create(_ context.Context, class *model.ClassGroup) error {
	if m.nameTaken(class) {
		return conflict("uq_class_groups_name")
	}
	if class.ClassID == "" {
		class.ClassID = m.ids.next()
	}
	cp := *class
	m.classes[class.ClassID] = &cp
	return nil
}

func (m *mockClassGroupRepo) GetByID(_ context.Context, id string) (*model.ClassGroup, error) {
	if c, ok := m.classes[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassGroupRepo) List(_ context.Context, f repository.ClassFilter) ([]model.ClassGroup, error) {
	var result []model.ClassGroup
	for _, c := range m.classes {
		if f.CourseID != "" && c.CourseID != f.CourseID {
			continue
		}
		if f.YearID != "" && c.YearID != f.YearID {
			continue
		}
		if f.CurricularYear > 0 && c.CurricularYear != f.CurricularYear {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockClassGroupRepo) Update(_ context.Context, class *model.ClassGroup) error {
	if m.nameTaken(class) {
		return conflict("uq_class_groups_name")
	}
	cp := *class
	m.classes[class.ClassID] = &cp
	return nil
}

func (m *mockClassGroupRepo) ListSubjects(_ context.Context, classID string) ([]model.ClassSubject, error) {
	var result []model.ClassSubject
	for key, cs := range m.subjects {
		if key[0] != classID {
			continue
		}
		cp := *cs
		if sub, ok := m.catalog.subjects[cs.SubjectID]; ok {
			subCp := *sub
			cp.Subject = &subCp
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubjectID < result[j].SubjectID })
	return result, nil
}

func (m *mockClassGroupRepo) GetSubject(_ context.Context, classID, subjectID string) (*model.ClassSubject, error) {
	if cs, ok := m.subjects[[2]string{classID, subjectID}]; ok {
		cp := *cs
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassGroupRepo) UpsertSubject(_ context.Context, cs *model.ClassSubject) error {
	key := [2]string{cs.ClassID, cs.SubjectID}
	if existing, ok := m.subjects[key]; ok {
		existing.ProfessorID = cs.ProfessorID
		existing.UpdatedBy = cs.UpdatedBy
		return nil
	}
	cp := *cs
	m.subjects[key] = &cp
	return nil
}

func (m *mockClassGroupRepo) RemoveSubject(_ context.Context, classID, subjectID string) (int64, error) {
	key := [2]string{classID, subjectID}
	if _, ok := m.subjects[key]; !ok {
		return 0, nil
	}
	delete(m.subjects, key)
	return 1, nil
}

// ── Mock LessonRepository ──

type mockLessonRepo struct {
	lessons map[string]*model.Lesson
	locked  []string
	ids     idGen
}

func newMockLessonRepo() *mockLessonRepo {
	return &mockLessonRepo{lessons: make(map[string]*model.Lesson), ids: idGen{prefix: "lesson"}}
}

func (m *mockLessonRepo) Create(_ context.Context, l *model.Lesson) error {
	if l.LessonID == "" {
		l.LessonID = m.ids.next()
	}
	if l.Version == 0 {
		l.Version = 1
	}
	cp := *l
	m.lessons[l.LessonID] = &cp
	return nil
}

func (m *mockLessonRepo) GetByID(_ context.Context, id string) (*model.Lesson, error) {
	if l, ok := m.lessons[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// Update 与真实实现一致：版本号不匹配返回 ErrOptimisticLock，成功后版本号加一
func (m *mockLessonRepo) Update(_ context.Context, l *model.Lesson) error {
	stored, ok := m.lessons[l.LessonID]
	if !ok || stored.Version != l.Version {
		return apperrors.ErrOptimisticLock
	}
	l.Version++
	cp := *l
	m.lessons[l.LessonID] = &cp
	return nil
}

func (m *mockLessonRepo) Delete(_ context.Context, id string) error {
	delete(m.lessons, id)
	return nil
}

func (m *mockLessonRepo) List(_ context.Context, f repository.LessonFilter) ([]model.Lesson, error) {
	var result []model.Lesson
	for _, l := range m.lessons {
		if f.PeriodID != "" && l.PeriodID != f.PeriodID {
			continue
		}
		if f.ClassID != "" && l.ClassID != f.ClassID {
			continue
		}
		if f.ProfessorID != "" && l.ProfessorID != f.ProfessorID {
			continue
		}
		if f.RoomID != "" && (l.RoomID == nil || *l.RoomID != f.RoomID) {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Weekday != result[j].Weekday {
			return result[i].Weekday < result[j].Weekday
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockLessonRepo) ListActiveOnDay(_ context.Context, periodID string, weekday int) ([]model.Lesson, error) {
	var result []model.Lesson
	for _, l := range m.lessons {
		if l.PeriodID == periodID && l.Weekday == weekday && l.Status == model.LessonActive {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockLessonRepo) LockPeriod(_ context.Context, periodID string) error {
	m.locked = append(m.locked, periodID)
	return nil
}

func (m *mockLessonRepo) CountActiveByRoom(_ context.Context, roomID string) (int64, error) {
	var n int64
	for _, l := range m.lessons {
		if l.Status == model.LessonActive && l.RoomID != nil && *l.RoomID == roomID {
			n++
		}
	}
	return n, nil
}

func (m *mockLessonRepo) CountByClassSubject(_ context.Context, classID, subjectID string) (int64, error) {
	var n int64
	for _, l := range m.lessons {
		if l.ClassID == classID && l.SubjectID == subjectID {
			n++
		}
	}
	return n, nil
}

// ── Mock SubscriptionRepository ──

type mockSubscriptionRepo struct {
	sub      *model.Subscription
	payments map[string]*model.SubscriptionPayment
	order    []string
	ids      idGen
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{payments: make(map[string]*model.SubscriptionPayment), ids: idGen{prefix: "sub"}}
}

func (m *mockSubscriptionRepo) Get(_ context.Context) (*model.Subscription, error) {
	if m.sub == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.sub
	return &cp, nil
}

func (m *mockSubscriptionRepo) Create(_ context.Context, sub *model.Subscription) error {
	if m.sub != nil {
		return conflict("uq_subscriptions_single")
	}
	if sub.SubscriptionID == "" {
		sub.SubscriptionID = m.ids.next()
	}
	if sub.Version == 0 {
		sub.Version = 1
	}
	cp := *sub
	m.sub = &cp
	return nil
}

func (m *mockSubscriptionRepo) Update(_ context.Context, sub *model.Subscription) error {
	if m.sub == nil || m.sub.Version != sub.Version {
		return apperrors.ErrOptimisticLock
	}
	sub.Version++
	cp := *sub
	m.sub = &cp
	return nil
}

func (m *mockSubscriptionRepo) CreatePayment(_ context.Context, p *model.SubscriptionPayment) error {
	if p.PaymentID == "" {
		p.PaymentID = m.ids.next()
	}
	cp := *p
	m.payments[p.PaymentID] = &cp
	m.order = append(m.order, p.PaymentID)
	return nil
}

func (m *mockSubscriptionRepo) GetPaymentForUpdate(_ context.Context, id string) (*model.SubscriptionPayment, error) {
	if p, ok := m.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubscriptionRepo) UpdatePayment(_ context.Context, p *model.SubscriptionPayment) error {
	cp := *p
	m.payments[p.PaymentID] = &cp
	return nil
}

// ListPayments 最新登记的在前
func (m *mockSubscriptionRepo) ListPayments(_ context.Context, status model.PaymentStatus, offset, limit int) ([]model.SubscriptionPayment, int64, error) {
	var result []model.SubscriptionPayment
	for i := len(m.order) - 1; i >= 0; i-- {
		p := m.payments[m.order[i]]
		if status != "" && p.Status != status {
			continue
		}
		result = append(result, *p)
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

// ── Mock NoticeRepository ──

type mockNoticeRepo struct {
	notices    map[string]*model.Notice
	order      []string
	recipients map[string]map[string]bool
	reads      map[string]map[string]time.Time
	ids        idGen
}

func newMockNoticeRepo() *mockNoticeRepo {
	return &mockNoticeRepo{
		notices:    make(map[string]*model.Notice),
		recipients: make(map[string]map[string]bool),
		reads:      make(map[string]map[string]time.Time),
		ids:        idGen{prefix: "notice"},
	}
}

func (m *mockNoticeRepo) Create(_ context.Context, n *model.Notice, recipients []string) error {
	if n.NoticeID == "" {
		n.NoticeID = m.ids.next()
	}
	cp := *n
	m.notices[n.NoticeID] = &cp
	m.order = append(m.order, n.NoticeID)
	if !n.Global {
		set := make(map[string]bool, len(recipients))
		for _, uid := range recipients {
			set[uid] = true
		}
		m.recipients[n.NoticeID] = set
	}
	return nil
}

func (m *mockNoticeRepo) GetByID(_ context.Context, id string) (*model.Notice, error) {
	if n, ok := m.notices[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNoticeRepo) SetActive(_ context.Context, id string, active bool) (int64, error) {
	n, ok := m.notices[id]
	if !ok {
		return 0, nil
	}
	n.Active = active
	return 1, nil
}

func (m *mockNoticeRepo) ListAll(_ context.Context, offset, limit int) ([]model.Notice, int64, error) {
	var result []model.Notice
	for i := len(m.order) - 1; i >= 0; i-- {
		result = append(result, *m.notices[m.order[i]])
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockNoticeRepo) visible(n *model.Notice, userID string) bool {
	return n.Active && (n.Global || m.recipients[n.NoticeID][userID])
}

func (m *mockNoticeRepo) isRead(noticeID, userID string) bool {
	_, ok := m.reads[noticeID][userID]
	return ok
}

func (m *mockNoticeRepo) VisibleTo(_ context.Context, noticeID, userID string) (bool, error) {
	n, ok := m.notices[noticeID]
	return ok && m.visible(n, userID), nil
}

func (m *mockNoticeRepo) ListForUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.NoticeView, int64, error) {
	var result []model.NoticeView
	for i := len(m.order) - 1; i >= 0; i-- {
		n := m.notices[m.order[i]]
		if !m.visible(n, userID) {
			continue
		}
		read := m.isRead(n.NoticeID, userID)
		if unreadOnly && read {
			continue
		}
		result = append(result, model.NoticeView{Notice: *n, Read: read})
	}
	return paginate(result, offset, limit), int64(len(result)), nil
}

func (m *mockNoticeRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notices {
		if m.visible(n, userID) && !m.isRead(n.NoticeID, userID) {
			count++
		}
	}
	return count, nil
}

func (m *mockNoticeRepo) MarkRead(_ context.Context, noticeID, userID string, at time.Time) error {
	if m.reads[noticeID] == nil {
		m.reads[noticeID] = make(map[string]time.Time)
	}
	if _, ok := m.reads[noticeID][userID]; !ok {
		m.reads[noticeID][userID] = at
	}
	return nil
}

func (m *mockNoticeRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	var count int64
	for _, n := range m.notices {
		if m.visible(n, userID) && !m.isRead(n.NoticeID, userID) {
			_ = m.MarkRead(ctx, n.NoticeID, userID, at)
			count++
		}
	}
	return count, nil
}
