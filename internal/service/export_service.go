package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRows       = fmt.Errorf("%w: 没有可导出的数据", apperrors.ErrNotFound)
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// exportRowLimit 单次导出的最大行数
const exportRowLimit = 5000

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response；
// 日历的 .ics 导出由 CalendarService.ExportICS 提供。
type ExportService interface {
	// ExportAdmissionList 导出课程的录取名单（编号、姓名、成绩、状态）
	ExportAdmissionList(ctx context.Context, courseID string, approvedOnly bool) (*bytes.Buffer, string, error)
	// ExportGradeSheet 导出某科目在某学期的成绩单
	ExportGradeSheet(ctx context.Context, subjectID, periodID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── ExportAdmissionList ──────────────────────
//
// 行顺序：已录取在前，组内按成绩降序，成绩相同按编号升序；无成绩的排最后

func (s *exportService) ExportAdmissionList(ctx context.Context, courseID string, approvedOnly bool) (*bytes.Buffer, string, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}

	list, _, err := s.repo.Enrollment.List(ctx, repository.EnrollmentFilter{
		CourseID:     courseID,
		ApprovedOnly: approvedOnly,
	}, 0, exportRowLimit)
	if err != nil {
		s.logger.Error("查询报名失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}
	if len(list) == 0 {
		return nil, "", ErrExportNoRows
	}

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Approved != b.Approved {
			return a.Approved
		}
		if (a.TestScore == nil) != (b.TestScore == nil) {
			return a.TestScore != nil
		}
		if a.TestScore != nil && !a.TestScore.Equal(*b.TestScore) {
			return a.TestScore.GreaterThan(*b.TestScore)
		}
		return a.Number < b.Number
	})

	rows := make([][]interface{}, 0, len(list))
	for _, e := range list {
		score := "-"
		if e.TestScore != nil {
			score = decStr(*e.TestScore)
		}
		rows = append(rows, []interface{}{e.Number, e.FullName, score, admissionStatusLabel(&e)})
	}

	title := fmt.Sprintf("%s (%s) - Lista de admissão", course.Name, course.Code)
	buf, err := writeSheet("Admissão", title, []string{"Número", "Nome", "Nota", "Estado"}, []float64{14, 40, 10, 16}, rows)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("admissao_%s.xlsx", course.Code), nil
}

func admissionStatusLabel(e *model.Enrollment) string {
	switch {
	case e.MatriculationStatus == model.MatriculationDone:
		return "Matriculado"
	case e.Approved:
		return "Aprovado"
	case e.TestScore == nil:
		return "Sem nota"
	default:
		return "Não aprovado"
	}
}

// ────────────────────── ExportGradeSheet ──────────────────────

func (s *exportService) ExportGradeSheet(ctx context.Context, subjectID, periodID string) (*bytes.Buffer, string, error) {
	subject, err := s.repo.Subject.GetByID(ctx, subjectID)
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("subject_id", subjectID), zap.Error(err))
		return nil, "", err
	}
	period, err := s.repo.LecturePeriod.GetByID(ctx, periodID)
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrLecturePeriodNotFound
		}
		s.logger.Error("查询学期失败", zap.String("period_id", periodID), zap.Error(err))
		return nil, "", err
	}

	grades, err := s.repo.StudentGrade.ListBySubjectPeriod(ctx, subjectID, periodID)
	if err != nil {
		s.logger.Error("查询成绩失败", zap.Error(err))
		return nil, "", err
	}
	if len(grades) == 0 {
		return nil, "", ErrExportNoRows
	}

	type line struct {
		number, name string
		g            *model.StudentGrade
	}
	lines := make([]line, 0, len(grades))
	for i := range grades {
		g := &grades[i]
		l := line{number: "-", name: g.StudentID, g: g}
		if st, err := s.repo.Student.GetByID(ctx, g.StudentID); err == nil {
			l.number, l.name = st.Number, st.FullName
		} else if !isNotFound(err) {
			s.logger.Error("查询学生失败", zap.String("student_id", g.StudentID), zap.Error(err))
			return nil, "", err
		}
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].number < lines[j].number })

	rows := make([][]interface{}, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []interface{}{
			l.number, l.name,
			scoreCell(decPtrStr(l.g.Partial1)), scoreCell(decPtrStr(l.g.Partial2)),
			scoreCell(decPtrStr(l.g.ContinuousAverage)), scoreCell(decPtrStr(l.g.Exam)),
			scoreCell(decPtrStr(l.g.Retake)), scoreCell(decPtrStr(l.g.FinalGrade)),
			l.g.Outcome,
		})
	}

	title := fmt.Sprintf("%s - %s - %s", subject.Code, subject.Name, period.Name)
	headers := []string{"Número", "Nome", "P1", "P2", "MAC", "Exame", "Recurso", "Final", "Resultado"}
	widths := []float64{14, 36, 8, 8, 8, 8, 9, 8, 20}
	buf, err := writeSheet("Pauta", title, headers, widths, rows)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("pauta_%s_%d.xlsx", subject.Code, period.Number), nil
}

func scoreCell(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// ── 辅助函数 ──

// writeSheet 单工作表：第一行合并标题，第二行表头，之后为数据行
func writeSheet(sheetName, title string, headers []string, widths []float64, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", strings.TrimSpace(title))
	f.MergeCell(sheetName, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	for r, values := range rows {
		for c, v := range values {
			f.SetCellValue(sheetName, cell(colName(c), r+3), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
