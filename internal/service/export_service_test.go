package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

func readSheet(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("读取工作表 %s 失败: %v", sheet, err)
	}
	return rows
}

func TestExportAdmissionList_Ordering(t *testing.T) {
	m := newMocks()
	ctx := context.Background()
	course := &model.Course{Code: "EI", Name: "Engenharia Informática", Capacity: 2}
	_ = m.courses.Create(ctx, course)

	at := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	add := func(number, name string, score *string, approved bool, status model.MatriculationStatus) {
		e := &model.Enrollment{
			Number: number, FullName: name, CourseID: course.CourseID,
			IdentityCard: number, Email: number + "@mail.ao", Phone: number,
			Approved: approved, MatriculationStatus: status,
		}
		if score != nil {
			d := dec(*score)
			e.TestScore = &d
		}
		if approved {
			e.ResultAt = &at
		}
		_ = m.enrollments.Create(ctx, e)
	}
	s := func(v string) *string { return &v }
	add("INS-000001", "Sem Nota", nil, false, model.MatriculationPending)
	add("INS-000002", "Reprovado", s("9"), false, model.MatriculationPending)
	add("INS-000003", "Aprovada", s("14"), true, model.MatriculationPending)
	add("INS-000004", "Matriculado", s("17.5"), true, model.MatriculationDone)
	add("INS-000005", "Empate", s("14"), true, model.MatriculationPending)

	svc := NewExportService(m.repository(), testLogger())
	buf, filename, err := svc.ExportAdmissionList(ctx, course.CourseID, false)
	if err != nil {
		t.Fatalf("ExportAdmissionList 失败: %v", err)
	}
	if filename != "admissao_EI.xlsx" {
		t.Errorf("期望文件名 admissao_EI.xlsx，实际=%s", filename)
	}

	rows := readSheet(t, buf, "Admissão")
	if len(rows) != 7 {
		t.Fatalf("期望标题+表头+5 行数据，实际=%d 行", len(rows))
	}
	if rows[0][0] != "Engenharia Informática (EI) - Lista de admissão" {
		t.Errorf("标题不符: %q", rows[0][0])
	}
	if rows[1][0] != "Número" || rows[1][3] != "Estado" {
		t.Errorf("表头不符: %v", rows[1])
	}

	want := [][]string{
		{"INS-000004", "Matriculado", "17.50", "Matriculado"},
		{"INS-000003", "Aprovada", "14.00", "Aprovado"},
		{"INS-000005", "Empate", "14.00", "Aprovado"},
		{"INS-000002", "Reprovado", "9.00", "Não aprovado"},
		{"INS-000001", "Sem Nota", "-", "Sem nota"},
	}
	for i, w := range want {
		got := rows[i+2]
		for c := range w {
			if got[c] != w[c] {
				t.Errorf("第 %d 行第 %d 列期望 %q，实际=%q", i+3, c+1, w[c], got[c])
			}
		}
	}

	buf, _, err = svc.ExportAdmissionList(ctx, course.CourseID, true)
	if err != nil {
		t.Fatalf("只导出已录取失败: %v", err)
	}
	if rows := readSheet(t, buf, "Admissão"); len(rows) != 5 {
		t.Errorf("期望只有 3 行已录取数据，实际=%d 行", len(rows))
	}
}

func TestExportAdmissionList_Errors(t *testing.T) {
	m := newMocks()
	ctx := context.Background()
	svc := NewExportService(m.repository(), testLogger())

	if _, _, err := svc.ExportAdmissionList(ctx, "course-x", false); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("期望 ErrCourseNotFound，实际=%v", err)
	}

	course := &model.Course{Code: "EI", Name: "Engenharia Informática"}
	_ = m.courses.Create(ctx, course)
	if _, _, err := svc.ExportAdmissionList(ctx, course.CourseID, false); !errors.Is(err, ErrExportNoRows) {
		t.Errorf("期望 ErrExportNoRows，实际=%v", err)
	}
}

func TestExportGradeSheet(t *testing.T) {
	f := newGradingFixture(t)
	ctx := context.Background()
	sub := f.subject(t, "PRG1", 1, true)
	b := f.student(t, "ALU-000002", 1)
	a := f.student(t, "ALU-000001", 1)
	f.record(t, sub.SubjectID,
		dto.GradeEntry{StudentID: b.StudentID, Partial1: "12", Partial2: "12", Exam: "13"},
		dto.GradeEntry{StudentID: a.StudentID, Partial1: "15", Partial2: "16"},
	)

	svc := NewExportService(f.m.repository(), testLogger())
	buf, filename, err := svc.ExportGradeSheet(ctx, sub.SubjectID, f.period.PeriodID)
	if err != nil {
		t.Fatalf("ExportGradeSheet 失败: %v", err)
	}
	if filename != "pauta_PRG1_1.xlsx" {
		t.Errorf("期望文件名 pauta_PRG1_1.xlsx，实际=%s", filename)
	}

	rows := readSheet(t, buf, "Pauta")
	if len(rows) != 4 {
		t.Fatalf("期望 4 行，实际=%d", len(rows))
	}
	if rows[0][0] != "PRG1 - PRG1 - 1º Semestre" {
		t.Errorf("标题不符: %q", rows[0][0])
	}
	if rows[1][4] != "MAC" || rows[1][8] != "Resultado" {
		t.Errorf("表头不符: %v", rows[1])
	}

	first, second := rows[2], rows[3]
	if first[0] != "ALU-000001" || first[4] != "15.50" || first[5] != "-" || first[7] != "15.50" || first[8] != "exempt" {
		t.Errorf("第一行不符: %v", first)
	}
	if second[0] != "ALU-000002" || second[5] != "13.00" || second[7] != "12.60" || second[8] != "passed" {
		t.Errorf("第二行不符: %v", second)
	}

	if _, _, err := svc.ExportGradeSheet(ctx, "subject-x", f.period.PeriodID); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("期望 ErrSubjectNotFound，实际=%v", err)
	}
	if _, _, err := svc.ExportGradeSheet(ctx, sub.SubjectID, "period-x"); !errors.Is(err, ErrLecturePeriodNotFound) {
		t.Errorf("期望 ErrLecturePeriodNotFound，实际=%v", err)
	}
	other := f.subject(t, "MAT1", 1, true)
	if _, _, err := svc.ExportGradeSheet(ctx, other.SubjectID, f.period.PeriodID); !errors.Is(err, ErrExportNoRows) {
		t.Errorf("期望 ErrExportNoRows，实际=%v", err)
	}
}
