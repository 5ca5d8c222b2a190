package rules

import (
	"github.com/shopspring/decimal"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// Outcome 科目判定结果
type Outcome string

const (
	OutcomeExempt        Outcome = "exempt"         // 免考通过
	OutcomePassed        Outcome = "passed"         // 考试（或补考）通过
	OutcomePendingExam   Outcome = "pending_exam"   // 需参加期末考试，尚无考试成绩
	OutcomePendingRetake Outcome = "pending_retake" // 考试未过，可参加补考
	OutcomeFailed        Outcome = "failed"
	OutcomeDirectFail    Outcome = "direct_fail"
	OutcomeIncomplete    Outcome = "incomplete" // 平时成绩不完整
)

// Approved 是否视为已通过该科目
func (o Outcome) Approved() bool {
	return o == OutcomeExempt || o == OutcomePassed
}

// Settled 是否已有最终结论（不再等待考试）
func (o Outcome) Settled() bool {
	switch o {
	case OutcomeExempt, OutcomePassed, OutcomeFailed, OutcomeDirectFail:
		return true
	}
	return false
}

// Reason 判定依据
const (
	ReasonAttendance        = "attendance_below_minimum"
	ReasonLawOfSeven        = "law_of_seven"
	ReasonBelowDirectFail   = "below_direct_fail_average"
	ReasonExemption         = "direct_pass_average"
	ReasonNegativePartial   = "negative_partial_blocks_exemption"
	ReasonCoreNotExemptible = "core_subject_not_exemptible"
	ReasonExamPassed        = "exam_passed"
	ReasonExamFailed        = "exam_failed"
	ReasonRetakePassed      = "retake_passed"
	ReasonRetakeFailed      = "retake_failed"
	ReasonProjectGrade      = "project_grade"
	ReasonMissingPartials   = "missing_partials"
	ReasonAwaitingExam      = "awaiting_exam"
	ReasonAwaitingRetake    = "awaiting_retake"
)

var lawOfSevenThreshold = decimal.NewFromInt(7)

// SubjectFlags 科目上影响判定的标志
type SubjectFlags struct {
	Area                 model.KnowledgeArea
	IsProject            bool
	LawOfSevenApplicable bool
	RequiresTwoPositives bool
}

// FlagsOf 从科目记录提取判定标志（已归一化）
func FlagsOf(s model.Subject) SubjectFlags {
	s.Normalize()
	return SubjectFlags{
		Area:                 s.Area,
		IsProject:            s.IsProject,
		LawOfSevenApplicable: s.LawOfSevenApplicable,
		RequiresTwoPositives: s.RequiresTwoPositives,
	}
}

// ScoreSheet 某学生某科目的已录入成绩，nil 表示未录入
type ScoreSheet struct {
	Partial1   *decimal.Decimal
	Partial2   *decimal.Decimal
	Exam       *decimal.Decimal
	Retake     *decimal.Decimal
	Attendance *decimal.Decimal // 百分比
}

// Evaluation 科目判定结果
type Evaluation struct {
	Outcome           Outcome          `json:"outcome"`
	Reason            string           `json:"reason"`
	ContinuousAverage *decimal.Decimal `json:"continuous_average,omitempty"`
	FinalGrade        *decimal.Decimal `json:"final_grade,omitempty"`
}

// EvaluateSubject 依据策略判定单科结果
//
// 顺序：出勤 → 项目特殊规则 → 七分规则 → 免考 → 直接不及格 → 期末考试 → 补考。
// 七分规则先于一切考试判定，平时平均低于 7 时即使之后考试满分也不及格。
func EvaluateSubject(flags SubjectFlags, s ScoreSheet, p Policy) Evaluation {
	if s.Attendance != nil && s.Attendance.LessThan(p.MinAttendance) {
		return Evaluation{Outcome: OutcomeFailed, Reason: ReasonAttendance}
	}

	if flags.IsProject && p.ProjectSpecialRules {
		return evaluateProject(s, p)
	}

	if s.Partial1 == nil || s.Partial2 == nil {
		return Evaluation{Outcome: OutcomeIncomplete, Reason: ReasonMissingPartials}
	}

	avg := mean([]decimal.Decimal{*s.Partial1, *s.Partial2})
	ev := Evaluation{ContinuousAverage: display(avg)}

	if p.LawOfSeven && flags.LawOfSevenApplicable && !flags.IsProject && avg.LessThan(lawOfSevenThreshold) {
		ev.Outcome, ev.Reason = OutcomeDirectFail, ReasonLawOfSeven
		return ev
	}

	if !avg.LessThan(p.DirectPassAverage) {
		blocked := exemptionBlocker(flags, s, p)
		if blocked == "" {
			ev.Outcome, ev.Reason, ev.FinalGrade = OutcomeExempt, ReasonExemption, display(avg)
			return ev
		}
		ev.Reason = blocked
	}

	if avg.LessThan(p.DirectFailAverage) {
		ev.Outcome, ev.Reason = OutcomeDirectFail, ReasonBelowDirectFail
		return ev
	}

	return examPhase(ev, avg, s, p)
}

// exemptionBlocker 返回阻止免考的原因，空字符串表示可以免考
func exemptionBlocker(flags SubjectFlags, s ScoreSheet, p Policy) string {
	if !flags.IsProject && (p.TwoPositivesForExemption || flags.RequiresTwoPositives) {
		if s.Partial1.LessThan(p.PassingGrade) || s.Partial2.LessThan(p.PassingGrade) {
			return ReasonNegativePartial
		}
	}
	if p.ExemptionOnlyComplementary && flags.Area != model.AreaComplementary {
		return ReasonCoreNotExemptible
	}
	return ""
}

func examPhase(ev Evaluation, avg decimal.Decimal, s ScoreSheet, p Policy) Evaluation {
	if s.Exam == nil {
		ev.Outcome = OutcomePendingExam
		if ev.Reason == "" {
			ev.Reason = ReasonAwaitingExam
		}
		return ev
	}

	final := weighted(avg, *s.Exam, p)
	ev.FinalGrade = display(final)
	if !final.LessThan(p.MinExamAverage) {
		ev.Outcome, ev.Reason = OutcomePassed, ReasonExamPassed
		return ev
	}

	if !p.AllowSpecialExam {
		ev.Outcome, ev.Reason = OutcomeFailed, ReasonExamFailed
		return ev
	}
	if s.Retake == nil {
		ev.Outcome, ev.Reason = OutcomePendingRetake, ReasonAwaitingRetake
		return ev
	}

	// 补考成绩替换考试成绩重新加权
	final = weighted(avg, *s.Retake, p)
	ev.FinalGrade = display(final)
	if !final.LessThan(p.MinExamAverage) {
		ev.Outcome, ev.Reason = OutcomePassed, ReasonRetakePassed
	} else {
		ev.Outcome, ev.Reason = OutcomeFailed, ReasonRetakeFailed
	}
	return ev
}

// evaluateProject 项目科目：考试成绩即项目成绩，不看平时
func evaluateProject(s ScoreSheet, p Policy) Evaluation {
	ev := Evaluation{Reason: ReasonProjectGrade}
	if s.Partial1 != nil && s.Partial2 != nil {
		ev.ContinuousAverage = display(mean([]decimal.Decimal{*s.Partial1, *s.Partial2}))
	}
	if s.Exam == nil {
		ev.Outcome, ev.Reason = OutcomePendingExam, ReasonAwaitingExam
		return ev
	}

	final := s.Exam.Round(2)
	ev.FinalGrade = &final
	if !final.LessThan(p.PassingGrade) {
		ev.Outcome = OutcomePassed
		return ev
	}
	if !p.AllowSpecialExam {
		ev.Outcome = OutcomeFailed
		return ev
	}
	if s.Retake == nil {
		ev.Outcome, ev.Reason = OutcomePendingRetake, ReasonAwaitingRetake
		return ev
	}
	final = s.Retake.Round(2)
	ev.FinalGrade = &final
	if !final.LessThan(p.PassingGrade) {
		ev.Outcome, ev.Reason = OutcomePassed, ReasonRetakePassed
	} else {
		ev.Outcome, ev.Reason = OutcomeFailed, ReasonRetakeFailed
	}
	return ev
}

// weighted 平时平均与考试成绩按百分比加权，不做舍入
func weighted(avg, exam decimal.Decimal, p Policy) decimal.Decimal {
	return avg.Mul(p.ContinuousWeight).
		Add(exam.Mul(p.ExamWeight)).
		DivRound(hundred, 16)
}
