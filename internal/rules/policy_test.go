package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.IsDefault)
	assert.True(t, p.ContinuousWeight.Equal(dec("40")))
	assert.True(t, p.ExamWeight.Equal(dec("60")))
	assert.True(t, p.PassingGrade.Equal(dec("10")))
	assert.True(t, p.DirectPassAverage.Equal(dec("14")))
	assert.True(t, p.DirectFailAverage.Equal(dec("7")))
	assert.Equal(t, 2, p.MaxBehindSubjects)
	assert.Equal(t, []int{3, 5}, p.BarrierYears)
	assert.Equal(t, model.TieBreakOlderFirst, p.TieBreak)
}

func TestResolvePolicy_Layering(t *testing.T) {
	global := DefaultGlobalConfig()
	global.DirectPassAverage = dec("15")
	global.TieBreak = model.TieBreakFemaleFirst
	global.BarrierYears = model.IntArray{4}

	p := ResolvePolicy(&global, nil)
	assert.False(t, p.IsDefault)
	assert.True(t, p.DirectPassAverage.Equal(dec("15")))
	assert.Equal(t, model.TieBreakFemaleFirst, p.TieBreak)
	assert.Equal(t, []int{4}, p.BarrierYears)

	pass := dec("16")
	maxBehind := 1
	no := false
	grade := model.CurriculumGrade{DirectPassAverage: &pass, MaxBehindSubjects: &maxBehind, LawOfSeven: &no}

	p = ResolvePolicy(&global, &grade)
	assert.True(t, p.DirectPassAverage.Equal(dec("16")), "课程方案覆盖全局")
	assert.True(t, p.MinExamAverage.Equal(dec("10")), "未设置的字段沿用全局")
	assert.Equal(t, 1, p.MaxBehindSubjects)
	assert.False(t, p.LawOfSeven)
}

func TestResolvePolicy_LawOfSevenNeedsInstitution(t *testing.T) {
	global := DefaultGlobalConfig()
	global.LawOfSeven = false
	yes := true

	p := ResolvePolicy(&global, &model.CurriculumGrade{LawOfSeven: &yes})
	assert.False(t, p.LawOfSeven, "机构关闭时课程方案不能单独开启")
}

func TestResolvePolicy_NoRecords(t *testing.T) {
	assert.Equal(t, DefaultPolicy(), ResolvePolicy(nil, nil))
}

func TestValidateWeights(t *testing.T) {
	assert.NoError(t, ValidateWeights(dec("40"), dec("60")))
	assert.NoError(t, ValidateWeights(dec("35.5"), dec("64.5")))
	assert.ErrorIs(t, ValidateWeights(dec("40"), dec("50")), ErrWeightsInvalid)
	assert.ErrorIs(t, ValidateWeights(decimal.NewFromInt(-10), dec("110")), ErrWeightsInvalid)
}

func TestNumberingFormats(t *testing.T) {
	assert.Equal(t, "INS-000001", EnrollmentNumber(1))
	assert.Equal(t, "INS-000002", EnrollmentNumber(2))
	assert.Equal(t, "ALU-001234", StudentNumber(1234))
	assert.Equal(t, "PROF/2025/0007", ProfessorCode(2025, 7))
	assert.Equal(t, "professor:2025", ScopeProfessor(2025))
}
