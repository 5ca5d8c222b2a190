package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func progress(year int, outcomes ...Outcome) []SubjectProgress {
	out := make([]SubjectProgress, 0, len(outcomes))
	for i, o := range outcomes {
		out = append(out, SubjectProgress{SubjectID: string(rune('a' + i)), CurricularYear: year, Outcome: o})
	}
	return out
}

func TestCheckProgression(t *testing.T) {
	p := DefaultPolicy() // 上限 2，门槛年级 3、5

	t.Run("within limit", func(t *testing.T) {
		res := CheckProgression(progress(1, OutcomePassed, OutcomeFailed, OutcomeDirectFail), 1, p)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2, res.Behind)
		assert.Equal(t, 2, res.TargetYear)
	})

	t.Run("over limit", func(t *testing.T) {
		res := CheckProgression(progress(1, OutcomeFailed, OutcomeFailed, OutcomePendingExam), 1, p)
		assert.False(t, res.Allowed)
		assert.Equal(t, "too_many_behind_subjects", res.Reason)
	})

	t.Run("barrier year requires zero behind", func(t *testing.T) {
		res := CheckProgression(progress(2, OutcomeExempt, OutcomeFailed), 2, p)
		assert.False(t, res.Allowed)
		assert.True(t, res.BarrierYear)
		assert.Equal(t, "barrier_year_requires_zero_behind", res.Reason)

		res = CheckProgression(progress(2, OutcomeExempt, OutcomePassed), 2, p)
		assert.True(t, res.Allowed)
	})

	t.Run("subjects without grade count as behind", func(t *testing.T) {
		res := CheckProgression(progress(1, "", "", ""), 1, p)
		assert.Equal(t, 3, res.Behind)
		assert.False(t, res.Allowed)
	})

	t.Run("future years are ignored", func(t *testing.T) {
		subjects := append(progress(1, OutcomePassed), SubjectProgress{SubjectID: "z", CurricularYear: 3})
		res := CheckProgression(subjects, 1, p)
		assert.Zero(t, res.Behind)
	})

	t.Run("barriers disabled", func(t *testing.T) {
		off := p
		off.BarriersEnabled = false
		res := CheckProgression(progress(2, OutcomeFailed, OutcomeFailed, OutcomeFailed), 2, off)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3, res.Behind)
	})
}
