package rules

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

func candidate(id string, score string, birth string, sex model.Sex, enrolledMinute int) Candidate {
	c := Candidate{
		ID:         id,
		Number:     "INS-" + id,
		BirthDate:  day(birth),
		EnrolledAt: day("2026-01-10").Add(time.Duration(enrolledMinute) * time.Minute),
		Sex:        sex,
	}
	if score != "" {
		c.Score = decp(score)
	}
	return c
}

func mustTieBreak(t *testing.T, name model.TieBreakCriterion) Comparator {
	t.Helper()
	cmp, err := LookupTieBreak(name)
	require.NoError(t, err)
	return cmp
}

func TestRankAdmissions_CapacityAndMinimum(t *testing.T) {
	cands := []Candidate{
		candidate("a", "18", "2000-01-01", model.SexMale, 1),
		candidate("b", "15", "2000-01-01", model.SexMale, 2),
		candidate("c", "12", "2000-01-01", model.SexMale, 3),
		candidate("d", "9", "2000-01-01", model.SexMale, 4),
		candidate("e", "", "2000-01-01", model.SexMale, 5),
	}

	res := RankAdmissions(cands, 2, dec("10"), mustTieBreak(t, model.TieBreakOlderFirst))

	assert.Equal(t, []string{"a", "b"}, res.Approved)
	assert.Equal(t, 3, res.Eligible(), "9 分与无成绩者不计入合格人数")
}

func TestRankAdmissions_OlderFirstTieBreak(t *testing.T) {
	cands := []Candidate{
		candidate("young", "15", "1995-01-01", model.SexMale, 1),
		candidate("old", "15", "1990-01-01", model.SexMale, 2),
	}

	res := RankAdmissions(cands, 1, dec("10"), mustTieBreak(t, model.TieBreakOlderFirst))

	assert.Equal(t, []string{"old"}, res.Approved)
}

func TestRankAdmissions_EdgeCases(t *testing.T) {
	older := mustTieBreak(t, model.TieBreakOlderFirst)

	t.Run("capacity zero", func(t *testing.T) {
		res := RankAdmissions([]Candidate{candidate("a", "20", "2000-01-01", model.SexMale, 1)}, 0, dec("10"), older)
		assert.Empty(t, res.Approved)
	})

	t.Run("nobody reaches minimum", func(t *testing.T) {
		res := RankAdmissions([]Candidate{candidate("a", "9.99", "2000-01-01", model.SexMale, 1)}, 5, dec("10"), older)
		assert.Empty(t, res.Approved)
		assert.Zero(t, res.Eligible())
	})

	t.Run("score equal to minimum is eligible", func(t *testing.T) {
		res := RankAdmissions([]Candidate{candidate("a", "10.00", "2000-01-01", model.SexMale, 1)}, 5, dec("10"), older)
		assert.Equal(t, []string{"a"}, res.Approved)
	})

	t.Run("negative capacity treated as zero", func(t *testing.T) {
		res := RankAdmissions([]Candidate{candidate("a", "15", "2000-01-01", model.SexMale, 1)}, -3, dec("10"), older)
		assert.Empty(t, res.Approved)
	})
}

func TestRankAdmissions_ApprovedCountIsMinOfCapacityAndEligible(t *testing.T) {
	var cands []Candidate
	for i := 0; i < 12; i++ {
		score := fmt.Sprintf("%d", 5+i) // 5..16，其中 >=10 的有 7 个
		cands = append(cands, candidate(fmt.Sprintf("c%02d", i), score, "2000-01-01", model.SexFemale, i))
	}
	older := mustTieBreak(t, model.TieBreakOlderFirst)

	for capacity := 0; capacity <= 10; capacity++ {
		res := RankAdmissions(cands, capacity, dec("10"), older)
		assert.Len(t, res.Approved, min(capacity, 7), "capacity=%d", capacity)
	}
}

func TestRankAdmissions_Idempotent(t *testing.T) {
	cands := []Candidate{
		candidate("a", "14", "2001-05-01", model.SexFemale, 3),
		candidate("b", "14", "2001-05-01", model.SexFemale, 3),
		candidate("c", "14", "1999-02-01", model.SexMale, 1),
		candidate("d", "17", "2003-01-01", model.SexMale, 2),
	}
	cmp := mustTieBreak(t, model.TieBreakFemaleFirst)

	first := RankAdmissions(cands, 2, dec("10"), cmp)
	// 打乱输入顺序不影响结果
	reversed := []Candidate{cands[3], cands[2], cands[1], cands[0]}
	second := RankAdmissions(reversed, 2, dec("10"), cmp)

	assert.Equal(t, first.Approved, second.Approved)
	assert.Equal(t, []string{"d", "a"}, first.Approved, "完全相同的两人按报名编号兜底")
}

func TestTieBreakRegistry(t *testing.T) {
	oldM := candidate("old_m", "15", "1990-01-01", model.SexMale, 2)
	youngM := candidate("young_m", "15", "2000-01-01", model.SexMale, 1)
	oldF := candidate("old_f", "15", "1992-01-01", model.SexFemale, 4)
	youngF := candidate("young_f", "15", "2002-01-01", model.SexFemale, 3)
	all := []Candidate{oldM, youngM, oldF, youngF}

	cases := []struct {
		criterion model.TieBreakCriterion
		want      string
	}{
		{model.TieBreakOlderFirst, "old_m"},
		{model.TieBreakYoungerFirst, "young_f"},
		{model.TieBreakEnrollmentOrder, "young_m"},
		{model.TieBreakFemaleFirst, "young_f"}, // 同为女性时按报名时间兜底
		{model.TieBreakMaleFirst, "young_m"},
		{model.TieBreakFemaleYoungest, "young_f"},
		{model.TieBreakFemaleOldest, "old_f"},
	}
	for _, tc := range cases {
		t.Run(string(tc.criterion), func(t *testing.T) {
			res := RankAdmissions(all, 1, dec("10"), mustTieBreak(t, tc.criterion))
			assert.Equal(t, []string{tc.want}, res.Approved)
		})
	}
}

func TestTieBreakRegistry_UnknownAndCustom(t *testing.T) {
	_, err := LookupTieBreak("coin_flip")
	assert.ErrorIs(t, err, ErrUnknownTieBreak)

	RegisterTieBreak("lowest_number", func(a, b Candidate) int {
		return -a.EnrolledAt.Compare(b.EnrolledAt)
	})
	t.Cleanup(func() {
		tieBreakMu.Lock()
		delete(tieBreakRegistry, "lowest_number")
		tieBreakMu.Unlock()
	})

	assert.True(t, KnownTieBreak("lowest_number"))
	res := RankAdmissions([]Candidate{
		candidate("first", "12", "2000-01-01", model.SexMale, 1),
		candidate("last", "12", "2000-01-01", model.SexMale, 9),
	}, 1, dec("10"), mustTieBreak(t, "lowest_number"))
	assert.Equal(t, []string{"last"}, res.Approved)
}
