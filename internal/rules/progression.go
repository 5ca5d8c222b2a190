package rules

import "slices"

// SubjectProgress 学生在某科目上的进度
type SubjectProgress struct {
	SubjectID      string
	CurricularYear int
	Outcome        Outcome // 没有成绩记录时为空
}

// ProgressionResult 升级判定
type ProgressionResult struct {
	Allowed     bool     `json:"allowed"`
	TargetYear  int      `json:"target_year"`
	Behind      int      `json:"behind"`
	BehindIDs   []string `json:"behind_subject_ids,omitempty"`
	BarrierYear bool     `json:"barrier_year"`
	Reason      string   `json:"reason,omitempty"`
}

// CountBehind 统计课程年级不高于 currentYear 且尚未通过的科目
func CountBehind(subjects []SubjectProgress, currentYear int) []string {
	var behind []string
	for _, s := range subjects {
		if s.CurricularYear > currentYear {
			continue
		}
		if !s.Outcome.Approved() {
			behind = append(behind, s.SubjectID)
		}
	}
	return behind
}

// CheckProgression 判定学生能否从 currentYear 升入下一年级
// 关闭门槛时一律放行；开启时欠科数不得超过上限，进入门槛年级必须零欠科
func CheckProgression(subjects []SubjectProgress, currentYear int, p Policy) ProgressionResult {
	behind := CountBehind(subjects, currentYear)
	target := currentYear + 1
	res := ProgressionResult{
		Allowed:     true,
		TargetYear:  target,
		Behind:      len(behind),
		BehindIDs:   behind,
		BarrierYear: slices.Contains(p.BarrierYears, target),
	}

	if !p.BarriersEnabled {
		return res
	}

	switch {
	case res.BarrierYear && res.Behind > 0:
		res.Allowed = false
		res.Reason = "barrier_year_requires_zero_behind"
	case res.Behind > p.MaxBehindSubjects:
		res.Allowed = false
		res.Reason = "too_many_behind_subjects"
	}
	return res
}
