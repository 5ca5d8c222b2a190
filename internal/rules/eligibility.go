package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Requirement 课程的一条先修要求
type Requirement struct {
	SubjectID   string
	SubjectName string
	Minimum     decimal.Decimal
	Mandatory   bool
}

// Deficiency 未满足的必修先修
type Deficiency struct {
	SubjectID   string           `json:"subject_id"`
	SubjectName string           `json:"subject_name"`
	Minimum     decimal.Decimal  `json:"minimum"`
	Grade       *decimal.Decimal `json:"grade"` // nil 表示没有记录
}

// EligibilityResult 先修资格判定结果
type EligibilityResult struct {
	Eligible bool         `json:"eligible"`
	Message  string       `json:"message"`
	Missing  []Deficiency `json:"missing,omitempty"`

	// Average 仅统计有成绩记录的先修科目，没有任何成绩时为 nil
	Average *decimal.Decimal `json:"average,omitempty"`
}

// CheckEligibility 判定既往成绩是否满足课程的先修要求
// grades 以科目 ID 为键；非必修要求只参与平均分，不影响资格
func CheckEligibility(reqs []Requirement, grades map[string]decimal.Decimal) EligibilityResult {
	if len(reqs) == 0 {
		return EligibilityResult{Eligible: true, Message: "无先修要求"}
	}

	var (
		missing []Deficiency
		present []decimal.Decimal
	)
	for _, r := range reqs {
		g, ok := grades[r.SubjectID]
		if ok {
			present = append(present, g)
		}
		if !r.Mandatory {
			continue
		}
		if !ok {
			missing = append(missing, Deficiency{SubjectID: r.SubjectID, SubjectName: r.SubjectName, Minimum: r.Minimum})
			continue
		}
		if g.LessThan(r.Minimum) {
			grade := g
			missing = append(missing, Deficiency{SubjectID: r.SubjectID, SubjectName: r.SubjectName, Minimum: r.Minimum, Grade: &grade})
		}
	}

	res := EligibilityResult{Eligible: len(missing) == 0, Missing: missing}
	if len(present) > 0 {
		res.Average = display(mean(present))
	}

	if res.Eligible {
		res.Message = "满足全部必修先修要求"
		return res
	}

	parts := make([]string, 0, len(missing))
	for _, m := range missing {
		if m.Grade == nil {
			parts = append(parts, fmt.Sprintf("%s（无成绩，最低 %s）", m.SubjectName, m.Minimum.StringFixed(2)))
		} else {
			parts = append(parts, fmt.Sprintf("%s（%s，最低 %s）", m.SubjectName, m.Grade.StringFixed(2), m.Minimum.StringFixed(2)))
		}
	}
	res.Message = "未满足先修要求: " + strings.Join(parts, "；")
	return res
}
