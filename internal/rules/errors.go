// Package rules 学术规则引擎：录取排名、先修资格、成绩判定与升级门槛。
//
// 这里只放纯函数，输入全部由调用方预先加载，不访问数据库也不读取当前时间。
package rules

import (
	"fmt"

	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

var (
	ErrScoreMalformed    = fmt.Errorf("%w: 成绩格式无效", apperrors.ErrValidation)
	ErrScoreOutOfRange   = fmt.Errorf("%w: 成绩必须在 0 到 20 之间", apperrors.ErrValidation)
	ErrYearCodeInvalid   = fmt.Errorf("%w: 学年代码格式应为 YYYY/YYYY 且相差一年", apperrors.ErrValidation)
	ErrDateRangeInvalid  = fmt.Errorf("%w: 结束日期不能早于开始日期", apperrors.ErrValidation)
	ErrYearClosed        = fmt.Errorf("%w: 学年已结束，不允许修改", apperrors.ErrPolicyViolation)
	ErrSelfPrerequisite  = fmt.Errorf("%w: 科目不能以自身为先修", apperrors.ErrValidation)
	ErrPrerequisiteCycle = fmt.Errorf("%w: 添加该先修关系会形成循环", apperrors.ErrValidation)
	ErrUnknownTieBreak   = fmt.Errorf("%w: 未知的同分排序规则", apperrors.ErrValidation)
	ErrWeightsInvalid    = fmt.Errorf("%w: 平时成绩与考试成绩占比之和必须为 100", apperrors.ErrValidation)
	ErrClockInvalid      = fmt.Errorf("%w: 时间格式应为 HH:MM", apperrors.ErrValidation)
	ErrLessonTimeRange   = fmt.Errorf("%w: 下课时间必须晚于上课时间", apperrors.ErrValidation)
	ErrWeekdayInvalid    = fmt.Errorf("%w: 星期必须在 1（周一）到 6（周六）之间", apperrors.ErrValidation)
	ErrUnknownPlan       = fmt.Errorf("%w: 未知的订阅套餐", apperrors.ErrValidation)
)
