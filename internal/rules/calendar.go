package rules

import (
	"regexp"
	"strconv"
	"time"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

var yearCodePattern = regexp.MustCompile(`^(\d{4})/(\d{4})$`)

// ValidateYearCode 学年代码形如 2025/2026，后一年必须等于前一年加一
func ValidateYearCode(code string) error {
	m := yearCodePattern.FindStringSubmatch(code)
	if m == nil {
		return ErrYearCodeInvalid
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	if second != first+1 {
		return ErrYearCodeInvalid
	}
	return nil
}

// ValidateDateRange 结束日期不得早于开始日期（允许同一天）
func ValidateDateRange(start, end time.Time) error {
	if CivilDate(end, time.UTC).Before(CivilDate(start, time.UTC)) {
		return ErrDateRangeInvalid
	}
	return nil
}

// NormalizeYear 设为当前学年的记录一律视为进行中
func NormalizeYear(y *model.AcademicYear) {
	if y.IsCurrent {
		y.Status = model.YearActive
	}
}

// GuardYearEdit 已结束学年在开启 enforce 时拒绝修改
func GuardYearEdit(status model.YearStatus, enforce bool) error {
	if enforce && status == model.YearClosed {
		return ErrYearClosed
	}
	return nil
}

// CivilDate 取 t 在 loc 时区下的日历日期，返回该日期的 UTC 零点
// 数据库 date 列扫描出来就是 UTC 零点，两边用同一形式比较
func CivilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsOccurring 事件处于 active 且 today 落在 [start, end] 闭区间内
// today 必须已经是 CivilDate 的结果
func IsOccurring(ev model.CalendarEvent, today time.Time) bool {
	if ev.Status != model.EventActive {
		return false
	}
	start := CivilDate(ev.StartDate, time.UTC)
	end := CivilDate(ev.EndDate, time.UTC)
	return !today.Before(start) && !today.After(end)
}

// EnrollmentsOpen 学年下存在进行中的报名事件即视为报名开放
func EnrollmentsOpen(events []model.CalendarEvent, today time.Time) bool {
	for _, ev := range events {
		if ev.Type == model.EventEnrollment && IsOccurring(ev, today) {
			return true
		}
	}
	return false
}
