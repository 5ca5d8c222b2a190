package rules

import (
	"time"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

const clockLayout = "15:04"

// NormalizeClock 把 "8:05"、"08:05"、"08:05:00" 统一成 "08:05"
// 统一格式后字符串比较即时间先后
func NormalizeClock(s string) (string, error) {
	for _, layout := range []string{clockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(clockLayout), nil
		}
	}
	return "", ErrClockInvalid
}

// ValidateLessonSlot 星期与起止时间的基本校验，返回规范化后的起止时间
func ValidateLessonSlot(weekday int, start, end string) (string, string, error) {
	if weekday < 1 || weekday > 6 {
		return "", "", ErrWeekdayInvalid
	}
	s, err := NormalizeClock(start)
	if err != nil {
		return "", "", err
	}
	e, err := NormalizeClock(end)
	if err != nil {
		return "", "", err
	}
	if e <= s {
		return "", "", ErrLessonTimeRange
	}
	return s, e, nil
}

// lessonsOverlap 同一天且时间段相交；首尾相接不算冲突
func lessonsOverlap(a, b *model.Lesson) bool {
	if a.Weekday != b.Weekday {
		return false
	}
	return a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

// ClashKind 冲突的资源类型
type ClashKind string

const (
	ClashRoom      ClashKind = "room"
	ClashProfessor ClashKind = "professor"
	ClashClass     ClashKind = "class"
)

// Clash 候选课节与某个已排课节的冲突
type Clash struct {
	Kind     ClashKind
	LessonID string
}

// FindClashes 检查候选课节与同一学期已排课节的冲突。
// 只有 active 课节占用资源；候选课节自身（更新时）跳过。
// 同一课节可能同时在多个资源上冲突，每种各记一条。
func FindClashes(candidate *model.Lesson, existing []model.Lesson) []Clash {
	if candidate.Status != model.LessonActive {
		return nil
	}
	var clashes []Clash
	for i := range existing {
		other := &existing[i]
		if other.LessonID == candidate.LessonID || other.PeriodID != candidate.PeriodID {
			continue
		}
		if other.Status != model.LessonActive || !lessonsOverlap(candidate, other) {
			continue
		}
		if candidate.RoomID != nil && other.RoomID != nil && *candidate.RoomID == *other.RoomID {
			clashes = append(clashes, Clash{Kind: ClashRoom, LessonID: other.LessonID})
		}
		if candidate.ProfessorID == other.ProfessorID {
			clashes = append(clashes, Clash{Kind: ClashProfessor, LessonID: other.LessonID})
		}
		if candidate.ClassID == other.ClassID {
			clashes = append(clashes, Clash{Kind: ClashClass, LessonID: other.LessonID})
		}
	}
	return clashes
}
