package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
)

// ── ICS 导入导出 ──────────────────────────────────────────────
//
// 校历事件都是全天事件：
//   - 导出使用 VALUE=DATE，DTEND 为结束日的下一天（RFC 5545 不含结束日）
//   - CATEGORIES 写入事件类型，导入时据此还原，未知类型记为 other
//   - STATUS:CANCELLED 对应 closed
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize = 2 * 1024 * 1024 // 2MB
	icsProductID   = "-//SIGE//Calendario Academico//PT"
	icsDateLayout  = "20060102"
)

// BuildCalendarICS 将学年的校历事件序列化为 iCalendar
func BuildCalendarICS(year *model.AcademicYear, events []model.CalendarEvent, loc *time.Location, now time.Time) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("Calendário Académico %s", year.Code))
	cal.SetXWRTimezone(loc.String())
	if year.Description != "" {
		cal.SetXWRCalDesc(year.Description)
	}

	for _, ev := range events {
		vev := cal.AddEvent(ev.EventID + "@sige")
		vev.SetDtStampTime(now.UTC())
		vev.SetSummary(ev.Title)
		if ev.Description != "" {
			vev.SetDescription(ev.Description)
		}
		vev.SetAllDayStartAt(rules.CivilDate(ev.StartDate, time.UTC))
		vev.SetAllDayEndAt(rules.CivilDate(ev.EndDate, time.UTC).AddDate(0, 0, 1))
		vev.AddProperty(ics.ComponentPropertyCategories, string(ev.Type))
		if ev.Status == model.EventClosed {
			vev.SetStatus(ics.ObjectStatusCancelled)
		} else {
			vev.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	return []byte(cal.Serialize())
}

// ParseCalendarICS 解析 iCalendar 为属于 yearID 的校历事件
// 缺少标题或日期的 VEVENT 被跳过并计入 skipped
func ParseCalendarICS(r io.Reader, yearID string, loc *time.Location) ([]model.CalendarEvent, int, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(r, icsMaxFileSize))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrICSInvalid, err)
	}

	var (
		result  []model.CalendarEvent
		skipped int
	)
	for _, vev := range cal.Events() {
		ev, ok := parseCalendarVEvent(vev, loc)
		if !ok {
			skipped++
			continue
		}
		ev.YearID = yearID
		result = append(result, ev)
	}
	return result, skipped, nil
}

// parseCalendarVEvent 解析单个 VEVENT
func parseCalendarVEvent(vev *ics.VEvent, loc *time.Location) (model.CalendarEvent, bool) {
	summary := vev.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return model.CalendarEvent{}, false
	}

	start, startAllDay, err := parseICSDate(vev, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return model.CalendarEvent{}, false
	}
	end := start
	if e, allDay, err := parseICSDate(vev, ics.ComponentPropertyDtEnd, loc); err == nil {
		end = e
		// 全天事件的 DTEND 不含当天
		if allDay && startAllDay && end.After(start) {
			end = end.AddDate(0, 0, -1)
		}
	}
	if end.Before(start) {
		return model.CalendarEvent{}, false
	}

	ev := model.CalendarEvent{
		Title:     strings.TrimSpace(summary.Value),
		Type:      model.EventOther,
		StartDate: start,
		EndDate:   end,
		Status:    model.EventActive,
	}
	if desc := vev.GetProperty(ics.ComponentPropertyDescription); desc != nil {
		ev.Description = desc.Value
	}
	if cat := vev.GetProperty(ics.ComponentPropertyCategories); cat != nil {
		for _, c := range strings.Split(cat.Value, ",") {
			if t := model.EventType(strings.ToLower(strings.TrimSpace(c))); t.Valid() {
				ev.Type = t
				break
			}
		}
	}
	if st := vev.GetProperty(ics.ComponentPropertyStatus); st != nil &&
		strings.EqualFold(st.Value, string(ics.ObjectStatusCancelled)) {
		ev.Status = model.EventClosed
	}
	return ev, true
}

// parseICSDate 读取日期或日期时间属性，返回 loc 下的日历日期以及是否为纯日期
func parseICSDate(vev *ics.VEvent, name ics.ComponentProperty, loc *time.Location) (time.Time, bool, error) {
	prop := vev.GetProperty(name)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", name)
	}
	val := strings.TrimSpace(prop.Value)

	if len(val) == len(icsDateLayout) {
		t, err := time.Parse(icsDateLayout, val)
		if err != nil {
			return time.Time{}, false, err
		}
		return t, true, nil
	}

	// TZID 参数优先于默认时区
	valueLoc := loc
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			if l, err := time.LoadLocation(v[0]); err == nil {
				valueLoc = l
			}
		}
	}

	if strings.HasSuffix(val, "Z") {
		valueLoc = time.UTC
	}
	t, err := time.ParseInLocation("20060102T150405", strings.TrimSuffix(val, "Z"), valueLoc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q", val)
	}
	return rules.CivilDate(t, loc), false, nil
}
