package rules

import (
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// Candidate 参与录取排名的报名快照
type Candidate struct {
	ID         string
	Number     string
	Score      *decimal.Decimal
	BirthDate  time.Time
	EnrolledAt time.Time
	Sex        model.Sex
}

// Comparator 同分比较器：a 应排在 b 前面时返回负数，无法区分时返回 0
type Comparator func(a, b Candidate) int

var (
	tieBreakMu       sync.RWMutex
	tieBreakRegistry = map[model.TieBreakCriterion]Comparator{}
)

// RegisterTieBreak 注册（或覆盖）一条同分排序规则
func RegisterTieBreak(name model.TieBreakCriterion, cmp Comparator) {
	tieBreakMu.Lock()
	defer tieBreakMu.Unlock()
	tieBreakRegistry[name] = cmp
}

// LookupTieBreak 按名称查找比较器
func LookupTieBreak(name model.TieBreakCriterion) (Comparator, error) {
	tieBreakMu.RLock()
	defer tieBreakMu.RUnlock()
	cmp, ok := tieBreakRegistry[name]
	if !ok {
		return nil, ErrUnknownTieBreak
	}
	return cmp, nil
}

// KnownTieBreak 规则是否已注册
func KnownTieBreak(name model.TieBreakCriterion) bool {
	_, err := LookupTieBreak(name)
	return err == nil
}

func init() {
	RegisterTieBreak(model.TieBreakOlderFirst, olderFirst)
	RegisterTieBreak(model.TieBreakYoungerFirst, youngerFirst)
	RegisterTieBreak(model.TieBreakEnrollmentOrder, func(a, b Candidate) int {
		return a.EnrolledAt.Compare(b.EnrolledAt)
	})
	RegisterTieBreak(model.TieBreakFemaleFirst, preferSex(model.SexFemale, nil))
	RegisterTieBreak(model.TieBreakMaleFirst, preferSex(model.SexMale, nil))
	RegisterTieBreak(model.TieBreakFemaleYoungest, preferSex(model.SexFemale, youngerFirst))
	RegisterTieBreak(model.TieBreakFemaleOldest, preferSex(model.SexFemale, olderFirst))
}

// 出生日期越早越年长
func olderFirst(a, b Candidate) int {
	return a.BirthDate.Compare(b.BirthDate)
}

func youngerFirst(a, b Candidate) int {
	return b.BirthDate.Compare(a.BirthDate)
}

// preferSex 指定性别优先；同性别时交给 then（可为 nil）
func preferSex(sex model.Sex, then Comparator) Comparator {
	return func(a, b Candidate) int {
		aHit, bHit := a.Sex == sex, b.Sex == sex
		switch {
		case aHit && !bHit:
			return -1
		case !aHit && bHit:
			return 1
		case then != nil:
			return then(a, b)
		}
		return 0
	}
}

// fallbackOrder 比较器无法区分时的确定性兜底：报名时间、报名编号、ID
func fallbackOrder(a, b Candidate) int {
	if c := a.EnrolledAt.Compare(b.EnrolledAt); c != 0 {
		return c
	}
	if c := strings.Compare(a.Number, b.Number); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
