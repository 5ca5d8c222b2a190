package rules

import (
	"time"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// trialDays 试用期天数
const trialDays = 15

// PlanExpiry 从 from 起按套餐时长计算到期日
// 月度与年度按日历月、日历年推算
func PlanExpiry(plan model.SubscriptionPlan, from time.Time) (time.Time, error) {
	switch plan {
	case model.PlanTrial:
		return from.AddDate(0, 0, trialDays), nil
	case model.PlanMonthly:
		return from.AddDate(0, 1, 0), nil
	case model.PlanAnnual:
		return from.AddDate(1, 0, 0), nil
	}
	return time.Time{}, ErrUnknownPlan
}

// RenewalExpiry 续费后的到期日：未过期时从原到期日顺延，已过期时从 today 重新计算
// today 与 expiry 都必须是 CivilDate 的结果
func RenewalExpiry(plan model.SubscriptionPlan, expiry, today time.Time) (time.Time, error) {
	from := expiry
	if from.Before(today) {
		from = today
	}
	return PlanExpiry(plan, from)
}

// SubscriptionActive 状态为 active 且到期日不早于 today
func SubscriptionActive(sub *model.Subscription, today time.Time) bool {
	return sub.Status == model.SubscriptionActive && !sub.ExpiryDate.Before(today)
}

// DaysRemaining 距到期的天数，过期后为 0
func DaysRemaining(sub *model.Subscription, today time.Time) int {
	days := int(sub.ExpiryDate.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
