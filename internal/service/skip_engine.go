package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tiffinbox/tiffin_go_server/internal/model"
)

var (
	ErrInvalidMeal          = errors.New("Invalid meal type. Choose lunch, dinner, or both.")
	ErrNoActiveSubscription = errors.New("No active subscription")
	ErrSkipPastDay          = errors.New("Cannot skip past or current day meals.")
	ErrSkipCutoffPassed     = errors.New("Cutoff time passed (10:00 PM). Cannot skip tomorrow's meal.")
	ErrSkipLimitReached     = errors.New("Limit reached. You can skip maximum 5 days (10 meals) per month.")
	ErrAlreadySkipped       = errors.New("Meal already skipped.")
	ErrNotSkipped           = errors.New("Meal is not skipped currently.")
	ErrUndoPastDay          = errors.New("Cannot undo skip for past/current days.")
	ErrUndoCutoffPassed     = errors.New("Cutoff time passed. Cannot undo skip for tomorrow.")
)

// UndoMismatchError 撤销的餐别与记录不符
type UndoMismatchError struct {
	Requested string
	Existing  string
}

func (e *UndoMismatchError) Error() string {
	return fmt.Sprintf("Cannot undo %s on a %s skip.", e.Requested, e.Existing)
}

// skipPolicy 跳餐策略参数
type skipPolicy struct {
	CutoffHour int // 次日跳餐截止小时
	MaxMeals   int // 单周期最大跳餐数
}

// skipOutcome 一次跳餐的结算结果
type skipOutcome struct {
	CreditAdded  float64
	DaysExtended int
}

// normalizeDay 归一化到本地日历日零点。
// 截止时间和限额计算都必须使用同一个"天"的定义。
func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDay 两个时间是否落在同一个日历日
func sameDay(a, b time.Time) bool {
	return normalizeDay(a).Equal(normalizeDay(b))
}

// dayDiff checkDate 相对 today 的天数差（向上取整）
func dayDiff(checkDate, today time.Time) int {
	return int(math.Ceil(checkDate.Sub(today).Hours() / 24))
}

// validMeal 餐别取值校验
func validMeal(meal string) bool {
	return meal == model.MealLunch || meal == model.MealDinner || meal == model.MealBoth
}

// checkCutoff 跳餐/撤销共用的截止时间规则：
// 过去或当天一律拒绝；次日在截止小时之后拒绝；后天及以后任何时间都允许。
func checkCutoff(checkDate, now time.Time, policy skipPolicy, pastErr, cutoffErr error) error {
	diffDays := dayDiff(checkDate, normalizeDay(now))

	if diffDays < 1 {
		return pastErr
	}
	if diffDays == 1 && now.Hour() >= policy.CutoffHour {
		return cutoffErr
	}
	return nil
}

// applySkip 对订阅记录执行一次跳餐：校验、登记、累计积分并结转窗口。
// 纯函数，只改传入的 sub，不做任何 I/O。
func applySkip(sub *model.Subscription, date time.Time, meal string, now time.Time, policy skipPolicy) (*skipOutcome, error) {
	if !validMeal(meal) {
		return nil, ErrInvalidMeal
	}

	checkDate := normalizeDay(date)

	if err := checkCutoff(checkDate, now, policy, ErrSkipPastDay, ErrSkipCutoffPassed); err != nil {
		return nil, err
	}

	// 限额按餐位数计：both 占 2 位，单餐占 1 位
	totalSkippedMeals := 0
	for _, s := range sub.SkippedMeals {
		totalSkippedMeals += s.MealSlots()
	}
	mealsToSkip := 1
	if meal == model.MealBoth {
		mealsToSkip = 2
	}
	if totalSkippedMeals+mealsToSkip > policy.MaxMeals {
		return nil, ErrSkipLimitReached
	}

	// 重复判断是餐别精确匹配：同一天先跳 lunch 再跳 dinner 会留下两条记录，
	// 不会合并成 both（管理端按 meal == both 区分"全天跳过"）
	for _, s := range sub.SkippedMeals {
		if sameDay(s.Date, checkDate) && s.Meal == meal {
			return nil, ErrAlreadySkipped
		}
	}

	sub.SkippedMeals = append(sub.SkippedMeals, model.SkippedMeal{
		SubscriptionID: sub.ID,
		Date:           checkDate,
		Meal:           meal,
		Timestamp:      now,
	})

	creditToAdd := 0.5
	if meal == model.MealBoth {
		creditToAdd = 1.0
	}
	sub.SkipBalance += creditToAdd

	// 积分满一天就顺延窗口，余额始终落在 [0, 1)
	daysExtended := 0
	for sub.SkipBalance >= 1 {
		sub.SkipBalance -= 1
		sub.EndDate = sub.EndDate.AddDate(0, 0, 1)
		daysExtended++
	}

	return &skipOutcome{
		CreditAdded:  creditToAdd,
		DaysExtended: daysExtended,
	}, nil
}

// applyUnskip 撤销一次跳餐，是 applySkip 的精确逆操作：
// both 记录可以单独撤销 lunch 或 dinner，剩下的一餐保留。
func applyUnskip(sub *model.Subscription, date time.Time, meal string, now time.Time, policy skipPolicy) (float64, error) {
	checkDate := normalizeDay(date)

	// 先确认确实跳过了这一餐（both 记录覆盖任意餐别的撤销请求）
	skipIndex := -1
	for i, s := range sub.SkippedMeals {
		if sameDay(s.Date, checkDate) && (s.Meal == meal || s.Meal == model.MealBoth) {
			skipIndex = i
			break
		}
	}
	if skipIndex == -1 {
		return 0, ErrNotSkipped
	}

	// 截止规则与跳餐一致，以撤销时刻重新判定
	if err := checkCutoff(checkDate, now, policy, ErrUndoPastDay, ErrUndoCutoffPassed); err != nil {
		return 0, err
	}

	entry := sub.SkippedMeals[skipIndex]
	var creditToDeduct float64

	if entry.Meal == model.MealBoth {
		switch meal {
		case model.MealBoth:
			sub.SkippedMeals = append(sub.SkippedMeals[:skipIndex], sub.SkippedMeals[skipIndex+1:]...)
			creditToDeduct = 1.0
		case model.MealLunch:
			// 撤销午餐，保留晚餐
			sub.SkippedMeals[skipIndex].Meal = model.MealDinner
			creditToDeduct = 0.5
		case model.MealDinner:
			// 撤销晚餐，保留午餐
			sub.SkippedMeals[skipIndex].Meal = model.MealLunch
			creditToDeduct = 0.5
		default:
			return 0, ErrNotSkipped
		}
	} else {
		if entry.Meal != meal {
			return 0, &UndoMismatchError{Requested: meal, Existing: entry.Meal}
		}
		sub.SkippedMeals = append(sub.SkippedMeals[:skipIndex], sub.SkippedMeals[skipIndex+1:]...)
		creditToDeduct = 0.5
	}

	// 正向结转的逆：余额透支时回收已顺延的天数
	sub.SkipBalance -= creditToDeduct
	for sub.SkipBalance < 0 {
		sub.EndDate = sub.EndDate.AddDate(0, 0, -1)
		sub.SkipBalance += 1
	}

	return creditToDeduct, nil
}
