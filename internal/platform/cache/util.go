package cache

import (
	"time"
)

// marketTZ はBSE（ボンベイ証券取引所）のタイムゾーンです。
const marketTZ = "Asia/Kolkata"

// refreshHour は検索キャッシュを切り替える時刻（市場の寄り付き前）です。
const refreshHour = 8

// TimeUntilNextRefresh は次の午前8時（インド標準時）までの期間を返します。
func TimeUntilNextRefresh() time.Duration {
	loc, err := time.LoadLocation(marketTZ)
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}
	return untilNextHour(time.Now(), loc, refreshHour)
}

// untilNextHour はnowから次にloc上でhour時ちょうどになるまでの期間を返します。
func untilNextHour(now time.Time, loc *time.Location, hour int) time.Duration {
	now = now.In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 今日の該当時刻が既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
