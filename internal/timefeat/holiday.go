package timefeat

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// holidayProximityDays is the inclusive window, in days, on each side of a
// federal holiday that counts as "near" it.
const holidayProximityDays = 7

// nearHolidaySet returns the set of dates (at midnight UTC) within the
// proximity window of any US federal holiday falling in [start, end].
// Holidays outside the span are not considered, even when their window
// would reach into it.
func nearHolidaySet(start, end time.Time) map[time.Time]bool {
	calendar := &cal.Calendar{}
	calendar.AddHoliday(us.Holidays...)

	near := make(map[time.Time]bool)
	for d := midnight(start); !d.After(midnight(end)); d = d.AddDate(0, 0, 1) {
		actual, observed, _ := calendar.IsHoliday(d)
		if !actual && !observed {
			continue
		}
		for off := -holidayProximityDays; off <= holidayProximityDays; off++ {
			near[d.AddDate(0, 0, off)] = true
		}
	}
	return near
}

func midnight(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
