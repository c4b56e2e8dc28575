package services

import "time"

var easternTime = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// tzdata missing: fall back to fixed EST offset
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}()

// IsMarketOpen reports whether US equity markets are in their regular
// session (weekdays 9:30-16:00 Eastern). Exchange holidays are not modeled;
// this only gates automatic quote refresh.
func IsMarketOpen() bool {
	return IsMarketOpenAt(time.Now())
}

// IsMarketOpenAt is IsMarketOpen evaluated at an explicit instant
func IsMarketOpenAt(now time.Time) bool {
	et := now.In(easternTime)

	switch et.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minutes := et.Hour()*60 + et.Minute()
	const open = 9*60 + 30
	const close = 16 * 60
	return minutes >= open && minutes < close
}
