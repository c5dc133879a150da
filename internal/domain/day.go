package domain

import "time"

// offerZone is the fixed UTC-3 offset in which the marketplace day is
// defined. Offers published within the same UTC-3 calendar day compete for
// the same dedup window and feed ranking.
var offerZone = time.FixedZone("UTC-3", -3*60*60)

// StartOfDay returns the start of t's calendar day in the offer zone,
// expressed in UTC. Stored publish timestamps are compared against this with
// >= to decide whether two offers fall in the same day window.
func StartOfDay(t time.Time) time.Time {
	lt := t.In(offerZone)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, offerZone).UTC()
}

// DayKey returns the offer-zone calendar date of t as "YYYY-MM-DD". It is
// the truncated day value used in the offers uniqueness index.
func DayKey(t time.Time) string {
	return t.In(offerZone).Format("2006-01-02")
}
