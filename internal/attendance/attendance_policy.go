package attendance

import (
	"fmt"
	"math"
	"time"

	"sistema-asistencia/internal/config"
)

const ReasonForcedByAdministrator = "forced by administrator"

// Closure is the single conditional write that ends a session.
type Closure struct {
	CheckOut time.Time
	Hours    float64
	Reason   *string
	Source   string
	ClosedBy string
	Capped   bool
}

// ElapsedHours is the fractional hours between check-in and now. A clock behind check-in yields zero.
func ElapsedHours(checkIn, now time.Time) float64 {
	h := now.Sub(checkIn).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// CapHours returns min(raw, limit) and whether the limit applied.
func CapHours(raw, limit float64) (float64, bool) {
	if raw > limit {
		return limit, true
	}
	return raw, false
}

func capNote(raw, limit float64) string {
	return fmt.Sprintf("capped at %.1fh daily limit (elapsed %.2fh)", limit, raw)
}

// departureReason combines the cap note with the caller's reason. Without a cap the caller's reason is kept as is.
func departureReason(raw, limit float64, capped bool, callerReason string) *string {
	if capped {
		note := capNote(raw, limit)
		if callerReason != "" {
			note += "; " + callerReason
		}
		return &note
	}
	if callerReason == "" {
		return nil
	}
	return &callerReason
}

func staleOnCheckInReason(thresholdHours float64) string {
	return fmt.Sprintf("system auto-close (stale, >%gh)", thresholdHours)
}

const staleSweepReason = "system auto-close (stale)"

func capSweepReason(thresholdHours float64) string {
	return fmt.Sprintf("system cap (>%gh daily limit)", thresholdHours)
}

// IsStale reports whether an open session has run strictly longer than thresholdHours.
func IsStale(checkIn, now time.Time, thresholdHours float64) bool {
	return ElapsedHours(checkIn, now) > thresholdHours
}

// RequiresEarlyDepartureReason reports whether a check-out now falls under the minimum session length.
func RequiresEarlyDepartureReason(checkIn, now time.Time, minSessionHours float64) bool {
	return ElapsedHours(checkIn, now) < minSessionHours
}

// elapsedClosure ends a session at now, crediting the elapsed time up to the daily cap.
func elapsedClosure(rec AttendanceRecord, now time.Time, policy config.Policy, callerReason, source string) Closure {
	raw := ElapsedHours(rec.CheckIn, now)
	hours, capped := CapHours(raw, policy.DailyCapHours)
	return Closure{
		CheckOut: now,
		Hours:    hours,
		Reason:   departureReason(raw, policy.DailyCapHours, capped, callerReason),
		Source:   source,
		Capped:   capped,
	}
}

// creditClosure ends a session at check-in + credit with a fixed credit. The credit never exceeds the
// daily cap or the time actually elapsed by now, so check_out is never in the future.
func creditClosure(rec AttendanceRecord, now time.Time, creditHours float64, policy config.Policy, reason, source string) Closure {
	hours := math.Min(math.Min(creditHours, policy.DailyCapHours), ElapsedHours(rec.CheckIn, now))
	return Closure{
		CheckOut: rec.CheckIn.Add(config.Hours(hours)),
		Hours:    hours,
		Reason:   &reason,
		Source:   source,
	}
}
