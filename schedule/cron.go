package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSchedule is returned for unusable cron expressions or intervals.
var ErrInvalidSchedule = errors.New("schedule: invalid schedule")

var standardCronParser = cron.NewParser(
	cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// ParseCron parses a five-field cron expression or descriptor ("@every 1m",
// "@hourly"). Expressions are evaluated in UTC; timezone prefixes are rejected.
func ParseCron(expr string) (cron.Schedule, error) {
	clean := strings.TrimSpace(expr)
	if clean == "" {
		return nil, fmt.Errorf("%w: cron expression is required", ErrInvalidSchedule)
	}

	upper := strings.ToUpper(clean)
	if strings.Contains(upper, "CRON_TZ=") || strings.Contains(upper, "TZ=") {
		return nil, fmt.Errorf("%w: cron expression must be UTC-only", ErrInvalidSchedule)
	}

	sched, err := standardCronParser.Parse(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	return sched, nil
}

// NextRun returns the first activation of expr after now, in UTC.
func NextRun(expr string, now time.Time) (time.Time, error) {
	sched, err := ParseCron(expr)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(now.UTC()), nil
}
