// parser.go wraps robfig/cron for next-run reporting without running a scheduler.

package interval

import (
	"time"

	"github.com/robfig/cron/v3"
)

// CronParser wraps robfig/cron for schedule-only usage
type CronParser struct {
	parser cron.Parser
}

// NewCronParser creates a parser supporting standard 5-field cron with descriptors
func NewCronParser() *CronParser {
	return &CronParser{
		parser: cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		),
	}
}

// NextRun calculates the next execution time for a cron expression.
// Used for display only: expressions that pass syntactic validation but are
// semantically unparseable (e.g. day 32) return an error here, which callers
// should render as "unknown" rather than fail the operation.
func (p *CronParser) NextRun(expression string, after time.Time) (time.Time, error) {
	schedule, err := p.parser.Parse(expression)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(after), nil
}
