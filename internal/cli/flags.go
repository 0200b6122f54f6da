package cli

import (
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/portfolio-labs/ptrack/internal/dates"
	"github.com/portfolio-labs/ptrack/internal/model"
)

// dateValue is a pflag.Value accepting YYYY-MM-DD or a relative keyword.
type dateValue struct {
	date dates.CalendarDate
	set  bool
	now  func() time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func (v *dateValue) String() string {
	if !v.set {
		return ""
	}
	return v.date.String()
}

func (v *dateValue) Set(s string) error {
	now := time.Now
	if v.now != nil {
		now = v.now
	}
	d, err := dates.ParseDateArg(s, now())
	if err != nil {
		return err
	}
	v.date = d
	v.set = true
	return nil
}

func (v *dateValue) Type() string { return "date" }

// statusListValue is a pflag.Value collecting project statuses. It accepts
// repeated flags and comma-separated lists, and validates each entry.
type statusListValue struct {
	statuses []string
}

var _ pflag.Value = (*statusListValue)(nil)

func (v *statusListValue) String() string {
	return strings.Join(v.statuses, ",")
}

func (v *statusListValue) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, err := model.ValidateStatus(part)
		if err != nil {
			return err
		}
		v.statuses = append(v.statuses, status)
	}
	return nil
}

func (v *statusListValue) Type() string { return "statuses" }

func (v *statusListValue) reset() { v.statuses = nil }
