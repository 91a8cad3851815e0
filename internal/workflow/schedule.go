package workflow

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tidwall/gjson"
)

// cronParser accepts five-field expressions, six-field expressions with a
// leading seconds field, and descriptors such as @daily.
//
//nolint:gochecknoglobals // parser is stateless
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// cronKeys are parameter names that carry cron expressions in trigger nodes.
//
//nolint:gochecknoglobals // read-only lookup table
var cronKeys = map[string]struct{}{
	"cron": {}, "cronExpression": {}, "cron_expression": {}, "crontab": {}, "expression": {}, "schedule": {},
}

// timeOfDay matches Home Assistant "at" values such as 09:30 or 09:30:00.
//
//nolint:gochecknoglobals // compiled once
var timeOfDay = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)

const maxCronSearchDepth = 6

// findSchedule returns the first valid recurring schedule among the trigger
// nodes, or nil.
func findSchedule(triggers []UniversalNode, now time.Time) *Schedule {
	for _, n := range triggers {
		expr := findCron(n.Parameters, 0)
		if expr == "" {
			expr = haTimeTrigger(n)
		}
		if expr == "" {
			continue
		}
		sched, err := cronParser.Parse(expr)
		if err != nil {
			continue
		}
		return &Schedule{Cron: expr, NextRun: sched.Next(now).UTC()}
	}
	return nil
}

// findCron walks r depth-first for a string under one of cronKeys that
// parses as a cron expression.
func findCron(r gjson.Result, depth int) string {
	if depth > maxCronSearchDepth || !r.IsObject() && !r.IsArray() {
		return ""
	}
	var found string
	r.ForEach(func(key, value gjson.Result) bool {
		if _, ok := cronKeys[key.String()]; ok && value.Type == gjson.String {
			if _, err := cronParser.Parse(value.Str); err == nil {
				found = value.Str
				return false
			}
		}
		if value.IsObject() || value.IsArray() {
			if expr := findCron(value, depth+1); expr != "" {
				found = expr
				return false
			}
		}
		return true
	})
	return found
}

// haTimeTrigger converts a Home Assistant time trigger into a daily cron
// expression.
func haTimeTrigger(n UniversalNode) string {
	if n.Platform != PlatformHomeAssistant || n.OriginalType != "trigger:time" {
		return ""
	}
	m := timeOfDay.FindStringSubmatch(n.Parameters.Get("at").String())
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return ""
	}
	return fmt.Sprintf("%d %d * * *", minute, hour)
}
