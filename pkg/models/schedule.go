package models

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSchedule is returned when schedule validation fails.
var ErrInvalidSchedule = errors.New("invalid schedule configuration")

// DefaultCronExpression is assumed when a schedule trigger carries no rule.
const DefaultCronExpression = "0 * * * *"

// DefaultTimezone is assumed when the engine workflow has no timezone set.
const DefaultTimezone = "UTC"

// Schedule is the cron descriptor derived from a schedule-type trigger.
// It is a projection of the engine node's parameters, not independently
// stored state.
type Schedule struct {
	// Type is always CRON_EXPRESSION.
	Type string `json:"type"`

	// CronExpression uses the standard 5-field format
	// (minute hour day month weekday).
	CronExpression string `json:"cron_expression" validate:"required"`

	// Timezone is the IANA zone name the engine evaluates the expression in.
	Timezone string `json:"timezone"`

	FailureCount int `json:"failure_count,omitempty"`
}

// NewSchedule builds a schedule descriptor, applying the documented defaults
// for an absent expression or timezone.
func NewSchedule(cronExpression, timezone string) *Schedule {
	if cronExpression == "" {
		cronExpression = DefaultCronExpression
	}

	if timezone == "" {
		timezone = DefaultTimezone
	}

	return &Schedule{
		Type:           ScheduleTypeCron,
		CronExpression: cronExpression,
		Timezone:       timezone,
	}
}

// Validate checks the cron expression parses in the 5-field format.
func (s *Schedule) Validate() error {
	if s.CronExpression == "" {
		return ErrInvalidSchedule
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(s.CronExpression)

	return err
}

// NextRun computes the next firing time after the reference time, evaluated
// in the schedule's timezone. Falls back to UTC when the zone is unknown.
func (s *Schedule) NextRun(after time.Time) (time.Time, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	spec, err := parser.Parse(s.CronExpression)
	if err != nil {
		return time.Time{}, err
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		loc = time.UTC
	}

	return spec.Next(after.In(loc)), nil
}
