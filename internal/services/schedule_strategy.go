package services

import (
	"fmt"
	"time"

	"pennyplan/internal/calendar"
	"pennyplan/internal/models"
)

// ScheduleAdvancer computes the run date that follows a materialized one.
// Each frequency has its own strategy.
type ScheduleAdvancer interface {
	// Next returns the run date after last. anchorDay is the preferred day
	// of month, clamped to the month's length.
	Next(last time.Time, interval, anchorDay int) time.Time
}

// DailyAdvancer steps by interval days.
type DailyAdvancer struct{}

func (DailyAdvancer) Next(last time.Time, interval, _ int) time.Time {
	return calendar.Day(last).AddDate(0, 0, interval)
}

// WeeklyAdvancer steps by interval weeks.
type WeeklyAdvancer struct{}

func (WeeklyAdvancer) Next(last time.Time, interval, _ int) time.Time {
	return calendar.Day(last).AddDate(0, 0, 7*interval)
}

// MonthlyAdvancer steps by interval months, landing on the anchor day or
// the month's last day when it is shorter.
type MonthlyAdvancer struct{}

func (MonthlyAdvancer) Next(last time.Time, interval, anchorDay int) time.Time {
	first := calendar.Date(last.Year(), last.Month(), 1).AddDate(0, interval, 0)
	return clampDay(first.Year(), first.Month(), anchorDay)
}

// YearlyAdvancer steps by interval years in the same month.
type YearlyAdvancer struct{}

func (YearlyAdvancer) Next(last time.Time, interval, anchorDay int) time.Time {
	return clampDay(last.Year()+interval, last.Month(), anchorDay)
}

func clampDay(year int, month time.Month, day int) time.Time {
	lastDay := calendar.Month(calendar.Date(year, month, 1)).End.Day()
	if day > lastDay {
		day = lastDay
	}
	if day < 1 {
		day = 1
	}
	return calendar.Date(year, month, day)
}

var scheduleStrategies = map[models.Frequency]ScheduleAdvancer{
	models.FrequencyDaily:   DailyAdvancer{},
	models.FrequencyWeekly:  WeeklyAdvancer{},
	models.FrequencyMonthly: MonthlyAdvancer{},
	models.FrequencyYearly:  YearlyAdvancer{},
}

// GetScheduleAdvancer returns the strategy for frequency.
func GetScheduleAdvancer(frequency models.Frequency) (ScheduleAdvancer, error) {
	advancer, ok := scheduleStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unsupported frequency: %s", frequency)
	}
	return advancer, nil
}
