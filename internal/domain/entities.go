package domain

import (
	"strings"
	"time"
)

// Task is a materialized, non-draft task.
type Task struct {
	ID                   string
	UserID               string
	Title                string
	Description          string
	LifeAreaCode         string
	PriorityQuadrantCode string
	EffortPoints         int
	EpicID               *string
	SprintID             *string
	DueDate              *Date
	Recurring            bool
	Recurrence           *string
	IsDraft              bool
	AIConfidence         *float64
	CreatedAt            time.Time
}

type Epic struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	LifeAreaCode string
	Color        string
	Icon         *string
	StartDate    *Date
	EndDate      *Date
	AIConfidence *float64
	CreatedAt    time.Time
}

// ChallengeMetric is how progress on a challenge is measured.
type ChallengeMetric string

const (
	MetricYesNo    ChallengeMetric = "YESNO"
	MetricCount    ChallengeMetric = "COUNT"
	MetricDuration ChallengeMetric = "DURATION"
	MetricDistance ChallengeMetric = "DISTANCE"
	MetricWeight   ChallengeMetric = "WEIGHT"
	MetricCustom   ChallengeMetric = "CUSTOM"
)

// ChallengeFrequency is how often a challenge check-in is due.
type ChallengeFrequency string

const (
	FrequencyDaily    ChallengeFrequency = "DAILY"
	FrequencyWeekdays ChallengeFrequency = "WEEKDAYS"
	FrequencyWeekly   ChallengeFrequency = "WEEKLY"
	FrequencyMonthly  ChallengeFrequency = "MONTHLY"
)

var metricLookup = map[string]ChallengeMetric{
	"yesno": MetricYesNo, "yes_no": MetricYesNo, "boolean": MetricYesNo, "binary": MetricYesNo, "checkbox": MetricYesNo,
	"count": MetricCount, "number": MetricCount, "reps": MetricCount, "times": MetricCount,
	"duration": MetricDuration, "time": MetricDuration, "minutes": MetricDuration, "hours": MetricDuration,
	"distance": MetricDistance, "km": MetricDistance, "miles": MetricDistance,
	"weight": MetricWeight, "kg": MetricWeight, "lbs": MetricWeight,
	"custom": MetricCustom,
}

var frequencyLookup = map[string]ChallengeFrequency{
	"daily": FrequencyDaily, "every day": FrequencyDaily, "everyday": FrequencyDaily,
	"weekdays": FrequencyWeekdays, "weekday": FrequencyWeekdays,
	"weekly": FrequencyWeekly, "every week": FrequencyWeekly,
	"monthly": FrequencyMonthly, "every month": FrequencyMonthly,
}

// ParseChallengeMetric maps free text onto a metric, defaulting to YESNO.
func ParseChallengeMetric(s string) ChallengeMetric {
	if m, ok := metricLookup[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m
	}
	return MetricYesNo
}

// ParseChallengeFrequency maps free text onto a frequency, defaulting to DAILY.
func ParseChallengeFrequency(s string) ChallengeFrequency {
	if f, ok := frequencyLookup[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f
	}
	return FrequencyDaily
}

type Challenge struct {
	ID                string
	UserID            string
	Name              string
	Description       string
	LifeAreaCode      string
	MetricType        ChallengeMetric
	TargetValue       float64
	Unit              *string
	DurationDays      int
	Frequency         ChallengeFrequency
	WhyStatement      *string
	RewardDescription *string
	GraceDays         int
	ReminderTime      *Clock
	AIConfidence      *float64
	CreatedAt         time.Time
}
