package schema

import (
	"strconv"
	"time"
)

// AdoptionTotal is the aggregate adoption of one team, task type or team×task
// type pair across the reporting window.
type AdoptionTotal struct {
	Team         string `json:"team,omitempty" yaml:"team,omitempty"`
	TaskType     string `json:"task_type,omitempty" yaml:"task_type,omitempty"`
	TotalTasks   int    `json:"total_tasks" yaml:"total_tasks"`
	AITasks      int    `json:"ai_tasks" yaml:"ai_tasks"`
	AdoptionRate Ratio  `json:"adoption_rate" yaml:"adoption_rate"`
}

// AdoptionReport summarizes adoption across teams and task types.
type AdoptionReport struct {
	Window        []Month         `json:"window" yaml:"window"`
	ByTeam        []AdoptionTotal `json:"by_team" yaml:"by_team"`
	ByTaskType    []AdoptionTotal `json:"by_task_type" yaml:"by_task_type"`
	ByTeamTask    []AdoptionTotal `json:"by_team_task" yaml:"by_team_task"`
	TeamTaskTrend []TrendRow      `json:"team_task_trend" yaml:"team_task_trend"`
	Highest       *AdoptionTotal  `json:"highest_team" yaml:"highest_team"`
	Lowest        *AdoptionTotal  `json:"lowest_team" yaml:"lowest_team"`
}

// MethodDuration compares average durations of AI and manual execution.
type MethodDuration struct {
	Team         string `json:"team,omitempty" yaml:"team,omitempty"`
	TaskType     string `json:"task_type" yaml:"task_type"`
	AICount      int    `json:"ai_count" yaml:"ai_count"`
	ManualCount  int    `json:"manual_count" yaml:"manual_count"`
	AIAvg        Ratio  `json:"avg_dur_ai" yaml:"avg_dur_ai"`
	ManualAvg    Ratio  `json:"avg_dur_manual" yaml:"avg_dur_manual"`
	PctTimeSaved Ratio  `json:"pct_time_saved" yaml:"pct_time_saved"`
}

// MonthlyDuration is the duration profile of one team×task type×method in a month.
type MonthlyDuration struct {
	Team         string  `json:"team" yaml:"team"`
	TaskType     string  `json:"task_type" yaml:"task_type"`
	Method       Method  `json:"method" yaml:"method"`
	Month        Month   `json:"month" yaml:"month"`
	Count        int     `json:"count" yaml:"count"`
	AvgMinutes   float64 `json:"avg_minutes" yaml:"avg_minutes"`
	TotalMinutes float64 `json:"total_minutes" yaml:"total_minutes"`
}

// MonthTotal is a total of minutes for one month.
type MonthTotal struct {
	Month   Month   `json:"month" yaml:"month"`
	Minutes float64 `json:"minutes" yaml:"minutes"`
}

// BaselineComparison contrasts manual-only baseline months with the reporting window.
type BaselineComparison struct {
	TaskType    string       `json:"task_type" yaml:"task_type"`
	Baseline    []MonthTotal `json:"baseline" yaml:"baseline"`
	Window      []MonthTotal `json:"window" yaml:"window"`
	BaselineAvg Ratio        `json:"baseline_avg" yaml:"baseline_avg"`
	WindowAvg   Ratio        `json:"window_avg" yaml:"window_avg"`
	PctChange   Ratio        `json:"pct_change" yaml:"pct_change"`
}

// EfficiencyReport is the output of an efficiency run.
type EfficiencyReport struct {
	Window         []Month              `json:"window" yaml:"window"`
	BaselineMonths []Month              `json:"baseline_months" yaml:"baseline_months"`
	ByTeamTask     []MethodDuration     `json:"by_team_task" yaml:"by_team_task"`
	ByTaskType     []MethodDuration     `json:"by_task_type" yaml:"by_task_type"`
	Monthly        []MonthlyDuration    `json:"monthly" yaml:"monthly"`
	Baseline       []BaselineComparison `json:"baseline" yaml:"baseline"`
}

// AccuracyGroup is the accuracy profile of a group of AI predictions.
type AccuracyGroup struct {
	Team     string `json:"team,omitempty" yaml:"team,omitempty"`
	TaskType string `json:"task_type,omitempty" yaml:"task_type,omitempty"`
	Count    int    `json:"count" yaml:"count"`
	Mean     Ratio  `json:"mean_accuracy" yaml:"mean_accuracy"`
	PctBelow Ratio  `json:"pct_below_threshold" yaml:"pct_below_threshold"`
}

// AccuracyDistribution mirrors a descriptive summary of accuracies for one task type.
type AccuracyDistribution struct {
	TaskType string `json:"task_type" yaml:"task_type"`
	Count    int    `json:"count" yaml:"count"`
	Mean     Ratio  `json:"mean" yaml:"mean"`
	Std      Ratio  `json:"std" yaml:"std"`
	Min      Ratio  `json:"min" yaml:"min"`
	P25      Ratio  `json:"p25" yaml:"p25"`
	P50      Ratio  `json:"p50" yaml:"p50"`
	P75      Ratio  `json:"p75" yaml:"p75"`
	Max      Ratio  `json:"max" yaml:"max"`
}

// UserAccuracy is the mean accuracy of a single user's predictions.
type UserAccuracy struct {
	UserID       string `json:"user_id" yaml:"user_id"`
	FullName     string `json:"full_name" yaml:"full_name"`
	Team         string `json:"team" yaml:"team"`
	Count        int    `json:"n_predictions" yaml:"n_predictions"`
	Mean         Ratio  `json:"avg_accuracy" yaml:"avg_accuracy"`
	AdoptionRate Ratio  `json:"adoption_rate" yaml:"adoption_rate"` // share of AI-log tasks that used AI
	AvgDuration  Ratio  `json:"avg_duration" yaml:"avg_duration"`   // mean minutes of the scored predictions
}

// LowAccuracyEntry is a single prediction below the accuracy threshold.
type LowAccuracyEntry struct {
	UserID   string    `json:"user_id" yaml:"user_id"`
	FullName string    `json:"full_name" yaml:"full_name"`
	Team     string    `json:"team" yaml:"team"`
	TaskType string    `json:"task_type" yaml:"task_type"`
	Date     time.Time `json:"date" yaml:"date"`
	Accuracy float64   `json:"accuracy" yaml:"accuracy"`
}

// QualityReport is the output of a quality run.
type QualityReport struct {
	Threshold         float64                `json:"threshold" yaml:"threshold"`
	Months            []Month                `json:"months" yaml:"months"`
	TotalCount        int                    `json:"total_predictions" yaml:"total_predictions"`
	BelowCount        int                    `json:"below_threshold" yaml:"below_threshold"`
	ByTeamTask        []AccuracyGroup        `json:"by_team_task" yaml:"by_team_task"`
	ByTeam            []AccuracyGroup        `json:"by_team" yaml:"by_team"`
	ByTaskType        []AccuracyGroup        `json:"by_task_type" yaml:"by_task_type"`
	MonthlyByTeamTask []TrendRow             `json:"monthly_by_team_task" yaml:"monthly_by_team_task"`
	MonthlyByTeam     []TrendRow             `json:"monthly_by_team" yaml:"monthly_by_team"`
	MonthlyByTaskType []TrendRow             `json:"monthly_by_task_type" yaml:"monthly_by_task_type"`
	Distributions     []AccuracyDistribution `json:"distributions" yaml:"distributions"`
	Users             []UserAccuracy         `json:"users" yaml:"users"`
	LowAccuracy       []LowAccuracyEntry     `json:"low_accuracy" yaml:"low_accuracy"`
}

// UserMonthlySummary is one row of the derived per-user, per-month table.
type UserMonthlySummary struct {
	UserID              string    `json:"user_id" yaml:"user_id"`
	Month               Month     `json:"month" yaml:"month"`
	TaskCountAI         int       `json:"task_count_ai" yaml:"task_count_ai"`
	TaskCountManual     int       `json:"task_count_manual" yaml:"task_count_manual"`
	TotalDurationAI     float64   `json:"total_duration_ai" yaml:"total_duration_ai"`
	TotalDurationManual float64   `json:"total_duration_manual" yaml:"total_duration_manual"`
	AITasks             int       `json:"ai_tasks" yaml:"ai_tasks"`
	ManualTasks         int       `json:"manual_tasks" yaml:"manual_tasks"`
	TotalTasks          int       `json:"total_tasks" yaml:"total_tasks"`
	AdoptionRate        Ratio     `json:"adoption_rate" yaml:"adoption_rate"`
	AIAvgDur            Ratio     `json:"ai_avg_dur" yaml:"ai_avg_dur"`
	ManualAvgDur        Ratio     `json:"manual_avg_dur" yaml:"manual_avg_dur"`
	FullName            string    `json:"full_name" yaml:"full_name"`
	JoinDate            time.Time `json:"join_date" yaml:"join_date"`
	Team                string    `json:"team" yaml:"team"`
}

// SummaryColumns are the columns of the user monthly summary table, in order.
var SummaryColumns = []string{
	"user_id", "month",
	"task_count_ai", "task_count_manual",
	"total_duration_ai", "total_duration_manual",
	"ai_tasks", "manual_tasks", "total_tasks",
	"adoption_rate", "ai_avg_dur", "manual_avg_dur",
	"full_name", "join_date", "team",
}

// Record renders the row in SummaryColumns order. Values keep full precision
// so the table reads back unchanged; undefined ratios are blank.
func (s UserMonthlySummary) Record() []string {
	joined := ""
	if !s.JoinDate.IsZero() {
		joined = s.JoinDate.Format(time.DateOnly)
	}
	return []string{
		s.UserID, s.Month.String(),
		strconv.Itoa(s.TaskCountAI), strconv.Itoa(s.TaskCountManual),
		formatFloat(s.TotalDurationAI), formatFloat(s.TotalDurationManual),
		strconv.Itoa(s.AITasks), strconv.Itoa(s.ManualTasks), strconv.Itoa(s.TotalTasks),
		s.AdoptionRate.Format(-1), s.AIAvgDur.Format(-1), s.ManualAvgDur.Format(-1),
		s.FullName, joined, s.Team,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
