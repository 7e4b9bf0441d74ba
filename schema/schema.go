// Package schema has models and constants for all parts of uptake.
package schema

import (
	"cmp"
	"slices"
	"time"
)

// TaskRecord is one normalized task execution from either log.
type TaskRecord struct {
	UserID          string       `json:"user_id"`
	Team            string       `json:"team"` // Attributed team of the user
	TaskType        string       `json:"task_type"`
	Timestamp       time.Time    `json:"timestamp"`
	UsedAI          bool         `json:"used_ai"`
	DurationMinutes float64      `json:"duration_minutes"`
	Accuracy        *float64     `json:"accuracy,omitempty"` // AI prediction accuracy in [0, 1] if logged
	Source          RecordSource `json:"source"`
}

// Month returns the calendar month of the record.
func (r TaskRecord) Month() Month {
	return MonthOf(r.Timestamp)
}

// UserProfile is a row of the user directory.
type UserProfile struct {
	UserID   string    `json:"user_id"`
	FullName string    `json:"full_name"`
	JoinDate time.Time `json:"join_date"`
}

// Dataset is the in-memory snapshot a single run operates on.
type Dataset struct {
	Records       []TaskRecord      `json:"records"`
	Users         []UserProfile     `json:"users"`
	Teams         map[string]string `json:"teams"`          // user id -> attributed team
	DroppedManual int               `json:"dropped_manual"` // manual records without an AI-log user
}

// Directory indexes the user directory by user id.
func (d *Dataset) Directory() map[string]UserProfile {
	out := make(map[string]UserProfile, len(d.Users))
	for _, u := range d.Users {
		out[u.UserID] = u
	}
	return out
}

// EntityKey identifies an aggregation entity. TaskType is only set for the
// team-task grouping, where ID holds the team.
type EntityKey struct {
	ID       string `json:"id" yaml:"id"`
	TaskType string `json:"task_type,omitempty" yaml:"task_type,omitempty"`
}

// String renders the key for display.
func (k EntityKey) String() string {
	if k.TaskType == "" {
		return k.ID
	}
	return k.ID + " / " + k.TaskType
}

// CompareEntityKeys orders keys by ID then TaskType.
func CompareEntityKeys(a, b EntityKey) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.TaskType, b.TaskType)
}

// MonthlyRate is the adoption observation of one entity in one month.
// A record exists only when TotalTasks >= 1.
type MonthlyRate struct {
	Entity       EntityKey `json:"entity"`
	Month        Month     `json:"month"`
	TotalTasks   int       `json:"total_tasks"`
	AITasks      int       `json:"ai_tasks"`
	AdoptionRate Ratio     `json:"adoption_rate"`
}

// RateTable maps an entity and month to its observation. Absence means
// no tasks were observed.
type RateTable map[EntityKey]map[Month]MonthlyRate

// Put stores a rate, replacing any previous value for the same entity and month.
func (t RateTable) Put(r MonthlyRate) {
	months, ok := t[r.Entity]
	if !ok {
		months = make(map[Month]MonthlyRate)
		t[r.Entity] = months
	}
	months[r.Month] = r
}

// Get returns the rate for an entity and month, if observed.
func (t RateTable) Get(key EntityKey, m Month) (MonthlyRate, bool) {
	r, ok := t[key][m]
	return r, ok
}

// Entities returns all entity keys in stable order.
func (t RateTable) Entities() []EntityKey {
	keys := make([]EntityKey, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, CompareEntityKeys)
	return keys
}

// ObservedIn reports whether the entity has at least one rate within months.
func (t RateTable) ObservedIn(key EntityKey, months []Month) bool {
	for _, m := range months {
		if _, ok := t[key][m]; ok {
			return true
		}
	}
	return false
}
