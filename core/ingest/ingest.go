// Package ingest loads the raw CSV logs and normalizes them into task records.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/uptake/schema"
	"golang.org/x/sync/errgroup"
)

// Column names of the input tables.
const (
	ColUserID     = "user_id"
	ColTeam       = "team"
	ColTaskType   = "task_type"
	ColDate       = "date"
	ColUsedAI     = "used_ai_tool"
	ColDuration   = "task_duration_minutes"
	ColAccuracy   = "ai_prediction_accuracy"
	ColFullName   = "full_name"
	ColJoinDate   = "join_date"
	ColMonth      = "month"
	ColAITasks    = "ai_tasks"
	ColManual     = "manual_tasks"
	ColTotalTasks = "total_tasks"
)

// Required columns per input table.
var (
	AILogColumns     = []string{ColUserID, ColTeam, ColTaskType, ColDate, ColUsedAI, ColDuration, ColAccuracy}
	ManualLogColumns = []string{ColUserID, ColTaskType, ColDate, ColDuration}
	UserColumns      = []string{ColUserID, ColFullName, ColJoinDate}
)

// Default file names inside the data directory.
const (
	DefaultAILogsFile     = "ai_usage_logs.csv"
	DefaultManualLogsFile = "manual_task_logs.csv"
	DefaultUsersFile      = "user_directory.csv"
	DefaultSummaryFile    = "user_monthly_summary.csv"
)

// AILogRow is one row of the AI usage log.
type AILogRow struct {
	UserID          string
	Team            string
	TaskType        string
	Date            time.Time
	UsedAI          bool
	DurationMinutes float64
	Accuracy        *float64
}

// ManualLogRow is one row of the manual task log. It carries no team.
type ManualLogRow struct {
	UserID          string
	TaskType        string
	Date            time.Time
	DurationMinutes float64
}

// Paths locates the three input tables.
type Paths struct {
	AILogs     string
	ManualLogs string
	Users      string
}

// DefaultPaths returns the conventional file locations under dataDir.
func DefaultPaths(dataDir string) Paths {
	return Paths{
		AILogs:     filepath.Join(dataDir, DefaultAILogsFile),
		ManualLogs: filepath.Join(dataDir, DefaultManualLogsFile),
		Users:      filepath.Join(dataDir, DefaultUsersFile),
	}
}

// ReadAILogs parses the AI usage log.
func ReadAILogs(r io.Reader, source string) ([]AILogRow, error) {
	t, err := openTable(r, source, AILogColumns)
	if err != nil {
		return nil, err
	}
	var out []AILogRow
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		date, err := row.date(ColDate)
		if err != nil {
			return nil, err
		}
		used, err := row.boolean(ColUsedAI)
		if err != nil {
			return nil, err
		}
		dur, err := row.float(ColDuration)
		if err != nil {
			return nil, err
		}
		acc, err := row.optFloat(ColAccuracy)
		if err != nil {
			return nil, err
		}
		out = append(out, AILogRow{
			UserID:          row.str(ColUserID),
			Team:            row.str(ColTeam),
			TaskType:        row.str(ColTaskType),
			Date:            date,
			UsedAI:          used,
			DurationMinutes: dur,
			Accuracy:        acc,
		})
	}
}

// ReadManualLogs parses the manual task log.
func ReadManualLogs(r io.Reader, source string) ([]ManualLogRow, error) {
	t, err := openTable(r, source, ManualLogColumns)
	if err != nil {
		return nil, err
	}
	var out []ManualLogRow
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		date, err := row.date(ColDate)
		if err != nil {
			return nil, err
		}
		dur, err := row.float(ColDuration)
		if err != nil {
			return nil, err
		}
		out = append(out, ManualLogRow{
			UserID:          row.str(ColUserID),
			TaskType:        row.str(ColTaskType),
			Date:            date,
			DurationMinutes: dur,
		})
	}
}

// ReadUsers parses the user directory.
func ReadUsers(r io.Reader, source string) ([]schema.UserProfile, error) {
	t, err := openTable(r, source, UserColumns)
	if err != nil {
		return nil, err
	}
	var out []schema.UserProfile
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		joined, err := row.date(ColJoinDate)
		if err != nil {
			return nil, err
		}
		out = append(out, schema.UserProfile{
			UserID:   row.str(ColUserID),
			FullName: row.str(ColFullName),
			JoinDate: joined,
		})
	}
}

// readFile opens path and hands it to parse.
func readFile[T any](path string, parse func(io.Reader, string) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return parse(f, filepath.Base(path))
}

// LoadDataset reads the three tables concurrently and normalizes them.
// Any missing column or malformed value aborts the load.
func LoadDataset(ctx context.Context, paths Paths) (schema.Dataset, error) {
	var (
		aiRows     []AILogRow
		manualRows []ManualLogRow
		users      []schema.UserProfile
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		aiRows, err = readFile(paths.AILogs, ReadAILogs)
		return err
	})
	g.Go(func() (err error) {
		manualRows, err = readFile(paths.ManualLogs, ReadManualLogs)
		return err
	})
	g.Go(func() (err error) {
		users, err = readFile(paths.Users, ReadUsers)
		return err
	})
	if err := g.Wait(); err != nil {
		return schema.Dataset{}, err
	}

	return Normalize(aiRows, manualRows, users), nil
}
