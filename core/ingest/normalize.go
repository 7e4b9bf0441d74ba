package ingest

import "github.com/huangsam/uptake/schema"

// AttributeTeams assigns each user the team appearing most often across their
// AI-log rows. Ties go to the team encountered first in input order.
func AttributeTeams(rows []AILogRow) map[string]string {
	counts := make(map[string]map[string]int)
	order := make(map[string][]string) // teams per user in first-seen order

	for _, r := range rows {
		c, ok := counts[r.UserID]
		if !ok {
			c = make(map[string]int)
			counts[r.UserID] = c
		}
		if c[r.Team] == 0 {
			order[r.UserID] = append(order[r.UserID], r.Team)
		}
		c[r.Team]++
	}

	teams := make(map[string]string, len(counts))
	for user, seen := range order {
		best, bestCount := "", 0
		for _, team := range seen {
			if n := counts[user][team]; n > bestCount {
				best, bestCount = team, n
			}
		}
		teams[user] = best
	}
	return teams
}

// Normalize merges both logs into one record stream, AI-log rows first.
// Manual rows whose user never appears in the AI log have no team and are
// dropped; the count is kept on the dataset.
func Normalize(ai []AILogRow, manual []ManualLogRow, users []schema.UserProfile) schema.Dataset {
	teams := AttributeTeams(ai)
	records := make([]schema.TaskRecord, 0, len(ai)+len(manual))

	for _, r := range ai {
		records = append(records, schema.TaskRecord{
			UserID:          r.UserID,
			Team:            teams[r.UserID],
			TaskType:        r.TaskType,
			Timestamp:       r.Date,
			UsedAI:          r.UsedAI,
			DurationMinutes: r.DurationMinutes,
			Accuracy:        r.Accuracy,
			Source:          schema.AILogSource,
		})
	}

	dropped := 0
	for _, r := range manual {
		team, ok := teams[r.UserID]
		if !ok {
			dropped++
			continue
		}
		records = append(records, schema.TaskRecord{
			UserID:          r.UserID,
			Team:            team,
			TaskType:        r.TaskType,
			Timestamp:       r.Date,
			DurationMinutes: r.DurationMinutes,
			Source:          schema.ManualLogSource,
		})
	}

	return schema.Dataset{
		Records:       records,
		Users:         users,
		Teams:         teams,
		DroppedManual: dropped,
	}
}
