package status

import (
	"fmt"
	"slices"

	"github.com/codewandler/pipeman/internal/models"
)

// StageSummary is the condensed status of one stage
type StageSummary struct {
	Name   string
	Status Status
}

// StagesInDisplayOrder returns each distinct stage once, latest stage first.
// Jobs arrive in pipeline-definition order, so first-seen order is reversed.
func StagesInDisplayOrder(jobs []models.Job) []string {
	seen := make(map[string]bool)
	var stages []string

	for _, j := range jobs {
		if seen[j.Stage] {
			continue
		}
		seen[j.Stage] = true
		stages = append(stages, j.Stage)
	}

	slices.Reverse(stages)
	return stages
}

// CondenseByStage reduces the jobs of every stage to the highest ranked
// status under o. An unknown status aborts the reduction.
func CondenseByStage(jobs []models.Job, o *Order) (map[string]Status, error) {
	condensed := make(map[string]Status)

	for _, j := range jobs {
		current, ok := condensed[j.Stage]
		if !ok {
			if _, err := o.Rank(j.Status); err != nil {
				return nil, fmt.Errorf("job %d in stage %q: %w", j.ID, j.Stage, err)
			}
			condensed[j.Stage] = canonical(j.Status)
			continue
		}

		top, err := o.Max(current, j.Status)
		if err != nil {
			return nil, fmt.Errorf("job %d in stage %q: %w", j.ID, j.Stage, err)
		}
		condensed[j.Stage] = top
	}

	return condensed, nil
}

// StageSummaries combines StagesInDisplayOrder and CondenseByStage
func StageSummaries(jobs []models.Job, o *Order) ([]StageSummary, error) {
	condensed, err := CondenseByStage(jobs, o)
	if err != nil {
		return nil, err
	}

	stages := StagesInDisplayOrder(jobs)
	summaries := make([]StageSummary, 0, len(stages))
	for _, name := range stages {
		summaries = append(summaries, StageSummary{Name: name, Status: condensed[name]})
	}
	return summaries, nil
}
