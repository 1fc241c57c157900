package gitlab

import (
	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/codewandler/pipeman/internal/models"
)

// NormalizePipelines maps raw pipelines in input order. The first pipeline
// emitted is the only one marked IsLatest. Null entries are skipped.
func NormalizePipelines(raw []*RawPipeline) []models.Pipeline {
	pipelines := make([]models.Pipeline, 0, len(raw))

	for _, r := range raw {
		if r == nil {
			continue
		}
		p := normalizePipeline(r)
		p.IsLatest = len(pipelines) == 0
		pipelines = append(pipelines, p)
	}

	return pipelines
}

func normalizePipeline(r *RawPipeline) models.Pipeline {
	p := models.Pipeline{
		ID:        r.ID,
		IID:       r.IID,
		ProjectID: r.ProjectID,
		SHA:       r.SHA,
		Ref:       r.Ref,
		Status:    r.Status,
		Source:    r.Source,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		WebURL:    r.WebURL,
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	return p
}

// NormalizePipeline maps a single pipeline. It is never marked latest.
func NormalizePipeline(r *RawPipeline) (models.Pipeline, error) {
	if r == nil {
		return models.Pipeline{}, &apperr.MappingError{Entity: "pipeline", Reason: "null record"}
	}
	return normalizePipeline(r), nil
}

// NormalizeCommit maps a raw commit. Absent optional fields become zero
// values; only a null record or a missing id is an error.
func NormalizeCommit(r *RawCommit) (models.Commit, error) {
	if r == nil {
		return models.Commit{}, &apperr.MappingError{Entity: "commit", Reason: "null record"}
	}
	if r.ID == "" {
		return models.Commit{}, &apperr.MappingError{Entity: "commit", Reason: "missing id"}
	}

	c := models.Commit{
		ID:               r.ID,
		ShortID:          r.ShortID,
		CreatedAt:        r.CreatedAt,
		ParentIDs:        r.ParentIDs,
		Title:            r.Title,
		Message:          r.Message,
		AuthorName:       r.AuthorName,
		AuthorEmail:      r.AuthorEmail,
		AuthoredDate:     r.AuthoredDate,
		CommitterName:    r.CommitterName,
		CommitterEmail:   r.CommitterEmail,
		CommittedDate:    r.CommittedDate,
		Trailers:         r.Trailers,
		ExtendedTrailers: r.ExtendedTrailers,
		WebURL:           r.WebURL,
		Stats:            normalizeStats(r.Stats),
		ProjectID:        r.ProjectID,
	}

	if r.Status != nil {
		c.Status = *r.Status
	}
	if r.LastPipeline != nil {
		lp := normalizePipeline(r.LastPipeline)
		lp.Name = ""
		c.LastPipeline = &lp
	}

	return c, nil
}

func normalizeStats(r *RawCommitStats) models.CommitStats {
	if r == nil {
		return models.CommitStats{}
	}
	return models.CommitStats{
		Additions: intOrZero(r.Additions),
		Deletions: intOrZero(r.Deletions),
		Total:     intOrZero(r.Total),
	}
}

// NormalizeJobs maps raw jobs in input order, dropping null and empty
// placeholder entries
func NormalizeJobs(raw []*RawJob) []models.Job {
	jobs := make([]models.Job, 0, len(raw))

	for _, r := range raw {
		if isEmptyJob(r) {
			continue
		}
		jobs = append(jobs, models.Job{
			ID:             r.ID,
			Status:         r.Status,
			Stage:          r.Stage,
			Name:           r.Name,
			Ref:            r.Ref,
			Tag:            r.Tag,
			Coverage:       r.Coverage,
			AllowFailure:   r.AllowFailure,
			CreatedAt:      r.CreatedAt,
			StartedAt:      r.StartedAt,
			FinishedAt:     r.FinishedAt,
			ErasedAt:       r.ErasedAt,
			Duration:       nonNegative(r.Duration),
			QueuedDuration: nonNegative(r.QueuedDuration),
			WebURL:         r.WebURL,
		})
	}

	return jobs
}

// isEmptyJob reports a placeholder with neither id nor status
func isEmptyJob(r *RawJob) bool {
	return r == nil || (r.ID == 0 && r.Status == "")
}

func intOrZero(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func nonNegative(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
