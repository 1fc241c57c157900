package models

import "time"

// Job is a single CI job belonging to a pipeline
type Job struct {
	ID             int
	Status         string
	Stage          string
	Name           string
	Ref            string
	Tag            bool
	Coverage       *float64
	AllowFailure   bool
	CreatedAt      *time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
	ErasedAt       *time.Time
	Duration       float64 // seconds
	QueuedDuration float64 // seconds
	WebURL         string
}
