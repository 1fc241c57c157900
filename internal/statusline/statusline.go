// Package statusline renders the latest pipeline of a project as a short
// segment for shell prompts.
package statusline

import (
	"context"
	"time"
)

// Segment is the data available to the prompt template
type Segment struct {
	ID     int
	Status string
	Ref    string
	SHA    string
	Icon   string
}

// FetchFunc loads a fresh segment
type FetchFunc func(ctx context.Context) (Segment, error)

// Options configure Run
type Options struct {
	Format  string
	Timeout time.Duration // bounds the fetch
}

// Run fetches the segment and renders it with opts.Format
func Run(ctx context.Context, fetch FetchFunc, opts Options) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	seg, err := fetch(ctx)
	if err != nil {
		return "", err
	}
	return RenderSegment(opts.Format, seg)
}
