package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/codewandler/pipeman/internal/gitlab"
	"github.com/codewandler/pipeman/internal/models"
)

var errBoom = errors.New("boom")

type fakeGateway struct {
	mu         sync.Mutex
	pipelines  []*gitlab.RawPipeline
	jobs       map[int][]*gitlab.RawJob
	listErr    error
	nullCommit map[string]bool

	listCalls   int
	commitCalls int
	jobCalls    int
}

func newFakeGateway(pipelines ...*gitlab.RawPipeline) *fakeGateway {
	return &fakeGateway{
		pipelines:  pipelines,
		jobs:       make(map[int][]*gitlab.RawJob),
		nullCommit: make(map[string]bool),
	}
}

func (g *fakeGateway) set(pipelines ...*gitlab.RawPipeline) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pipelines = pipelines
}

func (g *fakeGateway) failList(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listErr = err
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls
}

func (g *fakeGateway) ListPipelines(_ context.Context, _ int) ([]*gitlab.RawPipeline, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, apperr.Transport("list pipelines", g.listErr)
	}
	return g.pipelines, nil
}

func (g *fakeGateway) GetCommit(_ context.Context, _ int, sha string) (*gitlab.RawCommit, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.commitCalls++
	if g.nullCommit[sha] {
		return nil, nil
	}
	return &gitlab.RawCommit{
		ID:          sha,
		ShortID:     sha[:8],
		Title:       "commit " + sha[:8],
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.com",
	}, nil
}

func (g *fakeGateway) ListJobs(_ context.Context, _, pipelineID int) ([]*gitlab.RawJob, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.jobCalls++
	return g.jobs[pipelineID], nil
}

func pipeline(id int, status string) *gitlab.RawPipeline {
	return &gitlab.RawPipeline{
		ID:     id,
		Status: status,
		Ref:    "main",
		SHA:    fmt.Sprintf("%08dcafebabe", id),
	}
}

func job(stage, status string) *gitlab.RawJob {
	return &gitlab.RawJob{Stage: stage, Status: status, Name: stage + "-" + status}
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) Publish(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func (r *recorder) last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

type fakeFinder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeFinder) FindCommitAuthor(_ context.Context, email, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{Username: "ada", Name: name, AvatarURL: "https://example.com/" + email}, nil
}
