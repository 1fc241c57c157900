package status

import (
	"math/rand"
	"testing"

	"github.com/codewandler/pipeman/internal/apperr"
	"github.com/codewandler/pipeman/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobs(pairs ...string) []models.Job {
	var out []models.Job
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.Job{ID: i/2 + 1, Stage: pairs[i], Status: pairs[i+1]})
	}
	return out
}

func TestDefaultOrder_PreservesCorePrecedence(t *testing.T) {
	o := Default()
	core := []Status{Created, Pending, Skipped, Manual, Warning, Running, Success, Failed}

	for i := 0; i < len(core)-1; i++ {
		lo, err := o.Rank(core[i])
		require.NoError(t, err)
		hi, err := o.Rank(core[i+1])
		require.NoError(t, err)
		assert.Less(t, lo, hi, "%s must rank below %s", core[i], core[i+1])
	}

	top := o.Statuses()[len(o.Statuses())-1]
	assert.Equal(t, Failed, top)
}

func TestDefaultOrder_TransitionalStatuses(t *testing.T) {
	o := Default()

	top, err := o.Max(WaitingForCallback, Preparing)
	require.NoError(t, err)
	assert.Equal(t, Preparing, top)

	top, err = o.Max(WaitingForResource, WaitingForCallback)
	require.NoError(t, err)
	assert.Equal(t, WaitingForCallback, top)

	top, err = o.Max(Manual, Canceling)
	require.NoError(t, err)
	assert.Equal(t, Canceling, top)

	top, err = o.Max(Canceling, Canceled)
	require.NoError(t, err)
	assert.Equal(t, Canceled, top)
}

func TestOrder_CaseInsensitive(t *testing.T) {
	o := Default()

	r1, err := o.Rank("FAILED")
	require.NoError(t, err)
	r2, err := o.Rank("failed")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	top, err := o.Max("Success", "PENDING")
	require.NoError(t, err)
	assert.Equal(t, Success, top)
}

func TestOrder_Unknown(t *testing.T) {
	_, err := Default().Rank("exploded")

	var ue *apperr.UnknownStatusError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "exploded", ue.Status)
}

func TestNewOrder_Invalid(t *testing.T) {
	tests := map[string][]Status{
		"empty":     nil,
		"blank":     {"pending", " "},
		"duplicate": {"pending", "running", "PENDING"},
	}

	for name, statuses := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewOrder(statuses)
			var cfgErr *apperr.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestStagesInDisplayOrder(t *testing.T) {
	got := StagesInDisplayOrder(jobs(
		"build", "success",
		"test", "success",
		"test", "failed",
		"deploy", "created",
	))

	assert.Equal(t, []string{"deploy", "test", "build"}, got)
}

func TestStagesInDisplayOrder_Empty(t *testing.T) {
	assert.Empty(t, StagesInDisplayOrder(nil))
}

func TestCondenseByStage(t *testing.T) {
	tests := []struct {
		name string
		jobs []models.Job
		want map[string]Status
	}{
		{
			name: "single job takes its status",
			jobs: jobs("build", "running"),
			want: map[string]Status{"build": Running},
		},
		{
			name: "failed dominates",
			jobs: jobs("test", "pending", "test", "success", "test", "failed"),
			want: map[string]Status{"test": Failed},
		},
		{
			name: "running above manual and skipped",
			jobs: jobs("deploy", "manual", "deploy", "running", "deploy", "skipped"),
			want: map[string]Status{"deploy": Running},
		},
		{
			name: "stages are independent",
			jobs: jobs("build", "success", "test", "created", "test", "pending"),
			want: map[string]Status{"build": Success, "test": Pending},
		},
		{
			name: "upper case input is canonicalized",
			jobs: jobs("build", "SUCCESS"),
			want: map[string]Status{"build": Success},
		},
		{
			name: "no jobs",
			jobs: nil,
			want: map[string]Status{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CondenseByStage(tt.jobs, Default())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCondenseByStage_OrderIndependent(t *testing.T) {
	input := jobs(
		"build", "success", "build", "failed", "build", "pending",
		"test", "manual", "test", "skipped", "test", "warning",
		"deploy", "created", "deploy", "canceled",
	)
	want, err := CondenseByStage(input, Default())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := append([]models.Job(nil), input...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := CondenseByStage(shuffled, Default())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCondenseByStage_UnknownStatus(t *testing.T) {
	for _, input := range [][]models.Job{
		jobs("build", "bogus"),
		jobs("build", "success", "build", "bogus"),
	} {
		_, err := CondenseByStage(input, Default())
		var ue *apperr.UnknownStatusError
		assert.ErrorAs(t, err, &ue)
	}
}

func TestCondenseByStage_CustomOrder(t *testing.T) {
	// failed ranked low on purpose: the custom order must win
	o, err := NewOrder([]Status{"failed", "success", "running"})
	require.NoError(t, err)

	got, err := CondenseByStage(jobs("test", "failed", "test", "success"), o)
	require.NoError(t, err)
	assert.Equal(t, map[string]Status{"test": Success}, got)

	_, err = CondenseByStage(jobs("test", "pending"), o)
	assert.True(t, apperr.IsMapping(err))
}

func TestStageSummaries(t *testing.T) {
	got, err := StageSummaries(jobs(
		"build", "success",
		"test", "running",
		"test", "failed",
		"deploy", "manual",
	), Default())
	require.NoError(t, err)

	assert.Equal(t, []StageSummary{
		{Name: "deploy", Status: Manual},
		{Name: "test", Status: Failed},
		{Name: "build", Status: Success},
	}, got)
}
