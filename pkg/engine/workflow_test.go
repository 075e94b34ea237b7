package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcerai/packfs/pkg/intent"
)

func TestAtomicWorkflowStopsOnFailure(t *testing.T) {
	eng, _ := newTestEngine(t)

	steps := []intent.WorkflowStep{
		{
			ID: "step1",
			Intent: intent.ContentUpdateIntent{
				Purpose: intent.UpdateCreate,
				Target:  intent.FileTarget{Path: "/a.txt"},
				Content: "ok",
			},
		},
		{
			ID: "step2",
			Intent: intent.ContentUpdateIntent{
				Purpose: intent.UpdateAppend,
				Target:  intent.FileTarget{Path: "/missing.txt"},
				Content: "x",
			},
		},
	}

	res := eng.RunWorkflow(context.Background(), steps, intent.WorkflowOptions{Atomic: true})

	assert.False(t, res.Success)
	assert.True(t, res.RollbackRequired)
	require.Len(t, res.StepResults, 2)
	assert.True(t, res.StepResults[0].Success)
	assert.False(t, res.StepResults[1].Success)
	assert.Equal(t, "step1", res.StepResults[0].ID)
	assert.Equal(t, "step2", res.StepResults[1].ID)

	// Step one's mutation stays on disk; rollback is best-effort only.
	assert.Equal(t, "ok", read(t, eng, "a.txt").Content)
}

func TestWorkflowContinueOnError(t *testing.T) {
	eng, _ := newTestEngine(t)

	steps := []intent.WorkflowStep{
		{ID: "bad", Intent: intent.ContentUpdateIntent{
			Purpose: intent.UpdateAppend,
			Target:  intent.FileTarget{Path: "nope.txt"},
			Content: "x",
		}},
		{ID: "good", Intent: intent.ContentUpdateIntent{
			Purpose: intent.UpdateCreate,
			Target:  intent.FileTarget{Path: "b.txt"},
			Content: "fine",
		}},
	}

	res := eng.RunWorkflow(context.Background(), steps, intent.WorkflowOptions{ContinueOnError: true})

	assert.True(t, res.Success)
	assert.False(t, res.RollbackRequired)
	require.Len(t, res.StepResults, 2)
	assert.False(t, res.StepResults[0].Success)
	assert.True(t, res.StepResults[1].Success)
}

func TestWorkflowDefaultStopsWithoutContinue(t *testing.T) {
	eng, _ := newTestEngine(t)

	steps := []intent.WorkflowStep{
		{ID: "bad", Intent: intent.ContentUpdateIntent{
			Purpose: intent.UpdateAppend,
			Target:  intent.FileTarget{Path: "nope.txt"},
			Content: "x",
		}},
		{ID: "never", Intent: intent.ContentUpdateIntent{
			Purpose: intent.UpdateCreate,
			Target:  intent.FileTarget{Path: "c.txt"},
			Content: "unreached",
		}},
	}

	res := eng.RunWorkflow(context.Background(), steps, intent.WorkflowOptions{})

	assert.False(t, res.Success)
	assert.True(t, res.RollbackRequired)
	require.Len(t, res.StepResults, 1)
}

func TestWorkflowStepDurationsAndIDs(t *testing.T) {
	eng, _ := newTestEngine(t)

	steps := []intent.WorkflowStep{
		{Intent: intent.ContentUpdateIntent{
			Purpose: intent.UpdateCreate,
			Target:  intent.FileTarget{Path: "timed.txt"},
			Content: "content",
		}},
	}
	res := eng.RunWorkflow(context.Background(), steps, intent.WorkflowOptions{})

	require.Len(t, res.StepResults, 1)
	assert.NotEmpty(t, res.StepResults[0].ID, "missing step ids are generated")
	assert.GreaterOrEqual(t, res.TotalDuration, res.StepResults[0].Duration)
	assert.Greater(t, res.TotalDuration, time.Duration(0))
}

func TestWorkflowMixedOperations(t *testing.T) {
	eng, _ := newTestEngine(t)

	steps := []intent.WorkflowStep{
		{ID: "write", Intent: intent.ContentUpdateIntent{
			Purpose: intent.UpdateCreate,
			Target:  intent.FileTarget{Path: "report.md"},
			Content: "quarterly revenue exceeded expectations",
		}},
		{ID: "verify", Intent: intent.FileAccessIntent{
			Purpose: intent.AccessVerifyExists,
			Target:  intent.FileTarget{Path: "report.md"},
		}},
		{ID: "search", Intent: intent.DiscoverIntent{
			Purpose: intent.DiscoverSearchSemantic,
			Target:  intent.FileTarget{SemanticQuery: "revenue"},
		}},
		{ID: "cleanup", Intent: intent.RemoveIntent{
			Purpose: intent.RemoveDeleteFile,
			Target:  intent.FileTarget{Path: "report.md"},
		}},
	}

	res := eng.RunWorkflow(context.Background(), steps, intent.WorkflowOptions{})
	assert.True(t, res.Success, res.Message)
	require.Len(t, res.StepResults, 4)
	for _, step := range res.StepResults {
		assert.True(t, step.Success, step.Message)
	}
}
