package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sorcerai/packfs/pkg/intent"
)

// RunWorkflow executes an ordered list of intents. Steps run sequentially
// in the caller-supplied order; declared dependencies are informational.
// True transactional rollback of disk mutations is out of scope: when a
// failure stops the run, the result flags rollbackRequired and reports
// per-step outcomes so the caller can compensate.
func (e *Engine) RunWorkflow(ctx context.Context, steps []intent.WorkflowStep, opts intent.WorkflowOptions) intent.WorkflowResult {
	started := time.Now()
	res := intent.WorkflowResult{}

	for _, step := range steps {
		id := step.ID
		if id == "" {
			id = uuid.NewString()
		}
		if err := ctx.Err(); err != nil {
			res.StepResults = append(res.StepResults, intent.StepResult{
				ID: id, Message: ctxMessage(err),
			})
			res.RollbackRequired = true
			break
		}

		stepStart := time.Now()
		ok, message, payload := e.runStep(ctx, step.Intent)
		res.StepResults = append(res.StepResults, intent.StepResult{
			ID:       id,
			Success:  ok,
			Duration: time.Since(stepStart),
			Message:  message,
			Result:   payload,
		})

		if ok {
			continue
		}
		if opts.Atomic || !opts.ContinueOnError {
			res.RollbackRequired = true
			break
		}
	}

	res.TotalDuration = time.Since(started)
	res.Success = !res.RollbackRequired
	if res.RollbackRequired {
		res.Message = "workflow stopped on failure; completed disk mutations were not rolled back"
	}
	return res
}

// runStep dispatches one intent and reduces its result to a common shape.
func (e *Engine) runStep(ctx context.Context, in intent.Intent) (bool, string, any) {
	switch v := in.(type) {
	case intent.FileAccessIntent:
		r := e.AccessFile(ctx, v)
		return r.Success, r.Message, r
	case intent.ContentUpdateIntent:
		r := e.UpdateContent(ctx, v)
		return r.Success, r.Message, r
	case intent.OrganizeIntent:
		r := e.OrganizeFiles(ctx, v)
		return r.Success, r.Message, r
	case intent.DiscoverIntent:
		r := e.DiscoverFiles(ctx, v)
		return r.Success, r.Message, r
	case intent.RemoveIntent:
		r := e.RemoveFiles(ctx, v)
		return r.Success, r.Message, r
	case nil:
		return false, "workflow step has no intent", nil
	}
	return false, fmt.Sprintf("unsupported intent type %T", in), nil
}
