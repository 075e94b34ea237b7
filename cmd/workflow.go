package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sorcerai/packfs/pkg/intent"
)

var (
	workflowAtomic   bool
	workflowContinue bool
)

// workflowFile is the YAML shape of a workflow definition.
type workflowFile struct {
	Options intent.WorkflowOptions `yaml:"options"`
	Steps   []workflowStepSpec     `yaml:"steps"`
}

// workflowStepSpec flattens one step: an operation, a purpose, and the
// fields the corresponding intent needs.
type workflowStepSpec struct {
	ID          string           `yaml:"id"`
	DependsOn   []string         `yaml:"dependsOn"`
	Operation   string           `yaml:"operation"`
	Purpose     string           `yaml:"purpose"`
	Path        string           `yaml:"path"`
	Pattern     string           `yaml:"pattern"`
	Query       string           `yaml:"query"`
	Content     string           `yaml:"content"`
	Source      string           `yaml:"source"`
	Destination string           `yaml:"destination"`
	Criteria    *intent.Criteria `yaml:"criteria"`
	CreatePath  bool             `yaml:"createPath"`
	Recursive   bool             `yaml:"recursive"`
	DryRun      bool             `yaml:"dryRun"`
	MoveToTrash bool             `yaml:"moveToTrash"`
	MaxResults  int              `yaml:"maxResults"`
}

var workflowCmd = &cobra.Command{
	Use:   "workflow <file.yaml>",
	Short: "Runs a multi-step workflow from a YAML definition",
	Long: `Executes a dependency-ordered list of intents defined in a YAML file.
Steps run sequentially; --atomic stops on the first failure and flags the
run for rollback, --continue-on-error keeps going.`,
	Example: `  packfs workflow release-notes.yaml --atomic`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		steps, opts, err := parseWorkflow(data)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("atomic") {
			opts.Atomic = workflowAtomic
		}
		if cmd.Flags().Changed("continue-on-error") {
			opts.ContinueOnError = workflowContinue
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		res := eng.RunWorkflow(cmd.Context(), steps, opts)
		for _, step := range res.StepResults {
			status := "ok"
			if !step.Success {
				status = "FAILED: " + step.Message
			}
			fmt.Printf("  %s\t%s\t(%s)\n", step.ID, status, step.Duration)
		}
		fmt.Printf("workflow finished in %s\n", res.TotalDuration)
		if res.RollbackRequired {
			return errors.New(res.Message)
		}
		return nil
	},
}

// parseWorkflow converts the YAML definition into engine workflow steps.
func parseWorkflow(data []byte) ([]intent.WorkflowStep, intent.WorkflowOptions, error) {
	var spec workflowFile
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, intent.WorkflowOptions{}, fmt.Errorf("parse workflow: %w", err)
	}
	steps := make([]intent.WorkflowStep, 0, len(spec.Steps))
	for i, s := range spec.Steps {
		in, err := s.toIntent()
		if err != nil {
			return nil, intent.WorkflowOptions{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, intent.WorkflowStep{ID: s.ID, DependsOn: s.DependsOn, Intent: in})
	}
	return steps, spec.Options, nil
}

func (s workflowStepSpec) toIntent() (intent.Intent, error) {
	target := intent.FileTarget{
		Path:          s.Path,
		Pattern:       s.Pattern,
		SemanticQuery: s.Query,
		Criteria:      s.Criteria,
	}
	switch s.Operation {
	case "access":
		return intent.FileAccessIntent{
			Purpose: intent.AccessPurpose(s.Purpose),
			Target:  target,
		}, nil
	case "update":
		return intent.ContentUpdateIntent{
			Purpose: intent.UpdatePurpose(s.Purpose),
			Target:  target,
			Content: s.Content,
			Options: intent.Options{CreatePath: s.CreatePath},
		}, nil
	case "organize":
		source := target
		if s.Source != "" {
			source = intent.FileTarget{Path: s.Source, Pattern: s.Pattern}
		}
		return intent.OrganizeIntent{
			Purpose:     intent.OrganizePurpose(s.Purpose),
			Source:      source,
			Destination: intent.FileTarget{Path: s.Destination},
			Options:     intent.Options{Recursive: s.Recursive},
		}, nil
	case "discover":
		return intent.DiscoverIntent{
			Purpose: intent.DiscoverPurpose(s.Purpose),
			Target:  target,
			Options: intent.Options{MaxResults: s.MaxResults},
		}, nil
	case "remove":
		return intent.RemoveIntent{
			Purpose: intent.RemovePurpose(s.Purpose),
			Target:  target,
			Options: intent.Options{DryRun: s.DryRun, MoveToTrash: s.MoveToTrash},
		}, nil
	}
	return nil, fmt.Errorf("unknown operation %q", s.Operation)
}

func init() {
	workflowCmd.Flags().BoolVar(&workflowAtomic, "atomic", false, "stop on the first failure and flag rollback")
	workflowCmd.Flags().BoolVar(&workflowContinue, "continue-on-error", false, "keep running after a failed step")
	rootCmd.AddCommand(workflowCmd)
}
