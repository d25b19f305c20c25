package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"studyplan/core/model"
	"studyplan/core/planner"
	"studyplan/pkg/export"
)

var (
	planSettingsPath string
	planCoursesPath  string
	planTablesPath   string
	planOutPath      string
)

var planCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Generate a study plan from local JSON documents",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planSettingsPath, "settings", "settings.json", "settings document")
	planCmd.Flags().StringVar(&planCoursesPath, "courses", "courses.json", "courses document")
	planCmd.Flags().StringVar(&planTablesPath, "tables", "", "per-type hour and lead-time tables (JSON or YAML)")
	planCmd.Flags().StringVarP(&planOutPath, "output", "o", "", "write the plan here instead of stdout")
	rootCmd.AddCommand(planCmd)
}

func readJSONFile(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// buildPlan runs the engine outside the service, for one-shot CLI use.
func buildPlan(settings model.Settings, courses map[string]model.Course, pcfg planner.Config) (planner.Plan, []model.Assessment, error) {
	if err := settings.Validate(); err != nil {
		return planner.Plan{}, nil, err
	}
	semStart, semEnd, err := settings.SemesterRange()
	if err != nil {
		return planner.Plan{}, nil, err
	}
	if len(settings.WorkAheadDays) > 0 {
		pcfg.WorkAheadDays = settings.WorkAheadDays
	}
	if len(settings.BaseHours) > 0 {
		pcfg.BaseHours = settings.BaseHours
	}
	pcfg.SetDefaults()

	assessments := model.AssessmentsFromCourses(courses, nil, pcfg.BaseHours, pcfg.WorkAheadDays)
	if len(assessments) == 0 {
		return planner.Plan{}, nil, fmt.Errorf("no assessments found in the course documents")
	}
	days := planner.BuildDaySlots(semStart, semEnd, settings.DailyHours)
	summaries := planner.New(semStart, semEnd, pcfg).Allocate(days, assessments)
	return planner.BuildPlan(days, summaries), assessments, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

func runPlan(cmd *cobra.Command, args []string) error {
	var settings model.Settings
	if err := readJSONFile(planSettingsPath, &settings); err != nil {
		return err
	}
	var courses map[string]model.Course
	if err := readJSONFile(planCoursesPath, &courses); err != nil {
		return err
	}
	var pcfg planner.Config
	if planTablesPath != "" {
		var err error
		if pcfg, err = planner.LoadConfig(planTablesPath); err != nil {
			return err
		}
	}

	plan, _, err := buildPlan(settings, courses, pcfg)
	if err != nil {
		return err
	}

	out, err := openOutput(planOutPath)
	if err != nil {
		return err
	}
	if out != os.Stdout {
		defer out.Close()
	}
	if err := export.WriteJSON(out, plan); err != nil {
		return err
	}
	for _, a := range plan.Allocations {
		if a.Status != planner.StatusOK {
			fmt.Fprintf(cmd.ErrOrStderr(), "assessment %s: %s (%.1fh unscheduled)\n",
				a.AssessmentID, a.Status, a.UnscheduledHours)
		}
	}
	return nil
}
