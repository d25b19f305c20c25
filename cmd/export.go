package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studyplan/core/model"
	"studyplan/core/planner"
	"studyplan/pkg/export"
)

var (
	exportFormat  string
	exportOutPath string
	exportCalName string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a study plan as ICS, CSV or JSON",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&planSettingsPath, "settings", "settings.json", "settings document")
	exportCmd.Flags().StringVar(&planCoursesPath, "courses", "courses.json", "courses document")
	exportCmd.Flags().StringVar(&planTablesPath, "tables", "", "per-type hour and lead-time tables (JSON or YAML)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "ics", "output format: ics, csv or json")
	exportCmd.Flags().StringVarP(&exportOutPath, "output", "o", "", "write the export here instead of stdout")
	exportCmd.Flags().StringVar(&exportCalName, "calendar-name", "Study Schedule", "ICS calendar name")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	plan, assessments, err := buildPlan(settings, courses, pcfg)
	if err != nil {
		return err
	}

	out, err := openOutput(exportOutPath)
	if err != nil {
		return err
	}
	if out != os.Stdout {
		defer out.Close()
	}
	switch exportFormat {
	case "ics":
		return export.WriteICS(out, plan, assessments, exportCalName)
	case "csv":
		return export.WriteCSV(out, plan)
	case "json":
		return export.WriteJSON(out, plan)
	default:
		return fmt.Errorf("unsupported format %q", exportFormat)
	}
}
