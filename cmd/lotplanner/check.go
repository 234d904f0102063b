package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jscales4000/LotPlanner-sub000/internal/infrastructure/config"
	"github.com/jscales4000/LotPlanner-sub000/internal/layout"
	"github.com/jscales4000/LotPlanner-sub000/internal/violation"
)

// exitCritical is returned by check when any violation is critical.
const exitCritical = 2

// checkReport is the --json output of check.
type checkReport struct {
	Project    string                `json:"project"`
	Items      int                   `json:"items"`
	Warnings   []string              `json:"warnings"`
	Dangling   []string              `json:"dangling"`
	Summary    violation.Summary     `json:"summary"`
	Violations []violation.Violation `json:"violations"`
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check <project.json>",
		Short: "Report clearance violations in a project file",
		Long: `Imports a project file, prints import warnings and every pair of placed
items closer than their required separation. Exits with status 2 when any
violation is critical.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			report, err := checkFile(args[0], cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(out, report)
			}

			if report.Summary.Critical > 0 {
				return &exitError{code: exitCritical, msg: "critical violations found"}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the report as JSON")
	return cmd
}

func checkFile(path string, cfg *config.Config) (*checkReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project: %w", err)
	}
	p, warnings, err := layout.Import(data)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}

	session := p.Session()
	vs := session.Violations(p.CanvasSettings.PixelsPerFoot,
		violation.ConfiguredOptions(cfg.Clearance.CriticalShortfall, cfg.Clearance.SpatialIndexThreshold))

	report := &checkReport{
		Project:    p.Metadata.Name,
		Items:      session.Len(),
		Warnings:   warnings,
		Dangling:   session.Dangling(),
		Summary:    violation.Summarize(vs),
		Violations: vs,
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}
	if report.Dangling == nil {
		report.Dangling = []string{}
	}
	return report, nil
}

func printReport(w io.Writer, r *checkReport) {
	fmt.Fprintf(w, "%s: %d placed items\n", r.Project, r.Items)
	for _, msg := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
	for _, id := range r.Dangling {
		fmt.Fprintf(w, "skipped: %s has no catalog entry\n", id)
	}
	for _, v := range r.Violations {
		fmt.Fprintf(w, "%-8s %s (short by %.1f ft)\n", v.Severity, v.Description, v.Shortfall())
	}
	fmt.Fprintf(w, "%d violations (%d critical, %d warning)\n", r.Summary.Total, r.Summary.Critical, r.Summary.Warning)
}
