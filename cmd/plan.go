package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiplan "github.com/focusplan/focusplan/api/plan"
	"github.com/focusplan/focusplan/app"
	"github.com/focusplan/focusplan/config"
	"github.com/focusplan/focusplan/infra/logger"
	"github.com/focusplan/focusplan/pkg/export"
)

var (
	planTaskIDs []string
	planCram    bool
	planFormat  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a schedule for the stored tasks and print it",
	RunE:  planTasks,
}

func init() {
	planCmd.Flags().StringSliceVar(&planTaskIDs, "task", nil, "task IDs to plan (default: every open task)")
	planCmd.Flags().BoolVar(&planCram, "cram", false, "raise the daily cap for exam crunches")
	planCmd.Flags().StringVar(&planFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(planCmd)
}

func planTasks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("plan-command").Errorf("service close: %v", err)
		}
	}()

	req := apiplan.Request{TaskIDs: planTaskIDs}
	if planCram {
		policy := cfg.Planner.Policy
		policy.Cram = true
		policy.MaxDailyMinutes = 0
		policy.SetDefaults()
		req.Policy = &policy
	}
	res, err := svc.Plan(context.Background(), req)
	if err != nil {
		return err
	}
	switch planFormat {
	case "csv":
		return export.WriteCSV(os.Stdout, res.Slots)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown format %s", planFormat)
	}
}
