package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/focusplan/focusplan/app"
	"github.com/focusplan/focusplan/config"
	"github.com/focusplan/focusplan/infra/logger"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the next seven days of the stored schedule",
	RunE:  printWeek,
}

func init() {
	rootCmd.AddCommand(weekCmd)
}

func printWeek(cmd *cobra.Command, args []string) error {
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
			logger.New("week-command").Errorf("service close: %v", err)
		}
	}()

	days, err := svc.Week(context.Background())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, d := range days {
		fmt.Fprintf(w, "%s\t%d slots\n", d.Date, len(d.Slots))
		for _, s := range d.Slots {
			fmt.Fprintf(w, "\t%s-%s\t%s\t%s\n",
				s.Start.Format("15:04"), s.End.Format("15:04"), s.TaskID, s.Kind)
		}
	}
	return w.Flush()
}
