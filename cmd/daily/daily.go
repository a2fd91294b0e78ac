// Package daily handles the daily reconciliation command
package daily

import (
	"github.com/spf13/cobra"

	"honeybee/attendance-engine/cmd/common"
	"honeybee/attendance-engine/cmd/root"
)

var flags common.DailyFlags

// Cmd represents the daily command
var Cmd = &cobra.Command{
	Use:   "daily",
	Short: "Reconcile a facility export with the agency's daily payment export",
	Long: `Reconcile the facility sign-in export with the agency's tabular daily export.
The authorization roster is not consulted. The report is written to --output.`,
	RunE: dailyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Facility, "facility", "f", "", "Facility sign-in export (.xlsx or .xls)")
	Cmd.Flags().StringVarP(&flags.Agency, "agency", "a", "", "Agency daily export (.xlsx or .xls)")
	Cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Report file to write")
	Cmd.Flags().StringVarP(&flags.Summary, "summary", "s", "", "Optional YAML run summary file")
	_ = Cmd.MarkFlagRequired("facility")
	_ = Cmd.MarkFlagRequired("agency")
	_ = Cmd.MarkFlagRequired("output")
}

func dailyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	root.Log.Info("Daily reconciliation started")
	if err := common.RunDaily(common.Context(cmd.Context()), c, flags); err != nil {
		return err
	}
	root.Log.Info("Daily reconciliation completed successfully!")
	return nil
}
