// Package monthly handles the monthly reconciliation command
package monthly

import (
	"github.com/spf13/cobra"

	"honeybee/attendance-engine/cmd/common"
	"honeybee/attendance-engine/cmd/root"
)

var flags common.MonthlyFlags

// Cmd represents the monthly command
var Cmd = &cobra.Command{
	Use:   "monthly",
	Short: "Reconcile a month of attendance with the agency statement and roster",
	Long: `Reconcile the facility sign-in export with the agency payment statement
(PDF, or a tabular export) and the authorization roster. The report is written
to --output, or to standard output when --output is "-".`,
	RunE: monthlyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Facility, "facility", "f", "", "Facility sign-in export (.xlsx or .xls)")
	Cmd.Flags().StringVarP(&flags.Agency, "agency", "a", "", "Agency payment statement (.pdf, .xlsx or .xls)")
	Cmd.Flags().StringVarP(&flags.Roster, "roster", "r", "", "Authorization roster (.xlsx or .xls)")
	Cmd.Flags().StringVarP(&flags.Output, "output", "o", common.StdoutPath, "Report file to write")
	Cmd.Flags().StringVarP(&flags.Summary, "summary", "s", "", "Optional YAML run summary file")
	_ = Cmd.MarkFlagRequired("facility")
	_ = Cmd.MarkFlagRequired("agency")
	_ = Cmd.MarkFlagRequired("roster")
}

func monthlyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	root.Log.Info("Monthly reconciliation started")
	if err := common.RunMonthly(common.Context(cmd.Context()), c, flags, cmd.OutOrStdout()); err != nil {
		return err
	}
	root.Log.Info("Monthly reconciliation completed successfully!")
	return nil
}
