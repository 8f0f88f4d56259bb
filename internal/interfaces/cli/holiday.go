package cli

import (
	"github.com/spf13/cobra"

	"github.com/juberis/reqtrack/internal/application/holidays"
)

// NewHolidayCommand creates the holiday subcommand tree.
func NewHolidayCommand(rootOpts *RootOptions) *cobra.Command {
	holidayCmd := &cobra.Command{
		Use:   "holiday",
		Short: "Manage the holiday calendar",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()

			service := holidays.NewService(rt.holidays, rt.calendar, holidays.WithLogger(rt.logger))
			all, err := service.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, all)
		},
	}

	var name, date string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holiday and invalidate the calendar cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()

			service := holidays.NewService(rt.holidays, rt.calendar, holidays.WithLogger(rt.logger))
			created, err := service.Create(cmd.Context(), holidays.CreateHolidayInput{
				Name: name,
				Date: date,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "holiday name (required)")
	addCmd.Flags().StringVar(&date, "date", "", "holiday date, YYYY-MM-DD (required)")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("date")

	removeCmd := &cobra.Command{
		Use:   "remove <holiday-id>",
		Short: "Remove a holiday and invalidate the calendar cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()

			service := holidays.NewService(rt.holidays, rt.calendar, holidays.WithLogger(rt.logger))
			if err := service.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("holiday removed:", args[0])
			return nil
		},
	}

	holidayCmd.AddCommand(listCmd, addCmd, removeCmd)
	return holidayCmd
}
