package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/juberis/reqtrack/internal/application/deadline"
	"github.com/juberis/reqtrack/internal/domain/calendar"
	"github.com/juberis/reqtrack/pkg/errors"
)

type computeOptions struct {
	pairingID   string
	overrideID  string
	sectorID    string
	role        string
	startDate   string
	startTime   string
	completedAt string
}

// buildInput validates the flags and assembles the engine input.
func (o *computeOptions) buildInput() (deadline.ComputeInput, error) {
	var input deadline.ComputeInput

	startDate, err := calendar.ParseDate(o.startDate, time.UTC)
	if err != nil {
		return input, errors.InvalidInput("--start-date must be YYYY-MM-DD").WithDetail(o.startDate)
	}
	startTime, err := calendar.ParseTimeOfDay(o.startTime)
	if err != nil {
		return input, err
	}

	input = deadline.ComputeInput{
		PairingID:  o.pairingID,
		OverrideID: o.overrideID,
		SectorID:   o.sectorID,
		Role:       deadline.Role(o.role),
		StartDate:  startDate,
		StartTime:  startTime,
	}
	if o.completedAt != "" {
		completedAt, err := time.Parse(time.RFC3339, o.completedAt)
		if err != nil {
			return input, errors.InvalidInput("--completed-at must be RFC 3339").WithDetail(o.completedAt)
		}
		input.CompletedAt = &completedAt
	}
	return input, nil
}

// NewComputeCommand creates the compute subcommand.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &computeOptions{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a processing deadline",
		Long:  "Compute the processing deadline for a request type and sector pairing,\nwalking business days over the holiday calendar.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := opts.buildInput()
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.engine.Compute(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&opts.pairingID, "pairing", "", "request type / service category pairing ID (required)")
	cmd.Flags().StringVar(&opts.overrideID, "override", "", "delay override ID")
	cmd.Flags().StringVar(&opts.sectorID, "sector", "", "sector ID (required)")
	cmd.Flags().StringVar(&opts.role, "role", "client", "deadline role: client|provider")
	cmd.Flags().StringVar(&opts.startDate, "start-date", "", "start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.startTime, "start-time", "", "start time of day, HH:MM (required)")
	cmd.Flags().StringVar(&opts.completedAt, "completed-at", "", "completion timestamp, RFC 3339")
	_ = cmd.MarkFlagRequired("pairing")
	_ = cmd.MarkFlagRequired("sector")
	_ = cmd.MarkFlagRequired("start-date")
	_ = cmd.MarkFlagRequired("start-time")

	return cmd
}
