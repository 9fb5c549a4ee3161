package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrissnell/moonreport/pkg/lunar"
)

func newPhaseCmd() *cobra.Command {
	var timeStr string
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Print a quick low-precision phase summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := time.Now().UTC()
			if timeStr != "" {
				var err error
				t, err = time.Parse(time.RFC3339, timeStr)
				if err != nil {
					return fmt.Errorf("parsing --time: %w", err)
				}
				t = t.UTC()
			}

			phase := lunar.Calculate(t)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Moon Phase for %s\n", t.Format(time.RFC3339))
			fmt.Fprintf(w, "  Phase:        %.1f%% (%.4f)\n", phase.Phase*100, phase.Phase)
			fmt.Fprintf(w, "  Phase Name:   %s %s (%s)\n", phase.Shape.Emoji(), phase.PhaseName, phase.Shape.Name())
			fmt.Fprintf(w, "  Illumination: %.1f%%\n", phase.Illumination*100)
			fmt.Fprintf(w, "  Age:          %.1f days\n", phase.AgeDays)
			fmt.Fprintf(w, "  Elongation:   %.1f°\n", phase.Elongation)
			if phase.IsWaxing {
				fmt.Fprintf(w, "  Direction:    Waxing\n")
			} else {
				fmt.Fprintf(w, "  Direction:    Waning\n")
			}

			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				pos := lunar.CalculatePosition(t, lat, lon)
				crescent := lunar.CalculateCrescentAngle(t, lat, lon)
				fmt.Fprintf(w, "  Altitude:     %.1f°\n", pos.AltitudeDeg)
				fmt.Fprintf(w, "  Azimuth:      %.1f°\n", pos.AzimuthDeg)
				fmt.Fprintf(w, "  Icon Turn:    %.1f°\n", lunar.IconRotation(crescent.BrightLimbAngle, crescent.ParallacticAngle))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&timeStr, "time", "", "UTC time to calculate phase for (RFC3339 format, e.g., 2024-01-15T12:00:00Z)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Observer latitude, adds altitude, azimuth and icon rotation")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Observer longitude, east positive")
	return cmd
}
