// Package cmd - takeoff command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floorplan-markup/adapters/markup"
	"floorplan-markup/core/session"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/config"
	"floorplan-markup/internal/errors"
	"floorplan-markup/internal/logging"
)

var (
	outputFormat string
	purposeFlag  string
)

// takeoffCmd represents the takeoff command
var takeoffCmd = &cobra.Command{
	Use:   "takeoff [markup-file]",
	Short: "Apply a markup file and print its quantity takeoff",
	Long: `Replay a declarative markup file into a fresh drawing session and
print the derived quantities: run lengths per service, zone areas and
equipment counts.

The markup file is HCL. A file without a calibration block produces a
pixel-space takeoff instead of real-world units.

Examples:
  floorplan-markup takeoff site-markup.hcl
  floorplan-markup takeoff --format json pv-roof.hcl
  floorplan-markup takeoff --purpose cable_schedule_markup risers.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runTakeoff,
}

func init() {
	takeoffCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")
	takeoffCmd.Flags().StringVarP(&purposeFlag, "purpose", "p", "", "design purpose to open the drawing in")
}

func runTakeoff(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("markup file does not exist: %s", path)
	}

	purpose := types.DesignPurpose(config.Get().Drawing.DefaultPurpose)
	if purposeFlag != "" {
		purpose = types.DesignPurpose(purposeFlag)
	}

	sess, err := session.New(purpose)
	if err != nil {
		return err
	}

	logging.Info("applying markup file")
	report, err := markup.ApplyFile(sess, path)
	if err != nil {
		return err
	}
	fmt.Printf("Placed %d entities under %s\n\n", report.Entities, report.Purpose)

	summary, err := sess.Takeoff()
	if errors.IsType(err, errors.TypeUncalibrated) {
		fmt.Println("No calibration in markup file; reporting pixel units.")
		return printPixel(sess)
	}
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(summary)
	}

	for _, length := range summary.Lengths {
		if length.Entities == 0 {
			continue
		}
		fmt.Printf("%-16s %s m across %d run(s)\n", length.Kind, length.TotalMeters, length.Entities)
		for bucket, meters := range length.ByBucket {
			fmt.Printf("  %-14s %s m\n", bucket, meters)
		}
	}
	for _, zone := range summary.Zones {
		fmt.Printf("zone %-11s %s m2\n", zone.Label, zone.SquareMeters)
	}
	if len(summary.Zones) > 1 {
		fmt.Printf("%-16s %s m2\n", "zones total", summary.TotalZoneArea)
	}
	for category, count := range summary.EquipmentCounts {
		fmt.Printf("%-16s x%d\n", category, count)
	}
	if summary.Excluded > 0 {
		fmt.Printf("\n%d out-of-scope entities excluded\n", summary.Excluded)
	}
	return nil
}

func printPixel(sess *session.Session) error {
	summary := sess.PixelTakeoff()
	if outputFormat == "json" {
		return printJSON(summary)
	}
	for kind, length := range summary.LengthByKind {
		fmt.Printf("%-16s %.1f px\n", kind, length)
	}
	if summary.ZoneAreaTotal > 0 {
		fmt.Printf("%-16s %.1f px2\n", "zones total", summary.ZoneAreaTotal)
	}
	for category, count := range summary.EquipmentCounts {
		fmt.Printf("%-16s x%d\n", category, count)
	}
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
