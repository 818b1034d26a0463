// Package cmd provides the CLI commands for floorplan-markup.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floorplan-markup/core/gate"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/config"
	"floorplan-markup/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "floorplan-markup",
	Short: "Measure and take off quantities from calibrated floor plans",
	Long: `floorplan-markup is the markup and measurement engine behind the
project drawings tool: calibrate a drawing against real-world units,
place typed annotations and produce bill-of-quantities takeoffs.

Examples:
  floorplan-markup takeoff site-markup.hcl
  floorplan-markup takeoff --format json pv-roof.hcl
  floorplan-markup purposes`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.floorplan-markup.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(takeoffCmd)
	rootCmd.AddCommand(purposesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("floorplan-markup version 0.1.0")
	},
}

// purposesCmd prints the design-purpose gate table
var purposesCmd = &cobra.Command{
	Use:   "purposes",
	Short: "List design purposes and the entity kinds each permits",
	Run: func(cmd *cobra.Command, args []string) {
		for _, purpose := range types.AllPurposes() {
			fmt.Printf("%s:\n", purpose)
			for _, kind := range gate.AllowedKinds(purpose) {
				fmt.Printf("  %s\n", kind)
			}
		}
	},
}
