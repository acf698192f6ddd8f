package cmd

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inference-sim/callcenter-sim/sim/callcenter"
	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// DefaultOutputPath is where the CSV report is written unless --output says otherwise.
const DefaultOutputPath = "call_center_sim_results.csv"

var (
	cfgFile string // Optional config file read by viper

	// CLI flags for a single scenario
	scenariosPath   string  // YAML file with a list of scenarios
	label           string  // Scenario label
	agents          int     // Size of the agent pool
	meanArrivalGap  float64 // Mean time between callers
	meanServiceTime float64 // Mean call duration
	seed            int64   // Seed for the random stream
	horizon         float64 // Virtual time at which each run stops
	samplePeriod    float64 // Interval between queue-length samples
	traceLevel      string  // Grant trace verbosity
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "callcenter-sim",
	Short: "Discrete-event simulator for call-center staffing",
}

// runCmd runs one or more staffing scenarios and reports their statistics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run call-center scenarios",
	Long: `Runs the scenarios given by --scenarios, or a single scenario built from
--agents/--arrival-gap/--service-time, or the three reference scenarios when
neither is given. Results are printed and written to a CSV file.`,
	Run: func(cmd *cobra.Command, args []string) {
		logLevel := viper.GetString("log")
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (want none or grants)", traceLevel)
		}

		scenarios, err := resolveScenarios(cmd)
		if err != nil {
			logrus.Fatalf("Unable to build scenarios: %v", err)
		}

		batch := logrus.WithFields(logrus.Fields{
			"batch":     uuid.New().String(),
			"scenarios": len(scenarios),
		})
		batch.Info("Starting batch")
		startTime := time.Now()

		results, err := callcenter.RunBatch(scenarios,
			callcenter.WithSamplePeriod(samplePeriod),
			callcenter.WithTraceLevel(trace.TraceLevel(traceLevel)),
		)
		if err != nil {
			batch.Fatalf("Simulation failed: %v", err)
		}
		printResults(os.Stdout, results)

		if out := viper.GetString("output"); out != "" {
			if err := writeCSV(out, results); err != nil {
				batch.Fatalf("Unable to write results: %v", err)
			}
			printSaved(os.Stdout, out)
		}
		batch.WithField("elapsed", time.Since(startTime)).Info("Simulation complete.")
	},
}

// resolveScenarios picks the scenario source: a file, the single-scenario
// flags, or the reference set.
func resolveScenarios(cmd *cobra.Command) ([]callcenter.Scenario, error) {
	if scenariosPath != "" {
		return loadScenarioFile(scenariosPath, horizon)
	}
	if cmd.Flags().Changed("agents") || cmd.Flags().Changed("arrival-gap") || cmd.Flags().Changed("service-time") {
		sc := callcenter.Scenario{
			Label:           label,
			Agents:          agents,
			MeanArrivalGap:  meanArrivalGap,
			MeanServiceTime: meanServiceTime,
			Seed:            seed,
			Horizon:         horizon,
		}
		if err := sc.Validate(); err != nil {
			return nil, err
		}
		return []callcenter.Scenario{sc}, nil
	}
	return callcenter.ReferenceScenarios(horizon, seed), nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads the optional config file and environment overrides.
// Environment variables take the CALLCENTER_ prefix, e.g. CALLCENTER_LOG=debug.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logrus.Fatalf("Failed to read config file %s: %v", cfgFile, err)
		}
	}
	viper.SetEnvPrefix("CALLCENTER")
	viper.AutomaticEnv()
}

// init sets up CLI flags and subcommands
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml) with log/output settings")
	rootCmd.PersistentFlags().String("log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().String("output", DefaultOutputPath, "CSV results file (empty disables it)")
	_ = viper.BindPFlag("log", rootCmd.PersistentFlags().Lookup("log"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	runCmd.Flags().StringVar(&scenariosPath, "scenarios", "", "YAML file listing the scenarios to run")
	runCmd.Flags().Int64Var(&seed, "seed", 10, "Seed for the random stream")
	runCmd.Flags().Float64Var(&horizon, "horizon", 100, "Simulated time per run")
	runCmd.Flags().Float64Var(&samplePeriod, "sample-period", callcenter.DefaultSamplePeriod, "Interval between queue-length samples")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Grant trace verbosity (none, grants)")

	// Single scenario
	runCmd.Flags().StringVar(&label, "label", "Scenario", "Scenario label")
	runCmd.Flags().IntVar(&agents, "agents", 2, "Number of agents")
	runCmd.Flags().Float64Var(&meanArrivalGap, "arrival-gap", 5, "Mean time between callers")
	runCmd.Flags().Float64Var(&meanServiceTime, "service-time", 8, "Mean call duration")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
