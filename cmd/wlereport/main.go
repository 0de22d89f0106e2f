// Command wlereport runs the weight lifting exercise analysis end to
// end and writes the markdown report plus plot artifacts into the
// output directory.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pipeline"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/log"
)

var (
	configPath string
	flagCfg    = pipeline.Default()
)

var rootCmd = &cobra.Command{
	Use:   "wlereport",
	Short: "Qualitative activity recognition of weight lifting exercises",
	Long: `wlereport trains a random forest on wearable-sensor readings to
recognize how a unilateral dumbbell biceps curl was performed (correctly,
or as one of four common mistakes), and writes a markdown report with the
cross-validation summary, confusion matrix, per-class ROC/AUC, and plots.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipeline.Default()
		if configPath != "" {
			loaded, err := pipeline.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		overlayFlags(cmd, &cfg)

		logger, err := log.New(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}

		p, err := pipeline.New(cfg, logger)
		if err != nil {
			return err
		}
		path, err := p.Run()
		if err != nil {
			log.WithStacktrace(logger.Error(), err).Msg("run failed")
			return err
		}
		cmd.Printf("report written to %s\n", path)
		return nil
	},
}

// overlayFlags copies explicitly set flags over cfg, so flags win over
// both defaults and the config file.
func overlayFlags(cmd *cobra.Command, cfg *pipeline.Config) {
	set := map[string]func(){
		"data":      func() { cfg.DataPath = flagCfg.DataPath },
		"out":       func() { cfg.OutDir = flagCfg.OutDir },
		"seed":      func() { cfg.Seed = flagCfg.Seed },
		"split":     func() { cfg.TrainFraction = flagCfg.TrainFraction },
		"trees":     func() { cfg.Trees = flagCfg.Trees },
		"folds":     func() { cfg.Folds = flagCfg.Folds },
		"repeats":   func() { cfg.Repeats = flagCfg.Repeats },
		"workers":   func() { cfg.Workers = flagCfg.Workers },
		"grid":      func() { cfg.Grid = flagCfg.Grid },
		"log-level": func() { cfg.LogLevel = flagCfg.LogLevel },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	f.StringVar(&flagCfg.DataPath, "data", flagCfg.DataPath, "input CSV file")
	f.StringVar(&flagCfg.OutDir, "out", flagCfg.OutDir, "output directory for the report and plots")
	f.Uint64Var(&flagCfg.Seed, "seed", flagCfg.Seed, "random seed for the split and resampling")
	f.Float64Var(&flagCfg.TrainFraction, "split", flagCfg.TrainFraction, "training fraction of the stratified split")
	f.IntVar(&flagCfg.Trees, "trees", flagCfg.Trees, "trees per forest")
	f.IntVar(&flagCfg.Folds, "folds", flagCfg.Folds, "cross-validation folds")
	f.IntVar(&flagCfg.Repeats, "repeats", flagCfg.Repeats, "cross-validation repeats")
	f.IntVar(&flagCfg.Workers, "workers", flagCfg.Workers, "concurrent fold workers")
	f.IntSliceVar(&flagCfg.Grid, "grid", flagCfg.Grid, "feature-subset sizes to tune over")
	f.StringVar(&flagCfg.LogLevel, "log-level", flagCfg.LogLevel, "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("wlereport: " + err.Error() + "\n")
		os.Exit(1)
	}
}
