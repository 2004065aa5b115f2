package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/contactkeval/option-lattice/internal/config"
	"github.com/contactkeval/option-lattice/internal/data"
	"github.com/contactkeval/option-lattice/internal/grid"
	"github.com/contactkeval/option-lattice/internal/logger"
	"github.com/contactkeval/option-lattice/internal/pricing"
	"github.com/contactkeval/option-lattice/internal/report"
	"github.com/contactkeval/option-lattice/internal/server"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "option-lattice",
	Short: "European option pricing on a binomial lattice",
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a single call/put pair and print the result",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		req := cfg.Defaults.Request()
		overrideFloat(cmd, "spot", &req.CurrentPrice)
		overrideFloat(cmd, "strike", &req.Strike)
		overrideFloat(cmd, "maturity", &req.TimeToMaturity)
		overrideFloat(cmd, "vol", &req.Volatility)
		overrideFloat(cmd, "rate", &req.InterestRate)
		overrideInt(cmd, "steps", &req.Steps)

		ticker, _ := cmd.Flags().GetString("ticker")
		if ticker != "" {
			prov := buildProvider(cfg)
			if !cmd.Flags().Changed("spot") {
				spot, err := prov.GetSpot(ticker)
				if err != nil {
					log.Fatalf("spot lookup for %s: %v", ticker, err)
				}
				req.CurrentPrice = spot
			}
			if !cmd.Flags().Changed("vol") {
				to := time.Now().UTC()
				bars, err := prov.GetDailyBars(ticker, to.AddDate(-1, 0, 0), to)
				if err != nil {
					log.Fatalf("bars lookup for %s: %v", ticker, err)
				}
				req.Volatility = data.AnnualizedVolatility(data.Closes(bars))
				logger.Infof("hist vol = %.2f%%", req.Volatility*100)
			}
		}

		start := time.Now()
		res, err := pricing.Compute(req)
		if err != nil {
			log.Fatalf("pricing failed: %v", err)
		}
		logger.Debugf("computed in %v", time.Since(start))

		printResult(req, res)

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			if err := os.MkdirAll(out, 0755); err != nil {
				log.Fatalf("could not create output dir %s: %v", out, err)
			}
			if err := report.WriteResultJSON(req, res, out); err != nil {
				log.Fatalf("writing report: %v", err)
			}
			logger.Infof("wrote result.json to %s", out)
		}
	},
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Sweep spot and volatility ranges and write heatmap files",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		spec := grid.Spec{Base: cfg.Defaults.Request()}
		overrideFloat(cmd, "spot", &spec.Base.CurrentPrice)
		overrideFloat(cmd, "strike", &spec.Base.Strike)
		overrideFloat(cmd, "maturity", &spec.Base.TimeToMaturity)
		overrideFloat(cmd, "vol", &spec.Base.Volatility)
		overrideFloat(cmd, "rate", &spec.Base.InterestRate)
		overrideInt(cmd, "steps", &spec.Base.Steps)
		spec.SpotMin, _ = cmd.Flags().GetFloat64("spot-min")
		spec.SpotMax, _ = cmd.Flags().GetFloat64("spot-max")
		spec.VolMin, _ = cmd.Flags().GetFloat64("vol-min")
		spec.VolMax, _ = cmd.Flags().GetFloat64("vol-max")
		spec.SpotSteps, _ = cmd.Flags().GetInt("size")
		spec.VolSteps = spec.SpotSteps

		start := time.Now()
		res, err := grid.Run(spec)
		if err != nil {
			log.Fatalf("heatmap failed: %v", err)
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.ReportDir
		}
		if err := os.MkdirAll(out, 0755); err != nil {
			log.Fatalf("could not create output dir %s: %v", out, err)
		}
		if err := report.WriteHeatmapJSON(res, out); err != nil {
			log.Fatalf("writing heatmap json: %v", err)
		}
		if err := report.WriteHeatmapCSV(res, out); err != nil {
			log.Fatalf("writing heatmap csv: %v", err)
		}

		logger.Infof("finished in %v, wrote %dx%d heatmap to %s", time.Since(start), len(res.Vols), len(res.Spots), out)
		logger.Infof("call prices: min=%.2f max=%.2f mean=%.2f", res.CallSummary.Min, res.CallSummary.Max, res.CallSummary.Mean)
		logger.Infof("put prices:  min=%.2f max=%.2f mean=%.2f", res.PutSummary.Min, res.PutSummary.Max, res.PutSummary.Mean)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pricing web server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		srv := server.New(cfg, buildProvider(cfg))
		if err := srv.ListenAndServe(); err != nil {
			log.Fatalf("server: %v", err)
		}
	},
}

func loadConfig() *config.Config {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.SetVerbosity(cfg.Verbosity)
	return cfg
}

// buildProvider chooses the data provider: configured one first, with
// synthetic data as the last resort so the tool works offline.
func buildProvider(cfg *config.Config) data.Provider {
	synthetic := data.NewSyntheticProvider(cfg.Data.Seed)

	switch cfg.Data.Provider {
	case "polygon":
		if cfg.PolygonAPIKey == "" {
			logger.Errorf("polygon provider selected but POLYGON_API_KEY is empty, using synthetic data")
			return synthetic
		}
		return data.NewPolygonProvider(cfg.PolygonAPIKey, synthetic)
	case "csv":
		return data.NewLocalFileDataProvider(cfg.Data.Dir, synthetic)
	default:
		if cfg.PolygonAPIKey != "" {
			logger.Infof("polygon provider enabled")
			return data.NewPolygonProvider(cfg.PolygonAPIKey, synthetic)
		}
		logger.Infof("synthetic provider enabled")
		return synthetic
	}
}

func printResult(req pricing.Request, res *pricing.Result) {
	inputs := tablewriter.NewWriter(os.Stdout)
	inputs.SetHeader([]string{"Current Price", "Strike", "Maturity (y)", "Volatility", "Rate", "Steps"})
	inputs.Append([]string{
		fmt.Sprintf("%.2f", req.CurrentPrice),
		fmt.Sprintf("%.2f", req.Strike),
		fmt.Sprintf("%.2f", req.TimeToMaturity),
		fmt.Sprintf("%.4f", req.Volatility),
		fmt.Sprintf("%.4f", req.InterestRate),
		fmt.Sprintf("%d", req.Steps),
	})
	inputs.Render()

	results := tablewriter.NewWriter(os.Stdout)
	results.SetHeader([]string{"", "Price", "Delta", "Gamma"})
	results.Append([]string{"Call", fmt.Sprintf("%.4f", res.CallPrice), fmt.Sprintf("%.4f", res.CallDelta), fmt.Sprintf("%.6f", res.CallGamma)})
	results.Append([]string{"Put", fmt.Sprintf("%.4f", res.PutPrice), fmt.Sprintf("%.4f", res.PutDelta), fmt.Sprintf("%.6f", res.PutGamma)})
	results.Render()
}

func overrideFloat(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetFloat64(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

func addPricingFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 100, "current price of the underlying")
	cmd.Flags().Float64("strike", 100, "option strike")
	cmd.Flags().Float64("maturity", 1, "time to maturity in years")
	cmd.Flags().Float64("vol", 0.2, "annualized volatility")
	cmd.Flags().Float64("rate", 0.05, "annualized risk-free rate")
	cmd.Flags().Int("steps", 100, "binomial lattice steps")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to YAML config")

	addPricingFlags(priceCmd)
	priceCmd.Flags().String("ticker", "", "fetch spot and historical vol for this ticker")
	priceCmd.Flags().String("out", "", "directory for result.json (omit to skip)")

	addPricingFlags(heatmapCmd)
	heatmapCmd.Flags().Float64("spot-min", 0, "lowest spot (default 80% of spot)")
	heatmapCmd.Flags().Float64("spot-max", 0, "highest spot (default 120% of spot)")
	heatmapCmd.Flags().Float64("vol-min", 0, "lowest vol (default 50% of vol)")
	heatmapCmd.Flags().Float64("vol-max", 0, "highest vol (default 150% of vol)")
	heatmapCmd.Flags().Int("size", grid.DefaultSize, "cells per axis")
	heatmapCmd.Flags().String("out", "", "output directory (default report_dir from config)")

	rootCmd.AddCommand(priceCmd, heatmapCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
