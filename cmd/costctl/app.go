package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kitchenbook/internal/config"
	"kitchenbook/internal/costing"
	"kitchenbook/internal/platform/objectstore"
	"kitchenbook/internal/pricelist"
	"kitchenbook/internal/report"
	"kitchenbook/internal/store"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	out     io.Writer
}

// NewCLIApp creates the costctl command tree.
func NewCLIApp(out io.Writer) *CLIApp {
	app := &CLIApp{out: out}

	rootCmd := &cobra.Command{
		Use:           "costctl",
		Short:         "Recipe costing dashboard and reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().Float64P("target", "t", 0, "Target food cost percent (default: configured target)")
	rootCmd.PersistentFlags().Bool("seed", false, "Seed the sample kitchen into an empty store first")

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the costing dashboard",
		RunE:  app.runDashboard,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the costing report as CSV, JSON or PDF",
		RunE:  app.runExport,
	}
	exportCmd.Flags().StringP("report-name", "n", "", "Base name for the report file (without extension)")
	exportCmd.Flags().StringSliceP("report-type", "y", []string{report.FormatCSV}, "Report types: csv, json, pdf")
	exportCmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	exportCmd.Flags().Bool("publish", false, "Upload the exported files to the configured S3 bucket")

	importCmd := &cobra.Command{
		Use:   "import <price-list.csv>",
		Short: "Apply a supplier CSV price list to the ingredient catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  app.runImport,
	}
	importCmd.Flags().StringP("supplier", "s", "", "Supplier id the price list belongs to")

	rootCmd.AddCommand(dashboardCmd, exportCmd, importCmd)
	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application with the given arguments.
func (app *CLIApp) Execute(ctx context.Context, args []string) error {
	app.rootCmd.SetArgs(args)
	return app.rootCmd.ExecuteContext(ctx)
}

// open loads the configuration and opens the store it names.
func (app *CLIApp) open(ctx context.Context, cmd *cobra.Command) (*config.Config, store.Store, error) {
	configFile, _ := cmd.Flags().GetString("config-file")
	seed, _ := cmd.Flags().GetBool("seed")

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if seed || cfg.SeedSampleData {
		if err := store.SeedSampleData(ctx, st); err != nil {
			st.Close()
			return nil, nil, err
		}
	}
	return cfg, st, nil
}

func (app *CLIApp) runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, st, err := app.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	target, _ := cmd.Flags().GetFloat64("target")
	d, err := costing.NewService(st, st, cfg.TargetFoodCostPercent).Dashboard(ctx, target)
	if err != nil {
		return err
	}
	if len(d.Recipes) == 0 {
		report.LogWarning("No recipes to cost")
	}
	fmt.Fprint(app.out, report.RenderDashboard(d, cfg.Currency))
	return nil
}

func (app *CLIApp) runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name, _ := cmd.Flags().GetString("report-name")
	types, _ := cmd.Flags().GetStringSlice("report-type")
	dir, _ := cmd.Flags().GetString("dir")
	publish, _ := cmd.Flags().GetBool("publish")
	target, _ := cmd.Flags().GetFloat64("target")

	for _, t := range types {
		if !slices.Contains(report.Formats, t) {
			return fmt.Errorf("unsupported report type %q (use csv, json or pdf)", t)
		}
	}

	// Set default directory to current working directory if not specified
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = cwd
	} else {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		dir = absDir
	}

	cfg, st, err := app.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := costing.NewService(st, st, cfg.TargetFoodCostPercent)
	d, err := svc.Dashboard(ctx, target)
	if err != nil {
		return err
	}
	costs, summary, err := svc.IngredientCosts(ctx)
	if err != nil {
		return err
	}
	r := &report.Report{
		GeneratedAt:       time.Now().UTC(),
		Currency:          cfg.Currency,
		Dashboard:         d,
		Ingredients:       costs,
		IngredientSummary: summary,
	}

	var uploader *objectstore.Client
	if publish {
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("--publish needs s3.bucket in the configuration")
		}
		uploader, err = objectstore.NewClient(ctx, objectstore.Options{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return err
		}
	}

	var failed []string
	for _, t := range types {
		path, err := report.Export(r, t, name, dir)
		if err != nil {
			report.LogError("Failed to export %s report: %v", t, err)
			failed = append(failed, t)
			continue
		}
		report.LogSuccess("%s report saved: %s", t, path)

		if uploader == nil {
			continue
		}
		url, err := uploader.UploadFile(ctx, "reports/"+filepath.Base(path), path)
		if err != nil {
			report.LogError("Failed to publish %s: %v", filepath.Base(path), err)
			failed = append(failed, t+" upload")
			continue
		}
		report.LogInfo("Published %s", url)
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to export: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (app *CLIApp) runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	supplierID, _ := cmd.Flags().GetString("supplier")

	_, st, err := app.open(ctx, cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if supplierID != "" {
		if _, err := st.GetSupplier(ctx, supplierID); err != nil {
			return err
		}
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open price list: %w", err)
	}
	defer f.Close()

	entries, rowErrors, err := pricelist.ParseCSV(f)
	if err != nil {
		return err
	}
	res, err := pricelist.Apply(ctx, st, entries, supplierID)
	if err != nil {
		return err
	}
	for _, e := range append(rowErrors, res.Errors...) {
		report.LogWarning("line %d: %s", e.Line, e.Message)
	}
	for _, c := range res.Changes {
		fmt.Fprintf(app.out, "%-8s %-40s %10.2f -> %.2f\n", c.Action, c.Name, c.OldPrice, c.NewPrice)
	}
	report.LogSuccess("%d updated, %d created, %d unchanged", res.Updated, res.Created, res.Unchanged)
	return nil
}
