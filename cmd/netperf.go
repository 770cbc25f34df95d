package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	perferrors "virtperf/internal/errors"
	"virtperf/internal/fs"
	"virtperf/internal/logger"
	"virtperf/internal/netperf"
	"virtperf/internal/validation"
)

var (
	netperfResultPath string
	netperfReportCSV  string
	netperfStrict     bool
	netperfCatalogDB  string
	netperfLast       int
	netperfJSON       bool
)

var netperfCmd = &cobra.Command{
	Use:   "netperf",
	Short: "Network benchmark reports from netperf result logs",
}

var netperfReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize netperf result logs into a CSV table",
	Long: `Read every *.nplog.json file in --result_path (and the log inside
every *.tar.gz archive there), extract driver, test, message size,
request/response size, round, throughput, transaction rate and latency,
and write one sorted CSV row per log.

Examples:
  # Report next to the results (./results/netperf_report.csv)
  virtperf netperf report --result_path ./results

  # Explicit output, fail on unknown test types, keep a copy in the catalog
  virtperf netperf report --result_path ./results --report_csv virtio.csv --strict --catalog-db ~/reports.db`,
	RunE: runNetperfReport,
}

var netperfHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List reports stored in the catalog",
	RunE:  runNetperfHistory,
}

var netperfShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Print a stored report as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runNetperfShow,
}

func init() {
	rootCmd.AddCommand(netperfCmd)
	netperfCmd.AddCommand(netperfReportCmd)
	netperfCmd.AddCommand(netperfHistoryCmd)
	netperfCmd.AddCommand(netperfShowCmd)

	netperfReportCmd.Flags().StringVar(&netperfResultPath, "result_path", "", "Directory holding the netperf result logs")
	netperfReportCmd.Flags().StringVar(&netperfReportCSV, "report_csv", "", "CSV output file (default <result_path>/"+netperf.DefaultReportName+")")
	netperfReportCmd.Flags().BoolVar(&netperfStrict, "strict", false, "Fail on unknown test types instead of leaving their columns empty")
	netperfReportCmd.Flags().StringVar(&netperfCatalogDB, "catalog-db", "", "Also store the report in this SQLite catalog")

	netperfHistoryCmd.Flags().StringVar(&netperfCatalogDB, "catalog-db", "", "Catalog DB path (default ~/.config/virtperf/reports.db)")
	netperfHistoryCmd.Flags().IntVar(&netperfLast, "last", 20, "Number of recent reports to show")

	netperfShowCmd.Flags().StringVar(&netperfCatalogDB, "catalog-db", "", "Catalog DB path (default ~/.config/virtperf/reports.db)")
	netperfShowCmd.Flags().BoolVar(&netperfJSON, "json", false, "Print the stored report as JSON")
}

func runNetperfReport(cmd *cobra.Command, args []string) error {
	if err := validation.ValidateExistingDir("result_path", netperfResultPath); err != nil {
		return perferrors.NewConfigError(perferrors.ErrCodeInvalidPath,
			fmt.Sprintf("Invalid result path %q", netperfResultPath),
			"Pass an existing directory with --result_path.").WithCause(err)
	}

	policy := netperf.PolicyKeepEmpty
	if netperfStrict {
		policy = netperf.PolicyError
	}

	reportCSV := netperfReportCSV
	if reportCSV == "" {
		reportCSV = netperf.DefaultReportPath(netperfResultPath)
		logger.Warning("No CSV file name (--report_csv) was specified, using %s", reportCSV)
	}

	ctx := cmd.Context()
	table, err := netperf.NewReporter(fs.FS, log, netperf.WithPolicy(policy)).
		Generate(ctx, netperfResultPath, reportCSV)
	if err != nil {
		return err
	}
	logger.Success("Report written to %s (%d rows)", logger.Path(reportCSV), table.Len())

	if netperfCatalogDB == "" {
		return nil
	}
	store, err := netperf.OpenStore(netperfCatalogDB)
	if err != nil {
		log.Warn("Failed to open report catalog", "path", netperfCatalogDB, "error", err)
		return nil
	}
	defer store.Close()

	runID := netperf.NewRunID()
	if err := store.Save(ctx, runID, netperfResultPath, reportCSV, table); err != nil {
		log.Warn("Failed to save report to catalog", "error", err)
		return nil
	}
	log.Info("Report saved to catalog", "run_id", runID)
	return nil
}

func runNetperfHistory(cmd *cobra.Command, args []string) error {
	store, err := netperf.OpenStore(netperfCatalogDB)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	reports, err := store.ListRecent(cmd.Context(), netperfLast)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}

	if len(reports) == 0 {
		fmt.Fprintln(logger.Stdout, "No netperf reports found.")
		return nil
	}

	out := logger.Stdout
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-38s %-20s %5s  %-30s %s\n", "Run ID", "Created", "Rows", "Result path", "CSV")
	fmt.Fprintln(out, strings.Repeat("─", 110))
	for _, r := range reports {
		fmt.Fprintf(out, "%-38s %-20s %5d  %-30s %s\n",
			r.RunID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Rows, r.ResultPath, r.ReportCSV)
	}
	fmt.Fprintln(out)
	return nil
}

func runNetperfShow(cmd *cobra.Command, args []string) error {
	store, err := netperf.OpenStore(netperfCatalogDB)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	report, err := store.GetReport(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load report %s: %w", args[0], err)
	}

	if netperfJSON {
		enc := json.NewEncoder(logger.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return report.WriteCSV(logger.Stdout)
}
