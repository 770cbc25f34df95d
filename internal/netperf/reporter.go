package netperf

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"virtperf/internal/logger"
)

// DefaultReportName is used when no CSV path is given
const DefaultReportName = "netperf_report.csv"

// DefaultReportPath returns the CSV path used when none is given
func DefaultReportPath(resultPath string) string {
	return filepath.Join(resultPath, DefaultReportName)
}

// Reporter runs discovery, extraction, tabulation and CSV output
type Reporter struct {
	afs    afero.Fs
	log    logger.Logger
	loader *Loader
	policy UnknownTestPolicy
}

// ReporterOption configures a Reporter
type ReporterOption func(*Reporter)

// WithPolicy sets how unknown test types are handled
func WithPolicy(p UnknownTestPolicy) ReporterOption {
	return func(r *Reporter) { r.policy = p }
}

// WithExtractFunc replaces archive extraction
func WithExtractFunc(fn ExtractFunc) ReporterOption {
	return func(r *Reporter) { r.loader.extract = fn }
}

// NewReporter creates a Reporter on afs
func NewReporter(afs afero.Fs, log logger.Logger, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		afs:    afs,
		log:    log,
		loader: NewLoader(afs, log),
		policy: PolicyKeepEmpty,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate builds the report for resultPath and writes it to reportCSV.
// An empty reportCSV falls back to DefaultReportPath. Every call starts from
// scratch, nothing is carried over between calls.
func (r *Reporter) Generate(ctx context.Context, resultPath, reportCSV string) (*Table, error) {
	if reportCSV == "" {
		reportCSV = DefaultReportPath(resultPath)
		r.log.Warn("No CSV file name (--report_csv) was specified, using the default", "path", reportCSV)
	}

	op := r.log.StartOperation("netperf report")

	records, err := r.loader.Load(ctx, resultPath)
	if err != nil {
		op.Fail("loading result logs", "error", err)
		return nil, err
	}

	kpis := make([]*KPI, 0, len(records))
	for _, rec := range records {
		kpi, err := ExtractKPI(rec, r.policy)
		if err != nil {
			op.Fail("extracting KPIs", "file", rec.Path, "error", err)
			return nil, err
		}
		if len(kpi.UnknownTests) > 0 {
			r.log.Warn("Unknown test type, KPI fields left empty",
				"file", rec.Path, "tests", strings.Join(kpi.UnknownTests, ","))
		}
		kpis = append(kpis, kpi)
	}

	table := NewTable(kpis)

	r.log.Info("Dumping data into csv file", "path", reportCSV, "rows", table.Len())
	if err := table.WriteCSVFile(r.afs, reportCSV); err != nil {
		op.Fail("writing report", "path", reportCSV)
		return nil, err
	}

	op.Complete("report written", "path", reportCSV, "rows", table.Len())
	return table, nil
}
