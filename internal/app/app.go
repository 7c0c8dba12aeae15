package app

import (
	"context"
	"io"
	"os"

	"k8s.io/klog/v2"

	"github.com/Hru-s/vaultpermdiff/internal/collectors"
	"github.com/Hru-s/vaultpermdiff/internal/config"
	"github.com/Hru-s/vaultpermdiff/internal/diff"
	"github.com/Hru-s/vaultpermdiff/internal/model"
	"github.com/Hru-s/vaultpermdiff/internal/report"
	"github.com/Hru-s/vaultpermdiff/internal/vault"
)

// Options configures one comparison run.
type Options struct {
	ConfigPath string

	OutputPath string
	SheetName  string

	Parallel     bool
	OutputFormat string

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// ClientOptions are passed to the Vault API client.
	ClientOptions []vault.Option

	// export writes the comparison rows; nil means report.Export.
	export func(rows []model.ComparisonRow, filePath, sheetName string) error
}

func (o *Options) setDefaults() {
	if o.ConfigPath == "" {
		o.ConfigPath = config.DefaultPath
	}
	if o.OutputPath == "" {
		o.OutputPath = report.DefaultPath
	}
	if o.SheetName == "" {
		o.SheetName = report.DefaultSheetName
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.export == nil {
		o.export = report.Export
	}
	o.OutputFormat = report.NormalizeFormat(o.OutputFormat)
}

// Run loads the configuration, collects both profiles, compares them and
// exports the result. A failed export is reported to Stderr and is not
// returned; every other failure aborts the run before the export.
func Run(ctx context.Context, opts Options) error {
	opts.setDefaults()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	client := vault.NewClient(cfg.Vault, opts.ClientOptions...)
	collector := collectors.NewCollector(client)

	klog.InfoS("Collecting permissions",
		"source", cfg.Profiles.SourceKey, "target", cfg.Profiles.TargetKey, "parallel", opts.Parallel)
	source, target, err := collector.CollectPair(ctx, cfg.Profiles.SourceKey, cfg.Profiles.TargetKey, opts.Parallel)
	if err != nil {
		return err
	}

	rows := diff.Deduplicate(diff.Compare(source, target))
	if v := klog.V(3); v.Enabled() {
		for _, r := range rows {
			v.InfoS("Comparison row", "classification", r.Classification, "record", r.Record.String())
		}
	}

	// Export only fails with WriteError or UnknownWriteError; both are reported, not returned.
	if err := opts.export(rows, opts.OutputPath, opts.SheetName); err != nil {
		klog.ErrorS(err, "Exporting permission diff", "path", opts.OutputPath)
		report.PrintWriteFailure(opts.Stderr, err)
		return nil
	}

	run := report.Run{
		SourceProfile: cfg.Profiles.SourceKey,
		TargetProfile: cfg.Profiles.TargetKey,
		OutputPath:    opts.OutputPath,
	}
	return report.PrintSummary(opts.Stdout, run, diff.Summarize(rows), opts.OutputFormat)
}
