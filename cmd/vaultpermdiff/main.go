package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/Hru-s/vaultpermdiff/internal/app"
	"github.com/Hru-s/vaultpermdiff/internal/config"
	"github.com/Hru-s/vaultpermdiff/internal/report"
)

func main() {
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	pflag.CommandLine.AddGoFlagSet(klogFlags)

	configPath := pflag.String("config", config.DefaultPath,
		"Path to the settings file (JSON or YAML) with vault_settings and security_profiles_settings")

	output := pflag.String("output", report.DefaultPath,
		"Path of the spreadsheet to write; overwritten on every run")

	sheet := pflag.String("sheet", report.DefaultSheetName,
		"Name of the worksheet holding the diff")

	parallel := pflag.Bool("parallel", false,
		"Collect the source and target profiles concurrently")

	format := pflag.String("format", "text",
		"Console summary format: text|json")

	pflag.Parse()
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := app.Options{
		ConfigPath:   *configPath,
		OutputPath:   *output,
		SheetName:    *sheet,
		Parallel:     *parallel,
		OutputFormat: *format,
	}

	if err := app.Run(ctx, opts); err != nil {
		klog.Fatalf("error: %v", err)
	}
}
