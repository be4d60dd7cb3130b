// Package main is the FormReport CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/formreport/internal/config"
	"github.com/hireloop/formreport/internal/generator"
	"github.com/hireloop/formreport/internal/models"
	"github.com/hireloop/formreport/internal/report"
	"github.com/hireloop/formreport/internal/server"
	"github.com/hireloop/formreport/internal/storage"
	"github.com/hireloop/formreport/internal/submission"
	"github.com/hireloop/formreport/internal/watcher"
	"github.com/hireloop/formreport/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/formreport/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded (for
// saving watch changes).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// loadConfigOrDefaults is loadConfig but tolerates a missing config file,
// falling back to built-in defaults. Used by one-shot commands so that
// "formreport generate export.json" works without any setup. A config file
// that exists but cannot be read or parsed is still an error; silently
// ignoring it would drop the user's field overrides.
func loadConfigOrDefaults(path string) (*config.Config, string, error) {
	cfg, resolved, err := loadConfig(path)
	if err == nil {
		return cfg, resolved, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, "", err
	}
	cfg = &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg, "", nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "generate":
		runGenerate()
	case "list":
		runList()
	case "show":
		runShow()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("formreport version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// buildGenerator wires schema, renderer, and optional storage from config.
func buildGenerator(cfg *config.Config, store storage.Storage, logger *zap.Logger, debug bool) (*generator.Generator, error) {
	var renderer *report.Renderer
	var err error
	if cfg.Report.TemplatePath != "" {
		renderer, err = report.NewRendererFromFile(cfg.Report.TemplatePath)
	} else {
		renderer, err = report.NewRenderer()
	}
	if err != nil {
		return nil, err
	}
	opts := []generator.Option{}
	if debug && logger != nil {
		opts = append(opts, generator.WithLogger(logger))
	}
	return generator.New(cfg.Report.Schema(), renderer, store, opts...), nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, per-report detail)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open report storage", zap.Error(err))
	}
	defer store.Close()

	gen, err := buildGenerator(cfg, store, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to build report generator", zap.Error(err))
	}

	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			rep, err := gen.FromFile(context.Background(), path)
			if err != nil {
				logger.Warn("watch report generation failed", zap.String("path", path), zap.Error(err))
				return
			}
			logger.Info("report generated from drop directory",
				zap.String("path", path),
				zap.String("id", rep.ID),
				zap.String("candidate", rep.CandidateName))
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(gen, store, &cfg.Server, logger, watchSvc, resolvedConfigPath, cfg)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// outputFileName builds the report file name from the candidate's name, e.g.
// "Report_Ada_Lovelace.html".
func outputFileName(candidate, ext string) string {
	name := utils.SanitizeFileName(candidate)
	if name == "" {
		name = "Candidate"
	}
	return "Report_" + name + ext
}

func runGenerate() {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outDir := fs.String("out", ".", "output directory")
	format := fs.String("format", "html", "output format: html, xlsx, or both")
	storeFlag := fs.Bool("store", false, "also archive the report in the report database")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: formreport generate [flags] <export-file>")
		os.Exit(1)
	}
	exportPath := fs.Arg(0)

	wantHTML := *format == "html" || *format == "both"
	wantXLSX := *format == "xlsx" || *format == "both"
	if !wantHTML && !wantXLSX {
		fmt.Printf("Unknown format %q; use html, xlsx, or both\n", *format)
		os.Exit(1)
	}

	cfg, _, err := loadConfigOrDefaults(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var store storage.Storage
	if *storeFlag {
		s, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Printf("Failed to open report storage: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	gen, err := buildGenerator(cfg, store, nil, false)
	if err != nil {
		fmt.Printf("Failed to build report generator: %v\n", err)
		os.Exit(1)
	}

	rep, err := gen.FromFile(context.Background(), exportPath)
	if err != nil {
		fmt.Printf("Report generation failed: %v\n", err)
		os.Exit(1)
	}

	if wantHTML {
		path := filepath.Join(*outDir, outputFileName(rep.CandidateName, ".html"))
		if err := os.WriteFile(path, []byte(rep.HTML), 0644); err != nil {
			fmt.Printf("Failed to write report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}
	if wantXLSX {
		path := filepath.Join(*outDir, outputFileName(rep.CandidateName, ".xlsx"))
		if err := report.WriteWorkbook(resultFromReport(rep), path); err != nil {
			fmt.Printf("Failed to write workbook: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}
	if *storeFlag {
		fmt.Printf("Archived report %s\n", rep.ID)
	}
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	store := openStorage(*configPath)
	defer store.Close()

	list, err := store.ListReports(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
		os.Exit(1)
	}

	if *outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if len(list) == 0 {
		fmt.Println("No reports.")
		return
	}
	for _, sum := range list {
		fmt.Printf("%s  %-30s  %-20s  %s\n",
			sum.ID,
			utils.Truncate(sum.CandidateName, 30),
			utils.Truncate(sum.PositionType, 20),
			sum.CreatedAt.Format(time.RFC3339))
	}
}

func runShow() {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	asHTML := fs.Bool("html", false, "print the rendered document instead of report data")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: formreport show [flags] <report-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	store := openStorage(*configPath)
	defer store.Close()

	rep, err := store.GetReport(context.Background(), id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
		os.Exit(1)
	}
	if *asHTML {
		fmt.Print(rep.HTML)
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rep)
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: formreport delete [flags] <report-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	store := openStorage(*configPath)
	defer store.Close()

	if err := store.DeleteReport(context.Background(), id); err != nil {
		fmt.Fprintf(os.Stderr, "Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report deleted: %s\n", id)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	_ = fs.Parse(os.Args[2:])

	var status map[string]interface{}
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open report storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		count, err := store.CountReports(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count reports failed: %v\n", err)
			os.Exit(1)
		}
		status = map[string]interface{}{
			"reports":       count,
			"database_path": cfg.Storage.DatabasePath,
		}
		if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath); err == nil {
			status["disk_usage_bytes"] = diskBytes
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(status); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (map[string]interface{}, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return status, nil
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: formreport watch <add|remove|list> [path]")
		fmt.Println("  formreport watch add <path>     Add drop directory to watch")
		fmt.Println("  formreport watch remove <path>  Remove drop directory from watch")
		fmt.Println("  formreport watch list           List watched drop directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: formreport watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: formreport watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// openStorage loads config and opens the report database, exiting on failure.
func openStorage(configPath string) *storage.SQLiteStorage {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open report storage: %v\n", err)
		os.Exit(1)
	}
	return store
}

// resultFromReport rebuilds the transform result from a generated report so
// it can feed the workbook writer.
func resultFromReport(rep *models.Report) *submission.Result {
	return &submission.Result{
		Metadata: rep.Metadata,
		QA:       rep.QA,
	}
}

func printUsage() {
	fmt.Println(`formreport - Candidate report generator for recruitment-form exports

Usage:
  formreport server [flags]            Start the HTTP server
  formreport generate [flags] <file>   Generate a report from an export file
  formreport list [flags]              List archived reports
  formreport show [flags] <id>         Show an archived report
  formreport delete [flags] <id>       Delete an archived report
  formreport status [flags]            Show archive status
  formreport watch <add|remove|list>   Manage drop directories
  formreport version                   Show version
  formreport help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/formreport/config.yaml)
  --debug            Enable debug logging (watch events, per-report detail)

Generate Flags:
  --config string    Config file path (missing file falls back to defaults)
  --out string       Output directory (default: .)
  --format string    Output format: html, xlsx, or both (default: html)
  --store            Also archive the report in the report database

List/Show/Delete Flags:
  --config string    Config file path
  --output string    (list) Output format: text or json
  --html             (show) Print the rendered document

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.

Watch Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  formreport server
  formreport generate candidate.json
  formreport generate --format both --out reports/ candidate.xlsx
  formreport list
  formreport show 2f3a... --html > report.html
  formreport watch add /srv/forms/drops`)
}
