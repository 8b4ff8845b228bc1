// Package main is the Kensho CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/kensho/internal/cli"
	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/processor"
	"github.com/hyperjump/kensho/internal/server"
	"github.com/hyperjump/kensho/internal/storage"
	"github.com/hyperjump/kensho/internal/verifier"
	"github.com/hyperjump/kensho/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kensho/config.yaml"

const defaultServerURL = "http://localhost:8080"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "kensho server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
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

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "register-document":
		runRegisterDocument()
	case "register-model":
		runRegisterModel()
	case "verify":
		runVerify()
	case "get":
		runGet()
	case "list":
		runList()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kensho version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Kensho - zero-knowledge RAG verification registry

Usage: kensho <command> [flags]

Commands:
  server             run the registry server
  register-document  register a document commitment
  register-model     register a model hash
  verify             verify a query proof against the registries
  get                get one entry: kensho get (document|model|query) <id>
  list               list a registry: kensho list (documents|models|queries)
  status             show registry counts and configuration
  version            print version
  help               print this help

Run "kensho <command> -h" for command flags.
`)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
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

	var store storage.Storage
	if cfg.Storage.Ephemeral() {
		logger.Warn("using in-memory storage; registries will not survive a restart")
		store = storage.NewMemoryStorage()
	} else {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to open registry database", zap.Error(err))
		}
	}
	defer store.Close()

	oracle, err := verifier.New(cfg.Verifier.Mode, verifier.Options{
		Endpoint:     cfg.Verifier.Endpoint,
		Timeout:      cfg.Verifier.TimeoutSeconds,
		StaticResult: cfg.Verifier.StaticResult,
	})
	if err != nil {
		logger.Fatal("Failed to create verifier", zap.Error(err))
	}
	defer oracle.Close()
	if cfg.Verifier.Mode == string(verifier.ModeStatic) {
		logger.Warn("static verifier configured; proofs are not actually checked",
			zap.String("static_result", cfg.Verifier.StaticResult))
	}

	proc := processor.New(oracle, store)
	proc.Apply(context.Background(), processor.Init{})
	if err := proc.Load(context.Background()); err != nil {
		logger.Fatal("Failed to replay persisted registries", zap.Error(err))
	}
	docs, mods, queries := proc.Counts()
	logger.Info("registries loaded",
		zap.Int("documents", docs),
		zap.Int("models", mods),
		zap.Int("queries", queries),
	)

	srv := server.NewServer(proc, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runRegisterDocument() {
	fs := flag.NewFlagSet("register-document", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	owner := fs.String("owner", "local", "owner identifier")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: kensho register-document [flags] <commitment>")
		os.Exit(1)
	}
	commitment := fs.Arg(0)

	var resp models.RegistrationResponse
	err := postJSON(*serverURL, "/api/v1/documents",
		models.RegisterDocumentRequest{Commitment: commitment, Owner: *owner}, &resp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
		os.Exit(1)
	}
	if parseFormat(*outputFormat) == cli.OutputJSON {
		_ = cli.WriteJSON(os.Stdout, resp)
		return
	}
	fmt.Printf("Registered document %d\n", resp.ID)
	_ = cli.WriteDocument(os.Stdout, resp.Document, cli.OutputText)
}

func runRegisterModel() {
	fs := flag.NewFlagSet("register-model", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	name := fs.String("name", "", "model display name (required)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 || *name == "" {
		fmt.Fprintln(os.Stderr, "Usage: kensho register-model -name <name> [flags] <model-hash>")
		os.Exit(1)
	}
	hash := fs.Arg(0)

	var resp models.RegistrationResponse
	err := postJSON(*serverURL, "/api/v1/models",
		models.RegisterModelRequest{ModelHash: hash, ModelName: *name}, &resp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
		os.Exit(1)
	}
	if parseFormat(*outputFormat) == cli.OutputJSON {
		_ = cli.WriteJSON(os.Stdout, resp)
		return
	}
	fmt.Printf("Registered model %d\n", resp.ID)
	_ = cli.WriteModel(os.Stdout, resp.Model, cli.OutputText)
}

func runVerify() {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	commitment := fs.String("commitment", "", "document commitment (required)")
	modelHash := fs.String("model-hash", "", "model hash (required)")
	timestamp := fs.Uint64("timestamp", 0, "claimed query timestamp (required)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 || *commitment == "" || *modelHash == "" || *timestamp == 0 {
		fmt.Fprintln(os.Stderr, "Usage: kensho verify -commitment <c> -model-hash <h> -timestamp <t> [flags] <proof>")
		os.Exit(1)
	}
	proof := fs.Arg(0)

	var resp models.VerificationResponse
	err := postJSON(*serverURL, "/api/v1/queries/verify", models.VerifyQueryRequest{
		Proof:      proof,
		Commitment: *commitment,
		ModelHash:  *modelHash,
		Timestamp:  *timestamp,
	}, &resp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteVerification(os.Stdout, &resp, parseFormat(*outputFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runGet() {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: kensho get (document|model|query) <id> [flags]")
		os.Exit(1)
	}
	target := fs.Arg(0)
	id, err := strconv.ParseUint(fs.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid id %q\n", fs.Arg(1))
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)

	switch target {
	case "document":
		var doc models.DocumentEntry
		if err := getJSON(*serverURL, fmt.Sprintf("/api/v1/documents/%d", id), &doc); err != nil {
			fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteDocument(os.Stdout, &doc, format)
	case "model":
		var m models.ModelEntry
		if err := getJSON(*serverURL, fmt.Sprintf("/api/v1/models/%d", id), &m); err != nil {
			fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteModel(os.Stdout, &m, format)
	case "query":
		var q models.QueryEntry
		if err := getJSON(*serverURL, fmt.Sprintf("/api/v1/queries/%d", id), &q); err != nil {
			fmt.Fprintf(os.Stderr, "Get failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteQuery(os.Stdout, &q, format)
	default:
		fmt.Fprintf(os.Stderr, "Unknown target %q; use document, model, or query\n", target)
		os.Exit(1)
	}
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: kensho list (documents|models|queries) [flags]")
		os.Exit(1)
	}
	target := fs.Arg(0)
	format := parseFormat(*outputFormat)

	switch target {
	case "documents":
		var docs []*models.DocumentEntry
		if err := getJSON(*serverURL, "/api/v1/documents", &docs); err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteDocuments(os.Stdout, docs, format)
	case "models":
		var mods []*models.ModelEntry
		if err := getJSON(*serverURL, "/api/v1/models", &mods); err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteModels(os.Stdout, mods, format)
	case "queries":
		var queries []*models.QueryEntry
		if err := getJSON(*serverURL, "/api/v1/queries", &queries); err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		_ = cli.WriteQueries(os.Stdout, queries, format)
	default:
		fmt.Fprintf(os.Stderr, "Unknown target %q; use documents, models, or queries\n", target)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status map[string]interface{}
	if err := getJSON(*serverURL, "/api/v1/status", &status); err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	if parseFormat(*outputFormat) == cli.OutputJSON {
		_ = cli.WriteJSON(os.Stdout, status)
		return
	}
	fmt.Printf("Documents: %v\nModels: %v\nQueries: %v\n",
		status["documents"], status["models"], status["queries"])
	if v, ok := status["disk_usage_bytes"]; ok {
		fmt.Printf("Disk usage: %v bytes\n", v)
	}
}

func parseFormat(s string) cli.OutputFormat {
	if s == "json" {
		return cli.OutputJSON
	}
	return cli.OutputText
}

// clientTimeout bounds one CLI request. Verification can take a while on the
// server side (it waits on the proof oracle); everything else is a registry
// lookup or insert.
func clientTimeout(path string) time.Duration {
	if strings.HasSuffix(path, "/verify") {
		return 30 * time.Second
	}
	return 10 * time.Second
}

func postJSON(serverURL, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: clientTimeout(path)}
	resp, err := client.Post(serverURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func getJSON(serverURL, path string, out interface{}) error {
	client := &http.Client{Timeout: clientTimeout(path)}
	resp, err := client.Get(serverURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
