// Package main is the yosoku CLI entry point.
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

	"github.com/hyperjump/yosoku/internal/cli"
	"github.com/hyperjump/yosoku/internal/config"
	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/models"
	"github.com/hyperjump/yosoku/internal/server"
	"github.com/hyperjump/yosoku/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/yosoku/config.yaml"
	defaultServerURL  = "http://localhost:8501"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
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

func newLogger(cfg *config.Config, debug bool) (*zap.Logger, error) {
	return utils.NewRotatingLogger(debug, utils.RotateOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
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
	case "predict":
		runPredict()
	case "models":
		runModels()
	case "version", "--version", "-v":
		fmt.Printf("yosoku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-prediction events)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := newLogger(cfg, debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(components.Apps(), &cfg.Server, logger)
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

// argsReorder moves any flags (and their values) that appear after positional
// arguments to the front so that flag.Parse() sees them.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// parseTraitArgs reads name=value pairs into trait ratings.
func parseTraitArgs(args []string) (map[string]float64, error) {
	out := make(map[string]float64, len(args))
	for _, a := range args {
		name, raw, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", a)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", name, raw)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func runPredict() {
	if len(os.Args) < 3 {
		printPredictUsage()
		os.Exit(1)
	}
	app := os.Args[2]
	fs := flag.NewFlagSet("predict "+app, flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = load the artifacts directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")

	var exam models.ExamScoreRequest
	if app == "exam-score" {
		d := features.DefaultExamValues()
		exam.StudyHours = fs.Float64("study-hours", d.StudyHours, "study hours per day (0-12)")
		exam.ClassAttendance = fs.Float64("class-attendance", d.ClassAttendance, "class attendance in percent (0-100)")
		exam.SleepHours = fs.Float64("sleep-hours", d.SleepHours, "sleep hours (0-10)")
		fs.StringVar(&exam.SleepQuality, "sleep-quality", d.SleepQuality, "sleep quality: "+strings.Join(features.SleepQualityOptions(), ", "))
		fs.StringVar(&exam.StudyMethod, "study-method", d.StudyMethod, "study method: "+strings.Join(features.StudyMethodOptions(), ", "))
		fs.StringVar(&exam.FacilityRating, "facility-rating", d.FacilityRating, "facility rating: "+strings.Join(features.FacilityRatingOptions(), ", "))
	}
	_ = fs.Parse(argsReorder(os.Args[3:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch app {
	case "exam-score":
		res, err := predictExamScore(*serverURL, *configPath, &exam)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Prediction failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteScoreResult(os.Stdout, res, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "personality":
		traits, err := parseTraitArgs(fs.Args())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		res, err := predictPersonality(*serverURL, *configPath, &models.PersonalityRequest{Traits: traits})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Prediction failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteClassResult(os.Stdout, res, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown app: %s\n", app)
		printPredictUsage()
		os.Exit(1)
	}
}

func predictExamScore(serverURL, configPath string, req *models.ExamScoreRequest) (*models.ScoreResult, error) {
	if serverURL != "" {
		var res models.ScoreResult
		if err := postJSON(serverURL+"/api/v1/exam-score/predict", req, &res); err != nil {
			return nil, err
		}
		return &res, nil
	}
	components, logger, err := directComponents(configPath)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	defer components.Close()
	if components.ExamScore == nil {
		return nil, fmt.Errorf("exam score app is disabled")
	}
	return components.ExamScore.Predict(context.Background(), req.Values())
}

func predictPersonality(serverURL, configPath string, req *models.PersonalityRequest) (*models.ClassResult, error) {
	if serverURL != "" {
		var res models.ClassResult
		if err := postJSON(serverURL+"/api/v1/personality/predict", req, &res); err != nil {
			return nil, err
		}
		return &res, nil
	}
	traits, err := req.Values()
	if err != nil {
		return nil, err
	}
	components, logger, err := directComponents(configPath)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	defer components.Close()
	if components.Personality == nil {
		return nil, fmt.Errorf("personality app is disabled")
	}
	return components.Personality.Predict(context.Background(), traits)
}

func runModels() {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = load the artifacts directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var resp models.ModelsResponse
	if *serverURL != "" {
		r, err := http.Get(*serverURL + "/api/v1/models")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		err = decodeResponse(r, &resp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Models failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		components, logger, err := directComponents(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		resp = server.DescribeApps(components.Apps())
		components.Close()
		_ = logger.Sync()
	}
	if err := cli.WriteModels(os.Stdout, &resp, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// directComponents loads config and artifacts for commands that run without a server.
func directComponents(configPath string) (*Components, *zap.Logger, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg, cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return components, logger, nil
}

func postJSON(url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		var apiErr models.ErrorResponse
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func printPredictUsage() {
	fmt.Println(`Usage:
  yosoku predict exam-score [flags]
  yosoku predict personality [flags] [trait=value ...]

Exam score flags:
  --study-hours float       Study hours per day, 0-12 (default: 4)
  --class-attendance float  Class attendance in percent, 0-100 (default: 75)
  --sleep-hours float       Sleep hours, 0-10 (default: 7)
  --sleep-quality string    Low, Medium or High (default: Low)
  --study-method string     Self Study, Group Study or Online (default: Self Study)
  --facility-rating string  Low, Medium or High (default: Low)

Personality traits are rated 0-10; unrated traits default to 5. Names:
  ` + strings.Join(features.TraitNames(), ", "))
}

func printUsage() {
	fmt.Println(`yosoku - Exam score and personality prediction server

Usage:
  yosoku server [flags]                     Start the HTTP server
  yosoku predict exam-score [flags]         Predict an exam score
  yosoku predict personality [trait=value]  Predict a personality category
  yosoku models [flags]                     Show loaded models
  yosoku version                            Show version
  yosoku help                               Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/yosoku/config.yaml)
  --debug            Enable debug logging

Predict and Models Flags:
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:8501). Use empty (--server "") to load the artifacts directly.
  --output string    Output format: text or json (default: text)

Examples:
  yosoku server
  yosoku predict exam-score --study-hours 6 --sleep-quality High
  yosoku predict personality social_energy=9 party_liking=8
  yosoku predict personality --output json --server "" empathy=10
  yosoku models --output json`)
}
