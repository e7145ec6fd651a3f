// cmd/risk-console/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"credit-risk-workers/internal/assessment"
	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/database"
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/llm"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/console"
	"credit-risk-workers/internal/dataset"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	logFile    string
	verbose    bool

	zapLog *zap.Logger
	log    logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "risk-console",
	Short: "Multimodal Credit Risk AI Assessment",
	Long: `risk-console fuses an applicant's credit score with an AI reading of their loan essay
and transaction history into one risk score and an approve/reject recommendation.

Run without a subcommand to open the interactive screen.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "info"
		if verbose {
			level = "debug"
		}
		// The interactive screen owns the terminal, so logs go to a file.
		zapLog = logger.New(level, "json", logFile)
		log = logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"component": "risk-console"})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			_ = zapLog.Sync()
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "risk-console.log", "Log file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	batchCmd.Flags().StringVarP(&batchEssay, "essay", "e", console.DefaultEssay, "Essay submitted for every applicant")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", assessment.DefaultBatchConcurrency, "Assessments in flight at once")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "table", "Output format: table or json")

	rootCmd.AddCommand(batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtimeDeps is everything a session needs once startup succeeded.
type runtimeDeps struct {
	cfg      *config.Config
	snapshot *dataset.Snapshot
	assessor *assessment.Assessor
	closers  []func() error
}

func (d *runtimeDeps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i]()
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// bootstrap loads configuration, the applicant dataset and the completion client. Nothing is
// assessed before all three are available.
func bootstrap(ctx context.Context) (*runtimeDeps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, describeStartupError(err)
	}

	deps := &runtimeDeps{cfg: cfg}

	var db *database.PostgresClient
	if cfg.Dataset.Source == config.DatasetSourcePostgres {
		db, err = database.NewPostgres(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, db.Close)
	}

	var rdb *redis.Client
	if cfg.LLM.Cache.Enabled {
		rc, err := database.NewRedis(ctx, cfg.Database.Redis)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, rc.Close)
		rdb = rc.Client
	}

	if db != nil {
		deps.snapshot, err = dataset.Load(ctx, cfg.Dataset, db.DB)
	} else {
		deps.snapshot, err = dataset.Load(ctx, cfg.Dataset, nil)
	}
	if err != nil {
		deps.Close()
		return nil, err
	}
	log.Info("dataset loaded", map[string]interface{}{
		"source":     deps.snapshot.Source(),
		"applicants": deps.snapshot.Len(),
		"loadedAt":   deps.snapshot.LoadedAt(),
	})

	completer, err := llm.NewCompleter(ctx, cfg.LLM, rdb, log)
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.assessor = assessment.NewAssessor(completer, cfg.LLM.Model, config.GetDuration(cfg.LLM.Timeout), log)
	return deps, nil
}

// describeStartupError turns a missing API key into the message the operator acts on.
func describeStartupError(err error) error {
	var stdErr *apperrors.StandardError
	if stderrors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodeMissingCredential {
		return fmt.Errorf("API Key not found! Please check your .env file. (%s)", stdErr.Details)
	}
	return err
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	deps, err := bootstrap(ctx)
	if err != nil {
		log.Error("startup failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer deps.Close()

	p := tea.NewProgram(
		console.New(ctx, deps.snapshot, deps.assessor),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
