// Command snapshot は金ETF(1540.T)の理論価格スナップショットを1回計算してJSONに書き出します。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gold_fairvalue/internal/app/di"
	"gold_fairvalue/internal/platform/config"
	"gold_fairvalue/internal/platform/logging"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		output     string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write a fair-value snapshot of the gold ETF 1540.T",
		Long: `snapshot resolves live prices for XAU/USD, USD/JPY and 1540.T, estimates the
ETF/(gold x FX) ratio at daily, 5-minute and 15-minute resolution, and writes the
result as JSON. Missing data becomes null; only a failed file write is an error.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file path (overrides SNAPSHOT_PATH)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (overrides SNAPSHOT_CONFIG)")
	return cmd
}

func run(ctx context.Context, configPath, output string) error {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}

	if configPath == "" {
		configPath = os.Getenv("SNAPSHOT_CONFIG")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return err
	}
	if output != "" {
		cfg.OutputPath = output
	}

	logging.Setup(os.Stderr, cfg.LogLevel)

	// 接続先の待ち時間は各sinkのタイムアウトで制限し、実行時間の予算には含めない
	uc, cleanup := di.NewSnapshotUsecase(ctx, cfg)
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	snap, err := uc.Run(ctx)
	if err != nil {
		slog.Error("snapshot failed", "path", cfg.OutputPath, "error", err)
		return err
	}

	slog.Info("snapshot written",
		"path", cfg.OutputPath,
		"xau", snap.Live.XAU.IsPresent(),
		"jpy", snap.Live.JPY.IsPresent(),
		"etf", snap.Live.ETF.IsPresent(),
		"warnings", len(snap.Warnings),
	)
	return nil
}
