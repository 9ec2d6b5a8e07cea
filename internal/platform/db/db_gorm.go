// Package db はgormによるデータベース接続を提供します。
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrUnsupportedDSN はDSNのスキームが対応していないことを示します。
var ErrUnsupportedDSN = errors.New("db: unsupported dsn scheme")

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// Dialector は "sqlite:" または "postgres:" で始まるDSNから対応するgorm.Dialectorを返します。
//
//	sqlite:./snapshot.db
//	sqlite::memory:
//	postgres:host=localhost user=app dbname=gold sslmode=disable
func Dialector(dsn string) (gorm.Dialector, error) {
	scheme, rest, ok := strings.Cut(dsn, ":")
	if !ok || rest == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
	}
	switch scheme {
	case "sqlite":
		return sqlite.Open(rest), nil
	case "postgres", "postgresql":
		// URL形式 (postgres://...) はそのまま渡す
		if strings.HasPrefix(rest, "//") {
			return postgres.Open(dsn), nil
		}
		return postgres.Open(rest), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, scheme)
}

// Open はDSNのスキームに応じたドライバーで接続します。
func Open(dsn string) (*gorm.DB, error) {
	d, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	// :memory: は接続ごとに別DBになるため1接続に固定する
	if d.Name() == "sqlite" && strings.Contains(dsn, ":memory:") {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}

// ConnectWithRetry はtimeoutまで一定間隔で接続を試みます。
// ctxが終了した場合は待機を中断してエラーを返します。
func ConnectWithRetry(ctx context.Context, dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if errors.Is(err, ErrUnsupportedDSN) {
			return nil, err
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", retryInterval)

		timer := time.NewTimer(retryInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("db connect aborted: %w", ctx.Err())
		}
	}
}
