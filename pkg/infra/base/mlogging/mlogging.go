// 指示: miu200521358
package mlogging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/miu200521358/mu_retarget/pkg/shared/base/logging"
)

// SlogLogger はlog/slogを用いたLogger実装を表す。
type SlogLogger struct {
	mu      sync.Mutex
	slogger *slog.Logger
	level   logging.Level
	verbose map[logging.VerboseIndex]bool
}

// NewLogger はSlogLoggerを生成する。handlerがnilの場合は標準エラー出力へ出す。
func NewLogger(handler slog.Handler) *SlogLogger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	return &SlogLogger{
		slogger: slog.New(handler),
		level:   logging.LOG_LEVEL_INFO,
		verbose: make(map[logging.VerboseIndex]bool),
	}
}

// SetLevel は出力レベルを設定する。
func (l *SlogLogger) SetLevel(level logging.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level は現在の出力レベルを返す。
func (l *SlogLogger) Level() logging.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Debug はデバッグログを出力する。
func (l *SlogLogger) Debug(format string, params ...any) {
	l.log(logging.LOG_LEVEL_DEBUG, slog.LevelDebug, format, params...)
}

// Info は情報ログを出力する。
func (l *SlogLogger) Info(format string, params ...any) {
	l.log(logging.LOG_LEVEL_INFO, slog.LevelInfo, format, params...)
}

// Warn は警告ログを出力する。
func (l *SlogLogger) Warn(format string, params ...any) {
	l.log(logging.LOG_LEVEL_WARN, slog.LevelWarn, format, params...)
}

// Error はエラーログを出力する。
func (l *SlogLogger) Error(format string, params ...any) {
	l.log(logging.LOG_LEVEL_ERROR, slog.LevelError, format, params...)
}

// Verbose は有効化済みカテゴリの詳細ログを出力する。
func (l *SlogLogger) Verbose(index logging.VerboseIndex, format string, params ...any) {
	if !l.IsVerboseEnabled(index) {
		return
	}
	l.slogger.Log(context.Background(), slog.LevelDebug, fmt.Sprintf(format, params...),
		slog.Int("verbose_index", int(index)))
}

// IsVerboseEnabled は詳細ログカテゴリが有効か判定する。
func (l *SlogLogger) IsVerboseEnabled(index logging.VerboseIndex) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose[index]
}

// EnableVerbose は詳細ログカテゴリを有効化する。
func (l *SlogLogger) EnableVerbose(indexes ...logging.VerboseIndex) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, index := range indexes {
		l.verbose[index] = true
	}
}

// log はレベル判定付きでログを出力する。
func (l *SlogLogger) log(level logging.Level, slogLevel slog.Level, format string, params ...any) {
	if level < l.Level() {
		return
	}
	l.slogger.Log(context.Background(), slogLevel, fmt.Sprintf(format, params...))
}
