// 指示: miu200521358
package logging

// Level はログ出力レベルを表す。
type Level int

const (
	LOG_LEVEL_DEBUG Level = iota
	LOG_LEVEL_INFO
	LOG_LEVEL_WARN
	LOG_LEVEL_ERROR
)

// VerboseIndex は詳細ログのカテゴリを表す。
type VerboseIndex int

const (
	VERBOSE_INDEX_RETARGET VerboseIndex = iota
	VERBOSE_INDEX_DEFORM
	VERBOSE_INDEX_CONFIG
)

// Logger はログ出力の共通インターフェースを表す。
type Logger interface {
	SetLevel(level Level)
	Level() Level
	Debug(format string, params ...any)
	Info(format string, params ...any)
	Warn(format string, params ...any)
	Error(format string, params ...any)
	Verbose(index VerboseIndex, format string, params ...any)
	IsVerboseEnabled(index VerboseIndex) bool
	EnableVerbose(indexes ...VerboseIndex)
}

var defaultLogger Logger = &nopLogger{}

// DefaultLogger は既定のロガーを返す。
func DefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger は既定のロガーを差し替える。nilの場合は無視する。
func SetDefaultLogger(logger Logger) {
	if logger == nil {
		return
	}
	defaultLogger = logger
}

// nopLogger は何も出力しないロガーを表す。
type nopLogger struct {
	level Level
}

func (l *nopLogger) SetLevel(level Level)                     { l.level = level }
func (l *nopLogger) Level() Level                             { return l.level }
func (l *nopLogger) Debug(string, ...any)                     {}
func (l *nopLogger) Info(string, ...any)                      {}
func (l *nopLogger) Warn(string, ...any)                      {}
func (l *nopLogger) Error(string, ...any)                     {}
func (l *nopLogger) Verbose(VerboseIndex, string, ...any)     {}
func (l *nopLogger) IsVerboseEnabled(index VerboseIndex) bool { return false }
func (l *nopLogger) EnableVerbose(indexes ...VerboseIndex)    {}
