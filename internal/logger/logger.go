package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	MessageKey:     "message",
	CallerKey:      "caller",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Error 及以上级别写 stderr，其余写 stdout
var (
	stdoutCore = zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool { return level.Enabled(l) && l < zapcore.ErrorLevel }),
	)
	stderrCore = zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(l zapcore.Level) bool { return level.Enabled(l) && l >= zapcore.ErrorLevel }),
	)
)

var sugar = zap.New(zapcore.NewTee(stdoutCore, stderrCore), zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()

// SetDebug 设置是否开启调试模式
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// IsDebug 当前是否处于调试模式
func IsDebug() bool {
	return level.Enabled(zapcore.DebugLevel)
}

// Info 打印信息日志
func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

// Debug 打印调试日志
func Debug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

// Warn 打印警告日志
func Warn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// Error 打印错误日志
func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

// Fatal 打印错误日志并退出
func Fatal(format string, v ...interface{}) {
	sugar.Fatalf(format, v...)
}

// Sync 刷新缓冲区，进程退出前调用
func Sync() {
	_ = sugar.Sync()
}
