package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CustomFormatter 自定义日志格式
type CustomFormatter struct {
	logrus.JSONFormatter
}

// Format 实现自定义格式化
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	// 调用方信息只在开启 ReportCaller 时存在
	if entry.HasCaller() {
		entry.Data["file"] = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
		entry.Data["func"] = filepath.Base(entry.Caller.Function)
	}

	entry.Data["pid"] = os.Getpid()
	entry.Data["goroutine_id"] = getGoroutineID()

	return f.JSONFormatter.Format(entry)
}

// LogOptions 日志初始化参数，由 configs.LogConfig 转换而来
type LogOptions struct {
	Level        string
	File         string
	MaxSizeMB    int
	MaxBackups   int
	MaxAgeDays   int
	Compress     bool
	ReportCaller bool
}

// Log is the global logger instance
var (
	Log  *logrus.Logger
	once sync.Once
)

// InitLogger 按配置初始化全局 logger，只生效一次；未配置文件时仅输出到 stdout
func InitLogger(opts LogOptions) (*logrus.Logger, error) {
	var initErr error
	once.Do(func() {
		Log, initErr = newLogger(opts)
	})
	return Log, initErr
}

func newLogger(opts LogOptions) (*logrus.Logger, error) {
	logger := logrus.New()

	logger.SetFormatter(&CustomFormatter{
		JSONFormatter: logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "@timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		},
	})

	var out io.Writer = os.Stdout
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return logger, fmt.Errorf("failed to create log directory: %w", err)
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 30),
			Compress:   opts.Compress,
		})
	}
	logger.SetOutput(out)

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return logger, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)
	logger.SetReportCaller(opts.ReportCaller)
	return logger, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// GetLogger returns the singleton logger instance
func GetLogger() *logrus.Logger {
	once.Do(func() {
		Log, _ = newLogger(LogOptions{})
	})
	return Log
}

// getGoroutineID 获取当前协程ID
func getGoroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	var id uint64
	fmt.Sscanf(string(b), "goroutine %d", &id)
	return id
}
