package app

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tubegrab/tubegrab/internal/download"
	"github.com/tubegrab/tubegrab/internal/history"
	"github.com/tubegrab/tubegrab/internal/platform"
	"github.com/tubegrab/tubegrab/internal/provider"
)

// Application identity
const (
	Name = "tubegrab"

	// LogFileName is the rolling process log inside the config directory.
	LogFileName = "tubegrab.log"
)

// Context carries the process-wide dependencies: logger, probed binary
// capabilities, the download service, and optional run history. Built once
// in main and passed to whichever shell runs.
type Context struct {
	Logger       *zap.Logger
	Capabilities platform.Capabilities
	Service      *download.Service
	History      *history.Store
	ConfigDir    string
}

// Options tunes context construction per shell.
type Options struct {
	// Verbose enables debug-level logging.
	Verbose bool

	// LogToStderr mirrors the log to stderr; terminal shells keep it off so
	// progress rendering stays clean.
	LogToStderr bool

	// DisableHistory skips opening the run-history database.
	DisableHistory bool
}

// New builds the process context. The caller must Close it on shutdown.
func New(opts Options) (*Context, error) {
	configDir, err := platform.UserConfigDir(Name)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(configDir, opts)
	if err != nil {
		return nil, err
	}

	caps := platform.ProbeCapabilities()
	logger.Info("probed external binaries",
		zap.String("yt-dlp", caps.YTDLPPath),
		zap.String("ffmpeg", caps.FFmpegPath))

	ytdlp := provider.NewYTDLP(caps.YTDLPPath, caps.FFmpegPath, logger)
	lister := platform.NewFlatLister()
	service := download.NewService(ytdlp, lister, caps, logger)

	ctx := &Context{
		Logger:       logger,
		Capabilities: caps,
		Service:      service,
		ConfigDir:    configDir,
	}

	if !opts.DisableHistory {
		store, err := history.Open(configDir)
		if err != nil {
			logger.Warn("run history disabled", zap.Error(err))
		} else {
			ctx.History = store
			service.SetHistory(store)
		}
	}

	return ctx, nil
}

// Close flushes the logger and closes the history store.
func (c *Context) Close() {
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			c.Logger.Warn("closing history store", zap.Error(err))
		}
	}
	_ = c.Logger.Sync()
}

// newLogger writes structured logs to a file in the config directory, with
// an optional stderr mirror.
func newLogger(configDir string, opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	logPath := filepath.Join(configDir, LogFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(logFile), level),
	}
	if opts.LogToStderr {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		cores = append(cores,
			zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(os.Stderr), level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
