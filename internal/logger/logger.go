package logger

import (
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io"
	"os"
	"path/filepath"
	"time"
)

// New builds a logger that writes JSON into file and human readable lines into console.
// An empty file disables the file output.
func New(level string, file string, console io.Writer) (*zap.Logger, zap.AtomicLevel, error) {
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if level != "" {
		if err := atom.UnmarshalText([]byte(level)); err != nil {
			return nil, atom, fmt.Errorf("atom.UnmarshalText failed: %w", err)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC1123Z)
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(console), atom),
	}

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, atom, fmt.Errorf("os.MkdirAll failed: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return nil, atom, fmt.Errorf("os.OpenFile failed: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(f), atom))
	}

	return zap.New(zapcore.NewTee(cores...)), atom, nil
}
