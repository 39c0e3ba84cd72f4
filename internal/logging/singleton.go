package logging

import (
	"os"
	"sync"
)

var (
	global *Logger
	mu     sync.RWMutex
)

// InitLogger builds the process-wide logger. It should be called once at startup.
func InitLogger(config *LogConfig) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		_ = global.Close()
	}
	global = logger
	return nil
}

// GetGlobalLogger returns the process-wide logger, falling back to an
// info-level stdout logger when InitLogger was never called.
func GetGlobalLogger() *Logger {
	mu.RLock()
	logger := global
	mu.RUnlock()
	if logger != nil {
		return logger
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = NewWriterLogger(os.Stdout, LevelInfo)
	}
	return global
}

// SetGlobalLogger replaces the process-wide logger, e.g. to send CLI logs to stderr
func SetGlobalLogger(logger *Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = logger
}
