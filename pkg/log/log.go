// Package log wraps seelog behind package-level helpers so library code
// can emit diagnostics without carrying a logger around.
package log

import (
	"sync"

	"github.com/cihub/seelog"
)

var (
	mu     sync.RWMutex
	logger seelog.LoggerInterface = seelog.Default
)

// SetupLogger replaces the process-wide logger. The default logs to the
// console at info level and above.
func SetupLogger(l seelog.LoggerInterface) {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		logger.Flush()
	}
	logger = l
}

// SetupVerbose switches to a console logger that also emits debug lines.
func SetupVerbose() error {
	l, err := seelog.LoggerFromConfigAsString(
		`<seelog minlevel="debug"><outputs formatid="fmt"><console/></outputs>` +
			`<formats><format id="fmt" format="%LEVEL %Msg%n"/></formats></seelog>`)
	if err != nil {
		return err
	}
	SetupLogger(l)
	return nil
}

// Flush writes any buffered log lines. Call before process exit.
func Flush() {
	mu.RLock()
	defer mu.RUnlock()
	logger.Flush()
}

// Debugf logs at debug level.
func Debugf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Debugf(format, params...)
}

// Infof logs at info level.
func Infof(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Infof(format, params...)
}

// Warnf logs at warn level.
func Warnf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Warnf(format, params...)
}

// Errorf logs at error level.
func Errorf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Errorf(format, params...)
}
