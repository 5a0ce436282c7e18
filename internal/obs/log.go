package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared line logger every component of the
// DermaView API writes through. Output is one JSON object per line; the
// logger itself adds no prefix or timestamp, entries carry their own.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest emits one structured request entry. Used by the HTTP
// logging middleware; audit events go through their own package.
func LogRequest(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"type":"log_error","msg":"request log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
