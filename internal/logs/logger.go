package logs

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	mu       sync.Mutex
	logger   = log.New(os.Stdout, "", 0)
	minLevel = severityRank["INFO"]
)

var severityRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
	"FATAL": 4,
}

// SetLevel ignore les niveaux inconnus
func SetLevel(level string) {
	rank, ok := severityRank[strings.ToUpper(level)]
	if !ok {
		return
	}
	mu.Lock()
	minLevel = rank
	mu.Unlock()
}

func SetOutput(w io.Writer) {
	mu.Lock()
	logger = log.New(w, "", 0)
	mu.Unlock()
}

func LogJSON(level, message string, fields map[string]interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if rank, ok := severityRank[level]; ok && rank < minLevel {
		return
	}

	logEntry := map[string]interface{}{
		"severity": level, // "DEBUG", "INFO", "WARN", "ERROR" & "FATAL"
		"message":  message,
		"time":     time.Now().Format(time.RFC3339),
	}
	for k, v := range fields {
		logEntry[k] = v
	}
	jsonLog, _ := json.Marshal(logEntry)
	logger.Println(string(jsonLog))
}

// LogRequest ajoute route, userID et traceID du contexte gin
func LogRequest(c *gin.Context, level, message string, fields map[string]interface{}) {
	entry := map[string]interface{}{
		"route": c.FullPath(),
	}
	if userID, ok := c.Get("user_id"); ok {
		entry["userID"] = userID
	}
	if traceID := c.GetString("traceID"); traceID != "" {
		entry["traceID"] = traceID
	}
	for k, v := range fields {
		entry[k] = v
	}
	LogJSON(level, message, entry)
}
