package utils

import (
	"fmt"
	"log"
	"strings"
)

var logNewlines = strings.NewReplacer("\r", " ", "\n", " ")

// LogEvent writes one tagged line: [MODULE] action=... request_id=... msg=...
// Messages are summaries; never pass request payloads.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(module), action, req, logNewlines.Replace(message))
}

func LogEventf(requestID, module, action, format string, args ...any) {
	LogEvent(requestID, module, action, fmt.Sprintf(format, args...))
}
