// Package model holds the shared types crossing package boundaries: the
// debug API envelope and the trace/summary records produced by runs.
package model

import (
	"fmt"
	"time"
)

// Response is the standard envelope for every debug API response.
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Error     *APIError `json:"error"`
}

// APIError carries a machine-readable error code plus a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StatsSnapshot is the scheduler's debug counters as served over HTTP.
type StatsSnapshot struct {
	NumTasksCur int               `json:"num_tasks_cur"`
	NumTasksMax int               `json:"num_tasks_max"`
	Executed    map[string]uint64 `json:"executed"`
}

// BandInfo describes one worker band's priority range.
type BandInfo struct {
	Name string `json:"name"`
	Lo   uint8  `json:"lo"` // inclusive
	Hi   uint8  `json:"hi"` // exclusive
}
