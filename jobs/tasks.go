package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskConsistencyScan audits the decree dataset for inconsistencies.
	TaskConsistencyScan = "auditor:consistency_scan"
)

// ConsistencyScanPayload tunes a scheduled consistency scan.
type ConsistencyScanPayload struct {
	// Recompute forces a fresh run instead of serving the cached report.
	Recompute bool `json:"recompute"`
}

// NewConsistencyScanTask constructs an Asynq task for the consistency scan.
func NewConsistencyScanTask(payload ConsistencyScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConsistencyScan, data), nil
}
