package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeTimetableRefresh = "timetable:refresh"

// RefreshPayload names the listing to refresh.
type RefreshPayload struct {
	Day       string `json:"day"`
	Direction string `json:"rv"`
}

// NewRefreshTask builds a refresh task. Extra options override the defaults.
func NewRefreshTask(payload RefreshPayload, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	defaults := []asynq.Option{
		asynq.MaxRetry(2),
		asynq.Timeout(15 * time.Minute),
	}
	return asynq.NewTask(TypeTimetableRefresh, b, append(defaults, opts...)...), nil
}

func ParseRefreshPayload(task *asynq.Task) (RefreshPayload, error) {
	var p RefreshPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", TypeTimetableRefresh, err)
	}
	return p, nil
}
