package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDeactivateStaleLeads = "leads.deactivate_stale"

// DeactivateStaleLeadsPayload carries one scheduled run. A nil Status means
// the run is unfiltered.
type DeactivateStaleLeadsPayload struct {
	ThresholdDays int     `json:"thresholdDays"`
	Status        *string `json:"status,omitempty"`
}

func NewDeactivateStaleLeadsTask(payload DeactivateStaleLeadsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDeactivateStaleLeads, data), nil
}

func ParseDeactivateStaleLeadsPayload(task *asynq.Task) (DeactivateStaleLeadsPayload, error) {
	var payload DeactivateStaleLeadsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DeactivateStaleLeadsPayload{}, err
	}
	return payload, nil
}
