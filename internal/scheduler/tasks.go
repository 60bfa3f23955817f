// Package scheduler runs background maintenance jobs over asynq.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskOfferExpirySweep = "offers.expiry.sweep"

type OfferExpirySweepPayload struct {
	MaxAgeSeconds int64 `json:"maxAgeSeconds"`
}

func NewOfferExpirySweepTask(payload OfferExpirySweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfferExpirySweep, data), nil
}

func ParseOfferExpirySweepPayload(task *asynq.Task) (OfferExpirySweepPayload, error) {
	var payload OfferExpirySweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OfferExpirySweepPayload{}, err
	}
	return payload, nil
}
