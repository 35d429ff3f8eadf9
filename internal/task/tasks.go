package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeProbeImage = "image:probe"

type ProbeImagePayload struct {
	ImageID string `json:"image_id"`
}

// NewProbeImageTask creates an Asynq task for probing a stored image by ID.
func NewProbeImageTask(imageID string) (*asynq.Task, error) {
	data, err := json.Marshal(ProbeImagePayload{ImageID: imageID})
	if err != nil {
		return nil, fmt.Errorf("could not marshal probe-image payload: %w", err)
	}
	return asynq.NewTask(TypeProbeImage, data, asynq.MaxRetry(5)), nil
}

// ParseProbeImagePayload parses the task payload to ProbeImagePayload.
func ParseProbeImagePayload(t *asynq.Task) (ProbeImagePayload, error) {
	var p ProbeImagePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ProbeImagePayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
