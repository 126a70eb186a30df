package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeAudioSweep = "audio:sweep"

// AudioSweepPayload names an audio file whose memo is gone but whose unlink
// failed at delete time.
type AudioSweepPayload struct {
	Path string `json:"path"`
}

func NewAudioSweepTask(path string) (*asynq.Task, error) {
	if path == "" {
		return nil, fmt.Errorf("audio sweep: empty path")
	}
	data, err := json.Marshal(AudioSweepPayload{Path: path})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TypeAudioSweep, data), nil
}

func ParseAudioSweepPayload(t *asynq.Task) (AudioSweepPayload, error) {
	var p AudioSweepPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal payload: %w", err)
	}
	if p.Path == "" {
		return p, fmt.Errorf("audio sweep payload has no path")
	}
	return p, nil
}
