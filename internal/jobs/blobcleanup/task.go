package blobcleanup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// TaskType is scheduled whenever a stored image stops being referenced.
const TaskType = "catalog:blob_cleanup"

const (
	defaultQueue    = "default"
	defaultMaxRetry = 5
)

type Payload struct {
	Key string `json:"key"`
}

// Deleter removes one stored object. A missing object must not be an error.
type Deleter interface {
	Name() string
	Delete(ctx context.Context, key string) error
}

var errEmptyKey = errors.New("blob cleanup: empty key")

func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errEmptyKey
	}
	return key, nil
}

func NewTask(key string) (*asynq.Task, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(Payload{Key: key})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(TaskType, data, asynq.MaxRetry(defaultMaxRetry), asynq.Timeout(time.Minute)), nil
}

func decode(t *asynq.Task) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode payload: %w", err)
	}
	key, err := cleanKey(p.Key)
	if err != nil {
		return p, fmt.Errorf("decode payload: %w", err)
	}
	p.Key = key
	return p, nil
}
