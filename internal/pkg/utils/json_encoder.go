package utils

import (
	"encoding/json"
	"errors"
)

var errEmptyPayload = errors.New("empty message payload")

// JsonDecodeByteStream decodes a pub/sub message body into T.
func JsonDecodeByteStream[T any](data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, errEmptyPayload
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return &value, nil
}
