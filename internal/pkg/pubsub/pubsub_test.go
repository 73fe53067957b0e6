package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Reference string `json:"reference"`
}

func (sample) GetEventTopicName() string {
	return "sample"
}

type unencodable struct {
	Done chan struct{} `json:"done"`
}

func (unencodable) GetEventTopicName() string {
	return "sample"
}

func TestEncodeMessage(t *testing.T) {
	raw, err := encodeMessage("raw")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), raw)

	data, err := encodeMessage(sample{Reference: "g1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reference":"g1"}`, string(data))
}

func TestEncodeMessageReportsMarshalFailure(t *testing.T) {
	data, err := encodeMessage(unencodable{Done: make(chan struct{})})
	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestPublishRejectsUnencodableMessage(t *testing.T) {
	c := &Client{}

	err := c.Publish(context.Background(), unencodable{Done: make(chan struct{})})
	assert.ErrorContains(t, err, "encoding message for sample")
}
