package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Production(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Info("order placed", "order_num", "AR00aaC1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	assert.Equal(t, "order placed", line["msg"])
	assert.Equal(t, "AR00aaC1", line["order_num"])
}

func TestNew_Local(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.Debug("cache miss", "key", "sliders")

	assert.Contains(t, buf.String(), "msg=\"cache miss\"")
	assert.Contains(t, buf.String(), "key=sliders")
}

func TestWithCtx(t *testing.T) {
	assert.Equal(t, L, WithCtx(context.Background()))

	log := New(io.Discard, false)
	assert.Equal(t, log, WithCtx(InjectLogger(context.Background(), log)))
}
