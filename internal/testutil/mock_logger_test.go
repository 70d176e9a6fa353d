package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_DerivedLoggersShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.Named("convert").With(logging.String("run_id", "r1")).Named("sdf")

	child.Warn("record skipped", logging.Int("index", 3))

	warns := logger.MessagesAt("warn")
	assert.Len(t, warns, 1)
	assert.Equal(t, "convert.sdf", warns[0].Logger)
	id, _ := warns[0].Field("run_id")
	assert.Equal(t, "r1", id)
	idx, _ := warns[0].Field("index")
	assert.Equal(t, 3, idx)
}

//Personal.AI order the ending
