package handlers

import (
	"testing"
	"time"

	"ripple-social/internal/models"
	"ripple-social/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchProfileMsg struct{}
type rejectProfileMsg struct{}

func TestAskRecordsMetrics(t *testing.T) {
	system := actor.NewActorSystem()
	props := actor.PropsFromFunc(func(ctx actor.Context) {
		switch ctx.Message().(type) {
		case *fetchProfileMsg:
			ctx.Respond(&models.StatusResponse{Success: true})
		case *rejectProfileMsg:
			ctx.Respond(utils.NewValidationError("bad input"))
		}
	})
	pid := system.Root.Spawn(props)
	t.Cleanup(func() { system.Root.Stop(pid) })

	s := &Server{
		System:         system,
		Context:        system.Root,
		Metrics:        utils.NewMetricsCollector(),
		RequestTimeout: 3 * time.Second,
	}

	_, err := s.ask(pid, &fetchProfileMsg{})
	require.NoError(t, err)
	_, err = s.ask(pid, &rejectProfileMsg{})
	require.Error(t, err)

	snapshot := s.Metrics.Snapshot()
	assert.Equal(t, uint64(2), snapshot.RequestCount)
	assert.Equal(t, uint64(1), snapshot.ErrorCount)
	assert.Contains(t, snapshot.AvgLatencyMillis, "fetch_profile")
	assert.Contains(t, snapshot.AvgLatencyMillis, "reject_profile")
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		msg  interface{}
		want string
	}{
		{&fetchProfileMsg{}, "fetch_profile"},
		{&rejectProfileMsg{}, "reject_profile"},
		{fetchProfileMsg{}, "fetch_profile"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, operationName(tt.msg))
	}
}
