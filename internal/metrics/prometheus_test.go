package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
)

func TestPrometheus_Counts(t *testing.T) {
	p := NewPrometheus()

	p.TaskStarted("t1", 3)
	p.StepExecuted("t1", domain.AgentDesigner, 2*time.Second, true)
	p.StepExecuted("t1", domain.AgentWriter, time.Second, false)
	p.StepExecuted("t1", domain.AgentPublisher, 0, false)
	p.TaskCompleted("t1", 3*time.Second, constants.TaskStatusCompleted)

	assert.InDelta(t, 1, testutil.ToFloat64(p.tasksStarted), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.stepsExecuted.WithLabelValues("designer", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.stepsExecuted.WithLabelValues("writer", "failure")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.tasksCompleted.WithLabelValues("completed")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(p.stepDuration))

	expected := `
# HELP adpilot_tasks_finished_total Tasks that reached a terminal status, by status.
# TYPE adpilot_tasks_finished_total counter
adpilot_tasks_finished_total{status="completed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "adpilot_tasks_finished_total"))
}

func TestPrometheus_IsolatedRegistries(t *testing.T) {
	a := NewPrometheus()
	b := NewPrometheus()

	a.TaskStarted("t1", 1)
	assert.InDelta(t, 1, testutil.ToFloat64(a.tasksStarted), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.tasksStarted), 0)
}

func TestPrometheus_WriteTextfile(t *testing.T) {
	p := NewPrometheus()
	p.TaskStarted("t1", 2)

	path := filepath.Join(t.TempDir(), "nested", "adpilot.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "adpilot_tasks_started_total 1")
}
