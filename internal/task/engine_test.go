package task

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/adpilot/internal/clock"
	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
	aperrors "github.com/mrz1836/adpilot/internal/errors"
	"github.com/mrz1836/adpilot/internal/executor"
)

// stubPlanner returns a fixed plan.
type stubPlanner struct {
	plan domain.PlanResult
}

func (p stubPlanner) Plan(_ context.Context, _ string) domain.PlanResult {
	return p.plan
}

// stubExecutor records calls and returns a canned outcome per action.
type stubExecutor struct {
	agent domain.Agent

	mu      sync.Mutex
	calls   []string
	fail    map[string]error
	outputs map[string]*domain.StepOutput
	hook    func(step *domain.Step)
}

func newStubExecutor(agent domain.Agent) *stubExecutor {
	return &stubExecutor{
		agent:   agent,
		fail:    make(map[string]error),
		outputs: make(map[string]*domain.StepOutput),
	}
}

func (s *stubExecutor) Agent() domain.Agent { return s.agent }

func (s *stubExecutor) Execute(_ context.Context, task *domain.Task, step *domain.Step) (domain.StepResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, task.ID+":"+step.Action)
	s.mu.Unlock()

	if s.hook != nil {
		s.hook(step)
	}
	if err := s.fail[step.Action]; err != nil {
		return nil, err
	}
	res := &domain.TextResult{Content: "done " + step.Action, Action: step.Action}
	if out, ok := s.outputs[step.Action]; ok {
		res.StepOutput = *out
	}
	return res, nil
}

func (s *stubExecutor) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// memStore is an in-memory Store.
type memStore struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
	saves int
}

func newMemStore() *memStore {
	return &memStore{tasks: make(map[string]domain.Task)}
}

func (m *memStore) Save(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.tasks[task.ID] = *task
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, aperrors.ErrTaskNotFound
	}
	return &t, nil
}

func (m *memStore) List(_ context.Context) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, &t)
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

func (m *memStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// recordingPersister collects persisted artifacts.
type recordingPersister struct {
	mu        sync.Mutex
	persisted []string
}

func (r *recordingPersister) Persist(_ context.Context, a *domain.Artifact, taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persisted = append(r.persisted, taskID+"/"+a.Name)
}

// recordingMetrics counts calls.
type recordingMetrics struct {
	mu        sync.Mutex
	started   int
	steps     map[bool]int
	completed []constants.TaskStatus
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{steps: make(map[bool]int)}
}

func (r *recordingMetrics) TaskStarted(string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recordingMetrics) StepExecuted(_ string, _ domain.Agent, _ time.Duration, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[success]++
}

func (r *recordingMetrics) TaskCompleted(_ string, _ time.Duration, status constants.TaskStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, status)
}

func threeStepPlan() domain.PlanResult {
	return domain.PlanResult{
		Summary:   "3-step plan",
		Goal:      "ship it",
		PublishTo: []string{"shopify"},
		Source:    domain.PlanSourceHeuristic,
		Steps: []domain.PlanStep{
			{StepIndex: 1, Name: "Generate Design", Agent: "designer", Action: "generate_design"},
			{StepIndex: 2, Name: "Write Blog Post", Agent: "writer", Action: "blog_post"},
			{StepIndex: 3, Name: "Publish to Store", Agent: "publisher", Action: "publish_shopify", DependsOn: []int{1}},
		},
	}
}

type engineFixture struct {
	engine    *Engine
	designer  *stubExecutor
	writer    *stubExecutor
	publisher *stubExecutor
	store     *memStore
	persister *recordingPersister
	metrics   *recordingMetrics
}

func newFixture(t *testing.T, plan domain.PlanResult) *engineFixture {
	t.Helper()

	f := &engineFixture{
		designer:  newStubExecutor(domain.AgentDesigner),
		writer:    newStubExecutor(domain.AgentWriter),
		publisher: newStubExecutor(domain.AgentPublisher),
		store:     newMemStore(),
		persister: &recordingPersister{},
		metrics:   newRecordingMetrics(),
	}
	reg := executor.NewRegistry()
	reg.Register(f.designer)
	reg.Register(f.writer)
	reg.Register(f.publisher)

	f.engine = NewEngine(stubPlanner{plan: plan}, reg, zerolog.Nop(),
		WithStore(f.store),
		WithArtifactStore(f.persister),
		WithMetrics(f.metrics),
		WithClock(clock.Fixed{T: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}),
	)
	return f
}

func TestEngine_CreateTask(t *testing.T) {
	plan := threeStepPlan()
	plan.ModelPreferences = domain.ModelPreferences{ImageModel: "flux-schnell", ImageModelName: "FLUX Schnell"}
	f := newFixture(t, plan)

	task, err := f.engine.CreateTask(context.Background(), "Create a t-shirt design", CreateOptions{
		Context: map[string]any{domain.CtxProductName: "Beach Tee"},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.TaskStatusReady, task.Status)
	assert.Equal(t, constants.PriorityNormal, task.Priority)
	assert.Equal(t, constants.TaskSchemaVersion, task.SchemaVersion)
	assert.Equal(t, []string{"shopify"}, task.PublishTo)
	require.Len(t, task.Steps, 3)
	for i, s := range task.Steps {
		assert.Equal(t, stepID(task.ID, i+1), s.ID)
		assert.Equal(t, constants.StepStatusPending, s.Status)
	}
	assert.Equal(t, domain.AgentPublisher, task.Steps[2].Agent)
	assert.Equal(t, []string{task.ID + "-1"}, task.Steps[2].DependsOn)

	assert.Equal(t, "flux-schnell", task.Context[domain.CtxImageModel])
	assert.Equal(t, "Beach Tee", task.Context[domain.CtxProductName])

	got, err := f.engine.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Same(t, task, got)
	assert.Len(t, f.engine.Tasks(), 1)
	assert.Equal(t, 1, f.store.Saves())
}

func TestEngine_CreateTask_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		desc    string
		plan    domain.PlanResult
		opts    CreateOptions
		wantErr error
	}{
		{
			name:    "empty description",
			plan:    threeStepPlan(),
			wantErr: aperrors.ErrEmptyValue,
		},
		{
			name:    "unknown priority",
			desc:    "x",
			plan:    threeStepPlan(),
			opts:    CreateOptions{Priority: constants.Priority("asap")},
			wantErr: aperrors.ErrInvalidPriority,
		},
		{
			name: "forward dependency",
			desc: "x",
			plan: domain.PlanResult{Steps: []domain.PlanStep{
				{StepIndex: 1, Name: "a", Agent: "writer", DependsOn: []int{2}},
				{StepIndex: 2, Name: "b", Agent: "writer"},
			}},
			wantErr: aperrors.ErrInvalidPlan,
		},
		{
			name: "self dependency",
			desc: "x",
			plan: domain.PlanResult{Steps: []domain.PlanStep{
				{StepIndex: 1, Name: "a", Agent: "writer", DependsOn: []int{1}},
			}},
			wantErr: aperrors.ErrInvalidPlan,
		},
		{
			name:    "bad recurrence",
			desc:    "x",
			plan:    threeStepPlan(),
			opts:    CreateOptions{RecurrencePattern: "every tuesday"},
			wantErr: aperrors.ErrInvalidRecurrence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.plan)
			task, err := f.engine.CreateTask(context.Background(), tt.desc, tt.opts)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, task)
			assert.Empty(t, f.engine.Tasks())
		})
	}
}

func TestEngine_CreateTask_Recurrence(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	when := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)

	task, err := f.engine.CreateTask(context.Background(), "weekly promo", CreateOptions{
		Priority:          constants.PriorityHigh,
		ScheduledFor:      &when,
		RecurrencePattern: "0 9 * * 1",
	})
	require.NoError(t, err)
	assert.True(t, task.Recurring)
	assert.Equal(t, "0 9 * * 1", task.RecurrencePattern)
	assert.Equal(t, constants.PriorityHigh, task.Priority)
	require.NotNil(t, task.ScheduledFor)
	assert.Equal(t, constants.TaskStatusReady, task.Status)
}

func TestEngine_ExecuteTask_RunsStepsInOrder(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	f.designer.outputs["generate_design"] = &domain.StepOutput{
		Artifacts:      []*domain.Artifact{domain.NewArtifact(domain.ArtifactImage, "design").WithURL("https://x/img.png")},
		ContextUpdates: map[string]any{domain.CtxGeneratedImage: "https://x/img.png"},
		Message:        "image ready",
	}
	var sawImage string
	f.publisher.hook = func(*domain.Step) {
		task := f.engine.Tasks()[0]
		sawImage = task.ContextString(domain.CtxGeneratedImage)
	}

	task, err := f.engine.CreateTask(context.Background(), "Create a t-shirt design", CreateOptions{})
	require.NoError(t, err)

	var events []ProgressEvent
	got, err := f.engine.ExecuteTask(context.Background(), task, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	assert.Equal(t, constants.TaskStatusCompleted, got.Status)
	assert.Equal(t, "https://x/img.png", sawImage)
	for _, s := range got.Steps {
		assert.Equal(t, constants.StepStatusCompleted, s.Status, s.Name)
		assert.NotNil(t, s.Result)
		assert.NotEmpty(t, s.Output)
	}
	require.Len(t, got.Artifacts, 1)
	assert.Equal(t, []string{task.ID + "/design"}, f.persister.persisted)
	assert.Contains(t, got.FinalSummary, "**Status:** completed")
	assert.NotContains(t, got.FinalSummary, "### Issues")
	require.NotNil(t, got.StartedAt)
	require.NotNil(t, got.CompletedAt)

	require.Len(t, events, 6)
	assert.Equal(t, EventStepRunning, events[0].Type)
	assert.Equal(t, EventStepCompleted, events[1].Type)
	assert.Len(t, events[1].Artifacts, 1)
	assert.InDelta(t, 1.0/3, events[1].Progress, 0.001)
	assert.Equal(t, 2, events[5].StepIndex)
	assert.Equal(t, 3, events[5].TotalSteps)

	// create + one checkpoint per step + final
	assert.Equal(t, 5, f.store.Saves())
	assert.Equal(t, 1, f.metrics.started)
	assert.Equal(t, 3, f.metrics.steps[true])
	assert.Equal(t, []constants.TaskStatus{constants.TaskStatusCompleted}, f.metrics.completed)
}

func TestEngine_ExecuteTask_PartialFailure(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	f.writer.fail["blog_post"] = errors.New("model overloaded\nretry later")

	task, err := f.engine.CreateTask(context.Background(), "Create a t-shirt design", CreateOptions{})
	require.NoError(t, err)

	got, err := f.engine.ExecuteTask(context.Background(), task, nil)
	require.NoError(t, err)

	assert.Equal(t, constants.TaskStatusCompleted, got.Status)
	assert.Equal(t, constants.StepStatusCompleted, got.Steps[0].Status)
	assert.Equal(t, constants.StepStatusFailed, got.Steps[1].Status)
	assert.Equal(t, constants.StepStatusCompleted, got.Steps[2].Status)

	_, issues, found := strings.Cut(got.FinalSummary, "### Issues\n")
	require.True(t, found)
	bullets := strings.Split(strings.TrimSpace(issues), "\n")
	require.Len(t, bullets, 1)
	assert.Equal(t, "- Write Blog Post: model overloaded", bullets[0])
}

func TestEngine_ExecuteTask_DependencyNotMet(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	f.designer.fail["generate_design"] = aperrors.ErrUpstream

	task, err := f.engine.CreateTask(context.Background(), "Create a t-shirt design", CreateOptions{})
	require.NoError(t, err)

	got, err := f.engine.ExecuteTask(context.Background(), task, nil)
	require.NoError(t, err)

	assert.Equal(t, constants.TaskStatusCompleted, got.Status)
	assert.Equal(t, constants.StepStatusFailed, got.Steps[2].Status)
	assert.Contains(t, got.Steps[2].Error, aperrors.ErrDependencyNotMet.Error())
	assert.Empty(t, f.publisher.Calls())
	assert.Equal(t, 2, f.metrics.steps[false])
}

func TestEngine_ExecuteTask_AllStepsFail(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	f.designer.fail["generate_design"] = aperrors.ErrConfiguration
	f.writer.fail["blog_post"] = aperrors.ErrConfiguration

	task, err := f.engine.CreateTask(context.Background(), "x", CreateOptions{})
	require.NoError(t, err)

	got, err := f.engine.ExecuteTask(context.Background(), task, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusFailed, got.Status)
	assert.Equal(t, 3, got.CountSteps(constants.StepStatusFailed))
}

func TestEngine_ExecuteTask_MissingExecutor(t *testing.T) {
	plan := domain.PlanResult{Steps: []domain.PlanStep{
		{StepIndex: 1, Name: "Upload", Agent: "video", Action: "create_video"},
		{StepIndex: 2, Name: "Write", Agent: "writer", Action: "blog_post"},
	}}
	f := newFixture(t, plan)

	task, err := f.engine.CreateTask(context.Background(), "x", CreateOptions{})
	require.NoError(t, err)

	got, err := f.engine.ExecuteTask(context.Background(), task, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, got.Status)
	assert.Contains(t, got.Steps[0].Error, aperrors.ErrExecutorNotFound.Error())
}

func TestEngine_ExecuteTask_AlreadyExecuted(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	task, err := f.engine.CreateTask(context.Background(), "x", CreateOptions{})
	require.NoError(t, err)

	_, err = f.engine.ExecuteTask(context.Background(), task, nil)
	require.NoError(t, err)

	_, err = f.engine.ExecuteTask(context.Background(), task, nil)
	require.ErrorIs(t, err, aperrors.ErrTaskAlreadyExecuted)
	assert.Len(t, f.designer.Calls(), 1)

	task.Reset()
	got, err := f.engine.ExecuteTask(context.Background(), task, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, got.Status)
	assert.Len(t, f.designer.Calls(), 2)
}

func TestEngine_ExecuteTask_Cancelled(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.designer.hook = func(*domain.Step) { cancel() }

	task, err := f.engine.CreateTask(ctx, "x", CreateOptions{})
	require.NoError(t, err)

	got, err := f.engine.ExecuteTask(ctx, task, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, constants.TaskStatusCancelled, got.Status)
	assert.Equal(t, constants.StepStatusCompleted, got.Steps[0].Status)
	assert.Equal(t, constants.StepStatusPending, got.Steps[1].Status)
	assert.Equal(t, constants.StepStatusPending, got.Steps[2].Status)
	assert.Empty(t, f.writer.Calls())

	stored, err := f.store.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCancelled, stored.Status)
}

func TestEngine_ExecuteTask_ExecutorPanic(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	f.writer.hook = func(*domain.Step) { panic("boom") }

	task, err := f.engine.CreateTask(context.Background(), "x", CreateOptions{})
	require.NoError(t, err)

	got, err := f.engine.ExecuteTask(context.Background(), task, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, got.Status)

	assert.Equal(t, constants.StepStatusCompleted, got.Steps[0].Status)
	assert.Equal(t, constants.StepStatusFailed, got.Steps[1].Status)
	assert.Contains(t, got.Steps[1].Error, "boom")
	assert.Contains(t, got.Steps[1].Error, aperrors.ErrUpstream.Error())
	require.NotNil(t, got.Steps[1].CompletedAt)
	assert.Equal(t, constants.StepStatusCompleted, got.Steps[2].Status)
	assert.Equal(t, []string{task.ID + ":publish_shopify"}, f.publisher.Calls())
	assert.Contains(t, got.FinalSummary, "### Issues")
}

func TestEngine_ExecuteTask_CallbackPanic(t *testing.T) {
	f := newFixture(t, threeStepPlan())

	task, err := f.engine.CreateTask(context.Background(), "x", CreateOptions{})
	require.NoError(t, err)

	got, err := f.engine.ExecuteTask(context.Background(), task, func(ProgressEvent) { panic("render") })
	require.ErrorIs(t, err, aperrors.ErrTaskFailed)
	assert.Equal(t, constants.TaskStatusFailed, got.Status)
	assert.Contains(t, got.Error, "render")
	require.NotNil(t, got.CompletedAt)
}

func TestEngine_ExecuteTask_TaskDependencies(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	first, err := f.engine.CreateTask(context.Background(), "first", CreateOptions{})
	require.NoError(t, err)
	second, err := f.engine.CreateTask(context.Background(), "second", CreateOptions{DependsOn: []string{first.ID}})
	require.NoError(t, err)

	_, err = f.engine.ExecuteTask(context.Background(), second, nil)
	require.ErrorIs(t, err, aperrors.ErrDependencyNotMet)
	assert.Equal(t, constants.TaskStatusReady, second.Status)

	_, err = f.engine.ExecuteTask(context.Background(), first, nil)
	require.NoError(t, err)
	_, err = f.engine.ExecuteTask(context.Background(), second, nil)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, second.Status)
}

func TestEngine_ExecuteTask_Nil(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	_, err := f.engine.ExecuteTask(context.Background(), nil, nil)
	require.ErrorIs(t, err, aperrors.ErrEmptyValue)
}

func TestEngine_Get(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	stored := &domain.Task{ID: "persisted1", Status: constants.TaskStatusCompleted}
	require.NoError(t, f.store.Save(context.Background(), stored))

	got, err := f.engine.Get(context.Background(), "persisted1")
	require.NoError(t, err)
	assert.Equal(t, "persisted1", got.ID)

	noStore := NewEngine(stubPlanner{}, executor.NewRegistry(), zerolog.Nop())
	_, err = noStore.Get(context.Background(), "missing")
	require.ErrorIs(t, err, aperrors.ErrTaskNotFound)
}

func TestEngine_Cancel(t *testing.T) {
	f := newFixture(t, threeStepPlan())
	task, err := f.engine.CreateTask(context.Background(), "x", CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, f.engine.Cancel(context.Background(), task))
	assert.Equal(t, constants.TaskStatusCancelled, task.Status)
	require.NotNil(t, task.CompletedAt)

	err = f.engine.Cancel(context.Background(), task)
	require.ErrorIs(t, err, aperrors.ErrInvalidTransition)

	_, err = f.engine.ExecuteTask(context.Background(), task, nil)
	require.ErrorIs(t, err, aperrors.ErrTaskAlreadyExecuted)
}
