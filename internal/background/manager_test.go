package background

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swcommons/internal/config"
	"swcommons/internal/logging"
	"swcommons/pkg/models"
)

type exportFunc func(ctx context.Context, c models.Collection) (*models.ExportCompletionData, error)

func (f exportFunc) Export(ctx context.Context, c models.Collection) (*models.ExportCompletionData, error) {
	return f(ctx, c)
}

func newManager(t *testing.T, exp Exporter) *TaskManagerImpl {
	t.Helper()
	cfg := config.Default()
	cfg.Background.MaxWorkers = 2
	cfg.Background.MaxQueueSize = 4

	tm := NewTaskManager(cfg, exp)
	tm.logger.out = io.Discard
	tm.logger.logger = logging.Discard()
	tm.appLogger = logging.Discard()
	require.NoError(t, tm.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		tm.Stop(ctx)
	})
	return tm
}

func waitFor(t *testing.T, tm *TaskManagerImpl, processID string) *TaskResult {
	t.Helper()
	var result *TaskResult
	require.Eventually(t, func() bool {
		r, err := tm.GetTaskResult(context.Background(), processID)
		if err != nil {
			return false
		}
		result = r
		return r.Status == TaskStatusSuccess || r.Status == TaskStatusFailure
	}, 2*time.Second, 10*time.Millisecond)
	return result
}

func TestExportTaskSuccess(t *testing.T) {
	tm := newManager(t, exportFunc(func(_ context.Context, c models.Collection) (*models.ExportCompletionData, error) {
		return &models.ExportCompletionData{Collection: c, StorageID: "s1", FileName: "jobs.xlsx", Rows: 3}, nil
	}))

	require.NoError(t, tm.SubmitExportTask(context.Background(), "p1", models.Jobs))

	result := waitFor(t, tm, "p1")
	assert.Equal(t, TaskStatusSuccess, result.Status)
	require.NotNil(t, result.Data)
	assert.Equal(t, 3, result.Data.Rows)
	assert.Equal(t, "jobs", result.Metadata["collection"])
	assert.NotNil(t, result.CompletedAt)

	resp := result.StatusResponse()
	assert.Equal(t, models.AsyncStatusSuccess, resp.Status)
}

func TestExportTaskFailure(t *testing.T) {
	tm := newManager(t, exportFunc(func(context.Context, models.Collection) (*models.ExportCompletionData, error) {
		return nil, errors.New("storage offline")
	}))

	require.NoError(t, tm.SubmitExportTask(context.Background(), "p2", models.Events))

	result := waitFor(t, tm, "p2")
	assert.Equal(t, TaskStatusFailure, result.Status)
	assert.Equal(t, "storage offline", result.Error)
	assert.Nil(t, result.Data)
}

func TestExportTaskPanic(t *testing.T) {
	tm := newManager(t, exportFunc(func(context.Context, models.Collection) (*models.ExportCompletionData, error) {
		panic("boom")
	}))

	require.NoError(t, tm.SubmitExportTask(context.Background(), "p3", models.Events))
	result := waitFor(t, tm, "p3")
	assert.Equal(t, TaskStatusFailure, result.Status)
	assert.Contains(t, result.Error, "boom")
	assert.True(t, tm.IsHealthy())
}

func TestSubmitWhenStopped(t *testing.T) {
	tm := newManager(t, exportFunc(func(context.Context, models.Collection) (*models.ExportCompletionData, error) {
		return &models.ExportCompletionData{}, nil
	}))
	require.NoError(t, tm.Stop(context.Background()))

	err := tm.SubmitExportTask(context.Background(), "p4", models.Jobs)
	assert.ErrorIs(t, err, ErrNotRunning)

	_, err = tm.GetTaskResult(context.Background(), "p4")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestInMemoryTaskStoreCleanup(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryTaskStore()
	require.NoError(t, s.Store(ctx, &TaskResult{ProcessID: "old", CreatedAt: time.Now().Add(-2 * time.Hour)}))
	require.NoError(t, s.Store(ctx, &TaskResult{ProcessID: "new", CreatedAt: time.Now()}))

	require.NoError(t, s.Cleanup(ctx, time.Hour))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new", all[0].ProcessID)

	assert.ErrorIs(t, s.Update(ctx, &TaskResult{ProcessID: "old"}), ErrTaskNotFound)
}
