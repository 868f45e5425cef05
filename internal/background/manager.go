package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"swcommons/internal/config"
	"swcommons/internal/logging"
	"swcommons/internal/logging/types"
	"swcommons/pkg/models"
)

// Task manager configuration constants
const (
	DefaultMaxWorkers   = 4
	DefaultMaxQueueSize = 64

	MinWorkers   = 1
	MinQueueSize = 1

	MaxWorkers   = 256
	MaxQueueSize = 10000
)

// Exporter renders one collection into a stored file
type Exporter interface {
	Export(ctx context.Context, c models.Collection) (*models.ExportCompletionData, error)
}

// TaskManager defines the interface for managing background tasks
type TaskManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// SubmitExportTask queues an export of collection c under processID
	SubmitExportTask(ctx context.Context, processID string, c models.Collection) error

	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)
	GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error)
	ListTasks(ctx context.Context) ([]*TaskResult, error)
	IsHealthy() bool
}

// TaskManagerImpl implements the TaskManager interface
type TaskManagerImpl struct {
	config          *config.Config
	store           TaskStore
	exporter        Exporter
	logger          *TaskCompletionLogger
	appLogger       types.Logger
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	mu              sync.RWMutex
	running         bool
	taskChan        chan *TaskExecution
	maxWorkers      int
	maxQueueSize    int
	taskTimeout     time.Duration
	cleanupInterval time.Duration
	maxTaskAge      time.Duration
}

// TaskExecution represents a task execution context
type TaskExecution struct {
	ProcessID   string
	Type        TaskType
	Context     context.Context
	Cancel      context.CancelFunc
	ExecuteFunc func(context.Context) (*models.ExportCompletionData, error)
}

// validateTaskManagerConfig validates and returns safe configuration values
func validateTaskManagerConfig(cfg *config.Config) (maxWorkers, maxQueueSize int, err error) {
	maxWorkers = cfg.Background.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	} else if maxWorkers < MinWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) is below minimum (%d)", maxWorkers, MinWorkers)
	} else if maxWorkers > MaxWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) exceeds maximum (%d)", maxWorkers, MaxWorkers)
	}

	maxQueueSize = cfg.Background.MaxQueueSize
	if maxQueueSize <= 0 {
		maxQueueSize = DefaultMaxQueueSize
	} else if maxQueueSize < MinQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) is below minimum (%d)", maxQueueSize, MinQueueSize)
	} else if maxQueueSize > MaxQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) exceeds maximum (%d)", maxQueueSize, MaxQueueSize)
	}

	return maxWorkers, maxQueueSize, nil
}

// NewTaskManager creates a new task manager running exports through exporter
func NewTaskManager(cfg *config.Config, exporter Exporter) *TaskManagerImpl {
	logger := logging.GetGlobalLogger()

	maxWorkers, maxQueueSize, err := validateTaskManagerConfig(cfg)
	if err != nil {
		logger.Warn("Task manager configuration validation failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		maxWorkers = DefaultMaxWorkers
		maxQueueSize = DefaultMaxQueueSize
	}

	logger.Info("Task manager configuration initialized", map[string]interface{}{
		"max_workers":    maxWorkers,
		"max_queue_size": maxQueueSize,
		"using_defaults": err != nil,
	})

	return &TaskManagerImpl{
		config:          cfg,
		store:           NewInMemoryTaskStore(),
		exporter:        exporter,
		logger:          NewTaskCompletionLogger(),
		appLogger:       logger,
		maxWorkers:      maxWorkers,
		maxQueueSize:    maxQueueSize,
		taskTimeout:     positive(cfg.Background.TaskTimeout, 2*time.Minute),
		cleanupInterval: positive(cfg.Background.CleanupInterval, time.Hour),
		maxTaskAge:      positive(cfg.Background.MaxTaskAge, 24*time.Hour),
		taskChan:        make(chan *TaskExecution, maxQueueSize),
	}
}

func positive(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Start starts the task manager
func (tm *TaskManagerImpl) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.running = true

	for i := 0; i < tm.maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	tm.wg.Add(1)
	go tm.cleanupRoutine()

	tm.appLogger.Info("Task manager started", map[string]interface{}{
		"max_workers": tm.maxWorkers,
	})
	return nil
}

// Stop stops the task manager gracefully
func (tm *TaskManagerImpl) Stop(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.running {
		return nil
	}

	tm.appLogger.Info("Stopping task manager...", map[string]interface{}{})
	tm.cancel()

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		tm.appLogger.Info("Task manager stopped gracefully", map[string]interface{}{})
	case <-ctx.Done():
		tm.appLogger.Warn("Task manager shutdown timed out", map[string]interface{}{})
	}

	tm.running = false
	return nil
}

// SubmitExportTask submits an export task for background processing
func (tm *TaskManagerImpl) SubmitExportTask(ctx context.Context, processID string, c models.Collection) error {
	return tm.submit(ctx, processID, TaskTypeExport, map[string]interface{}{"collection": string(c)},
		func(execCtx context.Context) (*models.ExportCompletionData, error) {
			return tm.exporter.Export(execCtx, c)
		})
}

func (tm *TaskManagerImpl) submit(ctx context.Context, processID string, taskType TaskType, metadata map[string]interface{}, fn func(context.Context) (*models.ExportCompletionData, error)) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	if !tm.running || tm.ctx.Err() != nil {
		return ErrNotRunning
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      taskType,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}
	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	taskCtx, cancelFunc := context.WithTimeout(tm.ctx, tm.taskTimeout)
	execution := &TaskExecution{
		ProcessID:   processID,
		Type:        taskType,
		Context:     taskCtx,
		Cancel:      cancelFunc,
		ExecuteFunc: fn,
	}

	select {
	case tm.taskChan <- execution:
		tm.logger.LogTaskAccepted(processID, taskType)
		return nil
	case <-ctx.Done():
		cancelFunc()
		_ = tm.store.Delete(context.Background(), processID)
		return ctx.Err()
	default:
		cancelFunc()
		_ = tm.store.Delete(context.Background(), processID)
		return ErrQueueFull
	}
}

// GetTaskResult retrieves the result of a task by process ID
func (tm *TaskManagerImpl) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// GetTaskStatus retrieves the status of a task by process ID
func (tm *TaskManagerImpl) GetTaskStatus(ctx context.Context, processID string) (TaskStatus, error) {
	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

// ListTasks lists all tracked tasks
func (tm *TaskManagerImpl) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return tm.store.List(ctx)
}

// IsHealthy checks if the task manager is healthy
func (tm *TaskManagerImpl) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx.Err() == nil
}

// worker processes tasks from the task channel
func (tm *TaskManagerImpl) worker(workerID int) {
	defer tm.wg.Done()

	for {
		select {
		case <-tm.ctx.Done():
			tm.drain()
			return
		case task := <-tm.taskChan:
			tm.processTask(workerID, task)
		}
	}
}

// drain fails whatever is still queued at shutdown
func (tm *TaskManagerImpl) drain() {
	for {
		select {
		case task := <-tm.taskChan:
			tm.finish(task, nil, fmt.Errorf("task manager stopped before the task ran"), 0)
		default:
			return
		}
	}
}

// processTask processes a single task
func (tm *TaskManagerImpl) processTask(workerID int, task *TaskExecution) {
	startTime := time.Now()

	tm.appLogger.Info("Processing task", map[string]interface{}{
		"worker_id":  workerID,
		"process_id": task.ProcessID,
		"task_type":  task.Type,
	})

	if err := tm.updateTaskStatus(task.ProcessID, TaskStatusProcessing); err != nil {
		tm.appLogger.Error("Failed to update task status to processing", map[string]interface{}{
			"error": err.Error(),
		})
	}
	tm.logger.LogTaskStart(task.ProcessID, task.Type)

	data, err := tm.execute(task)
	tm.finish(task, data, err, time.Since(startTime))
}

// execute runs the task function, converting a panic into a task failure
func (tm *TaskManagerImpl) execute(task *TaskExecution) (data *models.ExportCompletionData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.ExecuteFunc(task.Context)
}

func (tm *TaskManagerImpl) finish(task *TaskExecution, data *models.ExportCompletionData, err error, processingTime time.Duration) {
	defer func() {
		if task.Cancel != nil {
			task.Cancel()
		}
	}()

	result, getErr := tm.store.Get(context.Background(), task.ProcessID)
	if getErr != nil {
		tm.appLogger.Error("Failed to retrieve task result", map[string]interface{}{
			"process_id": task.ProcessID,
			"error":      getErr.Error(),
		})
		return
	}

	result.ProcessingTime = &processingTime
	completedAt := time.Now()
	result.CompletedAt = &completedAt

	if err != nil {
		result.Status = TaskStatusFailure
		result.Error = err.Error()
		tm.logger.LogTaskError(task.ProcessID, task.Type, err)
	} else {
		result.Status = TaskStatusSuccess
		result.Data = data
		tm.logger.LogTaskSuccess(task.ProcessID, task.Type, processingTime)
	}

	if err := tm.store.Update(context.Background(), result); err != nil {
		tm.appLogger.Error("Failed to store task result", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := tm.logger.LogTaskCompletion(result); err != nil {
		tm.appLogger.Error("Failed to log task completion", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// updateTaskStatus updates the status of a task
func (tm *TaskManagerImpl) updateTaskStatus(processID string, status TaskStatus) error {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return err
	}
	result.Status = status
	return tm.store.Update(context.Background(), result)
}

// cleanupRoutine periodically cleans up old task results
func (tm *TaskManagerImpl) cleanupRoutine() {
	defer tm.wg.Done()

	ticker := time.NewTicker(tm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			if err := tm.store.Cleanup(context.Background(), tm.maxTaskAge); err != nil {
				tm.appLogger.Error("Failed to cleanup old task results", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
