package tasks

import "github.com/hibiken/asynq"

// TaskEnqueuer is the slice of asynq.Client the task handlers depend on.
// Tests substitute a mock to observe what gets queued.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
