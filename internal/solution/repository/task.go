package repository

import (
	"context"
	"errors"

	"veloj/internal/common/db"
	"veloj/internal/solution/model"
)

// TaskRepository persists judging tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
}

// MySQLTaskRepository implements TaskRepository with MySQL.
type MySQLTaskRepository struct {
	db db.Provider
}

// NewTaskRepository creates a task repository.
func NewTaskRepository(provider db.Provider) *MySQLTaskRepository {
	return &MySQLTaskRepository{db: provider}
}

// Create inserts a task record.
func (r *MySQLTaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task == nil {
		return errors.New("task is nil")
	}
	if task.ID == "" || task.ObjectID == "" || task.Channel == "" {
		return errors.New("task id, object id and channel are required")
	}
	database, err := db.CurrentDatabase(r.db)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks
		(id, object_id, owner, creator, channel, priority, problem_key, solution_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = database.Exec(
		ctx,
		query,
		task.ID,
		task.ObjectID,
		task.Owner,
		task.Creator,
		task.Channel,
		task.Priority,
		task.ProblemKey,
		task.SolutionKey,
	)
	return err
}
