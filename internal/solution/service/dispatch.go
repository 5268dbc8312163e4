package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"veloj/internal/auth"
	"veloj/internal/common/mq"
	problemrepo "veloj/internal/problem/repository"
	"veloj/internal/solution/model"
	"veloj/internal/solution/repository"
	errs "veloj/pkg/errors"
	"veloj/pkg/utils/logger"
)

// Rejudge converts a stored solution into a queued judging task.
//
// Validation runs before any mutation: the solution must exist, the caller
// must be its creator or an admin, and the referenced problem must exist and
// carry a judging channel. Any of those failing returns an error and leaves
// the solution untouched.
//
// Once validation passes the solution WILL change state, exactly once:
//   - dispatch succeeded: status waiting_judge, score 0, details cleared,
//     and a task is queued on the problem's channel with priority 1;
//   - dispatch failed (snapshot, task insert or publish): status
//     judgement_failed, score 0, details carrying the cause — and the call
//     still returns nil, because the outcome is recorded on the solution.
//
// A dispatch failure can leave partial artifacts behind (snapshot objects,
// a task row without a queue message). Workers treat tasks whose solution
// is not in waiting_judge as no-ops, so the artifacts are inert.
func (s *Service) Rejudge(ctx context.Context, identity auth.Identity, owner, id string) error {
	if id == "" {
		return errs.New(errs.RequiredFieldEmpty).WithDetail("field", "id")
	}

	solution, err := s.solutions.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, repository.ErrSolutionNotFound) {
			return errs.New(errs.SolutionNotFound)
		}
		return errs.Wrap(err, errs.DatabaseError)
	}

	if !identity.Admin && identity.User != solution.Creator {
		return errs.New(errs.AccessDenied)
	}

	problem, err := s.problems.FindByID(ctx, owner, solution.Problem)
	if err != nil {
		if errors.Is(err, problemrepo.ErrProblemNotFound) {
			return errs.New(errs.ProblemNotFound).WithDetail("problem", solution.Problem)
		}
		return errs.Wrap(err, errs.DatabaseError)
	}
	if !problem.Dispatchable() {
		return errs.New(errs.ProblemNoChannel).WithDetail("problem", problem.ID)
	}

	if s.locker != nil {
		acquired, err := s.locker.TryLock(ctx, dispatchLockKey(owner, id), s.config.DispatchLockTTL)
		if err != nil {
			// Lock service down: proceed without dedup rather than
			// refusing the rejudge.
			logger.Warn(ctx, "dispatch lock unavailable",
				zap.String("solution", id), zap.Error(err))
		} else if !acquired {
			return errs.New(errs.DispatchConflict).WithDetail("solution", id)
		} else {
			defer func() {
				_ = s.locker.Unlock(ctx, dispatchLockKey(owner, id))
			}()
		}
	}

	solution.MarkWaitingJudge()

	task, dispatchErr := s.dispatch(ctx, identity, problem, solution)
	if dispatchErr != nil {
		logger.Error(ctx, "task dispatch failed",
			zap.String("solution", solution.ID),
			zap.String("problem", problem.ID),
			zap.String("channel", problem.Channel),
			zap.Error(dispatchErr))
		solution.MarkJudgementFailed(dispatchErr.Error())
	} else {
		logger.Info(ctx, "task dispatched",
			zap.String("solution", solution.ID),
			zap.String("task", task.ID),
			zap.String("channel", task.Channel))
	}

	if err := s.solutions.Save(ctx, solution); err != nil {
		if errors.Is(err, repository.ErrSolutionNotFound) {
			return errs.New(errs.SolutionNotFound)
		}
		return errs.Wrap(err, errs.DatabaseError)
	}
	return nil
}

// dispatch snapshots the payloads, records the task and publishes it. Any
// step failing aborts the rest; the caller rolls the solution state.
func (s *Service) dispatch(ctx context.Context, identity auth.Identity, problem *model.Problem, solution *model.Solution) (*model.Task, error) {
	task := &model.Task{
		ID:       uuid.NewString(),
		ObjectID: solution.ID,
		Owner:    solution.Owner,
		Creator:  identity.User,
		Channel:  problem.Channel,
		Priority: model.DefaultTaskPriority,
		Created:  time.Now(),
	}

	problemKey, err := s.snapshot(ctx, task.ID, "problem", problem.DataKey)
	if err != nil {
		return nil, fmt.Errorf("snapshot problem payload: %w", err)
	}
	solutionKey, err := s.snapshot(ctx, task.ID, "solution", solution.DataKey)
	if err != nil {
		return nil, fmt.Errorf("snapshot solution payload: %w", err)
	}
	task.ProblemKey = problemKey
	task.SolutionKey = solutionKey

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("record task: %w", err)
	}

	body, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}
	message := mq.NewMessage(body)
	message.ID = task.ID
	message.Priority = uint8(task.Priority)
	message.SetHeader("x-entry", task.Owner)

	if err := s.queue.Publish(ctx, s.config.TopicPrefix+task.Channel, message); err != nil {
		return nil, fmt.Errorf("publish task: %w", err)
	}
	return task, nil
}

// snapshot freezes a payload into the task's snapshot prefix so later edits
// to the source object cannot reach a queued task.
func (s *Service) snapshot(ctx context.Context, taskID, kind, srcKey string) (string, error) {
	if srcKey == "" {
		return "", fmt.Errorf("%s payload missing", kind)
	}
	dstKey := fmt.Sprintf("tasks/%s/%s", taskID, kind)
	if err := s.store.CopyObject(ctx, s.config.Bucket, srcKey, s.config.Bucket, dstKey); err != nil {
		return "", err
	}
	return dstKey, nil
}

func dispatchLockKey(owner, id string) string {
	return dispatchLockPrefix + owner + ":" + id
}
