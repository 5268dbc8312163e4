package service

import (
	"context"
	"errors"
	"time"

	"veloj/internal/auth"
	"veloj/internal/common/cache"
	"veloj/internal/common/mq"
	"veloj/internal/common/storage"
	problemrepo "veloj/internal/problem/repository"
	"veloj/internal/solution/model"
	"veloj/internal/solution/repository"
	errs "veloj/pkg/errors"
)

const (
	defaultTopicPrefix  = "judge-tasks-"
	defaultDispatchLock = 30 * time.Second
	dispatchLockPrefix  = "dispatch:solution:"
	defaultListPageSize = 20
	maxListPageSize     = 200
)

// Config carries the tunables of the solution service.
type Config struct {
	// Bucket is the object storage bucket holding payloads and snapshots.
	Bucket string

	// TopicPrefix prefixes the problem channel to form the queue topic.
	TopicPrefix string

	// DispatchLockTTL bounds how long a per-solution dispatch lock is held.
	DispatchLockTTL time.Duration
}

func (c *Config) applyDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = defaultTopicPrefix
	}
	if c.DispatchLockTTL <= 0 {
		c.DispatchLockTTL = defaultDispatchLock
	}
}

// Service implements solution reads, deletion and judging dispatch.
type Service struct {
	solutions repository.SolutionRepository
	problems  problemrepo.ProblemRepository
	tasks     repository.TaskRepository
	queue     mq.MessageQueue
	store     storage.ObjectStorage
	locker    cache.Cache
	config    Config
}

// NewService creates the solution service. locker may be nil, in which case
// concurrent rejudges of the same solution are not deduplicated.
func NewService(
	solutions repository.SolutionRepository,
	problems problemrepo.ProblemRepository,
	tasks repository.TaskRepository,
	queue mq.MessageQueue,
	store storage.ObjectStorage,
	locker cache.Cache,
	config Config,
) *Service {
	config.applyDefaults()
	return &Service{
		solutions: solutions,
		problems:  problems,
		tasks:     tasks,
		queue:     queue,
		store:     store,
		locker:    locker,
		config:    config,
	}
}

// Get returns a single solution within the caller's entry.
func (s *Service) Get(ctx context.Context, owner, id string) (*model.Solution, error) {
	if id == "" {
		return nil, errs.New(errs.RequiredFieldEmpty).WithDetail("field", "id")
	}
	solution, err := s.solutions.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, repository.ErrSolutionNotFound) {
			return nil, errs.New(errs.SolutionNotFound)
		}
		return nil, errs.Wrap(err, errs.DatabaseError)
	}
	return solution, nil
}

// Delete removes a solution. Only the creator or an admin may delete.
func (s *Service) Delete(ctx context.Context, identity auth.Identity, owner, id string) error {
	solution, err := s.Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if !identity.Admin && identity.User != solution.Creator {
		return errs.New(errs.AccessDenied)
	}

	if err := s.solutions.Delete(ctx, owner, id); err != nil {
		if errors.Is(err, repository.ErrSolutionNotFound) {
			return errs.New(errs.SolutionNotFound)
		}
		return errs.Wrap(err, errs.SolutionDeleteFailed)
	}
	if s.store != nil && solution.DataKey != "" {
		// Payload removal is best-effort; an orphaned object is harmless.
		_ = s.store.RemoveObject(ctx, s.config.Bucket, solution.DataKey)
	}
	return nil
}

// ListResult is one page of solutions plus the total match count.
type ListResult struct {
	Solutions []*model.Solution
	Total     int64
}

// List returns solutions in the caller's entry matching the query.
func (s *Service) List(ctx context.Context, owner string, query repository.ListQuery) (*ListResult, error) {
	if query.SortBy != "" {
		switch query.SortBy {
		case "id", "updated", "score":
		default:
			return nil, errs.New(errs.InvalidSortField).WithDetail("sortBy", query.SortBy)
		}
	}
	if query.Status != "" && !query.Status.Valid() {
		return nil, errs.New(errs.InvalidStatusFilter).WithDetail("status", string(query.Status))
	}
	if query.Limit <= 0 {
		query.Limit = defaultListPageSize
	}
	if query.Limit > maxListPageSize {
		query.Limit = maxListPageSize
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	solutions, total, err := s.solutions.List(ctx, owner, query)
	if err != nil {
		return nil, errs.Wrap(err, errs.DatabaseError)
	}
	return &ListResult{Solutions: solutions, Total: total}, nil
}
