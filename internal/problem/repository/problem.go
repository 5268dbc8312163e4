package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"veloj/internal/common/cache"
	"veloj/internal/common/db"
	"veloj/internal/solution/model"
)

const (
	defaultProblemCacheTTL      = 30 * time.Minute
	defaultProblemCacheEmptyTTL = 5 * time.Minute
	problemCacheKeyPrefix       = "problem:"
)

var (
	ErrProblemNotFound = errors.New("problem not found")
)

// ProblemRepository reads problem records needed for task dispatch.
type ProblemRepository interface {
	FindByID(ctx context.Context, owner, id string) (*model.Problem, error)
}

// MySQLProblemRepository implements ProblemRepository with MySQL.
type MySQLProblemRepository struct {
	db       db.Provider
	cache    cache.Cache
	ttl      time.Duration
	emptyTTL time.Duration
}

// NewProblemRepository creates a problem repository with default cache TTLs.
func NewProblemRepository(provider db.Provider, cacheClient cache.Cache) *MySQLProblemRepository {
	return &MySQLProblemRepository{
		db:       provider,
		cache:    cacheClient,
		ttl:      defaultProblemCacheTTL,
		emptyTTL: defaultProblemCacheEmptyTTL,
	}
}

// FindByID retrieves a problem by owner and id.
func (r *MySQLProblemRepository) FindByID(ctx context.Context, owner, id string) (*model.Problem, error) {
	if owner == "" || id == "" {
		return nil, errors.New("owner and id are required")
	}
	if r.cache == nil {
		return r.findByIDFromDB(ctx, owner, id)
	}

	problem, err := cache.GetWithCached[*model.Problem](
		ctx,
		r.cache,
		problemCacheKey(owner, id),
		cache.JitterTTL(r.ttl),
		cache.JitterTTL(r.emptyTTL),
		func(problem *model.Problem) bool { return problem == nil },
		marshalProblem,
		unmarshalProblem,
		func(ctx context.Context) (*model.Problem, error) {
			problem, err := r.findByIDFromDB(ctx, owner, id)
			if err != nil {
				if errors.Is(err, ErrProblemNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return problem, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, ErrProblemNotFound
	}
	return problem, nil
}

func (r *MySQLProblemRepository) findByIDFromDB(ctx context.Context, owner, id string) (*model.Problem, error) {
	database, err := db.CurrentDatabase(r.db)
	if err != nil {
		return nil, err
	}
	query := "SELECT id, owner, channel, data_key, updated FROM problems WHERE owner = ? AND id = ?"
	row := database.QueryRow(ctx, query, owner, id)

	var (
		problem model.Problem
		channel sql.NullString
		dataKey sql.NullString
	)
	err = row.Scan(&problem.ID, &problem.Owner, &channel, &dataKey, &problem.Updated)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrProblemNotFound
		}
		return nil, err
	}
	problem.Channel = channel.String
	problem.DataKey = dataKey.String
	return &problem, nil
}

func problemCacheKey(owner, id string) string {
	return problemCacheKeyPrefix + owner + ":" + id
}

func marshalProblem(problem *model.Problem) string {
	data, err := json.Marshal(problem)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalProblem(data string) (*model.Problem, error) {
	var problem model.Problem
	if err := json.Unmarshal([]byte(data), &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}
