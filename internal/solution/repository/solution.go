package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"veloj/internal/common/cache"
	"veloj/internal/common/db"
	"veloj/internal/solution/model"
)

const (
	defaultSolutionCacheTTL      = 30 * time.Minute
	defaultSolutionCacheEmptyTTL = 5 * time.Minute
	solutionCacheKeyPrefix       = "solution:"
)

var (
	ErrSolutionNotFound = errors.New("solution not found")
)

// SolutionRepository defines solution persistence interfaces.
type SolutionRepository interface {
	Create(ctx context.Context, solution *model.Solution) error
	FindByID(ctx context.Context, owner, id string) (*model.Solution, error)
	Save(ctx context.Context, solution *model.Solution) error
	Delete(ctx context.Context, owner, id string) error
	List(ctx context.Context, owner string, query ListQuery) ([]*model.Solution, int64, error)
}

// ListQuery describes filtering, sorting and pagination for solution lists.
type ListQuery struct {
	Problem  string
	Status   model.Status
	MinScore *int
	MaxScore *int
	Before   *time.Time
	After    *time.Time
	Creator  string

	SortBy     string // one of "id", "updated", "score"; empty = no explicit order
	Descending bool

	Offset int
	Limit  int
}

// allowedSortColumns guards ORDER BY against arbitrary input.
var allowedSortColumns = map[string]string{
	"id":      "id",
	"updated": "updated",
	"score":   "score",
}

// MySQLSolutionRepository implements SolutionRepository with MySQL.
type MySQLSolutionRepository struct {
	db       db.Provider
	cache    cache.Cache
	ttl      time.Duration
	emptyTTL time.Duration
}

// NewSolutionRepository creates a solution repository with default cache TTLs.
func NewSolutionRepository(provider db.Provider, cacheClient cache.Cache) *MySQLSolutionRepository {
	return NewSolutionRepositoryWithTTL(provider, cacheClient, defaultSolutionCacheTTL, defaultSolutionCacheEmptyTTL)
}

// NewSolutionRepositoryWithTTL creates a solution repository with custom TTLs.
func NewSolutionRepositoryWithTTL(provider db.Provider, cacheClient cache.Cache, ttl, emptyTTL time.Duration) *MySQLSolutionRepository {
	if ttl <= 0 {
		ttl = defaultSolutionCacheTTL
	}
	if emptyTTL <= 0 {
		emptyTTL = defaultSolutionCacheEmptyTTL
	}
	return &MySQLSolutionRepository{
		db:       provider,
		cache:    cacheClient,
		ttl:      ttl,
		emptyTTL: emptyTTL,
	}
}

const solutionColumns = "id, owner, problem, creator, status, score, details, data_key, created, updated"

// Create inserts a solution record.
func (r *MySQLSolutionRepository) Create(ctx context.Context, solution *model.Solution) error {
	if solution == nil {
		return errors.New("solution is nil")
	}
	if solution.ID == "" || solution.Owner == "" {
		return errors.New("solution id and owner are required")
	}
	database, err := db.CurrentDatabase(r.db)
	if err != nil {
		return err
	}

	details, err := marshalDetails(solution.Details)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO solutions
		(id, owner, problem, creator, status, score, details, data_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = database.Exec(
		ctx,
		query,
		solution.ID,
		solution.Owner,
		solution.Problem,
		solution.Creator,
		string(solution.Status),
		solution.Score,
		details,
		solution.DataKey,
	)
	if err != nil {
		return err
	}
	if r.cache != nil {
		_ = r.cache.Del(ctx, solutionCacheKey(solution.Owner, solution.ID))
	}
	return nil
}

// FindByID retrieves a solution by owner and id.
func (r *MySQLSolutionRepository) FindByID(ctx context.Context, owner, id string) (*model.Solution, error) {
	if owner == "" || id == "" {
		return nil, errors.New("owner and id are required")
	}
	if r.cache == nil {
		return r.findByIDFromDB(ctx, owner, id)
	}

	solution, err := cache.GetWithCached[*model.Solution](
		ctx,
		r.cache,
		solutionCacheKey(owner, id),
		cache.JitterTTL(r.ttl),
		cache.JitterTTL(r.emptyTTL),
		func(solution *model.Solution) bool { return solution == nil },
		marshalSolution,
		unmarshalSolution,
		func(ctx context.Context) (*model.Solution, error) {
			solution, err := r.findByIDFromDB(ctx, owner, id)
			if err != nil {
				if errors.Is(err, ErrSolutionNotFound) {
					return nil, nil
				}
				return nil, err
			}
			return solution, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if solution == nil {
		return nil, ErrSolutionNotFound
	}
	return solution, nil
}

func (r *MySQLSolutionRepository) findByIDFromDB(ctx context.Context, owner, id string) (*model.Solution, error) {
	database, err := db.CurrentDatabase(r.db)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + solutionColumns + " FROM solutions WHERE owner = ? AND id = ?"
	row := database.QueryRow(ctx, query, owner, id)
	solution, err := scanSolution(row)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrSolutionNotFound
		}
		return nil, err
	}
	return solution, nil
}

// Save persists the mutable fields of a solution and bumps its updated time.
func (r *MySQLSolutionRepository) Save(ctx context.Context, solution *model.Solution) error {
	if solution == nil {
		return errors.New("solution is nil")
	}
	if solution.ID == "" || solution.Owner == "" {
		return errors.New("solution id and owner are required")
	}
	database, err := db.CurrentDatabase(r.db)
	if err != nil {
		return err
	}
	details, err := marshalDetails(solution.Details)
	if err != nil {
		return err
	}

	save := func(ctx context.Context) error {
		query := `
			UPDATE solutions
			SET status = ?, score = ?, details = ?, updated = CURRENT_TIMESTAMP
			WHERE owner = ? AND id = ?
		`
		result, err := database.Exec(
			ctx,
			query,
			string(solution.Status),
			solution.Score,
			details,
			solution.Owner,
			solution.ID,
		)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSolutionNotFound
		}
		return nil
	}

	if r.cache == nil {
		return save(ctx)
	}
	return cache.UpdateCached(ctx, r.cache, solutionCacheKey(solution.Owner, solution.ID), save)
}

// Delete removes a solution by owner and id.
func (r *MySQLSolutionRepository) Delete(ctx context.Context, owner, id string) error {
	if owner == "" || id == "" {
		return errors.New("owner and id are required")
	}
	database, err := db.CurrentDatabase(r.db)
	if err != nil {
		return err
	}

	remove := func(ctx context.Context) error {
		result, err := database.Exec(ctx, "DELETE FROM solutions WHERE owner = ? AND id = ?", owner, id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSolutionNotFound
		}
		return nil
	}

	if r.cache == nil {
		return remove(ctx)
	}
	return cache.DeleteCached(ctx, r.cache, solutionCacheKey(owner, id), remove)
}

// List returns solutions matching the query plus the total match count.
func (r *MySQLSolutionRepository) List(ctx context.Context, owner string, query ListQuery) ([]*model.Solution, int64, error) {
	if owner == "" {
		return nil, 0, errors.New("owner is required")
	}
	database, err := db.CurrentDatabase(r.db)
	if err != nil {
		return nil, 0, err
	}

	where, args, err := BuildListFilter(owner, query)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countRow := database.QueryRow(ctx, "SELECT COUNT(*) FROM solutions "+where, args...)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, err
	}

	selectQuery, selectArgs, err := BuildListSelect(owner, query)
	if err != nil {
		return nil, 0, err
	}
	rows, err := database.Query(ctx, selectQuery, selectArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = rows.Close()
	}()

	solutions := make([]*model.Solution, 0)
	for rows.Next() {
		solution, err := scanSolution(rows)
		if err != nil {
			return nil, 0, err
		}
		solutions = append(solutions, solution)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return solutions, total, nil
}

// BuildListFilter renders the WHERE clause for a list query. Exported for
// direct testing.
func BuildListFilter(owner string, query ListQuery) (string, []interface{}, error) {
	where := "WHERE owner = ?"
	args := []interface{}{owner}

	if query.Problem != "" {
		where += " AND problem = ?"
		args = append(args, query.Problem)
	}
	if query.Status != "" {
		if !query.Status.Valid() {
			return "", nil, fmt.Errorf("invalid status filter %q", query.Status)
		}
		where += " AND status = ?"
		args = append(args, string(query.Status))
	}
	if query.MaxScore != nil {
		where += " AND score <= ?"
		args = append(args, *query.MaxScore)
	}
	if query.MinScore != nil {
		where += " AND score >= ?"
		args = append(args, *query.MinScore)
	}
	if query.Before != nil {
		where += " AND updated <= ?"
		args = append(args, *query.Before)
	}
	if query.After != nil {
		where += " AND updated >= ?"
		args = append(args, *query.After)
	}
	if query.Creator != "" {
		where += " AND creator = ?"
		args = append(args, query.Creator)
	}
	return where, args, nil
}

// BuildListSelect renders the full SELECT for a list query. Exported for
// direct testing.
func BuildListSelect(owner string, query ListQuery) (string, []interface{}, error) {
	where, args, err := BuildListFilter(owner, query)
	if err != nil {
		return "", nil, err
	}

	sql := "SELECT " + solutionColumns + " FROM solutions " + where
	if query.SortBy != "" {
		column, ok := allowedSortColumns[query.SortBy]
		if !ok {
			return "", nil, fmt.Errorf("invalid sort field %q", query.SortBy)
		}
		sql += " ORDER BY " + column
		if query.Descending {
			sql += " DESC"
		}
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}
	sql += " LIMIT ? OFFSET ?"
	args = append(args, limit, query.Offset)
	return sql, args, nil
}

func solutionCacheKey(owner, id string) string {
	return solutionCacheKeyPrefix + owner + ":" + id
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSolution(row scanner) (*model.Solution, error) {
	var (
		solution model.Solution
		status   string
		details  sql.NullString
	)
	err := row.Scan(
		&solution.ID,
		&solution.Owner,
		&solution.Problem,
		&solution.Creator,
		&status,
		&solution.Score,
		&details,
		&solution.DataKey,
		&solution.Created,
		&solution.Updated,
	)
	if err != nil {
		return nil, err
	}
	solution.Status = model.Status(status)
	if details.Valid && details.String != "" {
		if err := json.Unmarshal([]byte(details.String), &solution.Details); err != nil {
			return nil, fmt.Errorf("decode solution details failed: %w", err)
		}
	}
	return &solution, nil
}

func marshalDetails(details model.Details) (interface{}, error) {
	if details == nil {
		return nil, nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode solution details failed: %w", err)
	}
	return string(data), nil
}

func marshalSolution(solution *model.Solution) string {
	data, err := json.Marshal(solution)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalSolution(data string) (*model.Solution, error) {
	var solution model.Solution
	if err := json.Unmarshal([]byte(data), &solution); err != nil {
		return nil, err
	}
	return &solution, nil
}
