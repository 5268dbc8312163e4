package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"veloj/internal/auth"
	"veloj/internal/common/mq"
	"veloj/internal/common/storage"
	problemrepo "veloj/internal/problem/repository"
	"veloj/internal/solution/model"
	"veloj/internal/solution/repository"
	"veloj/internal/solution/service"
	errs "veloj/pkg/errors"
)

const testSecret = "test-secret"

type memSolutionRepo struct {
	solutions map[string]*model.Solution
}

func (m *memSolutionRepo) key(owner, id string) string { return owner + "/" + id }

func (m *memSolutionRepo) Create(ctx context.Context, solution *model.Solution) error {
	copied := *solution
	m.solutions[m.key(solution.Owner, solution.ID)] = &copied
	return nil
}

func (m *memSolutionRepo) FindByID(ctx context.Context, owner, id string) (*model.Solution, error) {
	stored, ok := m.solutions[m.key(owner, id)]
	if !ok {
		return nil, repository.ErrSolutionNotFound
	}
	copied := *stored
	return &copied, nil
}

func (m *memSolutionRepo) Save(ctx context.Context, solution *model.Solution) error {
	if _, ok := m.solutions[m.key(solution.Owner, solution.ID)]; !ok {
		return repository.ErrSolutionNotFound
	}
	copied := *solution
	m.solutions[m.key(solution.Owner, solution.ID)] = &copied
	return nil
}

func (m *memSolutionRepo) Delete(ctx context.Context, owner, id string) error {
	if _, ok := m.solutions[m.key(owner, id)]; !ok {
		return repository.ErrSolutionNotFound
	}
	delete(m.solutions, m.key(owner, id))
	return nil
}

func (m *memSolutionRepo) List(ctx context.Context, owner string, query repository.ListQuery) ([]*model.Solution, int64, error) {
	result := make([]*model.Solution, 0)
	for _, s := range m.solutions {
		if s.Owner == owner {
			copied := *s
			result = append(result, &copied)
		}
	}
	return result, int64(len(result)), nil
}

type memProblemRepo struct {
	problems map[string]*model.Problem
}

func (m *memProblemRepo) FindByID(ctx context.Context, owner, id string) (*model.Problem, error) {
	stored, ok := m.problems[owner+"/"+id]
	if !ok {
		return nil, problemrepo.ErrProblemNotFound
	}
	copied := *stored
	return &copied, nil
}

type memTaskRepo struct {
	created []*model.Task
}

func (m *memTaskRepo) Create(ctx context.Context, task *model.Task) error {
	copied := *task
	m.created = append(m.created, &copied)
	return nil
}

type memQueue struct {
	topics []string
}

func (m *memQueue) Publish(ctx context.Context, topic string, message *mq.Message) error {
	m.topics = append(m.topics, topic)
	return nil
}

func (m *memQueue) PublishBatch(ctx context.Context, topic string, messages []*mq.Message) error {
	return nil
}

func (m *memQueue) Ping(ctx context.Context) error { return nil }

func (m *memQueue) Close() error { return nil }

type memStore struct{}

func (memStore) GetObject(ctx context.Context, bucket, objectKey string) (storage.ObjectReader, error) {
	return nil, nil
}

func (memStore) PutObject(ctx context.Context, bucket, objectKey string, reader storage.ObjectReader, sizeBytes int64, contentType string) error {
	return nil
}

func (memStore) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	return nil
}

func (memStore) RemoveObject(ctx context.Context, bucket, objectKey string) error { return nil }

func (memStore) StatObject(ctx context.Context, bucket, objectKey string) (storage.ObjectStat, error) {
	return storage.ObjectStat{}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memSolutionRepo, *memQueue) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	solutions := &memSolutionRepo{solutions: map[string]*model.Solution{
		"entry-a/sol-1": {
			ID:      "sol-1",
			Owner:   "entry-a",
			Problem: "prob-1",
			Creator: "alice",
			Status:  model.StatusJudged,
			Score:   80,
			DataKey: "solutions/sol-1/code",
		},
	}}
	problems := &memProblemRepo{problems: map[string]*model.Problem{
		"entry-a/prob-1": {
			ID:      "prob-1",
			Owner:   "entry-a",
			Channel: "cpp",
			DataKey: "problems/prob-1/data",
		},
	}}
	queue := &memQueue{}

	svc := service.NewService(solutions, problems, &memTaskRepo{}, queue, memStore{}, nil, service.Config{
		Bucket:      "veloj",
		TopicPrefix: "judge-tasks-",
	})

	router := gin.New()
	verifier := auth.NewTokenVerifier(testSecret, "")
	NewController(svc).RegisterRoutes(router, auth.EntryAccessMiddleware(verifier))
	return router, solutions, queue
}

func bearerToken(t *testing.T, user string, admin bool, entries []string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user":    user,
		"admin":   admin,
		"entries": entries,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	raw, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + raw
}

func doRequest(router *gin.Engine, method, target, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestGetSolutionHTTP(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodGet, "/api/v1/solutions?entry=entry-a&id=sol-1", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	body := decodeEnvelope(t, recorder)
	data, _ := body["data"].(map[string]interface{})
	if data["id"] != "sol-1" || data["status"] != "judged" {
		t.Fatalf("unexpected payload: %v", data)
	}
}

func TestGetSolutionRequiresAuth(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)

	recorder := doRequest(router, http.MethodGet, "/api/v1/solutions?entry=entry-a&id=sol-1", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestGetSolutionRequiresEntry(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodGet, "/api/v1/solutions?id=sol-1", token)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestGetSolutionForeignEntryForbidden(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-b"})

	recorder := doRequest(router, http.MethodGet, "/api/v1/solutions?entry=entry-a&id=sol-1", token)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
}

func TestRejudgeHTTP(t *testing.T) {
	t.Parallel()
	router, solutions, queue := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodPost, "/api/v1/solutions/rejudge?entry=entry-a&id=sol-1", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	stored := solutions.solutions["entry-a/sol-1"]
	if stored.Status != model.StatusWaitingJudge || stored.Score != 0 {
		t.Fatalf("expected solution reset for judging, got %s/%d", stored.Status, stored.Score)
	}
	if len(queue.topics) != 1 || queue.topics[0] != "judge-tasks-cpp" {
		t.Fatalf("expected task queued on judge-tasks-cpp, got %v", queue.topics)
	}
}

func TestRejudgeHTTPNotCreator(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "bob", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodPost, "/api/v1/solutions/rejudge?entry=entry-a&id=sol-1", token)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
	body := decodeEnvelope(t, recorder)
	if int(body["code"].(float64)) != int(errs.AccessDenied) {
		t.Fatalf("expected AccessDenied code, got %v", body["code"])
	}
}

func TestRejudgeHTTPMissingSolution(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodPost, "/api/v1/solutions/rejudge?entry=entry-a&id=missing", token)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestDeleteHTTP(t *testing.T) {
	t.Parallel()
	router, solutions, _ := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodDelete, "/api/v1/solutions?entry=entry-a&id=sol-1", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if _, ok := solutions.solutions["entry-a/sol-1"]; ok {
		t.Fatal("expected solution removed")
	}
}

func TestListHTTP(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodGet, "/api/v1/solutions/list?entry=entry-a&sort_by=updated&order=desc", token)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	body := decodeEnvelope(t, recorder)
	data, _ := body["data"].(map[string]interface{})
	if data["total"].(float64) != 1 {
		t.Fatalf("expected total 1, got %v", data["total"])
	}
}

func TestListHTTPInvalidSortField(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodGet, "/api/v1/solutions/list?entry=entry-a&sort_by=creator", token)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestListHTTPInvalidStatus(t *testing.T) {
	t.Parallel()
	router, _, _ := newTestRouter(t)
	token := bearerToken(t, "alice", false, []string{"entry-a"})

	recorder := doRequest(router, http.MethodGet, "/api/v1/solutions/list?entry=entry-a&status=done", token)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}
