package service

import (
	"context"
	"testing"

	"veloj/internal/auth"
	"veloj/internal/solution/model"
	"veloj/internal/solution/repository"
	errs "veloj/pkg/errors"
)

func TestGetReturnsSolution(t *testing.T) {
	t.Parallel()
	f := newFixture(judgedSolution(), channeledProblem())

	solution, err := f.service.Get(context.Background(), "entry-a", "sol-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if solution.ID != "sol-1" || solution.Status != model.StatusJudged {
		t.Fatalf("unexpected solution: %+v", solution)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(nil, nil)

	_, err := f.service.Get(context.Background(), "entry-a", "missing")
	if !errs.Is(err, errs.SolutionNotFound) {
		t.Fatalf("expected SolutionNotFound, got %v", err)
	}
}

func TestGetRequiresID(t *testing.T) {
	t.Parallel()
	f := newFixture(nil, nil)

	_, err := f.service.Get(context.Background(), "entry-a", "")
	if !errs.Is(err, errs.RequiredFieldEmpty) {
		t.Fatalf("expected RequiredFieldEmpty, got %v", err)
	}
}

func TestDeleteByCreator(t *testing.T) {
	t.Parallel()
	f := newFixture(judgedSolution(), nil)

	if err := f.service.Delete(context.Background(), creatorIdentity(), "entry-a", "sol-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.solutions.FindByID(context.Background(), "entry-a", "sol-1"); err != repository.ErrSolutionNotFound {
		t.Fatalf("expected solution removed, got %v", err)
	}
	if len(f.store.removed) != 1 || f.store.removed[0] != "solutions/sol-1/code" {
		t.Fatalf("expected payload removed, got %v", f.store.removed)
	}
}

func TestDeleteDeniedForNonCreator(t *testing.T) {
	t.Parallel()
	f := newFixture(judgedSolution(), nil)
	stranger := auth.Identity{User: "bob", Entries: []string{"entry-a"}}

	err := f.service.Delete(context.Background(), stranger, "entry-a", "sol-1")
	if !errs.Is(err, errs.AccessDenied) {
		t.Fatalf("expected AccessDenied, got %v", err)
	}
	if _, findErr := f.solutions.FindByID(context.Background(), "entry-a", "sol-1"); findErr != nil {
		t.Fatalf("solution must survive a denied delete, got %v", findErr)
	}
}

func TestDeleteByAdmin(t *testing.T) {
	t.Parallel()
	f := newFixture(judgedSolution(), nil)
	admin := auth.Identity{User: "root", Admin: true}

	if err := f.service.Delete(context.Background(), admin, "entry-a", "sol-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListRejectsUnknownSortField(t *testing.T) {
	t.Parallel()
	f := newFixture(judgedSolution(), nil)

	_, err := f.service.List(context.Background(), "entry-a", repository.ListQuery{SortBy: "creator"})
	if !errs.Is(err, errs.InvalidSortField) {
		t.Fatalf("expected InvalidSortField, got %v", err)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(judgedSolution(), nil)

	_, err := f.service.List(context.Background(), "entry-a", repository.ListQuery{Status: model.Status("nope")})
	if !errs.Is(err, errs.InvalidStatusFilter) {
		t.Fatalf("expected InvalidStatusFilter, got %v", err)
	}
}

func TestListReturnsSolutions(t *testing.T) {
	t.Parallel()
	f := newFixture(judgedSolution(), nil)

	result, err := f.service.List(context.Background(), "entry-a", repository.ListQuery{SortBy: "updated"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || len(result.Solutions) != 1 {
		t.Fatalf("unexpected result: total=%d items=%d", result.Total, len(result.Solutions))
	}
}
