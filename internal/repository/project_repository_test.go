package repository

import (
	"testing"

	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/models"
)

func TestProjectRepositoryActivateByPaymentMatchesCurrentPayment(t *testing.T) {
	db := setupRepositoryTestDB(t, "project_repo_activate")
	repo := NewProjectRepository(db)
	project := &models.Project{Name: "Acme", Website: "https://acme.example", PaymentStatus: constants.EntityPaymentNone}
	if err := repo.Create(project); err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	if err := repo.SetPayment(project.ID, "logo_new_2", constants.EntityPaymentPending); err != nil {
		t.Fatalf("set payment failed: %v", err)
	}

	rows, err := repo.ActivateByPayment(project.ID, "logo_old_1", 100)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("stale payment must not activate project")
	}
	rows, err = repo.ActivateByPayment(project.ID, "logo_new_2", 100)
	if err != nil || rows != 1 {
		t.Fatalf("expected activation, rows=%d err=%v", rows, err)
	}
	stored, err := repo.GetByID(project.ID)
	if err != nil || stored == nil {
		t.Fatalf("get project failed: %v", err)
	}
	if !stored.Active || stored.Position != 100 || stored.PaymentStatus != constants.EntityPaymentCompleted {
		t.Fatalf("unexpected project: %+v", stored)
	}
	if missing, err := repo.GetByID(9999); err != nil || missing != nil {
		t.Fatalf("missing project should return nil, nil")
	}
}

func TestProjectRepositoryListWallWithReviewStats(t *testing.T) {
	db := setupRepositoryTestDB(t, "project_repo_wall")
	projectRepo := NewProjectRepository(db)
	reviewRepo := NewReviewRepository(db)

	projects := []*models.Project{
		{Name: "Bravo", Website: "https://b.example", Active: true, Position: 20},
		{Name: "Alpha", Website: "https://a.example", Active: true, Position: 30},
		{Name: "Hidden", Website: "https://h.example", Active: false, Position: 10},
	}
	for _, project := range projects {
		project.PaymentStatus = constants.EntityPaymentCompleted
		if err := projectRepo.Create(project); err != nil {
			t.Fatalf("create project failed: %v", err)
		}
	}
	reviews := []*models.Review{
		{ProjectID: projects[0].ID, AuthorName: "A", Rating: 5, Approved: true, PaymentStatus: constants.EntityPaymentCompleted},
		{ProjectID: projects[0].ID, AuthorName: "B", Rating: 4, Approved: true, PaymentStatus: constants.EntityPaymentCompleted},
		{ProjectID: projects[0].ID, AuthorName: "C", Rating: 1, Approved: false, PaymentStatus: constants.EntityPaymentPending},
	}
	for _, review := range reviews {
		if err := reviewRepo.Create(review); err != nil {
			t.Fatalf("create review failed: %v", err)
		}
	}

	entries, err := projectRepo.ListWall(WallListFilter{Limit: 10, Sort: constants.WallSortPosition})
	if err != nil {
		t.Fatalf("list wall failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "Bravo" || entries[1].Name != "Alpha" {
		t.Fatalf("unexpected wall order: %+v", entries)
	}
	if entries[0].ReviewCount != 2 || entries[0].AverageRating != 4.5 {
		t.Fatalf("unexpected review stats: %+v", entries[0])
	}

	byName, err := projectRepo.ListWall(WallListFilter{Limit: 10, Sort: constants.WallSortName})
	if err != nil || len(byName) != 2 || byName[0].Name != "Alpha" {
		t.Fatalf("unexpected name order: %+v %v", byName, err)
	}

	stats, err := reviewRepo.StatsByProject(projects[0].ID)
	if err != nil || stats.ReviewCount != 2 || stats.AverageRating != 4.5 {
		t.Fatalf("unexpected stats: %+v %v", stats, err)
	}

	active := true
	listed, total, err := projectRepo.ListAdmin(ProjectListFilter{Keyword: "alp", Active: &active, Page: 1, PageSize: 10})
	if err != nil || total != 1 || listed[0].Name != "Alpha" {
		t.Fatalf("unexpected admin search: total=%d rows=%+v err=%v", total, listed, err)
	}
}
