package diagnosis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"dermaview.org/internal/report"
)

func TestPGStoreCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Now().UTC()
	mock.ExpectQuery("insert into diagnoses").
		WithArgs("d-1", "u-1", "/uploads/1-lesion.png").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	store := NewPGStore(db)
	d := &Diagnosis{ID: "d-1", UserID: "u-1", ImageURL: "/uploads/1-lesion.png"}
	if err := store.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !d.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", d.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "image_url", "symptoms", "results", "created_at"}).
		AddRow("d-1", "u-1", "/uploads/1-lesion.png",
			`{"itching":"yes"}`,
			`[{"name":"Acne","probability":91.5,"severity":"High","description":"","nextSteps":[],"treatments":[]}]`,
			time.Now())
	mock.ExpectQuery("select id, user_id, image_url, symptoms, results, created_at from diagnoses where id").
		WithArgs("d-1").
		WillReturnRows(rows)

	store := NewPGStore(db)
	d, err := store.Find(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if d.Symptoms["itching"] != "yes" {
		t.Fatalf("unexpected symptoms: %v", d.Symptoms)
	}
	if len(d.Results) != 1 || d.Results[0].Name != "Acne" || d.Results[0].Probability != 91.5 {
		t.Fatalf("unexpected results: %+v", d.Results)
	}
}

func TestPGStoreFindPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "image_url", "symptoms", "results", "created_at"}).
		AddRow("d-1", "u-1", "/uploads/1-lesion.png", nil, nil, time.Now())
	mock.ExpectQuery("select id, user_id, image_url, symptoms, results, created_at from diagnoses where id").
		WithArgs("d-1").
		WillReturnRows(rows)

	store := NewPGStore(db)
	d, err := store.Find(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if d.Symptoms != nil || d.Results != nil {
		t.Fatalf("expected empty symptoms and results, got %+v", d)
	}
}

func TestPGStoreFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, user_id, image_url, symptoms, results, created_at from diagnoses where id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "image_url", "symptoms", "results", "created_at"}))

	store := NewPGStore(db)
	if _, err := store.Find(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreSetSymptomsAndResults(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update diagnoses set symptoms").
		WithArgs("d-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPGStore(db)
	results := []report.Condition{{Name: "Acne", Probability: 91.5, Severity: "High"}}
	if err := store.SetSymptomsAndResults(context.Background(), "d-1", map[string]string{"itching": "yes"}, results); err != nil {
		t.Fatalf("SetSymptomsAndResults: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreSetSymptomsAndResultsMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update diagnoses set symptoms").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGStore(db)
	err = store.SetSymptomsAndResults(context.Background(), "missing", nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "image_url", "symptoms", "results", "created_at"}).
		AddRow("d-2", "u-1", "/uploads/2-b.png", nil, nil, now).
		AddRow("d-1", "u-1", "/uploads/1-a.png", `{"itching":"yes"}`, `[]`, now.Add(-time.Hour))
	mock.ExpectQuery("select id, user_id, image_url, symptoms, results, created_at").
		WithArgs("u-1").
		WillReturnRows(rows)

	store := NewPGStore(db)
	list, err := store.ListByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != "d-2" || list[1].ID != "d-1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
