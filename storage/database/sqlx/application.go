package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/findgreatschool/core/application"
	"github.com/trezcool/findgreatschool/core/institution"
)

const applicationTable = "applications"

type studentApplicationRow struct {
	ID              string    `db:"id"`
	StudentID       string    `db:"student_id"`
	InstitutionID   string    `db:"institution_id"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	InstitutionName string    `db:"institution_name"`
	InstitutionType string    `db:"institution_type"`
	InstitutionCity string    `db:"institution_city"`
}

type applicationRepository struct {
	db sqlx.ExtContext
}

var _ application.Repository = (*applicationRepository)(nil) // interface compliance check

func NewApplicationRepository(db sqlx.ExtContext) *applicationRepository {
	return &applicationRepository{db: db}
}

func (repo *applicationRepository) Exists(ctx context.Context, studentID, institutionID string) (bool, error) {
	if len(validIDs([]string{institutionID})) == 0 {
		return false, nil
	}
	b := psql.Select("COUNT(*)").
		From(applicationTable).
		Where(sq.Eq{"student_id": studentID, "institution_id": institutionID})

	var count int
	if err := getContext(ctx, repo.db, &count, b); err != nil {
		return false, errors.Wrap(err, "checking application")
	}
	return count > 0, nil
}

func (repo *applicationRepository) Create(ctx context.Context, app application.Application) (application.Application, error) {
	b := psql.Insert(applicationTable).
		Columns("id", "student_id", "institution_id", "status", "created_at").
		Values(app.ID, app.StudentID, app.InstitutionID, app.Status, app.CreatedAt.UTC())

	if _, err := execContext(ctx, repo.db, b); err != nil {
		switch pqCode(err) {
		case pqUniqueViolation:
			return application.Application{}, application.ErrAlreadyApplied
		case pqForeignKeyViolation, pqInvalidText:
			return application.Application{}, application.ErrInvalidInstitution
		}
		return application.Application{}, errors.Wrap(err, "inserting application")
	}
	return app, nil
}

func (repo *applicationRepository) QueryByStudent(ctx context.Context, studentID string) ([]application.StudentApplication, error) {
	b := psql.Select(
		"a.id", "a.student_id", "a.institution_id", "a.status", "a.created_at",
		"i.name AS institution_name", "i.type AS institution_type", "i.city AS institution_city",
	).
		From(applicationTable + " a").
		Join(institutionTable + " i ON i.id = a.institution_id").
		Where(sq.Eq{"a.student_id": studentID}).
		OrderBy("a.created_at DESC", "a.id DESC")

	var rows []studentApplicationRow
	if err := selectContext(ctx, repo.db, &rows, b); err != nil {
		return nil, errors.Wrap(err, "querying student applications")
	}
	apps := make([]application.StudentApplication, 0, len(rows))
	for _, r := range rows {
		apps = append(apps, application.StudentApplication{
			Application: application.Application{
				ID:            r.ID,
				StudentID:     r.StudentID,
				InstitutionID: r.InstitutionID,
				Status:        r.Status,
				CreatedAt:     r.CreatedAt.UTC(),
			},
			InstitutionName: r.InstitutionName,
			InstitutionType: institution.Category(r.InstitutionType),
			InstitutionCity: r.InstitutionCity,
		})
	}
	return apps, nil
}
