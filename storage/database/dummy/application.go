package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/findgreatschool/core/application"
)

type applicationRepository struct {
	db           *applicationTable
	institutions *institutionTable
}

var _ application.Repository = (*applicationRepository)(nil) // interface compliance check

func NewApplicationRepository(db *DB) application.Repository {
	return &applicationRepository{db: db.application, institutions: db.institution}
}

// exists must be called with the table locked.
func (repo *applicationRepository) exists(studentID, institutionID string) bool {
	for _, app := range repo.db.table {
		if app.StudentID == studentID && app.InstitutionID == institutionID {
			return true
		}
	}
	return false
}

func (repo *applicationRepository) Exists(_ context.Context, studentID, institutionID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.exists(studentID, institutionID), nil
}

func (repo *applicationRepository) Create(_ context.Context, app application.Application) (application.Application, error) {
	repo.institutions.RLock()
	_, ok := repo.institutions.table[app.InstitutionID]
	repo.institutions.RUnlock()
	if !ok {
		return application.Application{}, application.ErrInvalidInstitution
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.exists(app.StudentID, app.InstitutionID) {
		return application.Application{}, application.ErrAlreadyApplied
	}
	stored := app
	repo.db.table[app.ID] = &stored
	return app, nil
}

func (repo *applicationRepository) QueryByStudent(_ context.Context, studentID string) ([]application.StudentApplication, error) {
	repo.db.RLock()
	apps := make([]application.Application, 0)
	for _, app := range repo.db.table {
		if app.StudentID == studentID {
			apps = append(apps, *app)
		}
	}
	repo.db.RUnlock()

	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].ID > apps[j].ID
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})

	repo.institutions.RLock()
	defer repo.institutions.RUnlock()

	results := make([]application.StudentApplication, 0, len(apps))
	for _, app := range apps {
		inst, ok := repo.institutions.table[app.InstitutionID]
		if !ok {
			continue // deleted institutions take their applications with them
		}
		results = append(results, application.StudentApplication{
			Application:     app,
			InstitutionName: inst.Name,
			InstitutionType: inst.Type,
			InstitutionCity: inst.City,
		})
	}
	return results, nil
}
