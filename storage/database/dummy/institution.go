package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/findgreatschool/core/institution"
)

type institutionRepository struct {
	db *institutionTable
}

var _ institution.Repository = (*institutionRepository)(nil) // interface compliance check

func NewInstitutionRepository(db *DB) institution.Repository {
	return &institutionRepository{db: db.institution}
}

// copyOf detaches inst from the table so callers can't mutate stored rows.
func copyOf(inst *institution.Institution) institution.Institution {
	c := *inst
	c.ClassesOffered = append([]string{}, inst.ClassesOffered...)
	c.ExamsCoached = append([]string{}, inst.ExamsCoached...)
	c.ProgramsOffered = append([]string{}, inst.ProgramsOffered...)
	c.Images = append([]string{}, inst.Images...)
	c.Features = make(institution.Features, len(inst.Features))
	for k, v := range inst.Features {
		c.Features[k] = v
	}
	return c
}

func (repo *institutionRepository) Search(_ context.Context, q institution.Query) ([]institution.Institution, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	insts := make([]institution.Institution, 0)
	for _, inst := range repo.db.table {
		if q.Match(*inst) {
			insts = append(insts, copyOf(inst))
		}
	}
	q.Sort(insts)
	return insts, nil
}

func (repo *institutionRepository) GetApproved(_ context.Context, ids []string) ([]institution.Institution, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	insts := make([]institution.Institution, 0, len(ids))
	for _, id := range ids {
		if inst, ok := repo.db.table[id]; ok && inst.IsApproved {
			insts = append(insts, copyOf(inst))
		}
	}
	return insts, nil
}

func (repo *institutionRepository) GetByID(_ context.Context, id string) (institution.Institution, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if inst, ok := repo.db.table[id]; ok {
		return copyOf(inst), nil
	}
	return institution.Institution{}, institution.ErrNotFound
}

func (repo *institutionRepository) Create(_ context.Context, inst institution.Institution) (institution.Institution, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := copyOf(&inst)
	repo.db.table[inst.ID] = &stored
	return inst, nil
}

// pending must be called with the table locked.
func (repo *institutionRepository) pending(search string) []institution.Institution {
	search = strings.ToLower(search)
	insts := make([]institution.Institution, 0)
	for _, inst := range repo.db.table {
		if inst.IsApproved {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(inst.Name), search) {
			continue
		}
		insts = append(insts, copyOf(inst))
	}
	sort.SliceStable(insts, func(i, j int) bool {
		if insts[i].CreatedAt.Equal(insts[j].CreatedAt) {
			return insts[i].ID < insts[j].ID
		}
		return insts[i].CreatedAt.Before(insts[j].CreatedAt)
	})
	return insts
}

func (repo *institutionRepository) QueryPending(_ context.Context, search string, limit, offset int) ([]institution.Institution, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	insts := repo.pending(search)
	if offset < 0 || offset >= len(insts) {
		return []institution.Institution{}, nil
	}
	insts = insts[offset:]
	if limit > 0 && limit < len(insts) {
		insts = insts[:limit]
	}
	return insts, nil
}

func (repo *institutionRepository) CountPending(_ context.Context, search string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.pending(search)), nil
}

func (repo *institutionRepository) Approve(_ context.Context, id string, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	inst, ok := repo.db.table[id]
	if !ok {
		return institution.ErrNotFound
	}
	inst.IsApproved = true
	inst.UpdatedAt = at
	return nil
}

func (repo *institutionRepository) Delete(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return institution.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
