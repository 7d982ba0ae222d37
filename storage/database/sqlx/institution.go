package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findgreatschool/core/institution"
)

const institutionTable = "institutions"

var institutionColumns = []string{
	"id", "name", "type", "address", "city", "state", "pincode", "contact_email", "contact_phone",
	"board", "fee_structure", "student_teacher_ratio", "classes_offered", "exams_coached",
	"programs_offered", "features", "images", "user_id", "is_approved", "created_at", "updated_at",
}

type institutionRow struct {
	ID                  string         `db:"id"`
	Name                string         `db:"name"`
	Type                string         `db:"type"`
	Address             string         `db:"address"`
	City                string         `db:"city"`
	State               string         `db:"state"`
	Pincode             string         `db:"pincode"`
	ContactEmail        string         `db:"contact_email"`
	ContactPhone        null.String    `db:"contact_phone"`
	Board               null.String    `db:"board"`
	FeeStructure        null.String    `db:"fee_structure"`
	StudentTeacherRatio null.Int       `db:"student_teacher_ratio"`
	ClassesOffered      pq.StringArray `db:"classes_offered"`
	ExamsCoached        pq.StringArray `db:"exams_coached"`
	ProgramsOffered     pq.StringArray `db:"programs_offered"`
	Features            featuresJSON   `db:"features"`
	Images              pq.StringArray `db:"images"`
	UserID              string         `db:"user_id"`
	IsApproved          bool           `db:"is_approved"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func toRow(inst institution.Institution) institutionRow {
	return institutionRow{
		ID:                  inst.ID,
		Name:                inst.Name,
		Type:                string(inst.Type),
		Address:             inst.Address,
		City:                inst.City,
		State:               inst.State,
		Pincode:             inst.Pincode,
		ContactEmail:        inst.ContactEmail,
		ContactPhone:        inst.ContactPhone,
		Board:               inst.Board,
		FeeStructure:        inst.FeeStructure,
		StudentTeacherRatio: inst.StudentTeacherRatio,
		ClassesOffered:      nonNil(inst.ClassesOffered),
		ExamsCoached:        nonNil(inst.ExamsCoached),
		ProgramsOffered:     nonNil(inst.ProgramsOffered),
		Features:            featuresJSON(inst.Features),
		Images:              nonNil(inst.Images),
		UserID:              inst.UserID,
		IsApproved:          inst.IsApproved,
		CreatedAt:           inst.CreatedAt.UTC(),
		UpdatedAt:           inst.UpdatedAt.UTC(),
	}
}

func (r institutionRow) institution() institution.Institution {
	return institution.Institution{
		ID:                  r.ID,
		Name:                r.Name,
		Type:                institution.Category(r.Type),
		Address:             r.Address,
		City:                r.City,
		State:               r.State,
		Pincode:             r.Pincode,
		ContactEmail:        r.ContactEmail,
		ContactPhone:        r.ContactPhone,
		Board:               r.Board,
		FeeStructure:        r.FeeStructure,
		StudentTeacherRatio: r.StudentTeacherRatio,
		ClassesOffered:      nonNil(r.ClassesOffered),
		ExamsCoached:        nonNil(r.ExamsCoached),
		ProgramsOffered:     nonNil(r.ProgramsOffered),
		Features:            institution.Features(r.Features),
		Images:              nonNil(r.Images),
		UserID:              r.UserID,
		IsApproved:          r.IsApproved,
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func rowsToInstitutions(rows []institutionRow) []institution.Institution {
	insts := make([]institution.Institution, 0, len(rows))
	for _, r := range rows {
		insts = append(insts, r.institution())
	}
	return insts
}

// validIDs drops the ids Postgres would refuse to cast to UUID.
func validIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return valid
}

type institutionRepository struct {
	db sqlx.ExtContext
}

var _ institution.Repository = (*institutionRepository)(nil) // interface compliance check

func NewInstitutionRepository(db sqlx.ExtContext) *institutionRepository {
	return &institutionRepository{db: db}
}

// SearchQuery builds the SELECT matching q.
func SearchQuery(q institution.Query) (sq.SelectBuilder, error) {
	b := psql.Select(institutionColumns...).
		From(institutionTable).
		Where(sq.Eq{"is_approved": true})

	if q.Category != "" {
		b = b.Where(sq.Eq{"type": string(q.Category)})
	}
	if q.City != "" {
		b = b.Where(sq.ILike{"city": contains(q.City)})
	}
	if col := q.Category.OfferingColumn(); q.Offering != "" && col != "" {
		b = b.Where(sq.Expr(col+" @> ?", pq.Array([]string{q.Offering})))
	}
	if len(q.Boards) > 0 {
		b = b.Where(sq.Eq{"board": q.Boards})
	}
	if len(q.Features) > 0 {
		required := make(map[string]bool, len(q.Features))
		for _, f := range q.Features {
			required[f] = true
		}
		data, err := json.Marshal(required)
		if err != nil {
			return b, errors.Wrap(err, "encoding features")
		}
		b = b.Where(sq.Expr("features @> ?::jsonb", string(data)))
	}
	return b.OrderBy(q.Ordering.String(), "id ASC"), nil
}

func (repo *institutionRepository) Search(ctx context.Context, q institution.Query) ([]institution.Institution, error) {
	b, err := SearchQuery(q)
	if err != nil {
		return nil, err
	}
	var rows []institutionRow
	if err := selectContext(ctx, repo.db, &rows, b); err != nil {
		return nil, errors.Wrap(err, "searching institutions")
	}
	return rowsToInstitutions(rows), nil
}

func (repo *institutionRepository) GetApproved(ctx context.Context, ids []string) ([]institution.Institution, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return []institution.Institution{}, nil
	}
	b := psql.Select(institutionColumns...).
		From(institutionTable).
		Where(sq.Eq{"is_approved": true, "id": ids})

	var rows []institutionRow
	if err := selectContext(ctx, repo.db, &rows, b); err != nil {
		return nil, errors.Wrap(err, "selecting approved institutions")
	}
	return rowsToInstitutions(rows), nil
}

func (repo *institutionRepository) GetByID(ctx context.Context, id string) (institution.Institution, error) {
	if _, err := uuid.Parse(id); err != nil {
		return institution.Institution{}, institution.ErrNotFound
	}
	b := psql.Select(institutionColumns...).From(institutionTable).Where(sq.Eq{"id": id})

	var row institutionRow
	if err := getContext(ctx, repo.db, &row, b); err != nil {
		if err == sql.ErrNoRows {
			return institution.Institution{}, institution.ErrNotFound
		}
		return institution.Institution{}, errors.Wrap(err, "getting institution")
	}
	return row.institution(), nil
}

func (repo *institutionRepository) Create(ctx context.Context, inst institution.Institution) (institution.Institution, error) {
	r := toRow(inst)
	b := psql.Insert(institutionTable).SetMap(map[string]interface{}{
		"id":                    r.ID,
		"name":                  r.Name,
		"type":                  r.Type,
		"address":               r.Address,
		"city":                  r.City,
		"state":                 r.State,
		"pincode":               r.Pincode,
		"contact_email":         r.ContactEmail,
		"contact_phone":         r.ContactPhone,
		"board":                 r.Board,
		"fee_structure":         r.FeeStructure,
		"student_teacher_ratio": r.StudentTeacherRatio,
		"classes_offered":       r.ClassesOffered,
		"exams_coached":         r.ExamsCoached,
		"programs_offered":      r.ProgramsOffered,
		"features":              r.Features,
		"images":                r.Images,
		"user_id":               r.UserID,
		"is_approved":           r.IsApproved,
		"created_at":            r.CreatedAt,
		"updated_at":            r.UpdatedAt,
	})
	if _, err := execContext(ctx, repo.db, b); err != nil {
		return institution.Institution{}, errors.Wrap(err, "inserting institution")
	}
	return r.institution(), nil
}

func pendingWhere(search string) sq.And {
	where := sq.And{sq.Eq{"is_approved": false}}
	if search != "" {
		where = append(where, sq.ILike{"name": contains(search)})
	}
	return where
}

func (repo *institutionRepository) QueryPending(ctx context.Context, search string, limit, offset int) ([]institution.Institution, error) {
	b := psql.Select(institutionColumns...).
		From(institutionTable).
		Where(pendingWhere(search)).
		OrderBy("created_at ASC", "id ASC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}

	var rows []institutionRow
	if err := selectContext(ctx, repo.db, &rows, b); err != nil {
		return nil, errors.Wrap(err, "querying pending institutions")
	}
	return rowsToInstitutions(rows), nil
}

func (repo *institutionRepository) CountPending(ctx context.Context, search string) (int, error) {
	b := psql.Select("COUNT(*)").From(institutionTable).Where(pendingWhere(search))

	var count int
	if err := getContext(ctx, repo.db, &count, b); err != nil {
		return 0, errors.Wrap(err, "counting pending institutions")
	}
	return count, nil
}

func (repo *institutionRepository) Approve(ctx context.Context, id string, at time.Time) error {
	if _, err := uuid.Parse(id); err != nil {
		return institution.ErrNotFound
	}
	b := psql.Update(institutionTable).
		Set("is_approved", true).
		Set("updated_at", at.UTC()).
		Where(sq.Eq{"id": id})

	n, err := execContext(ctx, repo.db, b)
	if err != nil {
		return errors.Wrap(err, "approving institution")
	}
	if n == 0 {
		return institution.ErrNotFound
	}
	return nil
}

func (repo *institutionRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return institution.ErrNotFound
	}
	n, err := execContext(ctx, repo.db, psql.Delete(institutionTable).Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting institution")
	}
	if n == 0 {
		return institution.ErrNotFound
	}
	return nil
}
