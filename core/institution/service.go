package institution

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/findgreatschool/core"
)

// PendingPageSize is the number of institutions per moderation queue page.
const PendingPageSize = 10

// maxPendingPage keeps the page offset within int.
const maxPendingPage = math.MaxInt/PendingPageSize + 1

var ErrNotFound = errors.New("institution not found")

type (
	Repository interface {
		// Search returns the institutions matching q, ordered by q.Ordering.
		Search(ctx context.Context, q Query) ([]Institution, error)
		// GetApproved returns the approved institutions among ids, in any order.
		GetApproved(ctx context.Context, ids []string) ([]Institution, error)
		GetByID(ctx context.Context, id string) (Institution, error)
		Create(ctx context.Context, inst Institution) (Institution, error)
		// QueryPending returns unapproved institutions whose name contains search (case-insensitive),
		// oldest first.
		QueryPending(ctx context.Context, search string, limit, offset int) ([]Institution, error)
		CountPending(ctx context.Context, search string) (int, error)
		Approve(ctx context.Context, id string, at time.Time) error
		Delete(ctx context.Context, id string) error
	}

	// SearchCache caches search results by canonical query string.
	SearchCache interface {
		GetOrCompute(ctx context.Context, key string, compute func() ([]Summary, error)) ([]Summary, bool, error)
		Invalidate(ctx context.Context) error
	}

	// ImageStore stores institution images and returns their public URL.
	ImageStore interface {
		Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
		Delete(ctx context.Context, key string) error
	}

	PendingFilter struct {
		Search string `query:"search"`
		Page   int    `query:"page"`
	}

	Page struct {
		Items      []Institution `json:"items"`
		Page       int           `json:"page"`
		TotalPages int           `json:"total_pages"`
		Total      int           `json:"total"`
	}

	Service struct {
		repo     Repository
		cache    SearchCache // optional
		images   ImageStore
		events   core.EventPublisher
		validate *validator.Validate
		logger   core.Logger
	}
)

func (f *PendingFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > maxPendingPage {
		f.Page = maxPendingPage
	}
}

func NewService(
	repo Repository,
	cache SearchCache,
	images ImageStore,
	events core.EventPublisher,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		images:   images,
		events:   events,
		validate: validate,
		logger:   logger,
	}
}

// Search returns the approved institutions matching fs.
func (svc *Service) Search(ctx context.Context, fs FilterState) ([]Summary, error) {
	fs = fs.Canonical()
	compute := func() ([]Summary, error) {
		insts, err := svc.repo.Search(ctx, BuildQuery(fs))
		if err != nil {
			return nil, err
		}
		results := make([]Summary, 0, len(insts))
		for _, inst := range insts {
			results = append(results, inst.Summary())
		}
		return results, nil
	}

	var results []Summary
	var cached bool
	var err error
	if svc.cache != nil {
		results, cached, err = svc.cache.GetOrCompute(ctx, Encode(fs), compute)
	} else {
		results, err = compute()
	}
	if err != nil {
		return nil, errors.Wrap(err, "searching institutions")
	}

	svc.events.Publish(ctx, core.NewEvent(core.EventSearchPerformed, Encode(fs), map[string]interface{}{
		"query":   Encode(fs),
		"results": len(results),
		"cached":  cached,
	}))
	return results, nil
}

// GetApproved returns the approved institutions among ids, following the order of ids.
func (svc *Service) GetApproved(ctx context.Context, ids []string) ([]Institution, error) {
	ids = core.CleanStrings(ids)
	if len(ids) == 0 {
		return []Institution{}, nil
	}
	insts, err := svc.repo.GetApproved(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "fetching approved institutions")
	}
	byID := make(map[string]Institution, len(insts))
	for _, inst := range insts {
		byID[inst.ID] = inst
	}
	ordered := make([]Institution, 0, len(insts))
	for _, id := range ids {
		if inst, ok := byID[id]; ok {
			ordered = append(ordered, inst)
		}
	}
	return ordered, nil
}

// GetApprovedByID returns ErrNotFound for unapproved institutions too.
func (svc *Service) GetApprovedByID(ctx context.Context, id string) (Institution, error) {
	inst, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return Institution{}, err
	}
	if !inst.IsApproved {
		return Institution{}, ErrNotFound
	}
	return inst, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Institution, error) {
	return svc.repo.GetByID(ctx, id)
}

// Register validates ni and stores it, with its optional image, as an unapproved institution of userID.
func (svc *Service) Register(ctx context.Context, userID string, ni NewInstitution, img *Image) (Institution, error) {
	if err := ni.Validate(svc.validate); err != nil {
		return Institution{}, err
	}
	if img != nil {
		if err := img.Validate(); err != nil {
			return Institution{}, err
		}
	}

	now := time.Now().UTC()
	inst := Institution{
		ID:              uuid.New().String(),
		Name:            ni.Name,
		Type:            ni.Type,
		Address:         ni.Address,
		City:            ni.City,
		State:           ni.State,
		Pincode:         ni.Pincode,
		ContactEmail:    ni.ContactEmail,
		ContactPhone:    null.NewString(ni.ContactPhone, ni.ContactPhone != ""),
		Board:           null.NewString(ni.Board, ni.Board != ""),
		FeeStructure:    null.NewString(ni.FeeStructure, ni.FeeStructure != ""),
		ClassesOffered:  []string{},
		ExamsCoached:    []string{},
		ProgramsOffered: []string{},
		Features:        ni.FeatureMap(),
		Images:          []string{},
		UserID:          userID,
		IsApproved:      false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if ni.StudentTeacherRatio > 0 {
		inst.StudentTeacherRatio = null.IntFrom(ni.StudentTeacherRatio)
	}
	switch ni.Type {
	case CategorySchool:
		inst.ClassesOffered = ni.OfferingList()
	case CategoryCoaching:
		inst.ExamsCoached = ni.OfferingList()
	case CategoryCollege:
		inst.ProgramsOffered = ni.OfferingList()
	}

	var imgKey string
	if img != nil {
		imgKey = fmt.Sprintf("%s/%d-%s", userID, now.UnixMilli(), core.SanitizeFilename(img.Filename))
		url, err := svc.images.Upload(ctx, imgKey, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType)
		if err != nil {
			return Institution{}, errors.Wrap(err, "uploading image")
		}
		inst.Images = []string{url}
	}

	inst, err := svc.repo.Create(ctx, inst)
	if err != nil {
		if imgKey != "" {
			if derr := svc.images.Delete(ctx, imgKey); derr != nil {
				svc.logger.Error(fmt.Sprintf("deleting orphan image %s: %v", imgKey, derr), derr)
			}
		}
		return Institution{}, errors.Wrap(err, "creating institution")
	}
	svc.events.Publish(ctx, core.NewEvent(core.EventInstitutionRegistered, inst.ID, map[string]interface{}{
		"type":    inst.Type,
		"city":    inst.City,
		"user_id": userID,
	}))
	return inst, nil
}

// Pending returns a page of the moderation queue.
func (svc *Service) Pending(ctx context.Context, filter PendingFilter) (Page, error) {
	filter.Clean()

	var items []Institution
	var total int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = svc.repo.QueryPending(gctx, filter.Search, PendingPageSize, (filter.Page-1)*PendingPageSize)
		return errors.Wrap(err, "querying pending institutions")
	})
	g.Go(func() error {
		var err error
		total, err = svc.repo.CountPending(gctx, filter.Search)
		return errors.Wrap(err, "counting pending institutions")
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []Institution{}
	}
	return Page{
		Items:      items,
		Page:       filter.Page,
		TotalPages: (total + PendingPageSize - 1) / PendingPageSize,
		Total:      total,
	}, nil
}

func (svc *Service) Approve(ctx context.Context, id string) error {
	if err := svc.repo.Approve(ctx, id, time.Now().UTC()); err != nil {
		return err
	}
	svc.invalidate(ctx)
	svc.events.Publish(ctx, core.NewEvent(core.EventInstitutionApproved, id, nil))
	return nil
}

// Reject deletes the institution.
func (svc *Service) Reject(ctx context.Context, id string) error {
	if err := svc.repo.Delete(ctx, id); err != nil {
		return err
	}
	svc.invalidate(ctx)
	svc.events.Publish(ctx, core.NewEvent(core.EventInstitutionRejected, id, nil))
	return nil
}

func (svc *Service) invalidate(ctx context.Context) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Invalidate(ctx); err != nil {
		svc.logger.Error(fmt.Sprintf("invalidating search cache: %v", err), err)
	}
}
