// internal/app/features/registry/service.go
package registry

import (
	"context"
	"errors"
	"time"

	documentstore "github.com/sroam/sroregistry/internal/app/store/documents"
	memberstore "github.com/sroam/sroregistry/internal/app/store/members"
	"github.com/sroam/sroregistry/internal/app/system/inputval"
	"github.com/sroam/sroregistry/internal/app/system/metrics"
	"github.com/sroam/sroregistry/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service implements registry reads, mutations, exports and statistics on
// top of the member and document stores.
type Service struct {
	members *memberstore.Store
	docs    *documentstore.Store
	log     *zap.Logger
	metrics *metrics.Metrics

	// now is replaced in tests to pin export filenames.
	now func() time.Time

	// beforeWrite, when set, runs between the uniqueness pre-check and the
	// store write.
	beforeWrite func(ctx context.Context)
}

// NewService wires a Service. m may be nil.
func NewService(members *memberstore.Store, docs *documentstore.Store, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		members: members,
		docs:    docs,
		log:     logger,
		metrics: m,
		now:     time.Now,
	}
}

// Create validates in and inserts a new member attributed to actorID.
func (s *Service) Create(ctx context.Context, in CreateMemberInput, actorID primitive.ObjectID) (MemberView, error) {
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		s.metrics.IncMutation("create", "validation")
		return MemberView{}, newValidationError(res)
	}

	if err := s.checkUnique(ctx, in.INN, in.RegistryNumber, nil); err != nil {
		s.metrics.IncMutation("create", outcome(err))
		return MemberView{}, err
	}

	s.runBeforeWrite(ctx)
	m := in.toMember()
	m.CreatedBy = &actorID
	m.UpdatedBy = &actorID

	created, err := s.members.Create(ctx, m)
	if err != nil {
		err = mapStoreErr(err)
		s.metrics.IncMutation("create", outcome(err))
		return MemberView{}, err
	}
	s.metrics.IncMutation("create", "ok")

	return s.expandOne(ctx, created)
}

// Update applies the non-nil fields of in to the member with the given id.
// It returns the updated member and the JSON names of the fields touched.
func (s *Service) Update(ctx context.Context, id string, in UpdateMemberInput, actorID primitive.ObjectID) (MemberView, []string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return MemberView{}, nil, ErrInvalidID
	}

	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		s.metrics.IncMutation("update", "validation")
		return MemberView{}, nil, newValidationError(res)
	}

	existing, err := s.members.GetByID(ctx, oid)
	if err != nil {
		err = mapStoreErr(err)
		s.metrics.IncMutation("update", outcome(err))
		return MemberView{}, nil, err
	}

	// Only re-check values that actually change.
	var inn, number string
	if in.INN != nil && *in.INN != existing.INN {
		inn = *in.INN
	}
	if in.RegistryNumber != nil && *in.RegistryNumber != existing.RegistryNumber {
		number = *in.RegistryNumber
	}
	if err := s.checkUnique(ctx, inn, number, &oid); err != nil {
		s.metrics.IncMutation("update", outcome(err))
		return MemberView{}, nil, err
	}

	s.runBeforeWrite(ctx)
	p := in.toPatch()
	p.set["updated_by"] = actorID

	updated, err := s.members.Update(ctx, oid, p.set, p.unset)
	if err != nil {
		err = mapStoreErr(err)
		s.metrics.IncMutation("update", outcome(err))
		return MemberView{}, nil, err
	}
	s.metrics.IncMutation("update", "ok")

	view, err := s.expandOne(ctx, updated)
	return view, p.fields, err
}

// Delete removes the member with the given id.
func (s *Service) Delete(ctx context.Context, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	n, err := s.members.Delete(ctx, oid)
	if err != nil {
		s.metrics.IncMutation("delete", "error")
		return primitive.NilObjectID, err
	}
	if n == 0 {
		s.metrics.IncMutation("delete", "not_found")
		return primitive.NilObjectID, ErrNotFound
	}
	s.metrics.IncMutation("delete", "ok")
	return oid, nil
}

// Get returns one member by id.
func (s *Service) Get(ctx context.Context, id string) (MemberView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return MemberView{}, ErrInvalidID
	}
	m, err := s.members.GetByID(ctx, oid)
	if err != nil {
		return MemberView{}, mapStoreErr(err)
	}
	return s.expandOne(ctx, m)
}

// GetByINN returns the member with the given INN.
func (s *Service) GetByINN(ctx context.Context, inn string) (MemberView, error) {
	m, err := s.members.GetByINN(ctx, inn)
	if err != nil {
		return MemberView{}, mapStoreErr(err)
	}
	return s.expandOne(ctx, m)
}

// GetByRegistryNumber returns the member with the given registry number.
func (s *Service) GetByRegistryNumber(ctx context.Context, number string) (MemberView, error) {
	m, err := s.members.GetByRegistryNumber(ctx, number)
	if err != nil {
		return MemberView{}, mapStoreErr(err)
	}
	return s.expandOne(ctx, m)
}

func (s *Service) runBeforeWrite(ctx context.Context) {
	if s.beforeWrite != nil {
		s.beforeWrite(ctx)
	}
}

// checkUnique reports a ConflictError when inn or number is already taken.
// Empty values are skipped.
func (s *Service) checkUnique(ctx context.Context, inn, number string, exclude *primitive.ObjectID) error {
	if inn != "" {
		taken, err := s.members.ExistsByINN(ctx, inn, exclude)
		if err != nil {
			return err
		}
		if taken {
			return innConflict()
		}
	}
	if number != "" {
		taken, err := s.members.ExistsByRegistryNumber(ctx, number, exclude)
		if err != nil {
			return err
		}
		if taken {
			return registryNumberConflict()
		}
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Document expansion                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (s *Service) expandOne(ctx context.Context, m models.Member) (MemberView, error) {
	views, err := s.expand(ctx, []models.Member{m})
	if err != nil {
		return MemberView{}, err
	}
	return views[0], nil
}

// expand resolves the document references of ms with a single lookup.
// References that no longer resolve are dropped; order is preserved.
func (s *Service) expand(ctx context.Context, ms []models.Member) ([]MemberView, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, m := range ms {
		for _, id := range m.Documents {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	var summaries map[primitive.ObjectID]models.DocumentSummary
	if len(ids) > 0 {
		var err error
		summaries, err = s.docs.Summaries(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]MemberView, len(ms))
	for i, m := range ms {
		docs := make([]models.DocumentSummary, 0, len(m.Documents))
		for _, id := range m.Documents {
			if d, ok := summaries[id]; ok {
				docs = append(docs, d)
			}
		}
		out[i] = MemberView{Member: m, Documents: docs}
	}
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Error mapping                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, memberstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, memberstore.ErrDuplicateINN):
		return innConflict()
	case errors.Is(err, memberstore.ErrDuplicateRegistryNumber):
		return registryNumberConflict()
	default:
		return err
	}
}

// outcome is the metrics result label for err.
func outcome(err error) string {
	var conflict *ConflictError
	var invalid *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &invalid):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
