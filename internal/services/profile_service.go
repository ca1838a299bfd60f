// Package services – ProfileService
//
// Profiles are created with an id taken from the "profile" sequence. A failed
// insert gives the id back, so a rejected profile does not burn a number.
// Profiles are immutable after creation, which lets reads go through an
// optional cache without invalidation.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-profile-backend/internal/domain"
	"github.com/tbourn/go-profile-backend/internal/repo"
)

// ProfileRepo defines the repository contract required by ProfileService.
type ProfileRepo interface {
	InsertProfile(ctx context.Context, p *domain.Profile) error
	GetProfile(ctx context.Context, id int64) (*domain.Profile, error)
}

// ProfileCache is an optional read-through cache for profiles.
type ProfileCache interface {
	Get(ctx context.Context, id int64) (*domain.Profile, bool)
	Set(ctx context.Context, p *domain.Profile)
}

// ProfileService creates and fetches profiles.
type ProfileService struct {
	Repo  ProfileRepo
	Seq   *Sequencer
	Cache ProfileCache

	// DefaultImage is returned for profiles stored without an image.
	DefaultImage string
}

// NewProfileService constructs a ProfileService without a cache.
func NewProfileService(r ProfileRepo, seq *Sequencer, defaultImage string) *ProfileService {
	return &ProfileService{Repo: r, Seq: seq, DefaultImage: defaultImage}
}

// Create assigns p a fresh id and stores it. On any insert failure the id is
// compensated before the error is returned.
func (s *ProfileService) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	tr := otel.Tracer("services/ProfileService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	id, err := s.Seq.Allocate(ctx, domain.SeqProfile)
	if err != nil {
		return nil, internal(err)
	}
	p.ID = id
	span.SetAttributes(attribute.Int64("profile.id", id))

	if err := s.Repo.InsertProfile(ctx, p); err != nil {
		if _, cerr := s.Seq.Compensate(ctx, domain.SeqProfile); cerr != nil {
			log.Ctx(ctx).Warn().Err(cerr).Int64("profile_id", id).Msg("profile id compensation failed")
		}
		span.RecordError(err)
		return nil, storeErr(err)
	}
	return p, nil
}

// Get returns the profile with the given id, or ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, id int64) (*domain.Profile, error) {
	tr := otel.Tracer("services/ProfileService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("profile.id", id)),
	)
	defer span.End()

	p, hit := s.cached(ctx, id)
	span.SetAttributes(attribute.Bool("cache.hit", hit))
	if !hit {
		var err error
		p, err = s.Repo.GetProfile(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		if err != nil {
			return nil, internal(err)
		}
		if s.Cache != nil {
			s.Cache.Set(ctx, p)
		}
	}

	out := *p
	if out.Image == "" {
		out.Image = s.DefaultImage
	}
	return &out, nil
}

func (s *ProfileService) cached(ctx context.Context, id int64) (*domain.Profile, bool) {
	if s.Cache == nil {
		return nil, false
	}
	return s.Cache.Get(ctx, id)
}
