package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/common"
	"github.com/dmitrijs2005/nutrilog/internal/dbx"
	"github.com/dmitrijs2005/nutrilog/internal/logging"
	"github.com/dmitrijs2005/nutrilog/internal/server/config"
	"github.com/dmitrijs2005/nutrilog/internal/server/images"
	"github.com/dmitrijs2005/nutrilog/internal/server/models"
	"github.com/dmitrijs2005/nutrilog/internal/server/records"
	"github.com/dmitrijs2005/nutrilog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutrilog/internal/server/sanitize"
)

// ProfileService syncs, reads and edits user profiles.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageUploader
	weights     WeightRecorder
	timeout     time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	uploader ImageUploader, weights WeightRecorder, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		images:      uploader,
		weights:     weights,
		timeout:     cfg.DBOperationTimeout,
		logger:      logger.With("module", "profiles"),
		now:         time.Now,
	}
}

func validateProfile(p *models.ProfileWrite) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("%w: id is required", common.ErrInvalidInput)
	case p.Name == "":
		return fmt.Errorf("%w: name is required", common.ErrInvalidInput)
	case !sanitize.IsEmail(p.Email):
		return fmt.Errorf("%w: email %q is not valid", common.ErrInvalidInput, p.Email)
	}
	return nil
}

// Sync creates the profile or merges the write into the stored one. Optional
// fields that sanitize to absent never overwrite stored values.
func (s *ProfileService) Sync(ctx context.Context, in sanitize.ProfileInput) (*models.Profile, error) {
	p := sanitize.Profile(in)
	if err := validateProfile(&p); err != nil {
		return nil, err
	}

	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	row, err := s.repomanager.Profiles(s.db).Upsert(opCtx, &p)
	if err != nil {
		return nil, err
	}
	profile, err := records.MapProfile(row)
	if err != nil {
		return nil, err
	}

	s.recordWeight(ctx, row, profile)
	s.logger.Info(ctx, "profile synced", "user_id", p.ID)
	return profile, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	row, err := s.repomanager.Profiles(s.db).FindByID(opCtx, id)
	if err != nil {
		return nil, err
	}
	return records.MapProfile(row)
}

// Update applies only the fields in carries after sanitization; everything
// else stays as stored.
func (s *ProfileService) Update(ctx context.Context, id string, in sanitize.ProfileInput) (*models.Profile, error) {
	p := sanitize.Profile(in)
	p.ID = id
	if p.Email != "" && !sanitize.IsEmail(p.Email) {
		return nil, fmt.Errorf("%w: email %q is not valid", common.ErrInvalidInput, p.Email)
	}

	return s.update(ctx, id, records.ProfileUpdateAssignments(&p))
}

// SetAvatar stores a new avatar for the profile. An inline payload is
// uploaded to object storage first and only its URL is persisted; an empty
// payload clears the avatar.
func (s *ProfileService) SetAvatar(ctx context.Context, id, payload string) (*models.Profile, error) {
	var url any
	switch {
	case sanitize.IsInlinePayload(payload):
		if s.images == nil {
			return nil, fmt.Errorf("%w: image uploads are not configured", common.ErrInvalidInput)
		}
		u, err := s.images.UploadInline(ctx, "avatars/"+id, payload)
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		url = u
	case strings.TrimSpace(payload) != "":
		url = payload
	}

	return s.update(ctx, id, []dbx.Assignment{dbx.Set("photo_url", url)})
}

// AvatarUploadURL prepares a direct avatar upload for profile id. The caller
// PUTs the image to the returned URL and then stores PublicURL with
// SetAvatar.
func (s *ProfileService) AvatarUploadURL(ctx context.Context, id string) (*images.Upload, error) {
	if s.images == nil {
		return nil, fmt.Errorf("%w: image uploads are not configured", common.ErrInvalidInput)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	up, err := s.images.PresignedPutURL(ctx, "avatars/"+id)
	if err != nil {
		return nil, fmt.Errorf("presign avatar: %w", err)
	}
	return up, nil
}

func (s *ProfileService) update(ctx context.Context, id string, set []dbx.Assignment) (*models.Profile, error) {
	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	row, err := s.repomanager.Profiles(s.db).Update(opCtx, id, set)
	if err != nil {
		return nil, err
	}
	profile, err := records.MapProfile(row)
	if err != nil {
		return nil, err
	}

	s.recordWeight(ctx, row, profile)
	return profile, nil
}

// Delete removes the profile together with its meals and weight history.
func (s *ProfileService) Delete(ctx context.Context, id string) (bool, error) {
	opCtx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	deleted, err := s.repomanager.Profiles(s.db).Delete(opCtx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info(ctx, "profile deleted", "user_id", id)
	}
	return deleted, nil
}

// recordWeight appends a history point when the write behind row changed
// the stored weight. The profile write has already succeeded, so a failure
// is only logged.
func (s *ProfileService) recordWeight(ctx context.Context, row models.RawRow, p *models.Profile) {
	if p.Weight == nil || s.weights == nil {
		return
	}
	prev, err := records.PreviousWeight(row)
	if err != nil {
		s.logger.Warn(ctx, "previous weight unreadable", "user_id", p.ID, "error", err)
	}
	if prev != nil && *prev == *p.Weight {
		return
	}
	if err := s.weights.Record(ctx, p.ID, *p.Weight, s.now()); err != nil {
		s.logger.Warn(ctx, "weight history not recorded", "user_id", p.ID, "error", err)
	}
}
