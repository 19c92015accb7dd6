package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openmol/chemvault/internal/models"
	apperrors "github.com/openmol/chemvault/pkg/errors"
)

// CreateCompoundInput describes the fields accepted when creating a compound.
type CreateCompoundInput struct {
	Name       string
	Smiles     string
	Properties map[string]any
}

// UpdateCompoundInput enumerates mutable compound attributes; nil fields are
// left unchanged.
type UpdateCompoundInput struct {
	Name       *string
	Smiles     *string
	Properties map[string]any
}

// CompoundService manages compound CRUD and resolves per-user visibility:
// a user sees the compounds they own plus those actively shared with them.
type CompoundService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCompoundService constructs a CompoundService instance.
func NewCompoundService(db *gorm.DB, clock func() time.Time) (*CompoundService, error) {
	if db == nil {
		return nil, errors.New("compound service: db is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &CompoundService{db: db, now: clock}, nil
}

// Create persists a new compound owned by ownerID.
func (s *CompoundService) Create(ctx context.Context, ownerID string, input CreateCompoundInput) (*models.Compound, error) {
	ctx = ensureContext(ctx)

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	smiles := strings.TrimSpace(input.Smiles)
	if smiles == "" {
		return nil, apperrors.NewBadRequest("smiles is required")
	}

	properties, err := encodeProperties(input.Properties)
	if err != nil {
		return nil, err
	}

	compound := &models.Compound{
		Name:       name,
		Smiles:     smiles,
		OwnerID:    ownerID,
		Properties: properties,
	}

	if err := s.db.WithContext(ctx).Create(compound).Error; err != nil {
		return nil, fmt.Errorf("compound service: create compound: %w", err)
	}
	return compound, nil
}

// List resolves the compounds visible to userID at the service clock's now:
// owned plus actively shared, each appearing once. A non-empty query keeps
// only compounds whose name or smiles contains it, case-insensitively. No
// ordering is guaranteed beyond a stable name sort for presentation.
func (s *CompoundService) List(ctx context.Context, userID, query string) ([]models.Compound, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	tx := s.visibleScope(ctx, userID, s.now())

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(smiles) LIKE ?", pattern, pattern)
	}

	var compounds []models.Compound
	if err := tx.Order("name").Find(&compounds).Error; err != nil {
		return nil, fmt.Errorf("compound service: list compounds: %w", err)
	}
	return compounds, nil
}

// Get returns a compound by id when it is inside the user's visibility set;
// anything else reads as not found.
func (s *CompoundService) Get(ctx context.Context, userID, id string) (*models.Compound, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var compound models.Compound
	err := s.visibleScope(ctx, userID, s.now()).
		First(&compound, "compounds.id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCompoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("compound service: get compound: %w", err)
	}
	return &compound, nil
}

// Update applies a partial update to an owned compound.
func (s *CompoundService) Update(ctx context.Context, actorID, id string, input UpdateCompoundInput) (*models.Compound, error) {
	ctx = ensureContext(ctx)

	compound, err := loadOwnedCompound(ctx, s.db, actorID, id, s.now())
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Smiles != nil {
		smiles := strings.TrimSpace(*input.Smiles)
		if smiles == "" {
			return nil, apperrors.NewBadRequest("smiles cannot be empty")
		}
		updates["smiles"] = smiles
	}
	if input.Properties != nil {
		properties, err := encodeProperties(input.Properties)
		if err != nil {
			return nil, err
		}
		updates["properties"] = properties
	}

	if len(updates) == 0 {
		return compound, nil
	}

	if err := s.db.WithContext(ctx).Model(compound).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("compound service: update compound: %w", err)
	}
	return compound, nil
}

// Delete removes an owned compound together with all of its share rows.
func (s *CompoundService) Delete(ctx context.Context, actorID, id string) error {
	ctx = ensureContext(ctx)

	compound, err := loadOwnedCompound(ctx, s.db, actorID, id, s.now())
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("compound_id = ?", compound.ID).Delete(&models.CompoundShare{}).Error; err != nil {
			return fmt.Errorf("compound service: cascade shares: %w", err)
		}
		if err := tx.Delete(compound).Error; err != nil {
			return fmt.Errorf("compound service: delete compound: %w", err)
		}
		return nil
	})
}

// visibleScope builds the owned-or-actively-shared filter evaluated at the
// supplied time. Both the list and search views use this same scope.
func (s *CompoundService) visibleScope(ctx context.Context, userID string, at time.Time) *gorm.DB {
	activeShares := s.db.Model(&models.CompoundShare{}).
		Select("compound_id").
		Where("user_id = ? AND (expires_at IS NULL OR expires_at >= ?)", userID, at)

	return s.db.WithContext(ctx).
		Model(&models.Compound{}).
		Where("owner_id = ? OR compounds.id IN (?)", userID, activeShares)
}

func encodeProperties(properties map[string]any) (datatypes.JSON, error) {
	if len(properties) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(properties)
	if err != nil {
		return nil, apperrors.NewBadRequest("properties must be JSON serialisable")
	}
	return datatypes.JSON(raw), nil
}
