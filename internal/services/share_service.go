package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/openmol/chemvault/internal/models"
	apperrors "github.com/openmol/chemvault/pkg/errors"
	"github.com/openmol/chemvault/pkg/metrics"
)

// DefaultShareTTL is how long a grant stays valid when no duration is configured.
const DefaultShareTTL = 7 * 24 * time.Hour

// ShareConfig describes tunable behaviour for the ShareService.
type ShareConfig struct {
	TTL   time.Duration
	Clock func() time.Time
}

// GrantResult reports the outcome of a grant call.
type GrantResult struct {
	Share   *models.CompoundShare
	Created bool
}

// ShareListEntry is one row of the owner's share listing for a compound.
type ShareListEntry struct {
	Username   string     `json:"user"`
	SharedAt   time.Time  `json:"shared_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	HasExpired bool       `json:"has_expired"`
}

// ShareService owns the share ledger: grants linking a compound to a grantee
// with issuance and expiration timestamps.
type ShareService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewShareService constructs a share service.
func NewShareService(db *gorm.DB, cfg ShareConfig) (*ShareService, error) {
	if db == nil {
		return nil, errors.New("share service: db is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultShareTTL
	}

	clock := time.Now
	if cfg.Clock != nil {
		clock = cfg.Clock
	}

	return &ShareService{db: db, ttl: ttl, now: clock}, nil
}

// Grant shares a compound with the grantee until now + TTL. Only the owner may
// grant. Granting again for the same (compound, grantee) pair refreshes the
// expiration on the existing row; SharedAt keeps its original value. The
// update-then-insert runs in a transaction and falls back to an update when an
// insert loses a race on the uniqueness index, so concurrent grants never
// produce two rows for the same pair.
func (s *ShareService) Grant(ctx context.Context, grantorID, compoundID, granteeID string) (*GrantResult, error) {
	ctx = ensureContext(ctx)

	granteeID = strings.TrimSpace(granteeID)
	if granteeID == "" {
		return nil, apperrors.NewBadRequest("grantee user id is required")
	}

	now := s.now()

	compound, err := loadOwnedCompound(ctx, s.db, grantorID, compoundID, now)
	if err != nil {
		return nil, err
	}

	var grantee models.User
	err = s.db.WithContext(ctx).Select("id").First(&grantee, "id = ?", granteeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("share service: load grantee: %w", err)
	}

	expiresAt := now.Add(s.ttl)
	created := false

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CompoundShare{}).
			Where("compound_id = ? AND user_id = ?", compound.ID, granteeID).
			Update("expires_at", &expiresAt)
		if res.Error != nil {
			return fmt.Errorf("share service: refresh grant: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		share := models.CompoundShare{
			CompoundID: compound.ID,
			UserID:     granteeID,
			SharedAt:   now,
			ExpiresAt:  &expiresAt,
		}
		if err := tx.Create(&share).Error; err != nil {
			if isUniqueConstraintError(err) {
				// Lost the race against a concurrent grant; refresh in place.
				return tx.Model(&models.CompoundShare{}).
					Where("compound_id = ? AND user_id = ?", compound.ID, granteeID).
					Update("expires_at", &expiresAt).Error
			}
			return fmt.Errorf("share service: create grant: %w", err)
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	var share models.CompoundShare
	if err := s.db.WithContext(ctx).
		First(&share, "compound_id = ? AND user_id = ?", compound.ID, granteeID).Error; err != nil {
		return nil, fmt.Errorf("share service: reload grant: %w", err)
	}

	outcome := "refreshed"
	if created {
		outcome = "created"
	}
	metrics.ShareGrants.WithLabelValues(outcome).Inc()

	return &GrantResult{Share: &share, Created: created}, nil
}

// ListShares returns every grant for the compound, expired ones included, so
// the owner can review the full sharing history.
func (s *ShareService) ListShares(ctx context.Context, requesterID, compoundID string) ([]ShareListEntry, error) {
	ctx = ensureContext(ctx)

	now := s.now()

	compound, err := loadOwnedCompound(ctx, s.db, requesterID, compoundID, now)
	if err != nil {
		return nil, err
	}

	var shares []models.CompoundShare
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("compound_id = ?", compound.ID).
		Order("shared_at").
		Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("share service: list grants: %w", err)
	}

	entries := make([]ShareListEntry, 0, len(shares))
	for i := range shares {
		entry := ShareListEntry{
			SharedAt:   shares[i].SharedAt,
			ExpiresAt:  shares[i].ExpiresAt,
			HasExpired: shares[i].HasExpiredAt(now),
		}
		if shares[i].User != nil {
			entry.Username = shares[i].User.Username
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
