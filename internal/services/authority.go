package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/openmol/chemvault/internal/models"
	apperrors "github.com/openmol/chemvault/pkg/errors"
)

// ErrCompoundNotFound indicates the requested compound does not exist or is
// outside the actor's visibility set.
var ErrCompoundNotFound = apperrors.New("COMPOUND_NOT_FOUND", "Compound not found", http.StatusNotFound)

// loadOwnedCompound is the single authority check applied before any mutating
// or sharing operation on a compound. Policy for actors other than the owner:
//   - no row, or no active grant for the actor: ErrCompoundNotFound, so the
//     existence of other users' compounds is never leaked;
//   - active grantee: ErrForbidden, since the compound is already inside the
//     actor's visibility set and a 404 would contradict their own list view.
func loadOwnedCompound(ctx context.Context, db *gorm.DB, actorID, compoundID string, at time.Time) (*models.Compound, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	compoundID = strings.TrimSpace(compoundID)
	if compoundID == "" {
		return nil, apperrors.NewBadRequest("compound id is required")
	}

	var compound models.Compound
	err := db.WithContext(ctx).First(&compound, "id = ?", compoundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCompoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load compound: %w", err)
	}

	if compound.OwnerID == actorID {
		return &compound, nil
	}

	var share models.CompoundShare
	err = db.WithContext(ctx).
		First(&share, "compound_id = ? AND user_id = ?", compoundID, actorID).Error
	if err == nil && share.IsActiveAt(at) {
		return nil, apperrors.ErrForbidden
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load share: %w", err)
	}

	return nil, ErrCompoundNotFound
}
