package routing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulrivera/medcart-backend/pkg/db/models"
	"github.com/saulrivera/medcart-backend/pkg/enums"
)

// Repository persists pharmacies, per-state selections, and product
// assignments.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindPharmacyByID loads one pharmacy.
func (r *Repository) FindPharmacyByID(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error) {
	var pharmacy models.Pharmacy
	if err := r.db.WithContext(ctx).First(&pharmacy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

// ListPharmaciesForMerchant returns platform pharmacies plus the merchant's
// own quick-added ones.
func (r *Repository) ListPharmaciesForMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Pharmacy, error) {
	var rows []models.Pharmacy
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? OR merchant_id = ?", enums.OwnerKindPlatform, merchantID).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreatePharmacy inserts a pharmacy row.
func (r *Repository) CreatePharmacy(ctx context.Context, pharmacy *models.Pharmacy) (*models.Pharmacy, error) {
	if err := r.db.WithContext(ctx).Create(pharmacy).Error; err != nil {
		return nil, err
	}
	return pharmacy, nil
}

// FindSelection loads the merchant's selection for a state.
func (r *Repository) FindSelection(ctx context.Context, merchantID uuid.UUID, state string) (*models.RoutingSelection, error) {
	var selection models.RoutingSelection
	err := r.db.WithContext(ctx).
		First(&selection, "merchant_id = ? AND state = ?", merchantID, state).
		Error
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

// ListSelections returns every selection row the merchant holds.
func (r *Repository) ListSelections(ctx context.Context, merchantID uuid.UUID) ([]models.RoutingSelection, error) {
	var rows []models.RoutingSelection
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("state ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateSelection inserts a new selection row.
func (r *Repository) CreateSelection(ctx context.Context, selection *models.RoutingSelection) (*models.RoutingSelection, error) {
	if err := r.db.WithContext(ctx).Create(selection).Error; err != nil {
		return nil, err
	}
	return selection, nil
}

// UpdateSelectionVersioned saves the selection only when the stored version
// still matches expectedVersion; a miss returns gorm.ErrRecordNotFound.
func (r *Repository) UpdateSelectionVersioned(ctx context.Context, selection *models.RoutingSelection, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&models.RoutingSelection{}).
		Where("id = ? AND version = ?", selection.ID, expectedVersion).
		Select("selected_pharmacy_id", "is_overridden", "version", "modified_by", "last_modified").
		Updates(selection)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateAssignment records a (state, product) claim for a pharmacy.
func (r *Repository) CreateAssignment(ctx context.Context, assignment *models.PharmacyAssignment) (*models.PharmacyAssignment, error) {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

// FindLatestAssignment returns the most recent claim on a (state, product)
// pair, which is the winning one.
func (r *Repository) FindLatestAssignment(ctx context.Context, merchantID uuid.UUID, state string, productID uuid.UUID) (*models.PharmacyAssignment, error) {
	var assignment models.PharmacyAssignment
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND state = ? AND product_id = ?", merchantID, state, productID).
		Order("assigned_at DESC, created_at DESC").
		First(&assignment).
		Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignments returns every claim for a pharmacy.
func (r *Repository) ListAssignments(ctx context.Context, pharmacyID uuid.UUID) ([]models.PharmacyAssignment, error) {
	var rows []models.PharmacyAssignment
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ?", pharmacyID).
		Order("assigned_at DESC").
		Find(&rows).
		Error
	return rows, err
}
