package movement

import (
	"context"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconciliationService finds conversion and transfer rows whose sibling is
// missing. Group writes are transactional, so orphans only come from legacy
// data or manual database surgery; the sweep surfaces them and can optionally
// remove them.
type ReconciliationService struct {
	repo        movement.Repository
	invalidator Invalidator
	logger      *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(repo movement.Repository, invalidator Invalidator, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{repo: repo, invalidator: invalidator, logger: logger}
}

// OrphanRow describes one movement missing its group sibling
type OrphanRow struct {
	MovementID uuid.UUID `json:"movement_id"`
	GroupID    uuid.UUID `json:"group_id"`
	Amount     string    `json:"amount"`
	WalletID   uuid.UUID `json:"wallet_id"`
}

// SweepResult summarizes one reconciliation pass
type SweepResult struct {
	Orphans  []OrphanRow `json:"orphans"`
	Repaired int         `json:"repaired"`
}

// GroupOrganizationLister lists the organizations that have paired rows.
// Satisfied by the GORM movement repository.
type GroupOrganizationLister interface {
	DistinctGroupOrganizations(ctx context.Context) ([]uuid.UUID, error)
}

// SweepAll runs Sweep for every organization that has paired rows
func (s *ReconciliationService) SweepAll(ctx context.Context, lister GroupOrganizationLister, repair bool) error {
	organizationIDs, err := lister.DistinctGroupOrganizations(ctx)
	if err != nil {
		return err
	}
	for _, organizationID := range organizationIDs {
		result, err := s.Sweep(ctx, organizationID, repair)
		if err != nil {
			s.logger.Error("reconciliation sweep failed",
				zap.String("organization_id", organizationID.String()),
				zap.Error(err))
			continue
		}
		if len(result.Orphans) > 0 {
			s.logger.Warn("reconciliation sweep found orphans",
				zap.String("organization_id", organizationID.String()),
				zap.Int("orphans", len(result.Orphans)),
				zap.Int("repaired", result.Repaired))
		}
	}
	return nil
}

// Sweep scans an organization for orphaned group rows. With repair set, the
// orphan rows are deleted; otherwise they are only reported.
func (s *ReconciliationService) Sweep(ctx context.Context, organizationID uuid.UUID, repair bool) (*SweepResult, error) {
	rows, err := s.repo.FindOrphanGroupRows(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Orphans: make([]OrphanRow, 0, len(rows))}
	for _, m := range rows {
		groupID := m.GroupID()
		if groupID == nil {
			continue
		}
		s.logger.Error("orphaned movement group row",
			zap.String("organization_id", organizationID.String()),
			zap.String("movement_id", m.ID.String()),
			zap.String("group_id", groupID.String()),
			zap.String("amount", m.Amount.String()))

		result.Orphans = append(result.Orphans, OrphanRow{
			MovementID: m.ID,
			GroupID:    *groupID,
			Amount:     m.Amount.String(),
			WalletID:   m.WalletID,
		})

		if !repair {
			continue
		}
		if err := s.repo.DeleteForOrganization(ctx, m.ID, organizationID); err != nil {
			s.logger.Error("failed to delete orphaned row",
				zap.String("movement_id", m.ID.String()),
				zap.Error(err))
			continue
		}
		result.Repaired++
	}

	if result.Repaired > 0 {
		fireAfterWrite(s.invalidator, NopNotifier{}, s.logger, organizationID, "movement.reconciled")
	}
	return result, nil
}
