package movement

import (
	"context"
	"time"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMovementRepository is a mock implementation of movement.Repository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Save(ctx context.Context, mv *movement.Movement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockMovementRepository) SaveGroup(ctx context.Context, egress, ingress *movement.Movement) error {
	args := m.Called(ctx, egress, ingress)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByIDForOrganization(ctx context.Context, id, organizationID uuid.UUID) (*movement.Movement, error) {
	args := m.Called(ctx, id, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movement.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindGroup(ctx context.Context, groupID, organizationID uuid.UUID) ([]*movement.Movement, error) {
	args := m.Called(ctx, groupID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*movement.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindAllForOrganization(ctx context.Context, organizationID uuid.UUID, filter movement.ListFilter) ([]*movement.Movement, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*movement.Movement), args.Error(1)
}

func (m *MockMovementRepository) CountForOrganization(ctx context.Context, organizationID uuid.UUID, filter movement.ListFilter) (int64, error) {
	args := m.Called(ctx, organizationID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) DeleteForOrganization(ctx context.Context, id, organizationID uuid.UUID) error {
	args := m.Called(ctx, id, organizationID)
	return args.Error(0)
}

func (m *MockMovementRepository) DeleteGroupForOrganization(ctx context.Context, groupID, organizationID uuid.UUID) error {
	args := m.Called(ctx, groupID, organizationID)
	return args.Error(0)
}

func (m *MockMovementRepository) FindOrphanGroupRows(ctx context.Context, organizationID uuid.UUID) ([]*movement.Movement, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*movement.Movement), args.Error(1)
}

func (m *MockMovementRepository) SumByWallet(ctx context.Context, organizationID uuid.UUID, projectID *uuid.UUID) ([]movement.WalletTotal, error) {
	args := m.Called(ctx, organizationID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]movement.WalletTotal), args.Error(1)
}

func (m *MockMovementRepository) SumByType(ctx context.Context, organizationID uuid.UUID, projectID *uuid.UUID, from, to *time.Time) ([]movement.TypeTotal, error) {
	args := m.Called(ctx, organizationID, projectID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]movement.TypeTotal), args.Error(1)
}

// MockRelationRepository is a mock implementation of movement.RelationRepository
type MockRelationRepository struct {
	mock.Mock
}

func (m *MockRelationRepository) ReplaceForMovement(ctx context.Context, movementID uuid.UUID, relations []*movement.Relation) error {
	args := m.Called(ctx, movementID, relations)
	return args.Error(0)
}

func (m *MockRelationRepository) FindByMovement(ctx context.Context, movementID uuid.UUID) ([]*movement.Relation, error) {
	args := m.Called(ctx, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*movement.Relation), args.Error(1)
}

func (m *MockRelationRepository) DeleteForMovement(ctx context.Context, movementID uuid.UUID) error {
	args := m.Called(ctx, movementID)
	return args.Error(0)
}

// MockConceptRepository is a mock implementation of movement.ConceptRepository
type MockConceptRepository struct {
	mock.Mock
}

func (m *MockConceptRepository) FindTreeForOrganization(ctx context.Context, organizationID uuid.UUID) (*movement.ConceptTree, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movement.ConceptTree), args.Error(1)
}

func (m *MockConceptRepository) FindByID(ctx context.Context, id, organizationID uuid.UUID) (*movement.Concept, error) {
	args := m.Called(ctx, id, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*movement.Concept), args.Error(1)
}
