package catalog

import (
	"context"

	"github.com/obralink/backend/internal/domain/catalog"
	"github.com/obralink/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DirectoryService serves the reference data the movement form selects from.
type DirectoryService struct {
	repo catalog.DirectoryRepository
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(repo catalog.DirectoryRepository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

// DirectoryResponse bundles the form dropdown sources in one payload
type DirectoryResponse struct {
	Currencies []catalog.Option `json:"currencies"`
	Wallets    []catalog.Option `json:"wallets"`
	Members    []catalog.Option `json:"members"`
	Contacts   []catalog.Option `json:"contacts"`
}

// Directory loads the currencies, wallets, members and contacts of an
// organization.
func (s *DirectoryService) Directory(ctx context.Context, organizationID uuid.UUID) (*DirectoryResponse, error) {
	currencies, err := s.repo.FindCurrencies(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	wallets, err := s.repo.FindWallets(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.FindMembers(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.repo.FindContacts(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	resp := &DirectoryResponse{}
	for _, c := range currencies {
		resp.Currencies = append(resp.Currencies, catalog.Option{ID: c.ID, Label: c.Code + " " + c.Name})
	}
	for _, w := range wallets {
		resp.Wallets = append(resp.Wallets, catalog.Option{ID: w.ID, Label: w.Name})
	}
	for _, m := range members {
		resp.Members = append(resp.Members, catalog.Option{ID: m.ID, Label: m.DisplayName})
	}
	for _, c := range contacts {
		resp.Contacts = append(resp.Contacts, catalog.Option{ID: c.ID, Label: c.Name})
	}
	return resp, nil
}

// RelationTargets lists the selectable targets for a relation kind.
func (s *DirectoryService) RelationTargets(ctx context.Context, organizationID uuid.UUID, kind string, projectID *uuid.UUID) ([]catalog.Option, error) {
	k := catalog.TargetKind(kind)
	if !k.IsValid() {
		return nil, shared.NewDomainError("INVALID_TARGET_KIND", "Unknown relation target kind")
	}
	return s.repo.FindRelationTargets(ctx, organizationID, k, projectID)
}

// MemberForUser maps the authenticated user to their organization member.
// Movements are always attributed to the member, never the user account.
func (s *DirectoryService) MemberForUser(ctx context.Context, userID, organizationID uuid.UUID) (*catalog.Member, error) {
	member, err := s.repo.FindMemberByUser(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "No member found for user in this organization")
	}
	return member, nil
}
