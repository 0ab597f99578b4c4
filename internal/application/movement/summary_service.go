package movement

import (
	"context"
	"strings"
	"time"

	"github.com/obralink/backend/internal/domain/movement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryService serves the dashboard's aggregated read models: wallet
// balances and the income/expense summary. Direction is decided per movement
// type by matching its root name against the configured egress/ingress
// names.
type SummaryService struct {
	repo        movement.Repository
	conceptRepo movement.ConceptRepository
	egressName  string
	ingressName string
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(repo movement.Repository, conceptRepo movement.ConceptRepository, egressName, ingressName string) *SummaryService {
	return &SummaryService{
		repo:        repo,
		conceptRepo: conceptRepo,
		egressName:  egressName,
		ingressName: ingressName,
	}
}

// WalletBalanceResponse is one wallet's balance in one currency
type WalletBalanceResponse struct {
	WalletID   uuid.UUID       `json:"wallet_id"`
	CurrencyID uuid.UUID       `json:"currency_id"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Balance    decimal.Decimal `json:"balance"`
}

// FinancialSummaryResponse aggregates income and expense per currency
type FinancialSummaryResponse struct {
	CurrencyID uuid.UUID       `json:"currency_id"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Net        decimal.Decimal `json:"net"`
}

// direction classifies a movement type as inflow (+1), outflow (-1) or
// unknown (0) by its root concept name.
func (s *SummaryService) direction(tree *movement.ConceptTree, typeID uuid.UUID) int {
	node := tree.Get(typeID)
	if node == nil {
		return 0
	}
	name := movement.NormalizeName(node.Name)
	switch {
	case strings.Contains(name, movement.NormalizeName(s.ingressName)):
		return 1
	case strings.Contains(name, movement.NormalizeName(s.egressName)):
		return -1
	}
	return 0
}

// WalletBalances aggregates movement totals per wallet and currency.
func (s *SummaryService) WalletBalances(ctx context.Context, organizationID uuid.UUID, projectID *uuid.UUID) ([]WalletBalanceResponse, error) {
	totals, err := s.repo.SumByWallet(ctx, organizationID, projectID)
	if err != nil {
		return nil, err
	}
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	type key struct{ wallet, currency uuid.UUID }
	buckets := make(map[key]*WalletBalanceResponse)
	order := make([]key, 0, len(totals))

	for _, t := range totals {
		k := key{t.WalletID, t.CurrencyID}
		b, ok := buckets[k]
		if !ok {
			b = &WalletBalanceResponse{WalletID: t.WalletID, CurrencyID: t.CurrencyID}
			buckets[k] = b
			order = append(order, k)
		}
		switch s.direction(tree, t.TypeID) {
		case 1:
			b.Income = b.Income.Add(t.Total)
			b.Balance = b.Balance.Add(t.Total)
		case -1:
			b.Expense = b.Expense.Add(t.Total)
			b.Balance = b.Balance.Sub(t.Total)
		}
	}

	out := make([]WalletBalanceResponse, 0, len(order))
	for _, k := range order {
		out = append(out, *buckets[k])
	}
	return out, nil
}

// FinancialSummary aggregates income and expense per currency within an
// optional date range.
func (s *SummaryService) FinancialSummary(ctx context.Context, organizationID uuid.UUID, projectID *uuid.UUID, from, to *time.Time) ([]FinancialSummaryResponse, error) {
	totals, err := s.repo.SumByType(ctx, organizationID, projectID, from, to)
	if err != nil {
		return nil, err
	}
	tree, err := s.conceptRepo.FindTreeForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	buckets := make(map[uuid.UUID]*FinancialSummaryResponse)
	order := make([]uuid.UUID, 0, len(totals))

	for _, t := range totals {
		b, ok := buckets[t.CurrencyID]
		if !ok {
			b = &FinancialSummaryResponse{CurrencyID: t.CurrencyID}
			buckets[t.CurrencyID] = b
			order = append(order, t.CurrencyID)
		}
		switch s.direction(tree, t.TypeID) {
		case 1:
			b.Income = b.Income.Add(t.Total)
		case -1:
			b.Expense = b.Expense.Add(t.Total)
		}
		b.Net = b.Income.Sub(b.Expense)
	}

	out := make([]FinancialSummaryResponse, 0, len(order))
	for _, id := range order {
		out = append(out, *buckets[id])
	}
	return out, nil
}
