package inventory

import (
	"context"
	"errors"
)

// Service answers availability questions against the repository. It never
// mutates stock; the check endpoints are read-only and non-authoritative.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Check evaluates a batch of requested lines. Products missing from the
// repository report as out of stock rather than failing the whole batch.
func (s *Service) Check(ctx context.Context, lines []CheckLine) (CheckResult, error) {
	res := CheckResult{AllItemsAvailable: true}

	for _, line := range lines {
		lvl, err := s.repo.Get(ctx, line.ID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				res.Inventory = append(res.Inventory, ItemStatus{
					ID:     line.ID,
					Status: StatusOutOfStock,
				})
				res.AllItemsAvailable = false
				continue
			}
			return CheckResult{}, err
		}

		sellable := lvl.Available - lvl.Reserved
		status := StatusFor(lvl.Available, lvl.Reserved)

		if sellable < line.Quantity {
			res.AllItemsAvailable = false
		}
		if status == StatusLowStock {
			res.HasLowStock = true
		}

		res.Inventory = append(res.Inventory, ItemStatus{
			ID:                   line.ID,
			Available:            sellable,
			Reserved:             lvl.Reserved,
			Incoming:             lvl.Incoming,
			Status:               status,
			EstimatedRestockDate: lvl.RestockDate,
		})
	}

	res.Summary = summarize(res.Inventory)
	res.Summary.TotalItems = len(lines)
	return res, nil
}

// Lookup returns the derived status for a single product.
func (s *Service) Lookup(ctx context.Context, productID string) (ItemStatus, error) {
	lvl, err := s.repo.Get(ctx, productID)
	if err != nil {
		return ItemStatus{}, err
	}
	return ItemStatus{
		ID:                   lvl.ProductID,
		Available:            lvl.Available - lvl.Reserved,
		Reserved:             lvl.Reserved,
		Incoming:             lvl.Incoming,
		Status:               StatusFor(lvl.Available, lvl.Reserved),
		EstimatedRestockDate: lvl.RestockDate,
	}, nil
}

func summarize(items []ItemStatus) Summary {
	var sum Summary
	for _, it := range items {
		switch it.Status {
		case StatusInStock:
			sum.InStock++
		case StatusLowStock:
			sum.LowStock++
		case StatusOutOfStock:
			sum.OutOfStock++
		case StatusBackordered:
			sum.Backordered++
		}
	}
	return sum
}
