package services

import (
	"context"
	"errors"
	"fmt"

	"networth/internal/amqp"
	"networth/internal/core"
	"networth/internal/log"
)

// Repository is the line item store the service drives.
type Repository interface {
	Initialize(ctx context.Context) error
	ListAll(ctx context.Context) ([]core.LineItem, error)
	Create(ctx context.Context, in core.LineItemInput) (core.LineItem, error)
	Get(ctx context.Context, id int64) (core.LineItem, error)
	Update(ctx context.Context, id int64, in core.LineItemInput) error
	Delete(ctx context.Context, id int64) error
	Snapshot(ctx context.Context) (core.Snapshot, error)
	Ping(ctx context.Context) error
	Close() error
}

// Publisher receives a notification after each committed mutation.
type Publisher interface {
	PublishLineItemEvent(ctx context.Context, id int64, action amqp.Action) error
	Close() error
}

// Summary is the totals and composition computed from one snapshot.
type Summary struct {
	Totals core.Totals
	Shares []core.Share
}

// NetWorthService is the entry point for presentation layers. Every read of
// totals or shares is recomputed from a fresh snapshot.
type NetWorthService struct {
	repo      Repository
	publisher Publisher
	logger    *log.Logger
}

// NewNetWorthService wires a repository and an optional publisher.
func NewNetWorthService(repo Repository, publisher Publisher, logger *log.Logger) *NetWorthService {
	if logger == nil {
		logger = log.Default()
	}
	return &NetWorthService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLineItems),
	}
}

func (s *NetWorthService) Initialize(ctx context.Context) error {
	if err := s.repo.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	return nil
}

func (s *NetWorthService) ListAll(ctx context.Context) ([]core.LineItem, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	return items, nil
}

func (s *NetWorthService) Get(ctx context.Context, id int64) (core.LineItem, error) {
	li, err := s.repo.Get(ctx, id)
	if err != nil {
		return core.LineItem{}, fmt.Errorf("get line item: %w", err)
	}
	return li, nil
}

// Create persists a new line item and publishes a created event.
func (s *NetWorthService) Create(ctx context.Context, in core.LineItemInput) (core.LineItem, error) {
	li, err := s.repo.Create(ctx, in)
	if err != nil {
		return core.LineItem{}, err
	}

	s.logger.InfoContext(ctx, "Line item created",
		log.NewFields().
			WithLineItem(li.ID, li.Name, li.Status.String(), li.Amount).
			WithOperation(log.OpCreate).
			ToSlice()...)

	s.publish(ctx, li.ID, amqp.ActionCreated)
	return li, nil
}

// Update overwrites the line item keyed by id and publishes an updated event.
func (s *NetWorthService) Update(ctx context.Context, id int64, in core.LineItemInput) error {
	if err := s.repo.Update(ctx, id, in); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Line item updated",
		log.FieldItemID, id,
		log.FieldOperation, log.OpUpdate)

	s.publish(ctx, id, amqp.ActionUpdated)
	return nil
}

// Delete removes the line item keyed by id and publishes a deleted event.
func (s *NetWorthService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Line item deleted",
		log.FieldItemID, id,
		log.FieldOperation, log.OpDelete)

	s.publish(ctx, id, amqp.ActionDeleted)
	return nil
}

func (s *NetWorthService) Snapshot(ctx context.Context) (core.Snapshot, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return snap, nil
}

// Totals returns assets, liabilities and net worth over all line items.
func (s *NetWorthService) Totals(ctx context.Context) (core.Totals, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return core.Totals{}, err
	}
	return core.ComputeTotals(snap), nil
}

// CompositionShares returns each line item's raw amount for charting.
func (s *NetWorthService) CompositionShares(ctx context.Context) ([]core.Share, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return core.ComputeShares(snap), nil
}

// Summary computes totals and shares from a single snapshot.
func (s *NetWorthService) Summary(ctx context.Context) (Summary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Totals: core.ComputeTotals(snap),
		Shares: core.ComputeShares(snap),
	}, nil
}

// Ready reports whether the store is reachable.
func (s *NetWorthService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish never fails the caller: the mutation is already committed.
func (s *NetWorthService) publish(ctx context.Context, id int64, action amqp.Action) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No publisher configured, skipping line item event", log.FieldItemID, id)
		return
	}
	if err := s.publisher.PublishLineItemEvent(ctx, id, action); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish line item event",
			log.FieldItemID, id,
			"action", action,
			log.FieldOperation, log.OpPublish,
			log.FieldError, err)
	}
}

// Close releases the store and the publisher.
func (s *NetWorthService) Close() error {
	var errs []error

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close networth service: %w", errors.Join(errs...))
	}

	return nil
}
