package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"splitbill/models"
	"splitbill/pkg/venmo"
)

// Dispatcher issues one payment request per assigned item, sequentially.
type Dispatcher struct {
	svc             venmo.Service
	continueOnError bool
	observe         func(models.Outcome)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithContinueOnError records a payment-network error against its item and
// carries on with the rest of the batch instead of stopping.
func WithContinueOnError() DispatcherOption {
	return func(d *Dispatcher) { d.continueOnError = true }
}

// WithOutcomeObserver is called once per item that was attempted.
func WithOutcomeObserver(fn func(models.Outcome)) DispatcherOption {
	return func(d *Dispatcher) { d.observe = fn }
}

// NewDispatcher binds a dispatcher to a payment capability.
func NewDispatcher(svc venmo.Service, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{svc: svc}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch makes a single pass over items. An unknown recipient is a
// per-item failure and never stops the batch. A payment-network error
// stops it unless WithContinueOnError was given; items after the stop get
// no result entry.
func (d *Dispatcher) Dispatch(ctx context.Context, items []models.AssignedItem) []models.DispatchResult {
	results := make([]models.DispatchResult, 0, len(items))
	for i, it := range items {
		outcome, msg := d.dispatchOne(ctx, it)
		if d.observe != nil {
			d.observe(outcome)
		}
		results = append(results, models.DispatchResult{Status: outcome.Status(), Message: msg})
		if outcome == models.OutcomeServiceError && !d.continueOnError {
			slog.Warn("payment dispatch aborted", "failed_item", i, "skipped", len(items)-i-1)
			break
		}
	}
	return results
}

func (d *Dispatcher) dispatchOne(ctx context.Context, it models.AssignedItem) (models.Outcome, string) {
	user, err := d.svc.FindUser(ctx, it.AssignedTo)
	if errors.Is(err, venmo.ErrUserNotFound) || (err == nil && (user == nil || user.ID == "")) {
		slog.Info("payment recipient not found", "username", it.AssignedTo)
		return models.OutcomeNotFound, fmt.Sprintf("User not found: %s", it.AssignedTo)
	}
	if err != nil {
		slog.Error("payment recipient lookup failed", "username", it.AssignedTo, "error", err)
		return models.OutcomeServiceError, fmt.Sprintf("Error requesting payments: %v", err)
	}

	if err := d.svc.RequestPayment(ctx, it.Cost, "Payment for "+it.Name, user.ID); err != nil {
		slog.Error("payment request failed", "username", it.AssignedTo, "error", err)
		return models.OutcomeServiceError, fmt.Sprintf("Error requesting payments: %v", err)
	}
	amount := it.Cost.StringFixed(2)
	slog.Info("payment requested", "username", it.AssignedTo, "amount", amount)
	return models.OutcomeSuccess, fmt.Sprintf("Requested $%s from %s for %s", amount, it.AssignedTo, it.Name)
}
