package subdomain

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxAttempts bounds the probe loop: the base label plus suffixes 2..100.
const DefaultMaxAttempts = 100

var (
	// ErrAllocationExhausted is returned when every candidate up to the ceiling is taken.
	ErrAllocationExhausted = errors.New("unable to generate unique subdomain")

	// ErrLabelTaken is returned by a ClaimFunc when the store's uniqueness
	// constraint rejected the label.
	ErrLabelTaken = errors.New("subdomain already taken")

	// ErrEmptyLabel is returned when the business name has no usable characters.
	ErrEmptyLabel = errors.New("business name must contain at least one letter or digit")
)

// Store answers whether a label is already assigned to a tenant.
type Store interface {
	SubdomainExists(ctx context.Context, label string) (bool, error)
}

// ClaimFunc persists a tenant under label. It returns ErrLabelTaken (possibly
// wrapped) when the insert lost a race for the label.
type ClaimFunc func(ctx context.Context, label string) error

// AttemptObserver receives the outcome of an allocation. attempts counts the
// candidates that were examined.
type AttemptObserver func(attempts int, err error)

// Allocator assigns unique subdomain labels derived from business names.
type Allocator struct {
	store       Store
	reserved    map[string]struct{}
	maxAttempts int
	observe     AttemptObserver
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithMaxAttempts overrides the probe ceiling.
func WithMaxAttempts(n int) AllocatorOption {
	return func(a *Allocator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// WithReserved marks labels that must never be handed out.
func WithReserved(labels ...string) AllocatorOption {
	return func(a *Allocator) {
		for _, l := range labels {
			a.reserved[l] = struct{}{}
		}
	}
}

// WithObserver registers a callback invoked once per allocation.
func WithObserver(fn AttemptObserver) AllocatorOption {
	return func(a *Allocator) {
		a.observe = fn
	}
}

// NewAllocator creates an allocator backed by store.
func NewAllocator(store Store, opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		store:       store,
		reserved:    make(map[string]struct{}),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns the first candidate label for businessName that the store
// does not know about. The result is only a pre-check: two concurrent callers
// can receive the same label. Use AllocateWith when the label is persisted.
func (a *Allocator) Allocate(ctx context.Context, businessName string) (string, error) {
	return a.AllocateWith(ctx, businessName, nil)
}

// AllocateWith walks the candidates base, base-2, base-3, ... and hands each
// free one to claim. A claim failing with ErrLabelTaken moves on to the next
// suffix; any other claim error aborts. A nil claim accepts the first free label.
func (a *Allocator) AllocateWith(ctx context.Context, businessName string, claim ClaimFunc) (label string, err error) {
	attempts := 0
	defer func() {
		if a.observe != nil {
			a.observe(attempts, err)
		}
	}()

	base := Slugify(businessName)
	if base == "" {
		return "", ErrEmptyLabel
	}

	for attempts < a.maxAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := base
		if attempts > 0 {
			candidate = withSuffix(base, attempts+1)
		}
		attempts++

		if _, reserved := a.reserved[candidate]; reserved {
			continue
		}

		exists, err := a.store.SubdomainExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check subdomain %q: %w", candidate, err)
		}
		if exists {
			continue
		}

		if claim == nil {
			return candidate, nil
		}
		if err := claim(ctx, candidate); err != nil {
			if errors.Is(err, ErrLabelTaken) {
				continue
			}
			return "", err
		}
		return candidate, nil
	}

	return "", fmt.Errorf("%w for %q after %d attempts", ErrAllocationExhausted, base, attempts)
}
