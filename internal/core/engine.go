package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Engine fans one fetch out per account and collects the documents that
// succeeded. Failed accounts are logged and dropped: only success results
// may contribute observations downstream.
type Engine struct {
	mu        sync.RWMutex
	providers map[string]QuotaProvider // keyed by provider ID
	timeout   time.Duration
}

func NewEngine(timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Engine{
		providers: make(map[string]QuotaProvider),
		timeout:   timeout,
	}
}

func (e *Engine) RegisterProvider(p QuotaProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.providers[p.ID()] = p
}

func (e *Engine) Provider(id string) (QuotaProvider, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.providers[id]
	return p, ok
}

// Collect fetches quota documents for every account concurrently. The
// returned slice preserves the account order from the input: downstream
// display-name selection is first-seen and must follow config order, not
// goroutine completion order.
func (e *Engine) Collect(ctx context.Context, accounts []AccountConfig) []QuotaDocument {
	results := make([]*QuotaDocument, len(accounts))

	var wg sync.WaitGroup
	for i, acct := range accounts {
		wg.Add(1)
		go func(idx int, a AccountConfig) {
			defer wg.Done()

			doc, err := e.fetchOne(ctx, a)
			if err != nil {
				log.WithFields(log.Fields{
					"account":  a.ID,
					"provider": a.Provider,
				}).Warnf("quota fetch failed: %v", err)
				return
			}
			results[idx] = &doc
		}(i, acct)
	}
	wg.Wait()

	out := make([]QuotaDocument, 0, len(accounts))
	for _, doc := range results {
		if doc != nil {
			out = append(out, *doc)
		}
	}
	return out
}

func (e *Engine) fetchOne(ctx context.Context, acct AccountConfig) (QuotaDocument, error) {
	e.mu.RLock()
	provider, ok := e.providers[acct.Provider]
	e.mu.RUnlock()
	if !ok {
		return QuotaDocument{}, fmt.Errorf("no provider adapter registered for %q", acct.Provider)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return provider.Fetch(fetchCtx, acct)
}
