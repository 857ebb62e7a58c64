package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"facet/internal/site/models"
	"facet/internal/site/store"
	id "facet/pkg/domain"
)

// fakeStore wraps the in-memory store with call counters and fault injection,
// so tests can assert exactly when the Content Store is consulted.
type fakeStore struct {
	inner *store.InMemory

	domainCalls   atomic.Int32
	baselineCalls atomic.Int32
	documentCalls atomic.Int32

	mu          sync.Mutex
	domainErr   error
	baselineErr error
	documentErr error
	lastDomain  string

	// domainDelay slows domain lookups so concurrency tests can overlap them.
	domainDelay time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{inner: store.NewInMemory(nil)}
}

func (f *fakeStore) setDomainErr(err error)   { f.mu.Lock(); f.domainErr = err; f.mu.Unlock() }
func (f *fakeStore) setBaselineErr(err error) { f.mu.Lock(); f.baselineErr = err; f.mu.Unlock() }
func (f *fakeStore) setDocumentErr(err error) { f.mu.Lock(); f.documentErr = err; f.mu.Unlock() }

func (f *fakeStore) lastDomainQueried() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastDomain
}

func (f *fakeStore) FindTenantByDomain(ctx context.Context, hostname string) (*models.Tenant, error) {
	f.domainCalls.Add(1)
	f.mu.Lock()
	f.lastDomain = hostname
	err := f.domainErr
	delay := f.domainDelay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return f.inner.FindTenantByDomain(ctx, hostname)
}

func (f *fakeStore) FindTenantByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	return f.inner.FindTenantByID(ctx, tenantID)
}

func (f *fakeStore) FindBaselineTenant(ctx context.Context) (*models.Tenant, error) {
	f.baselineCalls.Add(1)
	f.mu.Lock()
	err := f.baselineErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.inner.FindBaselineTenant(ctx)
}

func (f *fakeStore) FindDocument(ctx context.Context, slot id.SlotType, tenantID id.TenantID) (*models.ContentDocument, error) {
	f.documentCalls.Add(1)
	f.mu.Lock()
	err := f.documentErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.inner.FindDocument(ctx, slot, tenantID)
}

var _ store.ContentStore = (*fakeStore)(nil)
