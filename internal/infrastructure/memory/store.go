// Package memory is a process-local implementation of the repositories and
// the billing transaction runner. It applies the same unique, restrict and
// cascade rules as the Postgres schema.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Sanket93s/gst-billing-system/internal/application/billing"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepository)(nil)
	_ repository.ProductRepository  = (*ProductRepository)(nil)
	_ repository.InvoiceRepository  = (*InvoiceRepository)(nil)
	_ billing.BillingTxRunner       = (*Store)(nil)
)

var errReadOnly = errors.New("memory: write in read-only snapshot")

// Store holds all committed records. Transactions are serialized and work
// on a private copy that replaces the committed state only on success, so
// readers never observe a transaction in progress.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	committed *state
}

type state struct {
	customers map[string]customerRow
	products  map[string]productRow
	invoices  map[string]invoiceRow
	items     map[string]itemRow
}

func newState() *state {
	return &state{
		customers: make(map[string]customerRow),
		products:  make(map[string]productRow),
		invoices:  make(map[string]invoiceRow),
		items:     make(map[string]itemRow),
	}
}

func (st *state) clone() *state {
	return &state{
		customers: cloneMap(st.customers),
		products:  cloneMap(st.products),
		invoices:  cloneMap(st.invoices),
		items:     cloneMap(st.items),
	}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

// Customers returns a repository outside any transaction.
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{view{s: s}} }

// Products returns a repository outside any transaction.
func (s *Store) Products() *ProductRepository { return &ProductRepository{view{s: s}} }

// Invoices returns a repository outside any transaction.
func (s *Store) Invoices() *InvoiceRepository { return &InvoiceRepository{view{s: s}} }

// RunBilling implements billing.BillingTxRunner.
func (s *Store) RunBilling(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	v := view{s: s, st: work}
	if err := fn(&CustomerRepository{v}, &ProductRepository{v}, &InvoiceRepository{v}); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// ReadSnapshot implements billing.SnapshotReader. Commits wait until fn
// returns.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := view{s: s, st: s.committed, readOnly: true}
	return fn(&CustomerRepository{v}, &ProductRepository{v}, &InvoiceRepository{v})
}

// view binds a repository to a state. A nil st means the committed state,
// locked per call.
type view struct {
	s        *Store
	st       *state
	readOnly bool
}

func (v view) read(fn func(st *state)) {
	if v.st != nil {
		fn(v.st)
		return
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.committed)
}

// write outside a transaction waits for any running transaction, whose
// commit would otherwise overwrite it.
func (v view) write(fn func(st *state) error) error {
	if v.readOnly {
		return errReadOnly
	}
	if v.st != nil {
		return fn(v.st)
	}
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.committed)
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
