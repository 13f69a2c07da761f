// Package memory implementa los repositorios sobre mapas en memoria.
// Se usa con DB_DRIVER=memory (desarrollo) y en los tests de casos de uso y HTTP.
package memory

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/varejo-api/internal/application/inventory"
	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// DB almacén compartido por todos los repositorios en memoria.
// mu protege los mapas; txMu serializa las transacciones.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	companies    map[string]entity.Company
	stores       map[string]entity.Store
	products     map[string]entity.Product
	stock        map[string]entity.StockItem
	customers    map[string]entity.Customer
	users        map[string]entity.User
	sales        map[string]entity.Sale
	installments map[string]entity.Installment
}

// NewDB crea un almacén vacío.
func NewDB() *DB {
	return &DB{
		companies:    map[string]entity.Company{},
		stores:       map[string]entity.Store{},
		products:     map[string]entity.Product{},
		stock:        map[string]entity.StockItem{},
		customers:    map[string]entity.Customer{},
		users:        map[string]entity.User{},
		sales:        map[string]entity.Sale{},
		installments: map[string]entity.Installment{},
	}
}

type snapshot struct {
	companies    map[string]entity.Company
	stores       map[string]entity.Store
	products     map[string]entity.Product
	stock        map[string]entity.StockItem
	customers    map[string]entity.Customer
	users        map[string]entity.User
	sales        map[string]entity.Sale
	installments map[string]entity.Installment
}

func (db *DB) snapshot() snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return snapshot{
		companies:    cloneMap(db.companies),
		stores:       cloneMap(db.stores),
		products:     cloneMap(db.products),
		stock:        cloneMap(db.stock),
		customers:    cloneMap(db.customers),
		users:        cloneMap(db.users),
		sales:        cloneMap(db.sales),
		installments: cloneMap(db.installments),
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.companies = s.companies
	db.stores = s.stores
	db.products = s.products
	db.stock = s.stock
	db.customers = s.customers
	db.users = s.users
	db.sales = s.sales
	db.installments = s.installments
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
)

// TxRunner emula transacciones: serializa los callbacks y, si fn falla, restaura
// el estado previo. Las escrituras hechas fuera de la tx durante su ejecución se
// pierden en el rollback; suficiente para desarrollo y tests.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run ejecuta fn con el repositorio de stock.
func (r *TxRunner) Run(ctx context.Context, fn func(stockRepo repository.StockItemRepository) error) error {
	return r.run(ctx, func() error {
		return fn(NewStockItemRepository(r.db))
	})
}

// RunSale ejecuta fn con los repositorios de venta.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	stockRepo repository.StockItemRepository,
	saleRepo repository.SaleRepository,
	installmentRepo repository.InstallmentRepository,
) error) error {
	return r.run(ctx, func() error {
		return fn(NewStockItemRepository(r.db), NewSaleRepository(r.db), NewInstallmentRepository(r.db))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	r.db.txMu.Lock()
	defer r.db.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := r.db.snapshot()
	if err := fn(); err != nil {
		r.db.restore(snap)
		return err
	}
	return nil
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold normaliza para búsqueda: minúsculas y sin acentos ("Pão" ~ "pao").
func fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// matches indica si term aparece en alguno de los campos.
func matches(term string, fields ...string) bool {
	t := fold(term)
	for _, f := range fields {
		if f != "" && strings.Contains(fold(f), t) {
			return true
		}
	}
	return false
}
