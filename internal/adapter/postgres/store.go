package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saasmesh/saasmesh/internal/domain"
	"github.com/saasmesh/saasmesh/internal/domain/order"
	"github.com/saasmesh/saasmesh/internal/domain/product"
	"github.com/saasmesh/saasmesh/internal/identity"
	"github.com/saasmesh/saasmesh/internal/port/datastore"
)

// Store implements datastore.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store using the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ForTenant returns a handle bound to the given tenant's partition. Every
// query issued through the handle carries tenant_id in its key condition;
// there is no code path that reads a table without the tenant filter.
func (s *Store) ForTenant(id identity.TenantIdentity) datastore.TenantStore {
	return &TenantStore{pool: s.pool, tenant: id}
}

// TenantStore is the pgx-backed tenant-scoped handle.
type TenantStore struct {
	pool   *pgxpool.Pool
	tenant identity.TenantIdentity
}

// --- Products ---

func (t *TenantStore) PutProduct(ctx context.Context, p *product.Product) error {
	_, err := t.pool.Exec(ctx,
		`INSERT INTO products (tenant_id, product_id, name, description, price)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.tenant.TenantID, p.ProductID, p.Name, p.Description, p.Price)
	if err != nil {
		return fmt.Errorf("put product %s: %w", p.ProductID, err)
	}
	return nil
}

func (t *TenantStore) GetProduct(ctx context.Context, productID string) (*product.Product, error) {
	p := product.Product{TenantID: t.tenant.TenantID}
	err := t.pool.QueryRow(ctx,
		`SELECT product_id, name, description, price
		 FROM products WHERE tenant_id = $1 AND product_id = $2`,
		t.tenant.TenantID, productID,
	).Scan(&p.ProductID, &p.Name, &p.Description, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get product %s: %w", productID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	return &p, nil
}

func (t *TenantStore) ListProducts(ctx context.Context) ([]product.Product, error) {
	rows, err := t.pool.Query(ctx,
		`SELECT product_id, name, description, price
		 FROM products WHERE tenant_id = $1 ORDER BY created_at ASC`,
		t.tenant.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		p := product.Product{TenantID: t.tenant.TenantID}
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Description, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// --- Orders ---

func (t *TenantStore) PutOrder(ctx context.Context, o *order.Order) error {
	productsJSON, err := json.Marshal(o.Products)
	if err != nil {
		return fmt.Errorf("marshal order products: %w", err)
	}

	_, err = t.pool.Exec(ctx,
		`INSERT INTO orders (tenant_id, order_id, name, description, products)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.tenant.TenantID, o.OrderID, o.Name, o.Description, productsJSON)
	if err != nil {
		return fmt.Errorf("put order %s: %w", o.OrderID, err)
	}
	return nil
}

func (t *TenantStore) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	o := order.Order{TenantID: t.tenant.TenantID}
	var productsJSON []byte
	err := t.pool.QueryRow(ctx,
		`SELECT order_id, name, description, products
		 FROM orders WHERE tenant_id = $1 AND order_id = $2`,
		t.tenant.TenantID, orderID,
	).Scan(&o.OrderID, &o.Name, &o.Description, &productsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get order %s: %w", orderID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if err := json.Unmarshal(productsJSON, &o.Products); err != nil {
		return nil, fmt.Errorf("unmarshal order products: %w", err)
	}
	return &o, nil
}

func (t *TenantStore) ListOrders(ctx context.Context) ([]order.Order, error) {
	rows, err := t.pool.Query(ctx,
		`SELECT order_id, name, description, products
		 FROM orders WHERE tenant_id = $1 ORDER BY created_at ASC`,
		t.tenant.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o := order.Order{TenantID: t.tenant.TenantID}
		var productsJSON []byte
		if err := rows.Scan(&o.OrderID, &o.Name, &o.Description, &productsJSON); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(productsJSON, &o.Products); err != nil {
			return nil, fmt.Errorf("unmarshal order products: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
