package items

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX es lo mínimo que el repositorio necesita de pgx.
// pgxpool.Pool lo cumple; en tests se reemplaza por un fake.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository accede a la tabla items.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database DBTX
}

// NewRepository crea un repositorio de items.
func NewRepository(database DBTX) *Repository {
	return &Repository{database: database}
}

const itemColumns = `id, name, price, quantity, supplier, supplier_email, supplier_phone`

// Insert crea un item y devuelve el registro persistido.
// El id lo asigna la DB; el del input se ignora.
func (repository *Repository) Insert(ctx context.Context, item Item) (Item, error) {
	const query = `
		INSERT INTO items (name, price, quantity, supplier, supplier_email, supplier_phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + itemColumns + `;
	`

	row := repository.database.QueryRow(ctx, query,
		item.Name, item.Price, item.Quantity, item.Supplier, item.SupplierEmail, item.SupplierPhone)
	return scanItem(row)
}

// GetByID busca un item. Si no existe devuelve pgx.ErrNoRows (el service lo traduce).
func (repository *Repository) GetByID(ctx context.Context, id int) (Item, error) {
	const query = `SELECT ` + itemColumns + ` FROM items WHERE id = $1;`

	return scanItem(repository.database.QueryRow(ctx, query, id))
}

// List devuelve una página de items, filtrando por nombre si query no está vacío.
func (repository *Repository) List(ctx context.Context, query string, limit, offset int) ([]Item, error) {
	const sql = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC, id ASC
		LIMIT $2 OFFSET $3;
	`

	rows, err := repository.database.Query(ctx, sql, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Count devuelve el total de items que matchean query.
func (repository *Repository) Count(ctx context.Context, query string) (int, error) {
	const sql = `SELECT COUNT(*) FROM items WHERE ($1 = '' OR name ILIKE '%' || $1 || '%');`

	var total int
	if err := repository.database.QueryRow(ctx, sql, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Update reemplaza el registro completo con id = item.ID.
func (repository *Repository) Update(ctx context.Context, item Item) (Item, error) {
	const query = `
		UPDATE items
		SET name = $2, price = $3, quantity = $4, supplier = $5, supplier_email = $6, supplier_phone = $7
		WHERE id = $1
		RETURNING ` + itemColumns + `;
	`

	row := repository.database.QueryRow(ctx, query,
		item.ID, item.Name, item.Price, item.Quantity, item.Supplier, item.SupplierEmail, item.SupplierPhone)
	updated, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrorNotFound
		}
		return Item{}, err
	}
	return updated, nil
}

// Delete borra el item con id.
func (repository *Repository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM items WHERE id = $1;`

	tag, err := repository.database.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.Supplier, &item.SupplierEmail, &item.SupplierPhone)
	if err != nil {
		return Item{}, err
	}
	return item, nil
}
