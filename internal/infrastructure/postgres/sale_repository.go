package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, organization_id, sale_number, status, subtotal, discount, freight, total, payment_method, delivery_method, customer_id, created_by, created_at, updated_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL
// (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// NextSaleNumber asigna el siguiente consecutivo de la organización de
// forma atómica (upsert sobre el contador, una fila por org). Debe
// llamarse dentro de la transacción del commit.
func (r *SaleRepo) NextSaleNumber(organizationID string) (int64, error) {
	query := `
		INSERT INTO sale_counters (organization_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (organization_id)
		DO UPDATE SET last_number = sale_counters.last_number + 1
		RETURNING last_number`
	var number int64
	if err := r.q.QueryRow(context.Background(), query, organizationID).Scan(&number); err != nil {
		return 0, fmt.Errorf("next sale number: %w", err)
	}
	return number, nil
}

// Create persiste la cabecera y las líneas de la venta.
func (r *SaleRepo) Create(sale *entity.Sale, items []*entity.SaleItem) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	deliveryMethod := (*string)(nil)
	if sale.DeliveryMethod != "" {
		deliveryMethod = &sale.DeliveryMethod
	}
	customerID := (*string)(nil)
	if sale.CustomerID != "" {
		customerID = &sale.CustomerID
	}
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.OrganizationID, sale.SaleNumber, sale.Status,
		sale.Subtotal, sale.Discount, sale.Freight, sale.Total,
		sale.PaymentMethod, deliveryMethod, customerID,
		sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, product_name, quantity, unit_price, discount, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, item := range items {
		_, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, item.SaleID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.Discount, item.Total, item.Position,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetItems devuelve las líneas de la venta en orden de inserción.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price, discount, total, position
		FROM sale_items WHERE sale_id = $1
		ORDER BY position ASC`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()

	var items []*entity.SaleItem
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Discount, &item.Total, &item.Position,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// List lista ventas de la organización, más recientes primero.
func (r *SaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + saleColumns + ` FROM sales WHERE organization_id = $1`)
	args := []any{filter.OrganizationID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		sb.WriteString(` AND status = $` + strconv.Itoa(len(args)))
	}
	args = append(args, filter.Limit)
	sb.WriteString(` ORDER BY sale_number DESC LIMIT $` + strconv.Itoa(len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(` OFFSET $` + strconv.Itoa(len(args)))

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// UpdateStatus cambia el estado de la venta. Con fromStatuses el UPDATE
// es condicional al estado actual: cero filas afectadas significa que
// otra petición ganó la transición y se devuelve ErrConflict.
func (r *SaleRepo) UpdateStatus(id, status string, fromStatuses ...string) error {
	if len(fromStatuses) > 0 {
		query := `UPDATE sales SET status = $2, updated_at = now() WHERE id = $1 AND status = ANY($3)`
		tag, err := r.q.Exec(context.Background(), query, id, status, fromStatuses)
		if err != nil {
			return fmt.Errorf("update sale status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConflict
		}
		return nil
	}
	query := `UPDATE sales SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "sale", ID: id}
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var deliveryMethod, customerID *string
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.SaleNumber, &s.Status,
		&s.Subtotal, &s.Discount, &s.Freight, &s.Total,
		&s.PaymentMethod, &deliveryMethod, &customerID,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deliveryMethod != nil {
		s.DeliveryMethod = *deliveryMethod
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	return &s, nil
}
