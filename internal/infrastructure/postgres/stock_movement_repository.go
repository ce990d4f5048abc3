package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
	"github.com/Act962/erp-limas-sub000/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, organization_id, product_id, type, quantity, previous_stock, new_stock, sale_id, note, created_by, created_at`

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: este adaptador no expone Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	saleID := (*string)(nil)
	if movement.SaleID != "" {
		saleID = &movement.SaleID
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.OrganizationID, movement.ProductID, movement.Type,
		movement.Quantity, movement.PreviousStock, movement.NewStock,
		saleID, movement.Note, createdBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// List devuelve movimientos filtrados, ordenados por created_at DESC y
// paginados (vista de auditoría).
func (r *StockMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + movementColumns + ` FROM stock_movements WHERE organization_id = $1`)
	args := []any{filter.OrganizationID}

	if len(filter.ProductIDs) > 0 {
		args = append(args, filter.ProductIDs)
		sb.WriteString(` AND product_id = ANY($` + strconv.Itoa(len(args)) + `)`)
	}
	if len(filter.ActorIDs) > 0 {
		args = append(args, filter.ActorIDs)
		sb.WriteString(` AND created_by = ANY($` + strconv.Itoa(len(args)) + `)`)
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		sb.WriteString(` AND type = $` + strconv.Itoa(len(args)))
	}
	args = append(args, filter.Limit)
	sb.WriteString(` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(` OFFSET $` + strconv.Itoa(len(args)))

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByProductAsc devuelve todos los movimientos del producto en orden
// cronológico (para el replay del libro).
func (r *StockMovementRepo) ListByProductAsc(productID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements by product: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var saleID, createdBy *string
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.ProductID, &m.Type, &m.Quantity,
		&m.PreviousStock, &m.NewStock, &saleID, &m.Note, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if saleID != nil {
		m.SaleID = *saleID
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
