package adapters

import (
	"context"
	"errors"
	"fmt"

	"gift-tracker/internal/features/orders/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements ports.OrderRepository on top of the
// trkg_resgate_brindes / trkg_rastreio_resgate tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Recency tie-break shared by every lookup: last touched first, then highest id.
const shipmentByCPFQuery = `
SELECT r.id_resgate,
       COALESCE(r.cpf, ''),
       COALESCE(r.email, ''),
       r.cd_rastreio,
       b.dt_previsao_entrega,
       r.dt_registro,
       r.dt_atualizacao
FROM trkg_rastreio_resgate r
JOIN trkg_resgate_brindes b ON b.id_resgate = r.id_resgate
WHERE r.cpf = $1
ORDER BY COALESCE(r.dt_atualizacao, r.dt_registro, 'epoch'::timestamp) DESC,
         r.id_rastreio DESC
LIMIT 1`

const shipmentByEmailQuery = `
SELECT r.id_resgate,
       COALESCE(r.cpf, ''),
       COALESCE(r.email, ''),
       r.cd_rastreio,
       b.dt_previsao_entrega,
       r.dt_registro,
       r.dt_atualizacao
FROM trkg_rastreio_resgate r
JOIN trkg_resgate_brindes b ON b.id_resgate = r.id_resgate
WHERE LOWER(r.email) = $1
ORDER BY COALESCE(r.dt_atualizacao, r.dt_registro, 'epoch'::timestamp) DESC,
         r.id_rastreio DESC
LIMIT 1`

// A redemption may exist before any shipment row does; the lateral join
// picks the latest shipment when there is one.
const redemptionByEmailQuery = `
SELECT b.id_resgate,
       COALESCE(b.cpf, ''),
       COALESCE(b.email, ''),
       r.cd_rastreio,
       b.dt_previsao_entrega,
       COALESCE(r.dt_registro, b.dt_registro),
       COALESCE(r.dt_atualizacao, b.dt_atualizacao)
FROM trkg_resgate_brindes b
LEFT JOIN LATERAL (
    SELECT cd_rastreio, dt_registro, dt_atualizacao
    FROM trkg_rastreio_resgate
    WHERE id_resgate = b.id_resgate
    ORDER BY COALESCE(dt_atualizacao, dt_registro, 'epoch'::timestamp) DESC,
             id_rastreio DESC
    LIMIT 1
) r ON true
WHERE LOWER(b.email) = $1
ORDER BY COALESCE(b.dt_atualizacao, b.dt_registro, 'epoch'::timestamp) DESC,
         b.id_resgate DESC
LIMIT 1`

// FindByIdentifier resolves a raw CPF or e-mail to the most recently updated order.
// CPF lookups go straight to the shipment table; e-mail lookups try the shipment
// table first and fall back to redemptions that have no shipment row yet.
func (r *PostgresRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Order, error) {
	id := domain.ClassifyIdentifier(identifier)

	if id.Kind == domain.IdentifierCPF {
		order, err := r.queryOne(ctx, shipmentByCPFQuery, id.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to find order by cpf: %w", err)
		}
		return order, nil
	}

	order, err := r.queryOne(ctx, shipmentByEmailQuery, id.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to find order by email: %w", err)
	}
	if order != nil {
		return order, nil
	}

	order, err = r.queryOne(ctx, redemptionByEmailQuery, id.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to find redemption by email: %w", err)
	}
	return order, nil
}

// queryOne runs a single-row lookup and maps pgx.ErrNoRows to (nil, nil).
func (r *PostgresRepository) queryOne(ctx context.Context, query, arg string) (*domain.Order, error) {
	var o domain.Order

	row := r.pool.QueryRow(ctx, query, arg)
	err := row.Scan(
		&o.RedemptionID,
		&o.CPF,
		&o.Email,
		&o.TrackingCode,
		&o.PredictedDelivery,
		&o.RegisteredAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// Ping verifies the database connection.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}
