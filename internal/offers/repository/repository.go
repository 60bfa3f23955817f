// Package repository implements the offer store on PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"offerdesk_backend/platform/apperr"
)

const offerNotFoundMessage = "offer not found"

const offerColumns = `
	id, created_at, shop_domain, product_id, product_handle, product_title,
	variant_id, variant_title, currency, price_cents, offer_cents,
	email, email_norm, note, lang, client_ip, user_agent, status,
	discount_code, price_rule_id, discount_expires_at, draft_order_id, drafted_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new offers repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Insert creates a new open offer and returns the stored record.
func (r *Repo) Insert(ctx context.Context, offer NewOffer) (Offer, error) {
	query := `
		INSERT INTO offers (
			shop_domain, product_id, product_handle, product_title,
			variant_id, variant_title, currency, price_cents, offer_cents,
			email, email_norm, note, lang, client_ip, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING` + offerColumns

	row := r.pool.QueryRow(ctx, query,
		offer.ShopDomain, offer.ProductID, offer.ProductHandle, offer.ProductTitle,
		offer.VariantID, offer.VariantTitle, offer.Currency, offer.PriceCents, offer.OfferCents,
		offer.Email, offer.EmailNorm, offer.Note, offer.Lang, offer.ClientIP, offer.UserAgent,
	)

	stored, err := scanOffer(row)
	if err != nil {
		return Offer{}, fmt.Errorf("insert offer: %w", err)
	}
	return stored, nil
}

// GetByID retrieves an offer by id.
func (r *Repo) GetByID(ctx context.Context, id int64) (Offer, error) {
	query := `SELECT` + offerColumns + ` FROM offers WHERE id = $1`

	offer, err := scanOffer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, apperr.NotFound(offerNotFoundMessage)
		}
		return Offer{}, fmt.Errorf("get offer by id: %w", err)
	}
	return offer, nil
}

// ListRecent returns the most recently created offers, newest first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Offer, error) {
	query := `SELECT` + offerColumns + ` FROM offers ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent offers: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows)
}

// ExistsOpenRecent reports whether an open offer for the same normalized
// email and variant exists within the window. "now" is the store's clock so
// all dedupe decisions share one time source.
func (r *Repo) ExistsOpenRecent(ctx context.Context, emailNorm, variantID string, window time.Duration) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM offers
			WHERE email_norm = $1 AND variant_id = $2 AND status = 'open'
			  AND created_at > now() - ($3 * interval '1 second')
		)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, emailNorm, variantID, window.Seconds()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check recent open offer: %w", err)
	}
	return exists, nil
}

// UpdateStatus sets the lifecycle state of one offer.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE offers SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update offer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(offerNotFoundMessage)
	}
	return nil
}

// SetDiscount persists the provisioned code, rule id and expiry.
func (r *Repo) SetDiscount(ctx context.Context, id int64, code, ruleID string, expiresAt time.Time) error {
	query := `
		UPDATE offers
		SET discount_code = $1, price_rule_id = $2, discount_expires_at = $3
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, code, ruleID, expiresAt, id)
	if err != nil {
		return fmt.Errorf("set offer discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(offerNotFoundMessage)
	}
	return nil
}

// ListBundleable returns accepted offers for the email/shop pair that are
// not yet attached to a draft order, oldest first.
func (r *Repo) ListBundleable(ctx context.Context, emailNorm, shopDomain string) ([]Offer, error) {
	query := `SELECT` + offerColumns + `
		FROM offers
		WHERE email_norm = $1 AND shop_domain = $2 AND status = 'accepted'
		  AND draft_order_id IS NULL
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, emailNorm, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("list bundleable offers: %w", err)
	}
	defer rows.Close()

	return scanOffers(rows)
}

// MarkBundled attaches the draft order id and a bundling timestamp to the
// given offers in one batch write.
func (r *Repo) MarkBundled(ctx context.Context, ids []int64, draftOrderID string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE offers
		SET draft_order_id = $1, drafted_at = now()
		WHERE id = ANY($2)`

	if _, err := r.pool.Exec(ctx, query, draftOrderID, ids); err != nil {
		return fmt.Errorf("mark offers bundled: %w", err)
	}
	return nil
}

// ExpireOpenOlderThan transitions stale open offers into expired.
func (r *Repo) ExpireOpenOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE offers SET status = 'expired' WHERE status = 'open' AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire open offers: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanOffer(row pgx.Row) (Offer, error) {
	var o Offer
	err := row.Scan(
		&o.ID, &o.CreatedAt, &o.ShopDomain, &o.ProductID, &o.ProductHandle, &o.ProductTitle,
		&o.VariantID, &o.VariantTitle, &o.Currency, &o.PriceCents, &o.OfferCents,
		&o.Email, &o.EmailNorm, &o.Note, &o.Lang, &o.ClientIP, &o.UserAgent, &o.Status,
		&o.DiscountCode, &o.PriceRuleID, &o.DiscountExpiresAt, &o.DraftOrderID, &o.DraftedAt,
	)
	if err != nil {
		return Offer{}, err
	}
	return o, nil
}

func scanOffers(rows pgx.Rows) ([]Offer, error) {
	offers := make([]Offer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}
