// Package postgres implements the donation store on PostgreSQL. The
// compare-and-swap is a conditional UPDATE (first writer wins on the status
// column); confirmation runs in a transaction under a row lock so completion
// is derived in the same write that records the second confirmation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"givebridge/internal/donation"
	"givebridge/pkg/platform/sentinel"
	"givebridge/pkg/requestcontext"
)

// Schema is the DDL for the donations table. Deployments apply it through
// their migration tooling; integration tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS donations (
    id                     TEXT PRIMARY KEY,
    donor_id               TEXT NOT NULL,
    title                  TEXT NOT NULL,
    description            TEXT NOT NULL DEFAULT '',
    category               TEXT NOT NULL,
    quantity               INTEGER NOT NULL,
    pickup_latitude        DOUBLE PRECISION NOT NULL,
    pickup_longitude       DOUBLE PRECISION NOT NULL,
    status                 TEXT NOT NULL,
    reserved_by            TEXT NOT NULL DEFAULT '',
    pickup_time            TIMESTAMPTZ,
    pickup_person_name     TEXT,
    pickup_person_id       TEXT,
    verification_code      TEXT,
    business_confirmed     BOOLEAN,
    donor_confirmed        BOOLEAN NOT NULL DEFAULT FALSE,
    recipient_confirmed    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at             TIMESTAMPTZ NOT NULL,
    reserved_at            TIMESTAMPTZ,
    donor_confirmed_at     TIMESTAMPTZ,
    recipient_confirmed_at TIMESTAMPTZ,
    completed_at           TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS donations_status_idx ON donations (status);
`

const donationColumns = `id, donor_id, title, description, category, quantity,
	pickup_latitude, pickup_longitude, status, reserved_by,
	pickup_time, pickup_person_name, pickup_person_id, verification_code,
	business_confirmed, donor_confirmed, recipient_confirmed,
	created_at, reserved_at, donor_confirmed_at, recipient_confirmed_at, completed_at`

// Store implements donation.Store against a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Create(ctx context.Context, d *donation.Donation) error {
	const query = `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	var pickupTime *time.Time
	var personName, personID, code *string
	if d.Reservation != nil {
		pickupTime = &d.Reservation.PickupTime
		personName = &d.Reservation.PickupPersonName
		personID = &d.Reservation.PickupPersonID
		code = &d.Reservation.VerificationCode
	}
	_, err := s.pool.Exec(ctx, query,
		d.ID, d.DonorID, d.Title, d.Description, d.Category, d.Quantity,
		d.PickupLatitude, d.PickupLongitude, string(d.Status), d.ReservedBy,
		pickupTime, personName, personID, code,
		d.BusinessConfirmed, d.DonorConfirmed, d.RecipientConfirmed,
		d.CreatedAt, d.ReservedAt, d.DonorConfirmedAt, d.RecipientConfirmedAt, d.CompletedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*donation.Donation, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+donationColumns+` FROM donations WHERE id = $1`, id)
	d, err := scanDonation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get donation: %w", err)
	}
	return d, nil
}

func (s *Store) List(ctx context.Context, status donation.Status) ([]*donation.Donation, error) {
	const query = `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE $1 = '' OR status = $1
		ORDER BY created_at, id
	`
	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var out []*donation.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CompareAndSwapStatus(ctx context.Context, id string, expected, next donation.Status, patch donation.Patch) (*donation.Donation, error) {
	set := []string{"status = $3"}
	args := []any{id, string(expected), string(next)}

	add := func(clause string, vals ...any) {
		for _, v := range vals {
			args = append(args, v)
			clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(args)), 1)
		}
		set = append(set, clause)
	}

	if patch.ReservedBy != nil {
		add("reserved_by = ?", *patch.ReservedBy)
	}
	if patch.Reservation != nil {
		add("pickup_time = ?", patch.Reservation.PickupTime)
		add("pickup_person_name = ?", patch.Reservation.PickupPersonName)
		add("pickup_person_id = ?", patch.Reservation.PickupPersonID)
		add("verification_code = ?", patch.Reservation.VerificationCode)
	}
	if patch.ClearReservation {
		set = append(set,
			"pickup_time = NULL", "pickup_person_name = NULL",
			"pickup_person_id = NULL", "verification_code = NULL",
			"reserved_at = NULL")
	}
	if patch.ReservedAt != nil {
		add("reserved_at = ?", *patch.ReservedAt)
	}
	if patch.BusinessConfirmed != nil {
		add("business_confirmed = ?", *patch.BusinessConfirmed)
	}
	if patch.ClearBusinessConfirmed {
		set = append(set, "business_confirmed = NULL")
	}
	if patch.ClearConfirmations {
		set = append(set,
			"donor_confirmed = FALSE", "recipient_confirmed = FALSE",
			"donor_confirmed_at = NULL", "recipient_confirmed_at = NULL")
	}

	query := `UPDATE donations SET ` + strings.Join(set, ", ") +
		` WHERE id = $1 AND status = $2 RETURNING ` + donationColumns

	row := s.pool.QueryRow(ctx, query, args...)
	d, err := scanDonation(row)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("compare-and-swap donation: %w", err)
	}

	// No row matched: tell a lost race apart from a missing donation.
	var exists bool
	if checkErr := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM donations WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
		return nil, fmt.Errorf("compare-and-swap existence check: %w", checkErr)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return nil, sentinel.ErrConflict
}

func (s *Store) ApplyConfirmation(ctx context.Context, id string, party donation.Party, verificationCode string) (*donation.Donation, error) {
	var updated *donation.Donation
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+donationColumns+` FROM donations WHERE id = $1 FOR UPDATE`, id)
		d, err := scanDonation(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return sentinel.ErrNotFound
			}
			return fmt.Errorf("lock donation: %w", err)
		}

		if err := donation.ConfirmRecord(d, party, verificationCode, requestcontext.Now(ctx)); err != nil {
			return err
		}

		const query = `
			UPDATE donations SET
				status = $2,
				donor_confirmed = $3, recipient_confirmed = $4,
				donor_confirmed_at = $5, recipient_confirmed_at = $6,
				completed_at = $7
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, query, d.ID, string(d.Status),
			d.DonorConfirmed, d.RecipientConfirmed,
			d.DonorConfirmedAt, d.RecipientConfirmedAt, d.CompletedAt); err != nil {
			return fmt.Errorf("record confirmation: %w", err)
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func scanDonation(row pgx.Row) (*donation.Donation, error) {
	var d donation.Donation
	var status string
	var pickupTime *time.Time
	var personName, personID, code *string
	err := row.Scan(
		&d.ID, &d.DonorID, &d.Title, &d.Description, &d.Category, &d.Quantity,
		&d.PickupLatitude, &d.PickupLongitude, &status, &d.ReservedBy,
		&pickupTime, &personName, &personID, &code,
		&d.BusinessConfirmed, &d.DonorConfirmed, &d.RecipientConfirmed,
		&d.CreatedAt, &d.ReservedAt, &d.DonorConfirmedAt, &d.RecipientConfirmedAt, &d.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Status = donation.Status(status)
	if code != nil {
		d.Reservation = &donation.ReservationDetails{
			VerificationCode: *code,
		}
		if pickupTime != nil {
			d.Reservation.PickupTime = *pickupTime
		}
		if personName != nil {
			d.Reservation.PickupPersonName = *personName
		}
		if personID != nil {
			d.Reservation.PickupPersonID = *personID
		}
	}
	return &d, nil
}
