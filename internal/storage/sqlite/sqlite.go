// Package sqlite provides a SQLite-backed ledger catalog implementing the
// storage.Source interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/storage"
)

// Ensure Store implements storage.Source
var _ storage.Source = (*Store)(nil)

// ErrHouseNotFound is returned when the catalog has no matching house.
var ErrHouseNotFound = errors.New("house not found")

// Store keeps houses and their ledgers in a SQLite database and serves one
// of them as a storage.Source.
type Store struct {
	db    *sql.DB
	house string
}

// New opens the catalog at dbPath and serves the house with the given
// name. An empty name selects the only house in the catalog.
// It creates the parent directories and runs migrations automatically.
func New(dbPath, house string) (*Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// PRAGMAs are per connection, so keep a single one for cascades to apply
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, house: house}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Import replaces the house of the same name, and its ledger, with the
// given ones, and selects it.
func (s *Store) Import(ctx context.Context, house models.House, entries []models.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM houses WHERE name = ?", house.Name); err != nil {
		return fmt.Errorf("failed to replace house: %w", err)
	}

	houseID := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO houses (id, name, min_people, created_at) VALUES (?, ?, ?, ?)",
		houseID, house.Name, house.MinPeople, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert house: %w", err)
	}

	// Insert people and their residencies
	for i, person := range house.People {
		personID := uuid.New().String()
		_, err = tx.ExecContext(ctx,
			"INSERT INTO people (id, house_id, name, position) VALUES (?, ?, ?, ?)",
			personID, houseID, person.Name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert person: %w", err)
		}

		for _, r := range person.Residencies {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO residencies (person_id, start, end_exclusive) VALUES (?, ?, ?)",
				personID, boundValue(r.Start), boundValue(r.EndExclusive),
			)
			if err != nil {
				return fmt.Errorf("failed to insert residency: %w", err)
			}
		}
	}

	// Insert entries in input order
	for seq, entry := range entries {
		if err := insertEntry(ctx, tx, houseID, seq, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.house = house.Name
	return nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, houseID string, seq int, entry models.Entry) error {
	entryID := uuid.New().String()
	var (
		description, paidBy string
		payee, onDate       any
		start, endExclusive any
		participants        []string
	)

	switch e := entry.(type) {
	case models.Bill:
		description, paidBy = e.Description, e.PaidBy
		start, endExclusive = boundValue(e.ForDates.Start), boundValue(e.ForDates.EndExclusive)
		if !e.PaidOn.IsZero() {
			onDate = e.PaidOn.Format(daterange.Layout)
		}
	case models.SharedCost:
		description, paidBy = e.Description, e.PaidBy
		onDate = e.OnDate.Format(daterange.Layout)
		participants = e.SharedAmongst
	case models.Payment:
		paidBy, payee = e.Payer, e.Payee
		onDate = e.OnDate.Format(daterange.Layout)
	default:
		return fmt.Errorf("%w: unknown ledger entry type %T", models.ErrMalformedEntry, entry)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries (id, house_id, seq, kind, description, paid_by, payee, on_date, start, end_exclusive, amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entryID, houseID, seq, string(entry.Kind()), description, paidBy, payee, onDate,
		start, endExclusive, entry.Total().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	for _, name := range participants {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO entry_participants (entry_id, name) VALUES (?, ?)",
			entryID, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry participant: %w", err)
		}
	}
	return nil
}

// Houses lists the names of every house in the catalog.
func (s *Store) Houses(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM houses ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan house: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate houses: %w", err)
	}
	return names, nil
}

// houseID resolves the selected house.
func (s *Store) houseID(ctx context.Context) (string, error) {
	if s.house == "" {
		names, err := s.Houses(ctx)
		if err != nil {
			return "", err
		}
		if len(names) != 1 {
			return "", fmt.Errorf("%w: catalog holds %d houses, pick one by name", ErrHouseNotFound, len(names))
		}
		s.house = names[0]
	}

	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM houses WHERE name = ?", s.house).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrHouseNotFound, s.house)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get house: %w", err)
	}
	return id, nil
}

// House retrieves the selected house with its roster and residencies.
func (s *Store) House(ctx context.Context) (models.House, error) {
	id, err := s.houseID(ctx)
	if err != nil {
		return models.House{}, err
	}

	var name string
	var minPeople int
	err = s.db.QueryRowContext(ctx,
		"SELECT name, min_people FROM houses WHERE id = ?", id,
	).Scan(&name, &minPeople)
	if err != nil {
		return models.House{}, fmt.Errorf("failed to get house: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.name, r.start, r.end_exclusive
		 FROM people p LEFT JOIN residencies r ON r.person_id = p.id
		 WHERE p.house_id = ?
		 ORDER BY p.position, r.start`,
		id,
	)
	if err != nil {
		return models.House{}, fmt.Errorf("failed to get people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var personName string
		var start, end sql.NullString
		if err := rows.Scan(&personName, &start, &end); err != nil {
			return models.House{}, fmt.Errorf("failed to scan residency: %w", err)
		}
		if len(people) == 0 || people[len(people)-1].Name != personName {
			people = append(people, models.Person{Name: personName})
		}
		if !start.Valid {
			continue
		}
		dr, err := rangeFromColumns(start, end)
		if err != nil {
			return models.House{}, err
		}
		p := &people[len(people)-1]
		p.Residencies = append(p.Residencies, dr)
	}
	if err := rows.Err(); err != nil {
		return models.House{}, fmt.Errorf("failed to iterate people: %w", err)
	}

	return models.NewHouse(name, minPeople, people)
}

// Entries retrieves the selected house's ledger in import order.
func (s *Store) Entries(ctx context.Context) ([]models.Entry, error) {
	id, err := s.houseID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, description, paid_by, payee, on_date, start, end_exclusive, amount
		 FROM entries WHERE house_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	type row struct {
		id, kind, description, paidBy string
		payee, onDate, start, end     sql.NullString
		amount                        string
	}
	var scanned []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.kind, &r.description, &r.paidBy, &r.payee,
			&r.onDate, &r.start, &r.end, &r.amount); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		scanned = append(scanned, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	rows.Close()

	entries := make([]models.Entry, 0, len(scanned))
	for _, r := range scanned {
		amount, err := decimal.NewFromString(r.amount)
		if err != nil {
			return nil, fmt.Errorf("entry %s: invalid amount %q: %w", r.id, r.amount, err)
		}

		switch models.EntryKind(r.kind) {
		case models.KindBill:
			forDates, err := rangeFromColumns(r.start, r.end)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", r.id, err)
			}
			bill := models.Bill{Description: r.description, PaidBy: r.paidBy, ForDates: forDates, Amount: amount}
			if r.onDate.Valid {
				if bill.PaidOn, err = daterange.Parse(r.onDate.String); err != nil {
					return nil, fmt.Errorf("entry %s: %w", r.id, err)
				}
			}
			entries = append(entries, bill)
		case models.KindSharedCost:
			onDate, err := daterange.Parse(r.onDate.String)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", r.id, err)
			}
			participants, err := s.participants(ctx, r.id)
			if err != nil {
				return nil, err
			}
			entries = append(entries, models.SharedCost{
				Description:   r.description,
				PaidBy:        r.paidBy,
				OnDate:        onDate,
				SharedAmongst: participants,
				Amount:        amount,
			})
		case models.KindPayment:
			onDate, err := daterange.Parse(r.onDate.String)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", r.id, err)
			}
			entries = append(entries, models.Payment{
				Payer:  r.paidBy,
				Payee:  r.payee.String,
				OnDate: onDate,
				Amount: amount,
			})
		default:
			return nil, fmt.Errorf("%w: unknown ledger item type %q", models.ErrMalformedEntry, r.kind)
		}
	}
	return entries, nil
}

func (s *Store) participants(ctx context.Context, entryID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM entry_participants WHERE entry_id = ? ORDER BY rowid",
		entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry participants: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan entry participant: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry participants: %w", err)
	}
	return names, nil
}

// boundValue converts an endpoint to a column value, NULL when unbounded.
func boundValue(b daterange.Bound) any {
	t, ok := b.Time()
	if !ok {
		return nil
	}
	return t.Format(daterange.Layout)
}

func rangeFromColumns(start, end sql.NullString) (daterange.DateRange, error) {
	s, err := daterange.Parse(start.String)
	if err != nil {
		return daterange.DateRange{}, err
	}
	if !end.Valid {
		return daterange.From(s), nil
	}
	e, err := daterange.Parse(end.String)
	if err != nil {
		return daterange.DateRange{}, err
	}
	return daterange.New(s, e), nil
}
