package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hosterly/booking-api/internal/model"
)

// ClientRepo provides persistence for client records. Clients are
// plain contact entries created by hosters; they hold no credentials.
type ClientRepo struct{ DB *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

// Create inserts a client and returns the stored row.
func (r *ClientRepo) Create(ctx context.Context, name string) (model.Client, error) {
	name = strings.TrimSpace(name)
	res, err := r.DB.ExecContext(ctx, "INSERT INTO clients (name) VALUES (?)", name)
	if err != nil {
		return model.Client{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Client{}, err
	}
	var c model.Client
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,name,created_at FROM clients WHERE id=?", id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	return c, err
}

// SearchByName returns up to ten clients whose name contains the given
// fragment, ordered alphabetically. An empty fragment matches everyone.
func (r *ClientRepo) SearchByName(ctx context.Context, name string) ([]model.Client, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,created_at FROM clients WHERE name LIKE ? ORDER BY name LIMIT 10",
		"%"+strings.TrimSpace(name)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Client, 0)
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ConnectedClient pairs a connection token with the client it belongs
// to, for the hoster's "my clients" listing.
type ConnectedClient struct {
	ConnectionID string `json:"connection_id"`
	ClientID     uint64 `json:"client_id"`
	ClientName   string `json:"client_name"`
}

// ListByHoster returns all clients connected to the hoster together
// with their connection tokens, ordered by client name.
func (r *ClientRepo) ListByHoster(ctx context.Context, hosterID uint64) ([]ConnectedClient, error) {
	const q = `SELECT hc.connection_id, c.id, c.name
	           FROM hoster_clients hc
	           JOIN clients c ON c.id = hc.client_id
	           WHERE hc.hoster_id = ?
	           ORDER BY c.name`
	rows, err := r.DB.QueryContext(ctx, q, hosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ConnectedClient, 0)
	for rows.Next() {
		var cc ConnectedClient
		if err := rows.Scan(&cc.ConnectionID, &cc.ClientID, &cc.ClientName); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}
