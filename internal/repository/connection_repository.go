package repository

import (
	"context"
	"database/sql"

	"github.com/hosterly/booking-api/internal/model"
	"github.com/hosterly/booking-api/internal/utils"
)

// ConnectionRepo manages the hoster_clients table: the registry that
// binds an opaque connection token to a (hoster, client) pair. Tokens
// are generated here and never mutated afterwards. Connecting the same
// pair twice issues a fresh, independent token; old tokens stay valid.
type ConnectionRepo struct{ DB *sql.DB }

func NewConnectionRepo(db *sql.DB) *ConnectionRepo { return &ConnectionRepo{DB: db} }

// Create links a client to a hoster under a newly generated token and
// returns the stored connection row.
func (r *ConnectionRepo) Create(ctx context.Context, hosterID, clientID uint64) (model.Connection, error) {
	token, err := utils.NewConnectionToken()
	if err != nil {
		return model.Connection{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO hoster_clients (hoster_id, client_id, connection_id) VALUES (?,?,?)",
		hosterID, clientID, token)
	if err != nil {
		return model.Connection{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Connection{}, err
	}
	var conn model.Connection
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,hoster_id,client_id,connection_id,created_at FROM hoster_clients WHERE id=?",
		id).Scan(&conn.ID, &conn.HosterID, &conn.ClientID, &conn.ConnectionID, &conn.CreatedAt)
	return conn, err
}

// ConnectionInfo is the resolved identity behind a connection token.
// It is what a client-side caller learns when presenting its token.
type ConnectionInfo struct {
	ConnectionID string `json:"connection_id"`
	HosterID     uint64 `json:"hoster_id"`
	HosterEmail  string `json:"hoster_email"`
	ClientID     uint64 `json:"client_id"`
	ClientName   string `json:"client_name"`
}

// Resolve looks up the hoster and client behind a token. It returns
// sql.ErrNoRows when the token is unknown.
func (r *ConnectionRepo) Resolve(ctx context.Context, connectionID string) (ConnectionInfo, error) {
	const q = `SELECT hc.connection_id, h.id, h.email, c.id, c.name
	           FROM hoster_clients hc
	           JOIN hosters h ON h.id = hc.hoster_id
	           JOIN clients c ON c.id = hc.client_id
	           WHERE hc.connection_id = ?`
	var info ConnectionInfo
	err := r.DB.QueryRowContext(ctx, q, connectionID).Scan(
		&info.ConnectionID, &info.HosterID, &info.HosterEmail, &info.ClientID, &info.ClientName)
	return info, err
}
