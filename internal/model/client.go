package model

import "time"

// Client is a counterparty invited by a hoster to request time.
// Clients carry no credentials of their own; the connection token
// binding them to a hoster is their whole authorization surface.
type Client struct {
	ID        uint64    `json:"id"`         // clients.id
	Name      string    `json:"name"`       // clients.name
	CreatedAt time.Time `json:"created_at"` // clients.created_at
}

// Connection maps an opaque link token to a (hoster, client) pair as
// stored in the `hoster_clients` table. The token is a random hex
// string handed to the client out of band; presenting it is the sole
// client-side credential. Connections are never mutated after creation.
type Connection struct {
	ID           uint64    `json:"id"`            // hoster_clients.id
	HosterID     uint64    `json:"hoster_id"`     // hoster_clients.hoster_id
	ClientID     uint64    `json:"client_id"`     // hoster_clients.client_id
	ConnectionID string    `json:"connection_id"` // hoster_clients.connection_id (opaque token)
	CreatedAt    time.Time `json:"created_at"`    // hoster_clients.created_at
}
