package model

import "time"

// TableStatus enumerates the lifecycle states of a table.  AVAILABLE and
// RESERVED alternate as reservations are made and canceled; INACTIVE is an
// independent admin-set state that blocks new bookings entirely.
type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableReserved  TableStatus = "RESERVED"
	TableInactive  TableStatus = "INACTIVE"
)

// Valid reports whether s is one of the known table statuses.
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableReserved, TableInactive:
		return true
	}
	return false
}

// Table represents a bookable restaurant table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable label, validated (3–255 chars).
//  Capacity  – number of seats, always positive.
//  Status    – lifecycle state (AVAILABLE, RESERVED, INACTIVE).
//  CreatedAt – creation timestamp (UTC).
//  UpdatedAt – last update timestamp (UTC).
type Table struct {
	ID        uint64      `json:"id"`
	Name      TableName   `json:"name"`
	Capacity  Capacity    `json:"capacity"`
	Status    TableStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewTable builds a table from already validated name and capacity.
// Newly created tables always start out AVAILABLE.
func NewTable(name TableName, capacity Capacity) *Table {
	return &Table{
		Name:     name,
		Capacity: capacity,
		Status:   TableAvailable,
	}
}
