package entity

import "time"

// Store representa una loja (punto de venta) de una Company.
type Store struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Phone     string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreCounts conteos de registros asociados a una loja.
type StoreCounts struct {
	StockItems int
	Customers  int
	Sales      int
	Users      int
}
