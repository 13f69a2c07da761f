package entity

import "time"

// Customer representa un cliente registrado en una loja.
type Customer struct {
	ID        string
	StoreID   string
	Name      string
	CPF       string // único entre los clientes activos de la loja
	Phone     string
	Email     string
	Address   string
	BirthDate *time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
