package entity

import "time"

// Company representa la empresa dueña de una o más lojas.
type Company struct {
	ID        string
	Name      string
	CNPJ      string // CNPJ brasileño, único
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
