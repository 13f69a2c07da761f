package entity

import "time"

// DefaultUnit unidad de medida usada cuando no se informa otra.
const DefaultUnit = "un"

// Product representa un producto del catálogo, compartido entre lojas.
// El stock y los precios viven en StockItem (por loja).
type Product struct {
	ID          string
	Name        string
	Description string
	Brand       string
	Category    string
	Barcode     string // único cuando no está vacío
	Unit        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
