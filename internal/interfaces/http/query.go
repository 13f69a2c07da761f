package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/varejo-api/internal/domain"
)

// storeQuery loja del filtro: ?storeId, ?store_id o la loja del token.
func storeQuery(c *fiber.Ctx) string {
	if v := c.Query("storeId"); v != "" {
		return v
	}
	if v := c.Query("store_id"); v != "" {
		return v
	}
	return GetStoreID(c)
}

func requireStore(c *fiber.Ctx) (string, error) {
	storeID := storeQuery(c)
	if storeID == "" {
		return "", domain.ValidationErrors{{Field: "storeId", Message: "es requerido"}}
	}
	return storeID, nil
}

// dateQuery acepta YYYY-MM-DD o RFC3339. Con endOfDay una fecha sin hora cubre el día completo.
func dateQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return nil, domain.ValidationErrors{{Field: key, Message: fmt.Sprintf("fecha inválida %q (use YYYY-MM-DD)", raw)}}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func dateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	start, err := dateQuery(c, "startDate", false)
	if err != nil {
		return nil, nil, err
	}
	end, err := dateQuery(c, "endDate", true)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}
