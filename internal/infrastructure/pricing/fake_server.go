package pricing

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// FakePricer reglas del servidor de precios falso: "banana" siempre cuesta 709, "no-such"
// no tiene precio, un 1% de las consultas falla y el resto vale
// (len(id) + 1 + quality) * Multiplier.
type FakePricer struct {
	Multiplier int64
	Random     func() float64 // inyectable para tests
}

// Register monta GET <prefix>/prices en el router.
func (f FakePricer) Register(r fiber.Router, prefix string) {
	r.Get(prefix+"/prices", f.handle)
}

func (f FakePricer) handle(c *fiber.Ctx) error {
	id := c.Query("id")
	quality, err := strconv.Atoi(c.Query("quality"))
	if id == "" || err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("id y quality son obligatorios")
	}
	switch {
	case id == "banana":
		return c.SendString("709")
	case f.Random != nil && f.Random() > 0.99:
		return c.Status(fiber.StatusInternalServerError).SendString("Random failure")
	case id == "no-such":
		return c.SendStatus(fiber.StatusNotFound)
	}
	price := (int64(len(id)) + 1 + int64(quality)) * f.Multiplier
	return c.SendString(strconv.FormatInt(price, 10))
}
