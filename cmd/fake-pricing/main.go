// Servidor de precios falso para desarrollo: expone tres servicios con distinto
// multiplicador bajo el mismo puerto.
package main

import (
	"math/rand/v2"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	infrapricing "github.com/jhoicas/stock-sync/internal/infrastructure/pricing"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func main() {
	log := logger.New(logger.Config{Env: "development", Level: "info"})

	addr := os.Getenv("FAKE_PRICING_ADDR")
	if addr == "" {
		addr = ":8888"
	}

	app := fiber.New(fiber.Config{AppName: "fake-pricing"})
	app.Use(recover.New())

	hosts := []struct {
		prefix     string
		multiplier int64
	}{
		{"", 1000},
		{"/priceomatic", 990},
		{"/webuyanymagicalitem", 1010},
	}
	for _, h := range hosts {
		pricer := &infrapricing.FakePricer{Multiplier: h.multiplier, Random: rand.Float64}
		pricer.Register(app, h.prefix)
		log.Info().Str("route", h.prefix+"/prices").Int64("multiplier", h.multiplier).Msg("ruta registrada")
	}

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("servidor de precios falso")
	}
}
