package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// StockHandler maneja las peticiones HTTP de la lista de stock.
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Get godoc
// @Summary      Lista de stock con precios
// @Description  Avanza el stock al día actual (a lo sumo una vez por día) y consulta el precio de cada item.
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.StockListResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	list, err := h.uc.LoadStockList(c.UserContext(), h.uc.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockListResponse(list))
}

// AddItem godoc
// @Summary      Agregar item
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del item"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/items [post]
func (h *StockHandler) AddItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	var sellBy *time.Time
	if s := strings.TrimSpace(in.SellByDate); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sell_by_date debe ser YYYY-MM-DD"})
		}
		sellBy = &d
	}
	item, err := h.uc.AddItem(c.UserContext(), stock.NewItemInput{
		ID:         in.ID,
		Name:       in.Name,
		SellByDate: sellBy,
		Quality:    in.Quality,
	}, h.uc.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toItemResponse(item))
}

// DeleteItems godoc
// @Summary      Eliminar items por ID
// @Description  Una sola transacción: avanza el stock, quita los items y guarda. IDs inexistentes se ignoran.
// @Tags         stock
// @Accept       json
// @Param        body  body  dto.DeleteItemsRequest  true  "IDs a eliminar"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/delete-items [post]
func (h *StockHandler) DeleteItems(c *fiber.Ctx) error {
	var in dto.DeleteItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.ItemIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_ids es requerido"})
	}
	ids := make([]entity.ID[entity.Item], 0, len(in.ItemIDs))
	for _, raw := range in.ItemIDs {
		id, err := entity.NewID[entity.Item](raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_ids no puede contener IDs vacíos"})
		}
		ids = append(ids, id)
	}
	if err := h.uc.DeleteItemsWithIDs(c.UserContext(), ids, h.uc.Now()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary      Reporte PDF del stock con precios
// @Tags         stock
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/report.pdf [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	now := h.uc.Now()
	pdf, err := h.uc.ExportStockReport(c.UserContext(), now)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="stock-%s.pdf"`, now.In(h.uc.Zone()).Format("20060102")))
	return c.Send(pdf)
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	if le, ok := domain.AsLoadingError(err); ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STOCK_UNAVAILABLE", Message: string(le.Kind)})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toStockListResponse(list entity.PricedStockList) dto.StockListResponse {
	out := dto.StockListResponse{Items: make([]dto.StockItemResponse, 0, len(list.Items))}
	if !list.LastModified.IsZero() {
		lm := list.LastModified
		out.LastModified = &lm
	}
	for _, it := range list.Items {
		out.Items = append(out.Items, dto.StockItemResponse{
			ID:         it.ID.String(),
			Name:       it.Name,
			SellByDate: formatDate(it.SellByDate),
			Quality:    it.Quality,
			Price:      toPriceResponse(it.Price),
		})
	}
	counts := list.CountByState()
	out.Summary = dto.StockSummary{
		Priced:   counts[entity.PriceStatePriced],
		Unpriced: counts[entity.PriceStateUnpriced],
		Failed:   counts[entity.PriceStateFailed],
	}
	return out
}

func toPriceResponse(r entity.PriceResult) dto.PriceResponse {
	out := dto.PriceResponse{State: string(r.State())}
	p, err := r.Get()
	switch {
	case err != nil:
		out.Error = err.Error()
	case p != nil:
		pence := p.Pence()
		amount := p.Decimal()
		out.Pence = &pence
		out.Amount = &amount
	}
	return out
}

func toItemResponse(it entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:         it.ID.String(),
		Name:       it.Name,
		SellByDate: formatDate(it.SellByDate),
		Quality:    it.Quality,
	}
}

func formatDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(dateLayout)
	return &s
}
