package product

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/products", h.getProducts)
	app.Get("/api/products/:id<int>", h.getProduct)
	app.Post("/api/products/search", h.searchProducts)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/products", h.createProduct)
	app.Put("/api/products/:id<int>", h.updateProduct)
	app.Patch("/api/products/:id<int>", h.patchProduct)
	app.Delete("/api/products/:id<int>", h.deleteProduct)
	app.Get("/api/products/export", h.exportProducts)
	app.Post("/api/products/import", h.importProducts)
}

// getProducts lists the catalog, optionally narrowed by the search, category,
// min_price and max_price query parameters.
func (h *Handler) getProducts(c *fiber.Ctx) error {
	f := Filter{
		Query:    c.Query("search"),
		Category: c.Query("category"),
	}
	var err error
	if f.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"min_price": "must be a number"}})
	}
	if f.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"max_price": "must be a number"}})
	}

	products, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return h.internalError(c, "list products", err)
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return h.internalError(c, "get product", err)
	}
	return c.JSON(p)
}

type searchRequest struct {
	Query       string   `json:"query"`
	Category    string   `json:"category"`
	MinPrice    *float64 `json:"min_price"`
	MaxPrice    *float64 `json:"max_price"`
	MinRating   *float64 `json:"min_rating"`
	InStockOnly *bool    `json:"in_stock_only"`
}

func (h *Handler) searchProducts(c *fiber.Ctx) error {
	payload := new(searchRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fiber.Map{"query": "This field is required."}})
	}

	// in_stock_only defaults to true when omitted
	inStock := true
	if payload.InStockOnly != nil {
		inStock = *payload.InStockOnly
	}

	products, err := h.service.Search(c.UserContext(), Filter{
		Query:       payload.Query,
		Category:    payload.Category,
		MinPrice:    payload.MinPrice,
		MaxPrice:    payload.MaxPrice,
		MinRating:   payload.MinRating,
		InStockOnly: inStock,
	})
	if err != nil {
		return h.internalError(c, "search products", err)
	}
	return c.JSON(fiber.Map{"count": len(products), "results": products})
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	p := new(Product)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// validate payload and return all validation errors together
	if ves := validatePayload(p); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	created, err := h.service.Create(c.UserContext(), *p)
	if err != nil {
		return h.internalError(c, "create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	p := new(Product)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.saveProduct(c, id, p)
}

// patchProduct overlays the request body on the stored product, so omitted
// fields keep their current values.
func (h *Handler) patchProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	existing, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return h.internalError(c, "get product", err)
	}
	if err := c.BodyParser(&existing); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return h.saveProduct(c, id, &existing)
}

func (h *Handler) saveProduct(c *fiber.Ctx, id int, p *Product) error {
	// validate payload before attempting update
	if ves := validatePayload(p); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	updated, err := h.service.Update(c.UserContext(), id, *p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return h.internalError(c, "update product", err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return h.internalError(c, "delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) exportProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext(), Filter{})
	if err != nil {
		return h.internalError(c, "export products", err)
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, products); err != nil {
		return h.internalError(c, "render workbook", err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Send(buf.Bytes())
}

func (h *Handler) importProducts(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	f, err := file.Open()
	if err != nil {
		return h.internalError(c, "open upload", err)
	}
	defer f.Close()

	rows, skipped, err := ReadXLSX(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, rejected, err := h.service.Import(c.UserContext(), rows)
	if err != nil {
		return h.internalError(c, "import products", err)
	}
	h.log.Info("products imported",
		zap.Int("imported", len(created)),
		zap.Int("unparsable", len(skipped)),
		zap.Int("invalid", len(rejected)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"imported": len(created),
		"skipped":  len(skipped) + len(rejected),
	})
}

func (h *Handler) internalError(c *fiber.Ctx, op string, err error) error {
	h.log.Error(op, zap.Error(err), zap.String("path", c.Path()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
