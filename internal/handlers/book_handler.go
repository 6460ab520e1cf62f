package handlers

import (
	"errors"
	"log"

	"bookstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles HTTP requests for books.
type BookHandler struct {
	service *services.BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService) *BookHandler {
	return &BookHandler{
		service: service,
	}
}

// RegisterRoutes registers the book routes with the Fiber app.
func (h *BookHandler) RegisterRoutes(router fiber.Router) {
	bookRoutes := router.Group("/books")
	bookRoutes.Post("/", h.HandleCreateBook)
	bookRoutes.Get("/", h.HandleGetBooks)
	bookRoutes.Get("/:id", h.HandleGetBookByID)
	bookRoutes.Put("/:id", h.HandleUpdateBook)
	bookRoutes.Delete("/:id", h.HandleDeleteBook)
}

// HandleCreateBook creates a new book.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	var in services.BookInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing create book request body: %v", err)
		return errorResponse(c, services.DecodeError(err))
	}

	book, err := h.service.CreateBook(c.UserContext(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

// HandleGetBooks lists books matching the query filters, one page at a time.
func (h *BookHandler) HandleGetBooks(c *fiber.Ctx) error {
	q, err := services.ParseListQuery(services.ListParams{
		Title:   c.Query("title"),
		Author:  c.Query("author"),
		Price:   c.Query("price"),
		InStock: c.Query("inStock"),
		Page:    c.Query("page"),
		Lim:     c.Query("lim"),
	}, h.service.DefaultPageSize())
	if err != nil {
		return errorResponse(c, err)
	}

	payload, err := h.service.ListBooks(c.UserContext(), q)
	if errors.Is(err, services.ErrNoBooksFound) {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"notFound": "No books found",
		})
	}
	if err != nil {
		return errorResponse(c, err)
	}
	return sendPayload(c, payload)
}

// HandleGetBookByID retrieves a single book by its ID.
func (h *BookHandler) HandleGetBookByID(c *fiber.Ctx) error {
	payload, err := h.service.GetBook(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return sendPayload(c, payload)
}

// HandleUpdateBook updates an existing book.
func (h *BookHandler) HandleUpdateBook(c *fiber.Ctx) error {
	var in services.BookInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing update book request body: %v", err)
		return errorResponse(c, services.DecodeError(err))
	}

	book, err := h.service.UpdateBook(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(book)
}

// HandleDeleteBook deletes a book by its ID.
func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	if err := h.service.DeleteBook(c.UserContext(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// sendPayload writes already-encoded JSON as is.
func sendPayload(c *fiber.Ctx, payload []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(payload)
}
