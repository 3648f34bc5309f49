package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/billing"
)

// ClientHandler handles client-related API endpoints
type ClientHandler struct {
	BaseHandler
	clientService *appbilling.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *appbilling.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Email       string `json:"email" binding:"required,email,max=200"`
	CompanyName string `json:"company_name" binding:"max=200"`
	Address     string `json:"address" binding:"max=500"`
	PhoneNumber string `json:"phone_number" binding:"max=50"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Email       string `json:"email" binding:"required,email,max=200"`
	CompanyName string `json:"company_name" binding:"max=200"`
	Address     string `json:"address" binding:"max=500"`
	PhoneNumber string `json:"phone_number" binding:"max=50"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name,omitempty"`
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toClientResponse(client *billing.Client) ClientResponse {
	return ClientResponse{
		ID:          client.ID.String(),
		Name:        client.Name,
		Email:       client.Email,
		CompanyName: client.CompanyName,
		Address:     client.Address,
		PhoneNumber: client.PhoneNumber,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	client, err := billing.NewClient(req.Name, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	client.CompanyName = req.CompanyName
	client.Address = req.Address
	client.PhoneNumber = req.PhoneNumber

	created, err := h.clientService.CreateClient(c.Request.Context(), client)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toClientResponse(created))
}

// List handles GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.GetAllClients(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, toClientResponse(&clients[i]))
	}
	h.Success(c, responses)
}

// GetByID handles GET /clients/:id
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	client, err := h.clientService.GetClientByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toClientResponse(client))
}

// Update handles PUT /clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	client, err := h.clientService.GetClientByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := client.Update(req.Name, req.Email, req.CompanyName, req.Address, req.PhoneNumber); err != nil {
		h.HandleError(c, err)
		return
	}

	updated, err := h.clientService.UpdateClient(c.Request.Context(), client)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !updated {
		h.NotFound(c, "Client not found")
		return
	}

	h.Success(c, toClientResponse(client))
}

// Delete handles DELETE /clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	deleted, err := h.clientService.DeleteClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !deleted {
		h.NotFound(c, "Client not found")
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers client routes on the given router group
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.POST("", h.Create)
		clients.GET("", h.List)
		clients.GET("/:id", h.GetByID)
		clients.PUT("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
	}
}
