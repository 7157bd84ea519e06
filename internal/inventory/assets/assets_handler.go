package assets

import (
	"context"
	"errors"
	"mime"
	"net/http"

	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/models"
	"assettracker/pkg/roles"
	"assettracker/pkg/security"

	"github.com/gin-gonic/gin"
)

type Service interface {
	ListAssets(ctx context.Context) (models.AssetList, error)
	GetAsset(ctx context.Context, id string) (*models.Asset, error)
	CreateAsset(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error)
	UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error)
	RemoveAsset(ctx context.Context, id string) error
	GetAssetHistory(ctx context.Context, id string) ([]models.AuditLog, error)
}

type AssetHandler struct {
	service Service
	auth    *security.Authenticator
}

// NewAssetHandler builds the handler. A nil authenticator leaves the mutating routes open.
func NewAssetHandler(service Service, auth *security.Authenticator) *AssetHandler {
	return &AssetHandler{
		service: service,
		auth:    auth,
	}
}

// RegisterRoutes mounts the asset API under /api/assets on router.
func (h *AssetHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/assets")
	api.GET("", h.GetAssets)
	api.GET("/:id", h.GetAsset)
	api.GET("/:id/history", h.GetAssetHistory)
	api.GET("/:id/label", h.GetAssetLabel)

	protectedRoutes := api.Group("")
	if h.auth != nil {
		protectedRoutes.Use(h.auth.JWTMiddleware())
		protectedRoutes.POST("", security.Authorize(roles.User), h.CreateAsset)
		protectedRoutes.PUT("/:id", security.Authorize(roles.User), h.UpdateAsset)
		protectedRoutes.DELETE("/:id", security.Authorize(roles.Admin), h.RemoveAsset)
		return
	}

	protectedRoutes.POST("", h.CreateAsset)
	protectedRoutes.PUT("/:id", h.UpdateAsset)
	protectedRoutes.DELETE("/:id", h.RemoveAsset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	list, err := h.service.ListAssets(c)
	if err != nil {
		respondWithError(c, err, "Unable to fetch assets")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	asset, err := h.service.GetAsset(c, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Unable to fetch asset")
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.service.CreateAsset(c, req)
	if err != nil {
		respondWithError(c, err, "Failed to create asset")
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	var req models.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.service.UpdateAsset(c, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to update asset")
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	if err := h.service.RemoveAsset(c, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete asset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

func (h *AssetHandler) GetAssetHistory(c *gin.Context) {
	history, err := h.service.GetAssetHistory(c, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Unable to fetch asset history")
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetAssetLabel renders the QR label of an asset, as PNG by default or as a
// printable page with ?format=pdf.
func (h *AssetHandler) GetAssetLabel(c *gin.Context) {
	format := c.DefaultQuery("format", "png")
	if format != "png" && format != "pdf" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid label format", "details": "format must be png or pdf"})
		return
	}

	asset, err := h.service.GetAsset(c, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Unable to fetch asset")
		return
	}

	if format == "pdf" {
		pdf, err := RenderLabelPDF(asset)
		if err != nil {
			respondWithError(c, err, "Unable to render label")
			return
		}
		c.Header("Content-Disposition", labelDisposition(asset))
		c.Data(http.StatusOK, "application/pdf", pdf)
		return
	}

	png, err := RenderLabelPNG(asset)
	if err != nil {
		respondWithError(c, err, "Unable to render label")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// labelDisposition names the label file after the serial number.
func labelDisposition(asset *models.Asset) string {
	return mime.FormatMediaType("inline", map[string]string{"filename": "asset-" + asset.SerialNumber + ".pdf"})
}

func respondWithError(c *gin.Context, err error, message string) {
	var validationErr *custom_error.ValidationError
	var notFoundErr *custom_error.NotFoundError
	var uniqueErr *custom_error.UniqueViolationError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &uniqueErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": uniqueErr.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": message, "details": "request timed out"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
