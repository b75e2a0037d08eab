package handlers

import (
	"net/http"

	"go-pos-ledger/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetSystemStatus feeds the offline banner: whether a cloud endpoint is
// configured at all, and whether it currently answers. The signal is purely
// informational, reads and writes never wait on it.
func (h *Handler) GetSystemStatus(c *gin.Context) {
	cloud := h.Store.Cloud()
	configured := cloud != nil && cloud.Configured()

	online := false
	if configured {
		online = cloud.Reachable(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"device_id":        utils.GetDeviceID(),
		"cloud_configured": configured,
		"online":           online,
	})
}
