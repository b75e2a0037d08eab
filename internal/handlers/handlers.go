package handlers

import (
	"net/http"

	"go-pos-ledger/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler carries the document store handle into every endpoint, so each
// load-patch-save cycle is visible at the call site instead of hiding behind
// a package global.
type Handler struct {
	Store *store.Store
}

func New(st *store.Store) *Handler {
	return &Handler{Store: st}
}

// respondSave maps a save result onto HTTP: losing the local snapshot is the
// only hard failure, a missed cloud sync just flags the response as unsynced.
func respondSave(c *gin.Context, res store.SaveResult, payload gin.H) {
	if res.Failed() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist document"})
		return
	}
	payload["synced"] = !res.Degraded()
	c.JSON(http.StatusOK, payload)
}
