package handlers

import (
	"net/http"

	intconfig "fleetdesk/internal/config"
	"fleetdesk/internal/db"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "fleetdesk berjalan"})
}

// DBCheck pings the shared connection and confirms the allocations table exists.
func DBCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if err := intconfig.Ping(ctx); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database tidak terhubung", err)
		return
	}
	if !db.HasTable(ctx, intconfig.DB, "allocations") {
		RespondError(c, http.StatusServiceUnavailable, "tabel allocations belum ada", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "koneksi database OK", "allocations_table": true})
}
