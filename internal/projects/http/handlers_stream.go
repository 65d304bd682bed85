package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// streamEvents pushes every published view to the client using Server-Sent
// Events until it disconnects or the controller stops.
func (h *Handler) streamEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}
	c.Status(http.StatusOK)

	views, unwatch := h.dash.Watch()
	defer unwatch()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.dash.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case v := <-views:
			data, err := json.Marshal(v)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: view\nid: %d\ndata: %s\n\n", v.Version, data)
			flusher.Flush()
		}
	}
}
