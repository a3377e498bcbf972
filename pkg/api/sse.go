package api

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/robotforge/robotforge/pkg/bridge"
)

// streamEvents drains ch and writes each Message to c as a server-sent
// event, per §6's wire format: a real event is framed as "data:
// <json>\n\n"; a heartbeat is framed as the bare comment ": heartbeat\n\n"
// so intermediaries don't time the connection out during a long container
// run. The stream ends when ch closes or the client disconnects.
func streamEvents(c *gin.Context, ch <-chan bridge.Message) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			writeMessage(c, msg)
			return true
		case <-clientGone:
			return false
		}
	})
}

func writeMessage(c *gin.Context, msg bridge.Message) {
	if msg.Heartbeat || msg.Event == nil {
		_, _ = c.Writer.Write([]byte(": heartbeat\n\n"))
		return
	}
	payload, err := json.Marshal(msg.Event)
	if err != nil {
		return
	}
	_, _ = c.Writer.Write([]byte("data: "))
	_, _ = c.Writer.Write(payload)
	_, _ = c.Writer.Write([]byte("\n\n"))
}
