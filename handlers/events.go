package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/go-tasks/events"
	"github.com/taskhive/go-tasks/middleware"
	"github.com/valyala/fasthttp"
)

const keepAliveInterval = 15 * time.Second

// Events streams the caller's own lifecycle events over SSE.
type Events struct {
	hub *events.Hub
}

func NewEvents(hub *events.Hub) *Events {
	return &Events{hub: hub}
}

func formatSSEMessage(eventType string, data any) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("event: %s\n", eventType))
	sb.WriteString(fmt.Sprintf("retry: %d\n", 15000))
	sb.WriteString(fmt.Sprintf("data: %v\n", buf.String()))
	sb.WriteString("\n")

	return sb.String(), nil
}

// Stream subscribes the caller to their event feed and writes it out as
// server-sent events until the client disconnects.
//
//	@Summary	Stream own todo and account events
//	@Tags		todos
//	@Produce	text/event-stream
//	@Security	BearerAuth
//	@Router		/todos/events [get]
func (h *Events) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set(fiber.HeaderTransferEncoding, "chunked")

	user := middleware.CurrentUser(c)
	ch, cancel := h.hub.Subscribe(user.ID)
	notify := c.Context().Done()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		keepAliveTickler := time.NewTicker(keepAliveInterval)
		defer keepAliveTickler.Stop()

		for {
			select {
			case <-notify:
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				sseMessage, err := formatSSEMessage(ev.Type, ev)
				if err != nil {
					log.Printf("Error formatting sse message: %v", err)
					continue
				}
				if _, err := w.WriteString(sseMessage); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAliveTickler.C:
				if _, err := w.WriteString(":keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
