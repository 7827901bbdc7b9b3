package handler

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/goccy/go-json"
	"github.com/starfederation/datastar-go/datastar"
)

// ErrDataStarRequired is returned by SSE responses for plain requests.
var ErrDataStarRequired = NewHTTPError(http.StatusBadRequest, "datastar_required")

// StreamContext is a Context bound to an open datastar event stream.
type StreamContext interface {
	Context

	// SendComponent patches component into the page.
	SendComponent(component templ.Component, opts ...TemplOption) error
	// SendSignals merges signals into the page's signal store.
	SendSignals(signals map[string]any) error
}

// SSEHandler runs for the lifetime of one stream. The stream ends when it
// returns or the client goes away (ctx.Done).
type SSEHandler func(ctx StreamContext) error

type streamContext struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

func (c *streamContext) SendComponent(component templ.Component, opts ...TemplOption) error {
	return c.sse.PatchElementTempl(component, opts...)
}

func (c *streamContext) SendSignals(signals map[string]any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return c.sse.PatchSignals(data)
}

type sseResponse struct {
	handler SSEHandler
}

// Render opens the stream and runs the handler on it.
func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return ErrDataStarRequired
	}
	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	return s.handler(&streamContext{
		Context: NewContext(w, r),
		sse:     datastar.NewSSE(w, r),
	})
}

// SSE streams updates to a datastar client:
//
//	return handler.SSE(func(stream handler.StreamContext) error {
//		for msg := range watcher.Receive(stream) {
//			if err := stream.SendComponent(views.RolePanel(msg.Data)); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
func SSE(handler SSEHandler) Response {
	return sseResponse{handler: handler}
}
