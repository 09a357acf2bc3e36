package mechshop

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// injectTraceparent stamps the W3C trace context onto an outgoing
// request when the caller's context carries a valid otel span. The
// backend logs it next to the request ID, which ties shop API calls
// into whatever trace the application is already recording.
func injectTraceparent(ctx context.Context, req *http.Request) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	req.Header.Set("Traceparent",
		"00-"+sc.TraceID().String()+"-"+sc.SpanID().String()+"-"+sc.TraceFlags().String())
}
