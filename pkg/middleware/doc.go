// Package middleware provides HTTP middleware for the vpatch live server.
//
// # Prometheus Metrics
//
// Metrics counts requests by route pattern and status code, times them,
// and tracks live WebSocket sessions and frames:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r := chi.NewRouter()
//	r.Use(m.Handler)
//
// # OpenTelemetry
//
// OpenTelemetry wraps every request in a server span named after the
// matched route:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("vpatch"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer comes from the global provider unless WithTracer is given.
package middleware
