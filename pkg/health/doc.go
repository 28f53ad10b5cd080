// Package health serves liveness and readiness probes.
//
// Readiness runs named checks in parallel, for example whether translations are loaded
// and whether Redis answers, and reports 503 if any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"workspace": ws.Healthcheck,
//		"redis":     redis.Healthcheck(client),
//	}, health.WithDetails(ws.Details)))
//
// Plain-text "OK" is returned by default; add ?format=json or Accept: application/json
// for a body listing every check.
package health
