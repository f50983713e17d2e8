// Package health provides liveness, readiness and version endpoints.
//
// Liveness answers 200 while the process runs. Readiness runs the registered
// checks concurrently, each bounded by the configured check timeout, and
// answers 503 when any check fails:
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.Register("registry", func(ctx context.Context) error {
//		if gw.Registry().Len() == 0 {
//			return errors.New("provider registry is empty")
//		}
//		return nil
//	})
//	health.Mount(mux, cfg.Telemetry.Health, checker, health.NewVersionInfo(version, commit, date))
package health
