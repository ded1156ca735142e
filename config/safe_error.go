package config

// SafeErrorMessage returns the underlying error text in debug mode and the
// fallback in release mode, so internals never leak to clients in production.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
