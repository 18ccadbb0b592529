package config

// SafeErrorMessage returns the real error text in debug mode (or when no
// configuration is loaded, which is treated as a development environment) and
// the fallback everywhere else, so internal details never leak to clients.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig == nil || GlobalConfig.Server.Mode == "debug" {
		return err.Error()
	}
	return fallback
}
