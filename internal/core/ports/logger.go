package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}

// LogSettings is implemented by loggers whose output can be tuned per run.
type LogSettings interface {
	// SetVerbose lowers the threshold from warnings to informational messages.
	SetVerbose(enable bool)
	// SetJSON switches between JSON and pretty output.
	SetJSON(enable bool)
}
