package fixtures

// Event tags attached to every log line.
const (
	EventAppDirectorySearch = "APP_DIRECTORY_SEARCH"
	EventFixtureCopy        = "FIXTURE_COPY"
)

// Logger is the structured logging surface the host supplies. args are
// key/value pairs in the log/slog convention.
type Logger interface {
	Debug(event, msg string, args ...any)
	Error(event, msg string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, string, ...any) {}
func (NopLogger) Error(string, string, ...any) {}
