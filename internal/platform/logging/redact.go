package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Field names whose values never reach a log line, whatever their content.
var redactedFields = []string{
	// credentials
	"password", "secret", "credential", "credentials",
	"privateKey", "private_key", "secretKey", "secret_key",
	// tokens and headers
	"token", "accessToken", "access_token", "refreshToken", "refresh_token",
	"apiKey", "apikey", "api_key",
	"authorization", "auth", "bearer", "cookie", "session",
	// store and exporter settings
	"dsn", "otlp_headers",
}

var redactedPrefixes = []string{"secret", "private"}

var redactedValues = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	// Authorization header schemes
	regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`),
	// URL userinfo, e.g. an OTLP endpoint with user:pass@host
	regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`),
	// SQLite DSN query secrets such as _auth_pass=
	regexp.MustCompile(`(?i)(_auth_pass|password|_key)=`),
}

// DefaultRedactOptions returns the masq options applied to every json and
// text log line.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(redactedFields)+len(redactedPrefixes)+len(redactedValues))
	for _, name := range redactedFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range redactedPrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range redactedValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that redacts secrets using
// DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
