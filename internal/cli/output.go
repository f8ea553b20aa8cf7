package cli

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog"

	"cheztheme/internal/logging"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loggerFor(command string) zerolog.Logger {
	return logging.Component("cli").With().Str("command", command).Logger()
}
