package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coBecT/MtsTrueTech/internal/config"
	"github.com/coBecT/MtsTrueTech/internal/domain"
)

// ErrEphemeralDriver is returned by commands whose changes would be lost
// with the in-memory driver.
var ErrEphemeralDriver = errors.New("requires --driver libsql")

// requirePersistent fails unless changes made by command outlive the process.
func requirePersistent(command string) error {
	if cfg == nil || cfg.Storage.Driver != config.DriverLibsql {
		return fmt.Errorf("%s: %w (the %s driver keeps nothing after exit)", command, ErrEphemeralDriver, config.DriverMemory)
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// parseParamFlag reads NAME=VALUE[:TYPE[:UNIT]]. TYPE defaults to string.
func parseParamFlag(s string) (domain.Parameter, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok {
		return domain.Parameter{}, fmt.Errorf("%w: %q is not NAME=VALUE[:TYPE[:UNIT]]", domain.ErrInvalidParameter, s)
	}
	parts := strings.SplitN(rest, ":", 3)
	value, typ, unit := parts[0], string(domain.ParamString), ""
	if len(parts) > 1 && parts[1] != "" {
		typ = parts[1]
	}
	if len(parts) > 2 {
		unit = parts[2]
	}
	return domain.NewParameter(name, value, domain.ParamType(typ), unit)
}
