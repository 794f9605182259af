package params

import (
	"fmt"
	"strings"
	"time"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// BindLoadTimestamp resolves the caller-supplied load timestamp string into
// the run-wide marker every load operation shares.
//
// An empty (or all-whitespace) value binds the null marker: downstream
// satellite and PIT timestamp columns receive SQL NULL, not an error.
// A non-empty value must match dvload.LoadTimestampLayout exactly; anything
// else wraps dvload.ErrParameter and is fatal for the whole run, since every
// subsequent operation depends on this value.
func BindLoadTimestamp(raw string) (dvload.LoadTimestamp, error) {
	if strings.TrimSpace(raw) == "" {
		return dvload.LoadTimestamp{}, nil
	}

	ts, err := time.Parse(dvload.LoadTimestampLayout, raw)
	if err != nil {
		return dvload.LoadTimestamp{}, fmt.Errorf(
			"load timestamp %q does not match format YYYY-MM-DD HH:MM:SS.ffffff: %w", raw, dvload.ErrParameter)
	}

	return dvload.LoadTimestamp{Valid: true, Time: ts}, nil
}
