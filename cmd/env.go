package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/atio-cli/internal/catalog"
	"github.com/sells-group/atio-cli/internal/config"
	"github.com/sells-group/atio-cli/internal/store"
)

// loadCatalog returns the configured catalog, or the embedded one when no
// path is set.
func loadCatalog(c *config.Config) (*catalog.Catalog, error) {
	if c == nil || c.Catalog.Path == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(c.Catalog.Path)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("catalog loaded",
		zap.String("path", c.Catalog.Path),
		zap.Int("innovations", cat.Len()),
	)
	return cat, nil
}

// initStore opens and migrates the configured decision store.
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch c.Store.Driver {
	case config.DriverSQLite:
		st, err = store.NewSQLite(c.Store.SQLitePath)
	case config.DriverPostgres:
		st, err = store.NewPostgres(ctx, c.Store.DatabaseURL, &c.Store.Pool)
	case config.DriverMemory:
		st = store.NewMemory()
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// splitIDs parses a comma separated id list, dropping blanks.
func splitIDs(raw string) []string {
	var out []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// truncateTitle shortens s to at most n runes, ending in "..." when cut.
func truncateTitle(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
