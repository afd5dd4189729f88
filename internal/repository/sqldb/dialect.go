package sqldb

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	Name       string
	DriverName string
	// numbered placeholders ($1, $2...) instead of ?
	numbered bool
}

var (
	// SQLite is the embedded default, backed by modernc.org/sqlite
	SQLite = Dialect{Name: "sqlite", DriverName: "sqlite"}
	// Postgres is backed by github.com/lib/pq
	Postgres = Dialect{Name: "postgres", DriverName: "postgres", numbered: true}
)

// DialectFor resolves a configured driver name
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver: %s", name)
	}
}

// Rebind rewrites ? placeholders for the dialect. Queries in this package
// never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
