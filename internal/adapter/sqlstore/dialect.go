package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Supported STORE_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// dialect holds the few places where SQLite and Postgres disagree.
type dialect struct {
	name       string
	driverName string // database/sql driver registration name
	numbered   bool   // $1 placeholders instead of ?
	roundFmt   string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		name:       DriverSQLite,
		driverName: "sqlite",
		roundFmt:   "ROUND(%s, 2)",
	},
	DriverPostgres: {
		name:       DriverPostgres,
		driverName: "pgx",
		numbered:   true,
		roundFmt:   "ROUND((%s)::numeric, 2)::float8",
	},
}

func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported store driver %q", driver)
	}
	return d, nil
}

// round wraps expr in a two-decimal rounding that returns a float.
func (d dialect) round(expr string) string {
	return fmt.Sprintf(d.roundFmt, expr)
}

// bind rewrites ? placeholders for drivers that use numbered parameters.
// Queries in this package never contain a literal question mark.
func (d dialect) bind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
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
