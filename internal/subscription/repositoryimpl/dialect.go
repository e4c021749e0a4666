package repositoryimpl

import (
	"fmt"
	"strconv"
	"strings"
)

type dialect struct {
	driver string
	// migrationDir is the directory inside migrations.FS.
	migrationDir string
	numbered     bool
}

var (
	sqliteDialect   = dialect{driver: "sqlite", migrationDir: "sqlite"}
	postgresDialect = dialect{driver: "postgres", migrationDir: "postgres", numbered: true}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case sqliteDialect.driver:
		return sqliteDialect, nil
	case postgresDialect.driver:
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// rebind rewrites ? placeholders to $1, $2, ... for dialects that need it.
func (d dialect) rebind(query string) string {
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
