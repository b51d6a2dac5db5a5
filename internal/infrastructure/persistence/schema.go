package persistence

import "strings"

// splitStatements splits a schema file on ";" so that every statement runs
// in its own Exec. The schema holds no literals containing ";".
func splitStatements(schema string) []string {
	var stmts []string

	for _, stmt := range strings.Split(schema, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}
