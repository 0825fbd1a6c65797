// Command query-db inspects the finder's SQLite files without a CGO
// toolchain: lists tables, prints each schema, sample rows and row counts.
// Works on both the primary database and the HTTP cache.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: query-db <db-path> [limit]")
		os.Exit(1)
	}
	dbPath := os.Args[1]
	limit := 10
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			limit = n
		}
	}
	if err := queryDB(dbPath, limit); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func queryDB(dbPath string, limit int) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("cannot open %s: %w", dbPath, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("error opening db: %w", err)
	}
	defer db.Close()

	tables, err := listTables(db)
	if err != nil {
		return err
	}
	fmt.Printf("Tables: %v\n", tables)

	for _, table := range tables {
		dumpTable(db, table, limit)
	}
	return nil
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("error listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func dumpTable(db *sql.DB, table string, limit int) {
	fmt.Printf("\n=== %s ===\n", table)

	schemaRows, err := db.Query("PRAGMA table_info(" + quoteIdent(table) + ")")
	if err != nil {
		fmt.Printf("Schema error: %v\n", err)
		return
	}
	fmt.Println("Schema:")
	for schemaRows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var dflt interface{}
		schemaRows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk)
		fmt.Printf("  - %s (%s)\n", name, typ)
	}
	schemaRows.Close()

	var count int
	db.QueryRow("SELECT COUNT(*) FROM " + quoteIdent(table)).Scan(&count)
	fmt.Printf("Rows: %d\n", count)
	if count == 0 {
		return
	}

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit))
	if err != nil {
		fmt.Printf("Query error: %v\n", err)
		return
	}
	defer rows.Close()

	cols, _ := rows.Columns()
	fmt.Println("Sample:")
	i := 0
	for rows.Next() {
		values := make([]interface{}, len(cols))
		valuePtrs := make([]interface{}, len(cols))
		for j := range values {
			valuePtrs[j] = &values[j]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			fmt.Printf("Scan error: %v\n", err)
			continue
		}
		i++
		fmt.Printf("%d. ", i)
		for j, col := range cols {
			val := values[j]
			if s, ok := val.(string); ok && len(s) > 100 {
				val = s[:100] + "..."
			}
			if b, ok := val.([]byte); ok {
				val = fmt.Sprintf("<%d bytes>", len(b))
			}
			fmt.Printf("%s=%v  ", col, val)
		}
		fmt.Println()
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
