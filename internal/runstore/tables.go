package runstore

import (
	"fmt"

	"github.com/snowline/s1snow/schema"
)

// quoteTableName quotes a table name for the backend dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// columnTypes maps the portable column kinds onto a backend dialect.
type columnTypes struct {
	serial, bigint, integer, real, text, timestamp, key string
}

func typesFor(backend schema.DatabaseBackend) columnTypes {
	switch backend {
	case schema.MySQLBackend:
		return columnTypes{
			serial: "BIGINT AUTO_INCREMENT PRIMARY KEY", bigint: "BIGINT", integer: "INT",
			real: "DOUBLE", text: "TEXT", timestamp: "DATETIME(6)", key: "VARCHAR(32)",
		}
	case schema.PostgreSQLBackend:
		return columnTypes{
			serial: "BIGSERIAL PRIMARY KEY", bigint: "BIGINT", integer: "INT",
			real: "DOUBLE PRECISION", text: "TEXT", timestamp: "TIMESTAMPTZ", key: "TEXT",
		}
	default: // SQLite
		return columnTypes{
			serial: "INTEGER PRIMARY KEY AUTOINCREMENT", bigint: "INTEGER", integer: "INTEGER",
			real: "REAL", text: "TEXT", timestamp: "TEXT", key: "TEXT",
		}
	}
}

// createTableQuery returns the CREATE TABLE query of a tracking table.
func createTableQuery(table string, backend schema.DatabaseBackend) string {
	t := typesFor(backend)
	quoted := quoteTableName(table, backend)

	switch table {
	case runsTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id %s,
				start_time %s NOT NULL,
				end_time %s,
				run_duration_ms %s,
				total_cells %s,
				retained_cells %s,
				config_params %s
			)`, quoted, t.serial, t.timestamp, t.timestamp, t.integer, t.integer, t.integer, t.text)

	case fitsTable:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id %s NOT NULL,
				target %s NOT NULL,
				intercept %s NOT NULL,
				beta_elevation %s NOT NULL,
				beta_heating_index %s NOT NULL,
				fit_rank %s NOT NULL,
				n_rows %s NOT NULL,
				r_squared %s NOT NULL,
				rmse %s NOT NULL,
				PRIMARY KEY (run_id, target)
			)`, quoted, t.bigint, t.key, t.real, t.real, t.real, t.integer, t.integer, t.real, t.real)

	default: // cellsTable
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id %s NOT NULL,
				y %s NOT NULL,
				x %s NOT NULL,
				elevation %s NOT NULL,
				aspect %s NOT NULL,
				heating_index %s NOT NULL,
				runoff_doy %s NOT NULL,
				ripening_doy %s NOT NULL,
				runoff_prediction %s NOT NULL,
				ripening_prediction %s NOT NULL,
				PRIMARY KEY (run_id, y, x)
			)`, quoted, t.bigint, t.real, t.real, t.real, t.real, t.real, t.integer, t.integer, t.real, t.real)
	}
}
