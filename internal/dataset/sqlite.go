package dataset

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS observations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT,
    "group" TEXT NOT NULL,
    converted INTEGER NOT NULL,
    revenue REAL NOT NULL DEFAULT 0,
    segments TEXT
);

CREATE INDEX IF NOT EXISTS idx_observations_group ON observations("group");
`

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

// LoadSQLite reads every observation from the observations table of a
// SQLite file. Segment attributes are stored as a JSON object per row.
func LoadSQLite(path string) ([]Observation, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT user_id, "group", converted, revenue, segments FROM observations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var obs []Observation
	for rows.Next() {
		var o Observation
		var userID, segmentsJSON sql.NullString
		var converted int

		if err := rows.Scan(&userID, &o.Group, &converted, &o.Revenue, &segmentsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}

		o.UserID = userID.String
		o.Converted = converted != 0

		if segmentsJSON.Valid && segmentsJSON.String != "" {
			if err := json.Unmarshal([]byte(segmentsJSON.String), &o.Segments); err != nil {
				return nil, fmt.Errorf("failed to unmarshal segments: %w", err)
			}
		}

		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read observations: %w", err)
	}

	if err := Validate(obs); err != nil {
		return nil, err
	}

	log.Debug().Int("rows", len(obs)).Str("path", path).Msg("loaded sqlite dataset")
	return obs, nil
}

// WriteSQLite writes the observations to a SQLite file, creating the
// observations table if needed. Rows are appended in one transaction.
func WriteSQLite(path string, obs []Observation) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO observations (user_id, "group", converted, revenue, segments) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range obs {
		var segmentsJSON sql.NullString
		if len(o.Segments) > 0 {
			encoded, err := json.Marshal(o.Segments)
			if err != nil {
				return fmt.Errorf("failed to marshal segments: %w", err)
			}
			segmentsJSON = sql.NullString{String: string(encoded), Valid: true}
		}

		converted := 0
		if o.Converted {
			converted = 1
		}

		if _, err := stmt.Exec(o.UserID, o.Group, converted, o.Revenue, segmentsJSON); err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	return tx.Commit()
}
