package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/enviromon/internal/errors"
)

// initSchema creates the samples table. One row per metric per cycle; the
// (timestamp, metric) pair is unique so replaying a cycle upserts.
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS samples (
            timestamp INTEGER NOT NULL,
            metric    TEXT    NOT NULL,
            value     REAL    NOT NULL,
            PRIMARY KEY (timestamp, metric)
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}

const insertSampleSQL = `
    INSERT INTO samples (timestamp, metric, value)
    VALUES (?, ?, ?)
    ON CONFLICT(timestamp, metric) DO UPDATE SET value = excluded.value
`
