package postgresql

/*
Settings that may (not must) appear in the storage config section:

host = "localhost"
port = "5432"
user = "postgres"
password = "postgres"
database = "gps_data"
table = "tbl_gps_data"
sslmode = "disable"
*/

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/fix"
)

type Connector struct {
	connection *sql.DB
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	var err error
	if cfg == nil {
		return fmt.Errorf("invalid storage configuration reference")
	}
	c.config = cfg
	connStr := fmt.Sprintf("dbname=%s host=%s port=%s user=%s password=%s sslmode=%s",
		c.config["database"], c.config["host"], c.config["port"], c.config["user"], c.config["password"], c.config["sslmode"])
	if c.connection, err = sql.Open("postgres", connStr); err != nil {
		return fmt.Errorf("PostgreSQL connection error: %v", err)
	}

	if err = c.connection.Ping(); err != nil {
		return fmt.Errorf("PostgreSQL is unreachable: %v", err)
	}
	return err
}

func (c *Connector) Save(f *fix.Fix) error {
	if f == nil {
		return fmt.Errorf("invalid fix reference")
	}

	table := c.config["table"]
	if table == "" {
		log.Warnf("Key 'table' not found in the storage configuration. Using default 'tbl_gps_data'.")
		table = "tbl_gps_data"
	}

	_, err := c.connection.Exec(insertQuery(table), insertArgs(f)...)
	if err != nil {
		return fmt.Errorf("failed to insert record: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.connection.Close()
}

func insertQuery(table string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (latd, lond, altitude, gps_date, gps_time, speed, bearing, interval_type, satellite_count) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		table)
}

// insertArgs maps a fix onto the table columns. Absent readings become SQL
// NULL, never zero, so a no-fix record stays distinguishable from a fix at
// the origin.
func insertArgs(f *fix.Fix) []interface{} {
	return []interface{}{
		nullFloat(f.Latitude),
		nullFloat(f.Longitude),
		nullFloat(f.Altitude),
		f.Timestamp.Format("2006-01-02"),
		f.Timestamp.Format("15:04:05"),
		nullFloat(f.SpeedKmh),
		nullFloat(f.CourseDeg),
		int(f.Quality),
		f.Satellites,
	}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
