// internal/config/database.go
package config

import (
	"fmt"
	"net/url"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// URL renders the connection as a postgres URL without scheme prefix, the
// form golang-migrate expects after "pgx5://".
func (d *DatabaseConfig) URL() string {
	u := url.URL{
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Database,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()[2:]
}
