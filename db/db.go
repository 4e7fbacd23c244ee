package db

import (
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/sirupsen/logrus"

	"github.com/emiilyxiia/microservices-3/config"
	"github.com/emiilyxiia/microservices-3/models"
)

// Connect opens the configured database (sqlite3 by default) and migrates the
// ranking tables when AUTOMIGRATE is on.
func Connect(cfg config.Configuration, log *logrus.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Database {
	case "postgres", "postgresql":
		path := "user=" + cfg.DbUser + " dbname=" + cfg.DbName + " password=" + cfg.DbPass
		if cfg.CloudSQLConnectionName != "" {
			log.WithField("connection", cfg.CloudSQLConnectionName).Info("connecting to postgres via Cloud SQL socket")
			path += " host=/cloudsql/" + cfg.CloudSQLConnectionName
		} else {
			log.WithField("host", cfg.DbHost).Info("connecting to postgres")
			path += " host=" + cfg.DbHost + " port=" + cfg.DbPort
		}
		db, err = gorm.Open("postgres", path)
	default:
		log.Info("connecting to sqlite3")
		db, err = gorm.Open("sqlite3", "db/database.db")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Database, err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.Ranking{}, &models.RankedItem{}).Error; err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("automigrate failed: %w", err)
		}
		if strings.HasPrefix(cfg.Database, "postgres") {
			if err := db.Model(&models.RankedItem{}).
				AddForeignKey("ranking_id", "rankings(id)", "CASCADE", "CASCADE").Error; err != nil {
				log.WithError(err).Warn("could not add cascade foreign key")
			}
		}
	}

	return db, nil
}
