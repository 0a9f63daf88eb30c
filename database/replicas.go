package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// UseReadReplicas routes plain reads to the replicas. Writes, transactions and
// queries carrying dbresolver.Write stay on the primary.
func UseReadReplicas(db *gorm.DB, dsns []string, open func(dsn string) gorm.Dialector) error {
	if len(dsns) == 0 {
		return nil
	}
	replicas := make([]gorm.Dialector, 0, len(dsns))
	for _, dsn := range dsns {
		replicas = append(replicas, open(dsn))
	}

	return db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetConnMaxIdleTime(5 * time.Minute).
		SetMaxIdleConns(5).
		SetMaxOpenConns(20))
}
