// Package postgres holds the gorm-backed implementations of the domain
// repository interfaces. Each repository owns the row types of exactly one
// domain package; cross-entity deletion behavior lives in the database as
// foreign key constraints, not here.
package postgres

import "gorm.io/gorm"

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

func paginate(db *gorm.DB, page, pageSize int) *gorm.DB {
	return db.Offset((page - 1) * pageSize).Limit(pageSize)
}
