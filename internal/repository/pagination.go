package repository

import "gorm.io/gorm"

// paginate 分页 scope，page 从 1 开始，最新的排在前面
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Order("created_at DESC").Order("id DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize)
	}
}
