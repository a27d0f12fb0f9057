package database

import (
	"gorm.io/gorm"

	"github.com/hotelflamingo/reservation-backend/internal/models"
)

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.ServiceAddon{},
		&models.Reservation{},
		&models.ReservationItem{},
		&models.Payment{},
		&models.OperationLog{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		return installReservationExclusion(db)
	}
	return nil
}

// installReservationExclusion 安装数据库层的日期区间互斥约束
// 应用层在行锁内做重叠检查，该约束是最后一道防线
func installReservationExclusion(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}
	return db.Exec(`
		DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap') THEN
				ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
					EXCLUDE USING gist (
						room_id WITH =,
						daterange(check_in::date, check_out::date) WITH &&
					)
					WHERE (status IN ('pending', 'confirmed', 'finalized'));
			END IF;
		END $$;
	`).Error
}
