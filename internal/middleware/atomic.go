package middleware

import (
	"portfolio-backend/internal/infrastructure/database"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Atomic runs the rest of the chain inside one database transaction carried
// by the request's user context. It commits only when the handler returns nil
// with a status below 400; any error, rejection or panic rolls back.
func Atomic(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		ctx := c.UserContext()
		tx := db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return tx.Error
		}
		c.SetUserContext(database.WithTx(ctx, tx))

		done := false
		defer func() {
			if !done {
				tx.Rollback()
			}
		}()

		err = c.Next()
		done = true
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				log.Error().Err(rbErr).Str("trace_id", GetTraceID(c)).Msg("Rollback failed")
			}
			return err
		}
		if cErr := tx.Commit().Error; cErr != nil {
			log.Error().Err(cErr).Str("trace_id", GetTraceID(c)).Msg("Commit failed")
			return cErr
		}
		return nil
	}
}
