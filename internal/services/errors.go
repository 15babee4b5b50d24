package services

import (
	"errors"
	"net/http"

	"github.com/yungbote/prizely-backend/internal/platform/apierr"
	"gorm.io/gorm"
)

// storeError translates a repository error for entity ("item", "market", "price")
// into an *apierr.Error. Unrecognized errors become 500s that keep the cause.
func storeError(entity string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.NotFound(entity+"_not_found", "%s not found", titled(entity))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierr.Conflict(entity+"_exists", "%s with this name already exists", titled(entity))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apierr.BadRequest("invalid_reference", "Invalid itemId or marketId")
	default:
		return apierr.New(http.StatusInternalServerError, entity+"_store_failed", err)
	}
}

func titled(entity string) string {
	if entity == "" {
		return entity
	}
	return string(entity[0]-'a'+'A') + entity[1:]
}
