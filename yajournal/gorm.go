package yajournal

import (
	"context"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// GormRepo keeps failures in a GORM-backed database.
type GormRepo struct {
	poolDB *gorm.DB
}

// NewGormRepo migrates the Failure model and returns the repository.
func NewGormRepo(poolDB *gorm.DB) (*GormRepo, yaerrors.Error) {
	if err := poolDB.AutoMigrate(&Failure{}); err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"failed to make auto migrate",
		)
	}

	return &GormRepo{poolDB: poolDB}, nil
}

func (g *GormRepo) Record(ctx context.Context, failure Failure) yaerrors.Error {
	if err := g.poolDB.WithContext(ctx).Create(&failure).Error; err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			fmt.Errorf("%w: %w", ErrFailedToRecord, err),
			"failed to insert failure",
		)
	}

	return nil
}

func (g *GormRepo) Recent(ctx context.Context, limit int) ([]Failure, yaerrors.Error) {
	var failures []Failure

	if err := g.poolDB.WithContext(ctx).
		Model(&Failure{}).
		Order("created_at DESC").
		Limit(limit).
		Find(&failures).Error; err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			fmt.Errorf("%w: %w", ErrFailedToReadBack, err),
			"failed to select failures",
		)
	}

	return failures, nil
}
