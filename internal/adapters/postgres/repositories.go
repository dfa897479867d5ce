package postgres

import (
	"errors"

	"github.com/ownership-platform/verification-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Collections   ports.CollectionRepository
	Devices       ports.DeviceRepository
	Verifications ports.VerificationRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Collections:   &collectionRepository{db: db},
		Devices:       &deviceRepository{db: db},
		Verifications: &verificationRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
