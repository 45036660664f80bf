package repository

import (
	"github.com/upassistify/upassistify/internal/domain/blog"
	"github.com/upassistify/upassistify/internal/domain/coupon"
	"github.com/upassistify/upassistify/internal/domain/newsletter"
	"github.com/upassistify/upassistify/internal/domain/user"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/postgres"
	postgresRepo "github.com/upassistify/upassistify/internal/repository/postgres"
)

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return postgresRepo.NewCouponRepository(db, logger)
}

func NewNewsletterRepository(db *postgres.DB, logger *logger.Logger) newsletter.Repository {
	return postgresRepo.NewNewsletterRepository(db, logger)
}

func NewBlogRepository(db *postgres.DB, logger *logger.Logger) blog.Repository {
	return postgresRepo.NewBlogRepository(db, logger)
}

func NewProfileRepository(db *postgres.DB, logger *logger.Logger) user.ProfileRepository {
	return postgresRepo.NewProfileRepository(db, logger)
}

func NewRoleRepository(db *postgres.DB, logger *logger.Logger) user.RoleRepository {
	return postgresRepo.NewRoleRepository(db, logger)
}
