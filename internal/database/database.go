package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stayscout/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) RunMigrations() error {
	return d.db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Review{},
	)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

// --- Listings ---

func (d *Database) GetAllListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := d.db.WithContext(ctx).Order("id").Find(&listings).Error
	return listings, err
}

// SearchListings matches the query case-insensitively against title,
// location and country.
func (d *Database) SearchListings(ctx context.Context, query string) ([]models.Listing, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var listings []models.Listing
	err := d.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(location) LIKE ? OR LOWER(country) LIKE ?",
			pattern, pattern, pattern).
		Order("id").
		Find(&listings).Error
	return listings, err
}

func (d *Database) GetListingByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := d.db.WithContext(ctx).First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListingForDisplay loads a listing with its owner and its reviews in
// insertion order, each review carrying its resolved author.
func (d *Database) GetListingForDisplay(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := d.db.WithContext(ctx).
		Preload("Owner").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.id")
		}).
		Preload("Reviews.Author").
		First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (d *Database) CreateListing(ctx context.Context, listing *models.Listing) error {
	return d.db.WithContext(ctx).Create(listing).Error
}

func (d *Database) SaveListing(ctx context.Context, listing *models.Listing) error {
	return d.db.WithContext(ctx).Save(listing).Error
}

// DeleteListingCascade removes a listing together with all of its reviews
// in a single transaction, so a successful delete never leaves orphan
// reviews behind.
func (d *Database) DeleteListingCascade(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.Select("id").First(&listing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// reviews first so the foreign key on listing_id stays satisfied
		if err := tx.Where("listing_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Listing{}, id).Error
	})
}

// ListingsMissingGeometry returns listings without stored coordinates.
func (d *Database) ListingsMissingGeometry(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := d.db.WithContext(ctx).
		Where("geometry IS NULL OR geometry = ''").
		Order("id").
		Find(&listings).Error
	return listings, err
}

// SaveListingGeometry persists coordinates for a single listing.
func (d *Database) SaveListingGeometry(ctx context.Context, id uint, geometry *models.Geometry) error {
	result := d.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update("geometry", geometry)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Reviews ---

// CreateReview attaches a review to a listing. The existence check and the
// insert run in one transaction so the review is never created against a
// listing that disappeared in between.
func (d *Database) CreateReview(ctx context.Context, listingID uint, review *models.Review) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.Select("id").First(&listing, listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		review.ListingID = listingID
		return tx.Create(review).Error
	})
}

func (d *Database) GetReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := d.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review from its listing. The review must belong
// to the given listing.
func (d *Database) DeleteReview(ctx context.Context, listingID, reviewID uint) error {
	result := d.db.WithContext(ctx).
		Where("id = ? AND listing_id = ?", reviewID, listingID).
		Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users ---

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

func (d *Database) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
