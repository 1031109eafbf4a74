package lib

import (
	"context"

	"github.com/fiffu/stockwatch/lib/models"
	"github.com/fiffu/stockwatch/lib/urlnorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type watchlist struct {
	log *zap.Logger
	db  *gorm.DB
}

// AddProduct tracks a product for the user. Adding a URL the user already
// tracks returns the existing record.
func (svc *watchlist) AddProduct(ctx context.Context, userID uint, rawURL string) (*models.Product, error) {
	productURL, err := parseHTTPURL(rawURL)
	if err != nil {
		return nil, err
	}
	productURL = urlnorm.Normalize(productURL)

	if err := svc.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	product := &models.Product{}
	tx := svc.db.WithContext(ctx).
		Where(models.Product{UserID: userID, URL: productURL}).
		Attrs(models.Product{LastStatus: models.StatusUnknown}).
		FirstOrCreate(product)
	if err := tx.Error; err != nil {
		return nil, err
	}
	svc.log.Sugar().Infow("Tracking product", "user_id", userID, "product_id", product.ID, "url", productURL)
	return product, nil
}

func (svc *watchlist) ListProducts(ctx context.Context, userID uint) (models.Products, error) {
	if err := svc.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	var products models.Products
	tx := svc.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&products)
	return products, tx.Error
}

func (svc *watchlist) DeleteProduct(ctx context.Context, userID, productID uint) error {
	tx := svc.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("id = ?", productID).
		Delete(&models.Product{})
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "product")
	}
	return nil
}

// AddCategory tracks a category listing. webhookURL optionally overrides the
// user's webhook for discovery notifications.
func (svc *watchlist) AddCategory(ctx context.Context, userID uint, rawURL, webhookURL string) (*models.Category, error) {
	categoryURL, err := parseHTTPURL(rawURL)
	if err != nil {
		return nil, err
	}
	target, err := parseTarget(webhookURL)
	if err != nil {
		return nil, err
	}

	if err := svc.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	cat := &models.Category{}
	tx := svc.db.WithContext(ctx).
		Where(models.Category{UserID: userID, URL: categoryURL}).
		Assign(models.Category{WebhookURL: target}).
		FirstOrCreate(cat)
	if err := tx.Error; err != nil {
		return nil, err
	}
	svc.log.Sugar().Infow("Tracking category", "user_id", userID, "category_id", cat.ID, "url", categoryURL)
	return cat, nil
}

func (svc *watchlist) ListCategories(ctx context.Context, userID uint) (models.Categories, error) {
	if err := svc.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	var cats models.Categories
	tx := svc.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&cats)
	return cats, tx.Error
}

// DeleteCategory removes the category along with its snapshot.
func (svc *watchlist) DeleteCategory(ctx context.Context, userID, categoryID uint) error {
	tx := svc.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("id = ?", categoryID).
		Delete(&models.Category{})
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "category")
	}
	return nil
}

func (svc *watchlist) ListCategoryProducts(ctx context.Context, userID, categoryID uint) (models.CategoryProducts, error) {
	cat := &models.Category{}
	tx := svc.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("id = ?", categoryID).
		First(cat)
	if err := tx.Error; err != nil {
		return nil, notFound(err, "category")
	}

	var rows models.CategoryProducts
	tx = svc.db.WithContext(ctx).Where("category_id = ?", cat.ID).Order("id").Find(&rows)
	return rows, tx.Error
}

func (svc *watchlist) ensureUser(ctx context.Context, userID uint) error {
	var count int64
	tx := svc.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count)
	if err := tx.Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound(gorm.ErrRecordNotFound, "user")
	}
	return nil
}
