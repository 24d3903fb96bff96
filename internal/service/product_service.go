package service

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"go-shop-backend/internal/asset"
	"go-shop-backend/internal/event"
	"go-shop-backend/internal/model"
	"go-shop-backend/internal/util"
	"go-shop-backend/pkg/apierror"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ProductStore is the slice of the product repository the service needs.
type ProductStore interface {
	FindByID(ctx context.Context, id string) (model.Product, error)
	List(ctx context.Context, offset int, limit int) ([]model.Product, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p model.Product) error
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id string) error
}

// CartPurger removes a product from every cart when it is deleted.
type CartPurger interface {
	PurgeProduct(ctx context.Context, productID string) error
}

type ProductService struct {
	products      ProductStore
	carts         CartPurger
	assets        asset.Store
	bus           event.Bus
	thumbnailSize int
}

func NewProductService(products ProductStore, carts CartPurger, assets asset.Store, bus event.Bus, thumbnailSize int) *ProductService {
	if thumbnailSize <= 0 {
		thumbnailSize = 320
	}

	return &ProductService{
		products:      products,
		carts:         carts,
		assets:        assets,
		bus:           bus,
		thumbnailSize: thumbnailSize,
	}
}

// List returns one page of the catalog. maxPage is computed over the full
// count so clients can render pagination; an empty page is reported as
// ErrNoProducts rather than an empty list.
func (s *ProductService) List(ctx context.Context, page int, perPage int) (model.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total, err := s.products.Count(ctx)
	if err != nil {
		return model.ProductPage{}, err
	}

	products, err := s.products.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return model.ProductPage{}, err
	}

	if len(products) == 0 {
		return model.ProductPage{}, model.ErrNoProducts
	}

	return model.ProductPage{
		Products: products,
		MaxPage:  maxPage(total, perPage),
		Total:    total,
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (model.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Create uploads the image (plus a scaled thumbnail) to the asset host and
// then persists the product. The two steps are not one transaction: when
// the insert fails the just-uploaded objects are deleted best-effort so
// the bucket does not accumulate orphans.
func (s *ProductService) Create(ctx context.Context, ownerID string, in model.ProductInput, image []byte) (model.Product, error) {
	stored, thumb, err := s.uploadImage(ctx, image)
	if err != nil {
		return model.Product{}, err
	}

	now := time.Now().UTC()
	product := model.Product{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Price:        in.Price,
		Description:  in.Description,
		ImageURL:     stored.URL,
		ImageKey:     stored.Key,
		ThumbnailURL: thumb.URL,
		ThumbnailKey: thumb.Key,
		UserID:       ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.deleteAsset(ctx, stored.Key)
		s.deleteAsset(ctx, thumb.Key)
		return model.Product{}, err
	}

	s.publish(event.TypeProductCreated, ownerID)
	return product, nil
}

// Update replaces the product fields, requiring the requester to be the
// owner. With a new image the previous assets are deleted best-effort
// before the new ones are attached.
func (s *ProductService) Update(ctx context.Context, id string, requesterID string, in model.ProductInput, image []byte) (model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	if product.UserID != requesterID {
		return model.Product{}, model.ErrNotOwner
	}

	product.Title = in.Title
	product.Price = in.Price
	product.Description = in.Description
	product.UpdatedAt = time.Now().UTC()

	if len(image) > 0 {
		s.deleteAsset(ctx, product.ImageKey)
		s.deleteAsset(ctx, product.ThumbnailKey)

		stored, thumb, err := s.uploadImage(ctx, image)
		if err != nil {
			return model.Product{}, err
		}
		product.ImageURL = stored.URL
		product.ImageKey = stored.Key
		product.ThumbnailURL = thumb.URL
		product.ThumbnailKey = thumb.Key
	}

	if err := s.products.Update(ctx, product); err != nil {
		return model.Product{}, err
	}

	s.publish(event.TypeProductUpdated, requesterID)
	return product, nil
}

// Delete removes the product and its cart references, requiring
// ownership. Carts are purged before the row goes away so no cart ever
// references a deleted product; the stored assets are cleaned up
// best-effort afterwards. The returned maxPage reflects the shrunk
// catalog.
func (s *ProductService) Delete(ctx context.Context, id string, requesterID string, perPage int) (int, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if product.UserID != requesterID {
		return 0, model.ErrNotOwner
	}

	if err := s.carts.PurgeProduct(ctx, id); err != nil {
		return 0, err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return 0, err
	}

	s.deleteAsset(ctx, product.ImageKey)
	s.deleteAsset(ctx, product.ThumbnailKey)

	s.publish(event.TypeProductDeleted, requesterID)

	if perPage < 1 {
		perPage = DefaultPerPage
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return 0, err
	}

	return maxPage(total, perPage), nil
}

// uploadImage validates the payload and stores the original next to a
// scaled JPEG thumbnail. A thumbnail that cannot be produced is logged and
// skipped, never fatal.
func (s *ProductService) uploadImage(ctx context.Context, image []byte) (asset.Stored, asset.Stored, error) {
	if len(image) == 0 {
		return asset.Stored{}, asset.Stored{}, apierror.Validation(
			apierror.FieldError{Field: "image", Message: "an image file is required"})
	}

	mimeType, _, err := util.DetectMIME(bytes.NewReader(image))
	if err != nil {
		return asset.Stored{}, asset.Stored{}, err
	}
	if !util.IsProductImageMIME(mimeType) {
		return asset.Stored{}, asset.Stored{}, apierror.Validation(
			apierror.FieldError{Field: "image", Message: "image must be a PNG or JPEG file"})
	}

	stored, err := s.assets.Upload(ctx, util.ExtensionForMIME(mimeType), mimeType, bytes.NewReader(image))
	if err != nil {
		return asset.Stored{}, asset.Stored{}, err
	}

	var thumb asset.Stored
	thumbData, err := util.MakeThumbnail(image, s.thumbnailSize)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err)
		return stored, asset.Stored{}, nil
	}

	thumb, err = s.assets.Upload(ctx, ".jpg", "image/jpeg", bytes.NewReader(thumbData))
	if err != nil {
		slog.Warn("thumbnail upload failed", "error", err)
		return stored, asset.Stored{}, nil
	}

	return stored, thumb, nil
}

func (s *ProductService) deleteAsset(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.assets.Delete(ctx, key); err != nil {
		slog.Warn("asset delete failed", "key", key, "error", err)
	}
}

func (s *ProductService) publish(eventType event.Type, actorID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func maxPage(total int, perPage int) int {
	return int(math.Ceil(float64(total) / float64(perPage)))
}
