package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/imagestore"
	"catalog/internal/metrics"
	"catalog/internal/models"
)

// Service manages products together with their image files.
// Every call is scoped to the owner passed in by the caller.
type Service struct {
	db         *gorm.DB
	images     *imagestore.Store
	log        *zap.Logger
	metrics    *metrics.Metrics
	maxImageKB int64
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMaxImageKB overrides the upload size limit.
func WithMaxImageKB(kb int64) Option {
	return func(s *Service) {
		if kb > 0 {
			s.maxImageKB = kb
		}
	}
}

func NewService(db *gorm.DB, images *imagestore.Store, opts ...Option) *Service {
	s := &Service{
		db:         db,
		images:     images,
		log:        zap.NewNop(),
		maxImageKB: DefaultMaxImageKB,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the owner's products, newest first. A non-empty search keeps
// rows whose name or description contains it.
func (s *Service) List(ctx context.Context, ownerID uint, search string) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + term + "%"
		q = q.Where(s.db.Where("name LIKE ?", like).Or("description LIKE ?", like))
	}

	var items []models.Product
	if err := q.Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// Get loads one product of the owner.
func (s *Service) Get(ctx context.Context, ownerID, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return &p, nil
}

// Create validates in, stores its image and inserts the row.
// The image is removed again if the insert fails.
func (s *Service) Create(ctx context.Context, ownerID uint, in Input) (p *models.Product, err error) {
	defer func() { s.metrics.Mutation("create", err) }()

	v, err := s.check(in, FieldImage)
	if err != nil {
		return nil, err
	}

	p = &models.Product{
		UserID:      ownerID,
		Name:        v.name,
		Price:       v.price,
		Description: v.description,
	}

	if in.Image != nil {
		name, err := s.storeImage(in.Image, v.imageExt)
		if err != nil {
			return nil, err
		}
		p.Image = &name
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if p.Image != nil {
			s.discardImage(*p.Image)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("product created",
		zap.Uint("owner_id", ownerID),
		zap.Uint("product_id", p.ID),
		zap.String("image", p.ImageName()))
	return p, nil
}

// Update overwrites name, price and description. When in.Image is set the
// new file replaces the old one; otherwise the image is left untouched.
func (s *Service) Update(ctx context.Context, ownerID, id uint, in Input) (p *models.Product, err error) {
	defer func() { s.metrics.Mutation("update", err) }()

	p, err = s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	v, err := s.check(in, FieldNewImage)
	if err != nil {
		return nil, err
	}

	oldImage := p.ImageName()
	p.Name = v.name
	p.Price = v.price
	p.Description = v.description

	var newImage string
	if in.Image != nil {
		newImage, err = s.storeImage(in.Image, v.imageExt)
		if err != nil {
			return nil, err
		}
		p.Image = &newImage
	}

	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		if newImage != "" {
			s.discardImage(newImage)
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	if newImage != "" && oldImage != "" && s.images.Exists(oldImage) {
		s.discardImage(oldImage)
	}

	s.log.Info("product updated",
		zap.Uint("owner_id", ownerID),
		zap.Uint("product_id", p.ID),
		zap.String("image", p.ImageName()))
	return p, nil
}

// Delete removes the product's image file, then the row.
func (s *Service) Delete(ctx context.Context, ownerID, id uint) (err error) {
	defer func() { s.metrics.Mutation("delete", err) }()

	p, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if p.HasImage() && s.images.Exists(*p.Image) {
		if err := s.images.Delete(*p.Image); err != nil {
			return err
		}
		s.metrics.ImageDeleted()
	}

	if err := s.db.WithContext(ctx).Delete(p).Error; err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	s.log.Info("product deleted", zap.Uint("owner_id", ownerID), zap.Uint("product_id", id))
	return nil
}

// Stats are the totals shown on the admin dashboard.
type Stats struct {
	Products   int64
	WithImages int64
	Users      int64
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.Product{}).Count(&st.Products).Error; err != nil {
		return Stats{}, fmt.Errorf("count products: %w", err)
	}
	if err := db.Model(&models.Product{}).Where("image IS NOT NULL AND image <> ''").Count(&st.WithImages).Error; err != nil {
		return Stats{}, fmt.Errorf("count images: %w", err)
	}
	if err := db.Model(&models.User{}).Count(&st.Users).Error; err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	return st, nil
}

func (s *Service) storeImage(u *imagestore.Upload, ext string) (string, error) {
	name, n, err := s.images.Save(u, ext)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	s.metrics.ImageWritten(n)
	return name, nil
}

// discardImage removes a file best effort; failures are only logged.
func (s *Service) discardImage(name string) {
	if err := s.images.Delete(name); err != nil {
		s.log.Warn("image cleanup failed", zap.String("image", name), zap.Error(err))
		return
	}
	s.metrics.ImageDeleted()
}
