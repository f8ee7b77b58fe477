package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"dealerops/internal/models"
	"dealerops/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Engine surface ---------------------------------------------------------

func (s *Store) ListActiveOrders(ctx context.Context, params repository.ListActiveOrdersParams) ([]models.Order, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status NOT IN ?", models.TerminalStatuses()).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("performed_at asc")
		})
	if params.SalespersonID != nil && strings.TrimSpace(*params.SalespersonID) != "" {
		query = query.Where("salesperson_id = ?", strings.TrimSpace(*params.SalespersonID))
	}
	var items []models.Order
	if err := query.Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateOrderScores(ctx context.Context, orderID string, update repository.ScoreUpdate) error {
	if s == nil || s.db == nil {
		return nil
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"risk_score":              update.RiskScore,
			"risk_level":              update.RiskLevel,
			"fulfillment_probability": update.FulfillmentProbability,
			"scored_at":               update.ScoredAt,
		}).Error
}

// --- CRUD surface -----------------------------------------------------------

func (s *Store) ListOrders(ctx context.Context, params repository.ListOrdersParams) ([]models.Order, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyOrderFilters(s.db.WithContext(ctx).Model(&models.Order{}), params).
		Preload("Customer").
		Preload("Vehicle")
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var items []models.Order
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountOrders(ctx context.Context, params repository.ListOrdersParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	query := applyOrderFilters(s.db.WithContext(ctx).Model(&models.Order{}), params)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyOrderFilters(query *gorm.DB, params repository.ListOrdersParams) *gorm.DB {
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.SalespersonID != nil && strings.TrimSpace(*params.SalespersonID) != "" {
		query = query.Where("salesperson_id = ?", strings.TrimSpace(*params.SalespersonID))
	}
	if params.RiskLevel != nil && strings.TrimSpace(*params.RiskLevel) != "" {
		query = query.Where("risk_level = ?", strings.TrimSpace(*params.RiskLevel))
	}
	return query
}

func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("performed_at asc")
		}).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListActivities(ctx context.Context, params repository.ListActivitiesParams) ([]models.Activity, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Activity{})
	if strings.TrimSpace(params.OrderID) != "" {
		query = query.Where("order_id = ?", strings.TrimSpace(params.OrderID))
	}
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Activity
	if err := query.Order("performed_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) InsertActivity(ctx context.Context, item *models.Activity) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) TouchLastContact(ctx context.Context, orderID string, at time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil
	}
	// Only move the watermark forward.
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Where("last_contact_at IS NULL OR last_contact_at < ?", at).
		Update("last_contact_at", at).Error
}

func (s *Store) ListSalespeople(ctx context.Context) ([]models.Salesperson, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Salesperson
	if err := s.db.WithContext(ctx).
		Model(&models.Salesperson{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
