package hero

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/platform/dbctx"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type HeroVariantRepo interface {
	List(dbc dbctx.Context) ([]*types.Variant, error)
	ListForUpdate(dbc dbctx.Context) ([]*types.Variant, error)
	GetByKey(dbc dbctx.Context, key string) (*types.Variant, error)
	GetActive(dbc dbctx.Context) (*types.Variant, error)
	Create(dbc dbctx.Context, v *types.Variant) (*types.Variant, error)
	Save(dbc dbctx.Context, v *types.Variant) error
	Deactivate(dbc dbctx.Context, keys []string) error
	DeleteByKey(dbc dbctx.Context, key string) (bool, error)
}

type heroVariantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHeroVariantRepo(db *gorm.DB, baseLog *logger.Logger) HeroVariantRepo {
	return &heroVariantRepo{
		db:  db,
		log: baseLog.With("repo", "HeroVariantRepo"),
	}
}

func (r *heroVariantRepo) List(dbc dbctx.Context) ([]*types.Variant, error) {
	tx := dbc.DB(r.db)
	var out []*types.Variant
	if err := tx.
		Order("created_at ASC, variant_key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListForUpdate reads the whole collection with row locks held until the
// surrounding transaction ends. SQLite ignores the locking clause.
func (r *heroVariantRepo) ListForUpdate(dbc dbctx.Context) ([]*types.Variant, error) {
	tx := dbc.DB(r.db)
	var out []*types.Variant
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("created_at ASC, variant_key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByKey returns nil, nil when no record has the key.
func (r *heroVariantRepo) GetByKey(dbc dbctx.Context, key string) (*types.Variant, error) {
	tx := dbc.DB(r.db)
	if key == "" {
		return nil, nil
	}
	var v types.Variant
	err := tx.
		Where("variant_key = ?", key).
		Limit(1).
		Find(&v).Error
	if err != nil {
		return nil, err
	}
	if v.VariantKey == "" {
		return nil, nil
	}
	return &v, nil
}

func (r *heroVariantRepo) GetActive(dbc dbctx.Context) (*types.Variant, error) {
	tx := dbc.DB(r.db)
	var v types.Variant
	err := tx.
		Where("is_active = ?", true).
		Order("updated_at DESC").
		Limit(1).
		Find(&v).Error
	if err != nil {
		return nil, err
	}
	if v.VariantKey == "" {
		return nil, nil
	}
	return &v, nil
}

func (r *heroVariantRepo) Create(dbc dbctx.Context, v *types.Variant) (*types.Variant, error) {
	tx := dbc.DB(r.db)
	if v == nil {
		return nil, errors.New("nil variant")
	}
	if err := tx.Create(v).Error; err != nil {
		return nil, translate(err, v.VariantKey)
	}
	return v, nil
}

// Save writes every column of v, matched by primary key.
func (r *heroVariantRepo) Save(dbc dbctx.Context, v *types.Variant) error {
	tx := dbc.DB(r.db)
	if v == nil {
		return errors.New("nil variant")
	}
	res := tx.
		Model(v).
		Select("*").
		Omit("id", "created_at").
		Updates(v)
	if res.Error != nil {
		return translate(res.Error, v.VariantKey)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", types.ErrNotFound, v.VariantKey)
	}
	return nil
}

func (r *heroVariantRepo) Deactivate(dbc dbctx.Context, keys []string) error {
	tx := dbc.DB(r.db)
	if len(keys) == 0 {
		return nil
	}
	return tx.
		Model(&types.Variant{}).
		Where("variant_key IN ?", keys).
		Update("is_active", false).Error
}

func (r *heroVariantRepo) DeleteByKey(dbc dbctx.Context, key string) (bool, error) {
	tx := dbc.DB(r.db)
	res := tx.
		Where("variant_key = ?", key).
		Delete(&types.Variant{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// translate maps unique-constraint violations from either driver onto
// types.ErrDuplicateKey.
func translate(err error, key string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %q", types.ErrDuplicateKey, key)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %q", types.ErrDuplicateKey, key)
	}
	return err
}
