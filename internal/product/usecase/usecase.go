package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/pkg/broker"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/search"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MsgNotFound          = "product.not_found"
	MsgSlugTaken         = "product.slug.taken"
	MsgPriceMin          = "product.price.min"
	MsgSalePriceInvalid  = "product.sale_price.invalid"
	MsgCategoriesInvalid = "product.categories.invalid"
	MsgOptionInvalid     = "variant.options.invalid"
	MsgInUse             = "product.in_use"

	slugConstraint = "products_store_slug_key"

	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

var minPrice = decimal.NewFromInt(1)

// all loads every relation of a product.
var all = dto.GetOptions{WithTags: true, WithCategories: true, WithSeo: true}

type Settings struct {
	SearchIndex  string
	EventTopic   string
	ListCacheTTL time.Duration
}

type productUseCase struct {
	repo      product.Repository
	cache     *cache.RedisClient
	es        *search.Client
	publisher broker.Publisher
	indexer   *product.Indexer
	settings  Settings
	logger    logger.ZapLogger
}

// NewProductUseCase wires the product use case. cache, es and publisher may
// be nil. Without a publisher, index updates are applied inline.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, publisher broker.Publisher, settings Settings, log logger.ZapLogger) product.UseCase {
	uc := &productUseCase{
		repo:      repo,
		cache:     cache,
		es:        es,
		publisher: publisher,
		settings:  settings,
		logger:    log,
	}
	if es != nil {
		uc.indexer = product.NewIndexer(es, settings.SearchIndex, log)
	}
	return uc
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := uc.validate(ctx, input.StoreID, &input.ProductRequest); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		StoreID:   input.StoreID,
	}
	assemble(p, &input.ProductRequest, nil)

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, mapSlugConflict(err)
	}
	uc.logger.Info("product created", zap.String("store_id", p.StoreID), zap.String("product_id", p.ID), zap.Int("variants", len(p.Variants)))

	return uc.afterWrite(ctx, p.StoreID, p.ID)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	existing, err := uc.GetProduct(ctx, input.StoreID, input.ID, all)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, input.StoreID, &input.ProductRequest); err != nil {
		return nil, err
	}

	p := &model.Product{
		BaseModel: model.BaseModel{ID: existing.ID, CreatedAt: existing.CreatedAt, UpdatedAt: time.Now()},
		StoreID:   existing.StoreID,
	}
	assemble(p, &input.ProductRequest, existing.Variants)

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, mapSlugConflict(err)
	}
	return uc.afterWrite(ctx, p.StoreID, p.ID)
}

// afterWrite reloads the stored product, drops cached listings and
// announces the change.
func (uc *productUseCase) afterWrite(ctx context.Context, storeID, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, storeID, id, all)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound(MsgNotFound)
	}
	uc.invalidateProductCache(ctx, storeID)
	uc.emit(ctx, product.Event{
		Type:      product.EventUpserted,
		StoreID:   storeID,
		ProductID: id,
		Document:  product.NewDocument(p),
		At:        time.Now(),
	})
	return p, nil
}

func (uc *productUseCase) StockChanged(ctx context.Context, storeID string, productIDs []string) {
	uc.invalidateProductCache(ctx, storeID)
	for _, id := range productIDs {
		p, err := uc.repo.FindByID(ctx, storeID, id, all)
		if err != nil || p == nil {
			uc.logger.Warn("product reload after stock change failed",
				zap.String("product_id", id), zap.Error(err))
			continue
		}
		uc.emit(ctx, product.Event{
			Type:      product.EventUpserted,
			StoreID:   storeID,
			ProductID: id,
			Document:  product.NewDocument(p),
			At:        time.Now(),
		})
	}
}

func (uc *productUseCase) CategoriesChanged(ctx context.Context, storeID string) {
	uc.invalidateProductCache(ctx, storeID)
}

func (uc *productUseCase) GetProduct(ctx context.Context, storeID, id string, opts dto.GetOptions) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, storeID, id, opts)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound(MsgNotFound)
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	filters.Params = filters.Params.Normalize()

	cacheKey, err := generateCacheKey(filters)
	if err != nil {
		cacheKey = ""
	}
	if uc.cache != nil && cacheKey != "" {
		var hit cachedList
		err := uc.cache.GetJSON(ctx, cacheKey, &hit)
		if err == nil {
			return hit.Products, hit.Count, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("product cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if uc.cache != nil && cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedList{Products: products, Count: count}, uc.settings.ListCacheTTL); err != nil {
			uc.logger.Warn("product cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return products, count, nil
}

// SearchProducts runs a full text search over non-archived products. It
// falls back to a name match in the database when the search cluster is
// unavailable.
func (uc *productUseCase) SearchProducts(ctx context.Context, storeID, q string, limit int) ([]model.Product, error) {
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	q = strings.TrimSpace(q)

	if uc.es != nil && q != "" {
		res, err := uc.es.Search(ctx, uc.settings.SearchIndex, searchQuery(storeID, q, limit))
		if err == nil {
			products := make([]model.Product, 0, len(res.Hits.Hits))
			for _, hit := range res.Hits.Hits {
				var doc product.Document
				if err := json.Unmarshal(hit.Source, &doc); err != nil {
					uc.logger.Warn("skipping undecodable search hit", zap.String("id", hit.ID), zap.Error(err))
					continue
				}
				products = append(products, doc.Product())
			}
			return products, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	archived := false
	products, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{
		Params:     query.Params{StoreID: storeID, Page: 1, PageSize: limit, Query: q}.Normalize(),
		IsArchived: &archived,
	})
	return products, err
}

func searchQuery(storeID, q string, limit int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"multi_match": map[string]interface{}{
							"query":     q,
							"fields":    []string{"name^3", "tagNames^2", "description"},
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"storeId": storeID}},
					{"term": map[string]interface{}{"isArchived": false}},
				},
			},
		},
		"size": limit,
	}
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, storeID, id string) error {
	if _, err := uc.GetProduct(ctx, storeID, id, dto.GetOptions{}); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, storeID, id); err != nil {
		if _, ok := apperror.ForeignKeyViolation(err); ok {
			return apperror.Conflict("product", MsgInUse)
		}
		return err
	}

	uc.invalidateProductCache(ctx, storeID)
	uc.emit(ctx, product.Event{Type: product.EventDeleted, StoreID: storeID, ProductID: id, At: time.Now()})
	return nil
}

// validate checks what binding cannot: money bounds, variant rules and that
// referenced categories and option values belong to the store.
func (uc *productUseCase) validate(ctx context.Context, storeID string, req *dto.ProductRequest) error {
	fields := map[string][]string{}

	if req.Price.LessThan(minPrice) {
		fields["price"] = append(fields["price"], MsgPriceMin)
	}
	if req.SalePrice.Valid && req.SalePrice.Decimal.IsNegative() {
		fields["salePrice"] = append(fields["salePrice"], MsgSalePriceInvalid)
	}

	if err := variant.Validate(req.Variants); err != nil {
		for k, v := range apperror.From(err).Fields {
			fields[k] = append(fields[k], v...)
		}
	}

	categories := unique(req.Categories)
	n, err := uc.repo.CountCategories(ctx, storeID, categories)
	if err != nil {
		return err
	}
	if n != len(categories) {
		fields["categories"] = append(fields["categories"], MsgCategoriesInvalid)
	}

	var valueIDs []string
	for _, d := range req.Variants {
		for _, s := range d.Options {
			valueIDs = append(valueIDs, s.ValueID)
		}
	}
	owners, err := uc.repo.ValueOptions(ctx, storeID, unique(valueIDs))
	if err != nil {
		return err
	}
	for i, d := range req.Variants {
		for _, s := range d.Options {
			if owners[s.ValueID] != s.OptionID {
				key := fmt.Sprintf("variants.%d.options", i)
				fields[key] = append(fields[key], MsgOptionInvalid)
				break
			}
		}
	}

	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

// assemble copies the request onto p. Variants keep their id when it names
// one of the product's current variants.
func assemble(p *model.Product, req *dto.ProductRequest, current []model.Variant) {
	p.Name = strings.TrimSpace(req.Name)
	p.Slug = strings.TrimSpace(req.Slug)
	p.Description = req.Description
	p.Price = req.Price
	p.SalePrice = req.SalePrice
	p.Stock = variant.ProductStock(req.Stock, req.Variants)
	p.IsFeatured = req.IsFeatured
	p.IsArchived = req.IsArchived

	p.Images = make([]model.Image, 0, len(req.Images))
	for _, url := range req.Images {
		p.Images = append(p.Images, model.Image{ID: uuid.New().String(), ProductID: p.ID, URL: url})
	}

	p.Categories = make([]model.Category, 0, len(req.Categories))
	for _, id := range unique(req.Categories) {
		p.Categories = append(p.Categories, model.Category{BaseModel: model.BaseModel{ID: id}})
	}

	p.Tags = make([]model.Tag, 0, len(req.Tags))
	for _, name := range unique(req.Tags) {
		p.Tags = append(p.Tags, model.Tag{StoreID: p.StoreID, Name: name})
	}

	p.Seo = &model.Seo{
		ProductID:       p.ID,
		MetaTitle:       optional(req.MetaTitle),
		MetaDescription: optional(req.MetaDescription),
		MetaKeywords:    optional(req.MetaKeywords),
	}

	known := make(map[string]model.Variant, len(current))
	for _, v := range current {
		known[v.ID] = v
	}
	p.Variants = make([]model.Variant, 0, len(req.Variants))
	for i, d := range req.Variants {
		v := model.Variant{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: p.UpdatedAt, UpdatedAt: p.UpdatedAt},
			ProductID: p.ID,
			Stock:     d.Stock,
			Position:  i,
		}
		if prev, ok := known[d.ID]; ok {
			v.ID = prev.ID
			v.CreatedAt = prev.CreatedAt
			delete(known, d.ID)
		}
		for _, s := range d.Options {
			v.Options = append(v.Options, model.VariantOptionValue{
				ID:            uuid.New().String(),
				VariantID:     v.ID,
				OptionID:      s.OptionID,
				OptionValueID: s.ValueID,
			})
		}
		p.Variants = append(p.Variants, v)
	}
	p.TotalStock = p.Stock
	if len(req.Variants) > 0 {
		p.TotalStock = variant.TotalStock(req.Variants)
	}
}

func (uc *productUseCase) emit(ctx context.Context, e product.Event) {
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, uc.settings.EventTopic, e.ProductID, e); err != nil {
			uc.logger.Error("failed to publish catalog event", zap.String("type", e.Type), zap.String("product_id", e.ProductID), zap.Error(err))
		}
		return
	}
	if uc.indexer != nil {
		if err := uc.indexer.Apply(ctx, e); err != nil {
			uc.logger.Error("failed to sync product to search", zap.String("product_id", e.ProductID), zap.Error(err))
		}
	}
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%s:%x", filters.StoreID, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context, storeID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, fmt.Sprintf("products:list:%s:*", storeID)); err != nil {
		uc.logger.Warn("product cache invalidation failed", zap.String("store_id", storeID), zap.Error(err))
	}
}

func mapSlugConflict(err error) error {
	if constraint, ok := apperror.UniqueViolation(err); ok && constraint == slugConstraint {
		return apperror.Conflict("slug", MsgSlugTaken)
	}
	return err
}

func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
