package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO products (
                id, store_id, name, slug, description, price, sale_price,
                stock, is_featured, is_archived, created_at, updated_at
            )
            VALUES (
                :id, :store_id, :name, :slug, :description, :price, :sale_price,
                :stock, :is_featured, :is_archived, :created_at, :updated_at
            )
        `, p)
		if err != nil {
			return err
		}
		return writeRelations(ctx, tx, p)
	})
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
            UPDATE products
            SET name = :name,
                slug = :slug,
                description = :description,
                price = :price,
                sale_price = :sale_price,
                stock = :stock,
                is_featured = :is_featured,
                is_archived = :is_archived,
                updated_at = :updated_at
            WHERE id = :id AND store_id = :store_id
        `, p)
		if err != nil {
			return err
		}
		return writeRelations(ctx, tx, p)
	})
}

// writeRelations replaces images, tags and categories, upserts seo and
// reconciles variants so that the stored product matches p exactly.
func writeRelations(ctx context.Context, tx *sqlx.Tx, p *model.Product) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	for _, img := range p.Images {
		if _, err := tx.ExecContext(ctx, `INSERT INTO images (id, product_id, url) VALUES ($1, $2, $3)`,
			img.ID, p.ID, img.URL); err != nil {
			return err
		}
	}

	if err := writeTags(ctx, tx, p); err != nil {
		return err
	}

	if p.Seo != nil {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO seo (product_id, meta_title, meta_description, meta_keywords)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (product_id) DO UPDATE
            SET meta_title = EXCLUDED.meta_title,
                meta_description = EXCLUDED.meta_description,
                meta_keywords = EXCLUDED.meta_keywords
        `, p.ID, p.Seo.MetaTitle, p.Seo.MetaDescription, p.Seo.MetaKeywords)
		if err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	for _, c := range p.Categories {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)
            ON CONFLICT DO NOTHING
        `, p.ID, c.ID); err != nil {
			return err
		}
	}

	return writeVariants(ctx, tx, p)
}

// writeTags connects the product to its tags by name, creating the store's
// tags that do not exist yet.
func writeTags(ctx context.Context, tx *sqlx.Tx, p *model.Product) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_tags WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	for i := range p.Tags {
		t := &p.Tags[i]
		err := tx.GetContext(ctx, &t.ID, `
            INSERT INTO tags (id, store_id, name) VALUES ($1, $2, $3)
            ON CONFLICT ON CONSTRAINT tags_store_name_key DO UPDATE SET name = EXCLUDED.name
            RETURNING id
        `, uuid.New().String(), p.StoreID, t.Name)
		if err != nil {
			return err
		}
		t.StoreID = p.StoreID
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2)
            ON CONFLICT DO NOTHING
        `, p.ID, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// writeVariants keeps the variants whose ids are still present, drops the
// others and links every variant to its option values. Join rows are
// upserted so that replaying the same write changes nothing.
func writeVariants(ctx context.Context, tx *sqlx.Tx, p *model.Product) error {
	keep := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		keep = append(keep, v.ID)
	}
	if len(keep) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE product_id = $1`, p.ID); err != nil {
			return err
		}
		return nil
	}
	if err := execIn(ctx, tx, `DELETE FROM variants WHERE product_id = ? AND id NOT IN (?)`, p.ID, keep); err != nil {
		return err
	}

	for i := range p.Variants {
		v := &p.Variants[i]
		v.ProductID = p.ID
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO variants (id, product_id, stock, position, created_at, updated_at)
            VALUES (:id, :product_id, :stock, :position, :created_at, :updated_at)
            ON CONFLICT (id) DO UPDATE
            SET stock = EXCLUDED.stock, position = EXCLUDED.position, updated_at = EXCLUDED.updated_at
        `, v)
		if err != nil {
			return err
		}

		values := make([]string, 0, len(v.Options))
		for _, o := range v.Options {
			values = append(values, o.OptionValueID)
		}
		if len(values) == 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM variant_option_values WHERE variant_id = $1`, v.ID); err != nil {
				return err
			}
		} else if err := execIn(ctx, tx, `DELETE FROM variant_option_values WHERE variant_id = ? AND option_value_id NOT IN (?)`, v.ID, values); err != nil {
			return err
		}
		for j := range v.Options {
			o := &v.Options[j]
			o.VariantID = v.ID
			_, err := tx.NamedExecContext(ctx, `
                INSERT INTO variant_option_values (id, variant_id, option_id, option_value_id)
                VALUES (:id, :variant_id, :option_id, :option_value_id)
                ON CONFLICT (variant_id, option_value_id) DO NOTHING
            `, o)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func execIn(ctx context.Context, tx *sqlx.Tx, q string, args ...any) error {
	q, inArgs, err := sqlx.In(q, args...)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(q), inArgs...)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string, opts dto.GetOptions) (*model.Product, error) {
	f := query.ForStore(storeID)
	f.And("id = " + f.Bind(id))
	f.BoolEquals("is_archived", opts.IsArchived)
	f.BoolEquals("is_featured", opts.IsFeatured)

	q, args, err := r.DB.BindNamed("SELECT * FROM products"+f.Where()+" LIMIT 1", f.Args())
	if err != nil {
		return nil, err
	}
	var p model.Product
	if err := r.DB.GetContext(ctx, &p, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	products := []model.Product{p}
	if err := r.attach(ctx, products, opts); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// FindAll lists products. Category membership is an OR list: a product in
// any of the requested categories matches.
func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	filter := query.ForStore(f.StoreID).NameContains("name", f.Query)
	filter.BoolEquals("is_archived", f.IsArchived)
	filter.BoolEquals("is_featured", f.IsFeatured)
	for _, id := range f.CategoryIDs {
		filter.Or("EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id = " + filter.Bind(id) + ")")
	}

	products, count, err := query.List[model.Product](ctx, r.DB, "products", filter, query.ProductSorts.Resolve(f.Sort), f.Params)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attach(ctx, products, f.Relations()); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

type categoryRow struct {
	ProductID string `db:"product_id"`
	model.Category
}

type tagRow struct {
	ProductID string `db:"product_id"`
	model.Tag
}

// attach loads images and variants for every product, plus the optional
// relations selected by opts, one query per relation.
func (r *PGRepository) attach(ctx context.Context, products []model.Product, opts dto.GetOptions) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
		products[i].Images = []model.Image{}
		products[i].Variants = []model.Variant{}
	}

	var images []model.Image
	if err := r.selectIn(ctx, &images, `SELECT * FROM images WHERE product_id IN (?) ORDER BY id`, ids); err != nil {
		return fmt.Errorf("load images: %w", err)
	}
	for _, img := range images {
		p := &products[index[img.ProductID]]
		p.Images = append(p.Images, img)
	}

	if err := r.attachVariants(ctx, products, ids, index); err != nil {
		return err
	}

	if opts.WithCategories {
		var rows []categoryRow
		if err := r.selectIn(ctx, &rows, `
            SELECT pc.product_id, c.*
            FROM product_categories pc JOIN categories c ON c.id = pc.category_id
            WHERE pc.product_id IN (?) ORDER BY c.name
        `, ids); err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		for i := range products {
			products[i].Categories = []model.Category{}
		}
		for _, row := range rows {
			p := &products[index[row.ProductID]]
			p.Categories = append(p.Categories, row.Category)
		}
	}

	if opts.WithTags {
		var rows []tagRow
		if err := r.selectIn(ctx, &rows, `
            SELECT pt.product_id, t.*
            FROM product_tags pt JOIN tags t ON t.id = pt.tag_id
            WHERE pt.product_id IN (?) ORDER BY t.name
        `, ids); err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
		for i := range products {
			products[i].Tags = []model.Tag{}
		}
		for _, row := range rows {
			p := &products[index[row.ProductID]]
			p.Tags = append(p.Tags, row.Tag)
		}
	}

	if opts.WithSeo {
		var rows []model.Seo
		if err := r.selectIn(ctx, &rows, `SELECT * FROM seo WHERE product_id IN (?)`, ids); err != nil {
			return fmt.Errorf("load seo: %w", err)
		}
		for i := range rows {
			products[index[rows[i].ProductID]].Seo = &rows[i]
		}
	}
	return nil
}

func (r *PGRepository) attachVariants(ctx context.Context, products []model.Product, ids []string, index map[string]int) error {
	var variants []model.Variant
	if err := r.selectIn(ctx, &variants, `SELECT * FROM variants WHERE product_id IN (?) ORDER BY position, id`, ids); err != nil {
		return fmt.Errorf("load variants: %w", err)
	}

	if len(variants) > 0 {
		variantIDs := make([]string, len(variants))
		for i, v := range variants {
			variantIDs[i] = v.ID
		}
		var links []model.VariantOptionValue
		if err := r.selectIn(ctx, &links, `
            SELECT vov.id, vov.variant_id, vov.option_id, vov.option_value_id,
                   o.name AS option_name, ov.name AS value_name
            FROM variant_option_values vov
            JOIN options o ON o.id = vov.option_id
            JOIN option_values ov ON ov.id = vov.option_value_id
            WHERE vov.variant_id IN (?)
            ORDER BY o.created_at, o.id
        `, variantIDs); err != nil {
			return fmt.Errorf("load variant options: %w", err)
		}
		byVariant := map[string][]model.VariantOptionValue{}
		for _, l := range links {
			byVariant[l.VariantID] = append(byVariant[l.VariantID], l)
		}
		for i := range variants {
			variants[i].Options = byVariant[variants[i].ID]
			if variants[i].Options == nil {
				variants[i].Options = []model.VariantOptionValue{}
			}
		}
	}

	for _, v := range variants {
		p := &products[index[v.ProductID]]
		p.Variants = append(p.Variants, v)
	}
	for i := range products {
		products[i].TotalStock = TotalStock(&products[i])
	}
	return nil
}

// TotalStock is the sum of variant stock, or the product's own stock when
// it has no variants.
func TotalStock(p *model.Product) int {
	if len(p.Variants) == 0 {
		return p.Stock
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

func (r *PGRepository) selectIn(ctx context.Context, dest any, q string, args ...any) error {
	q, inArgs, err := sqlx.In(q, args...)
	if err != nil {
		return err
	}
	return r.DB.SelectContext(ctx, dest, r.DB.Rebind(q), inArgs...)
}

func (r *PGRepository) Delete(ctx context.Context, storeID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1 AND store_id = $2", id, storeID)
	return err
}

func (r *PGRepository) CountCategories(ctx context.Context, storeID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In(`SELECT count(*) FROM categories WHERE store_id = ? AND id IN (?)`, storeID, ids)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.DB.GetContext(ctx, &n, r.DB.Rebind(q), args...)
	return n, err
}

// ValueOptions maps each of valueIDs that belongs to an option of the store
// to its option id.
func (r *PGRepository) ValueOptions(ctx context.Context, storeID string, valueIDs []string) (map[string]string, error) {
	out := map[string]string{}
	if len(valueIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ValueID  string `db:"value_id"`
		OptionID string `db:"option_id"`
	}
	err := r.selectIn(ctx, &rows, `
        SELECT ov.id AS value_id, ov.option_id
        FROM option_values ov JOIN options o ON o.id = ov.option_id
        WHERE o.store_id = ? AND ov.id IN (?)
    `, storeID, valueIDs)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ValueID] = row.OptionID
	}
	return out, nil
}
