package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertValue = `
    INSERT INTO option_values (id, option_id, name, created_at)
    VALUES (:id, :option_id, :name, :created_at)
`

func (r *PGRepository) Create(ctx context.Context, o *model.Option) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO options (id, store_id, name, created_at, updated_at)
            VALUES (:id, :store_id, :name, :created_at, :updated_at)
        `, o)
		if err != nil {
			return err
		}
		return insertValues(ctx, tx, o.Values)
	})
}

func insertValues(ctx context.Context, tx *sqlx.Tx, values []model.OptionValue) error {
	for i := range values {
		if _, err := tx.NamedExecContext(ctx, insertValue, &values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, storeID, id string) (*model.Option, error) {
	var o model.Option
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM options WHERE id = $1 AND store_id = $2 LIMIT 1`, id, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	options := []model.Option{o}
	if err := r.attachValues(ctx, options); err != nil {
		return nil, err
	}
	return &options[0], nil
}

func (r *PGRepository) FindAll(ctx context.Context, params query.Params) ([]model.Option, int, error) {
	filter := query.ForStore(params.StoreID).NameContains("name", params.Query)
	options, count, err := query.List[model.Option](ctx, r.DB, "options", filter, query.BaseSorts.Resolve(params.Sort), params)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachValues(ctx, options); err != nil {
		return nil, 0, err
	}
	return options, count, nil
}

func (r *PGRepository) attachValues(ctx context.Context, options []model.Option) error {
	if len(options) == 0 {
		return nil
	}
	ids := make([]string, len(options))
	for i, o := range options {
		ids[i] = o.ID
	}
	q, args, err := sqlx.In(`SELECT * FROM option_values WHERE option_id IN (?) ORDER BY created_at ASC, id ASC`, ids)
	if err != nil {
		return err
	}
	var values []model.OptionValue
	if err := r.DB.SelectContext(ctx, &values, r.DB.Rebind(q), args...); err != nil {
		return err
	}

	byOption := make(map[string][]model.OptionValue, len(options))
	for _, v := range values {
		byOption[v.OptionID] = append(byOption[v.OptionID], v)
	}
	for i := range options {
		options[i].Values = byOption[options[i].ID]
		if options[i].Values == nil {
			options[i].Values = []model.OptionValue{}
		}
	}
	return nil
}

// FindValues returns the values of the given options of the store, ordered
// option by option as the ids were passed.
func (r *PGRepository) FindValues(ctx context.Context, storeID string, optionIDs []string) ([]variant.OptionValue, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(`
        SELECT o.id AS option_id, o.name AS option_name, v.id AS value_id, v.name AS value_name
        FROM option_values v
        JOIN options o ON o.id = v.option_id
        WHERE o.store_id = ? AND o.id IN (?)
        ORDER BY v.created_at ASC, v.id ASC
    `, storeID, optionIDs)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		OptionID   string `db:"option_id"`
		OptionName string `db:"option_name"`
		ValueID    string `db:"value_id"`
		ValueName  string `db:"value_name"`
	}
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(q), args...); err != nil {
		return nil, err
	}

	position := make(map[string]int, len(optionIDs))
	for i, id := range optionIDs {
		if _, ok := position[id]; !ok {
			position[id] = i
		}
	}
	grouped := make([][]variant.OptionValue, len(optionIDs))
	for _, row := range rows {
		i := position[row.OptionID]
		grouped[i] = append(grouped[i], variant.OptionValue(row))
	}
	var out []variant.OptionValue
	for _, g := range grouped {
		out = append(out, g...)
	}
	return out, nil
}

// Update renames the option and reconciles its values by name in one
// transaction. Surviving values keep their ids so variants that reference
// them stay intact; o.Values is rewritten with the stored ids.
func (r *PGRepository) Update(ctx context.Context, o *model.Option) error {
	return postgres.WithTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
            UPDATE options SET name = :name, updated_at = :updated_at
            WHERE id = :id AND store_id = :store_id
        `, o)
		if err != nil {
			return err
		}

		var existing []model.OptionValue
		err = tx.SelectContext(ctx, &existing,
			`SELECT * FROM option_values WHERE option_id = $1 ORDER BY created_at ASC, id ASC FOR UPDATE`, o.ID)
		if err != nil {
			return err
		}
		byName := make(map[string]string, len(existing))
		for _, v := range existing {
			byName[v.Name] = v.ID
		}

		kept := make(map[string]bool, len(o.Values))
		for i := range o.Values {
			v := &o.Values[i]
			if id, ok := byName[v.Name]; ok && !kept[id] {
				v.ID = id
				kept[id] = true
				if _, err := tx.NamedExecContext(ctx, `UPDATE option_values SET created_at = :created_at WHERE id = :id`, v); err != nil {
					return err
				}
				continue
			}
			if _, err := tx.NamedExecContext(ctx, insertValue, v); err != nil {
				return err
			}
		}

		var removed []string
		for _, v := range existing {
			if !kept[v.ID] {
				removed = append(removed, v.ID)
			}
		}
		if len(removed) == 0 {
			return nil
		}
		q, args, err := sqlx.In(`DELETE FROM option_values WHERE id IN (?)`, removed)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(q), args...)
		return err
	})
}

func (r *PGRepository) Delete(ctx context.Context, storeID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM options WHERE id = $1 AND store_id = $2", id, storeID)
	return err
}
