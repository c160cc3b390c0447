package adapters

import (
	"context"
	"fmt"

	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/store"
	"github.com/uptrace/bun"
)

const batchSize = 500

// resourceRow is one string slot of a record: the text of a string record, one array
// item or one plural category.
type resourceRow struct {
	bun.BaseModel `bun:"table:resources"`

	ID             string `bun:"id,pk"`
	Project        string `bun:"project"`
	Locale         string `bun:"locale"`
	Key            string `bun:"reskey"`
	Context        string `bun:"context"`
	ResType        string `bun:"res_type"`
	Ordinal        int    `bun:"ordinal"`
	Quantity       string `bun:"quantity"`
	Text           string `bun:"text"`
	PathName       string `bun:"path_name"`
	Comment        string `bun:"comment"`
	Origin         string `bun:"origin"`
	Datatype       string `bun:"datatype"`
	State          string `bun:"state"`
	AutoKey        bool   `bun:"auto_key"`
	DoNotTranslate bool   `bun:"dnt"`
}

var updatedColumns = []string{"text", "path_name", "comment", "origin", "datatype", "state", "auto_key", "dnt"}

// ResourceRepository keeps the records of a store in the resources table.
type ResourceRepository struct {
	cnx *Connection
}

func NewResourceRepository(cnx *Connection) *ResourceRepository {
	return &ResourceRepository{cnx: cnx}
}

// Save upserts one row per string slot of every record and marks the store clean. Rows of
// array items or plural categories a record no longer has are removed. A clean store is
// not written.
func (r *ResourceRepository) Save(ctx context.Context, s *store.Store) (int, error) {
	if !s.IsDirty() {
		return 0, nil
	}
	records := s.GetAll()
	var rows []resourceRow
	for _, rec := range records {
		rows = append(rows, toRows(rec)...)
	}
	err := r.cnx.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, rec := range records {
			if err := deleteSlots(ctx, tx, rec); err != nil {
				return err
			}
		}
		for start := 0; start < len(rows); start += batchSize {
			batch := rows[start:min(start+batchSize, len(rows))]
			q := tx.NewInsert().Model(&batch).On("CONFLICT (id) DO UPDATE")
			for _, column := range updatedColumns {
				q = q.Set(fmt.Sprintf("%s = EXCLUDED.%s", column, column))
			}
			if _, err := q.Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save resources: %w", err)
	}
	s.SetClean()
	log.Info("saved %d resources", len(rows))
	return len(rows), nil
}

// Load rebuilds the records of project. The returned store is clean.
func (r *ResourceRepository) Load(ctx context.Context, project string) (*store.Store, error) {
	var rows []resourceRow
	err := r.cnx.db.NewSelect().
		Model(&rows).
		Where("project = ?", project).
		Order("locale", "path_name", "reskey", "context", "ordinal", "quantity").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load resources of %s: %w", project, err)
	}
	return store.New(store.WithRecords(fromRows(rows))), nil
}

func (r *ResourceRepository) Close() error {
	return r.cnx.Close()
}

// deleteSlots removes the stored slots of an array or plural record before it is rewritten.
func deleteSlots(ctx context.Context, tx bun.Tx, rec *record.Record) error {
	if rec.Type == record.TypeString {
		return nil
	}
	_, err := tx.NewDelete().
		Model((*resourceRow)(nil)).
		Where("project = ?", rec.Project).
		Where("locale = ?", rec.Locale).
		Where("reskey = ?", rec.Key).
		Where("context = ?", rec.Context).
		Where("res_type = ?", string(rec.Type)).
		Exec(ctx)
	return err
}

func rowID(rec *record.Record, ordinal int, quantity string) string {
	return fmt.Sprintf("%s|%s|%d|%s", rec.HashKey(), rec.Context, ordinal, quantity)
}

func toRows(rec *record.Record) []resourceRow {
	base := resourceRow{
		Project:        rec.Project,
		Locale:         rec.Locale,
		Key:            rec.Key,
		Context:        rec.Context,
		ResType:        string(rec.Type),
		PathName:       rec.PathName,
		Comment:        rec.Comment,
		Origin:         rec.Origin,
		Datatype:       rec.Datatype,
		State:          rec.State,
		AutoKey:        rec.AutoKey,
		DoNotTranslate: rec.DoNotTranslate,
	}
	var rows []resourceRow
	switch rec.Type {
	case record.TypeArray:
		for i, text := range rec.Array {
			row := base
			row.ID, row.Ordinal, row.Text = rowID(rec, i, ""), i, text
			rows = append(rows, row)
		}
	case record.TypePlural:
		for _, category := range record.PluralCategories(rec.Plurals) {
			row := base
			row.ID, row.Quantity, row.Text = rowID(rec, 0, category), category, rec.Plurals[category]
			rows = append(rows, row)
		}
	default:
		base.ID, base.Text = rowID(rec, 0, ""), rec.Text
		rows = append(rows, base)
	}
	return rows
}

type rowKey struct {
	project, locale, key, context, resType string
}

// fromRows groups the slot rows back into records, in the order of their first row.
func fromRows(rows []resourceRow) []*record.Record {
	byKey := map[rowKey]*record.Record{}
	var out []*record.Record
	for _, row := range rows {
		if row.Ordinal < 0 || row.Ordinal > record.MaxOrdinal {
			log.Warn("skipping resource %s with ordinal %d", row.ID, row.Ordinal)
			continue
		}
		k := rowKey{row.Project, row.Locale, row.Key, row.Context, row.ResType}
		rec, ok := byKey[k]
		if !ok {
			t, valid := record.ParseType(row.ResType)
			if !valid {
				log.Warn("skipping resource %s with unknown type %q", row.ID, row.ResType)
				continue
			}
			rec = &record.Record{
				Project:        row.Project,
				Locale:         row.Locale,
				Key:            row.Key,
				Context:        row.Context,
				Type:           t,
				PathName:       row.PathName,
				Comment:        row.Comment,
				Origin:         row.Origin,
				Datatype:       row.Datatype,
				State:          row.State,
				AutoKey:        row.AutoKey,
				DoNotTranslate: row.DoNotTranslate,
			}
			byKey[k] = rec
			out = append(out, rec)
		}
		switch rec.Type {
		case record.TypeArray:
			for len(rec.Array) <= row.Ordinal {
				rec.Array = append(rec.Array, "")
			}
			rec.Array[row.Ordinal] = row.Text
		case record.TypePlural:
			if rec.Plurals == nil {
				rec.Plurals = map[string]string{}
			}
			rec.Plurals[row.Quantity] = row.Text
		default:
			rec.Text = row.Text
		}
	}
	return out
}
