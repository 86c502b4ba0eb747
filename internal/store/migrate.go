package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	sqlschema "entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/linguo/ent/schema"
)

// Table names for the persisted entities.
const (
	tableLessonRecords    = "lesson_records"
	tableProfiles         = "profiles"
	tableProgressEvents   = "progress_events"
	tableLLMRequestEvents = "llm_request_events"
)

var entities = []struct {
	table  string
	schema ent.Interface
}{
	{tableLessonRecords, schema.LessonRecord{}},
	{tableProfiles, schema.Profile{}},
	{tableProgressEvents, schema.ProgressEvent{}},
	{tableLLMRequestEvents, schema.LLMRequestEvent{}},
}

// Tables derives the migration tables from the ent schema descriptors.
func Tables() ([]*sqlschema.Table, error) {
	tables := make([]*sqlschema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFor(e.table, e.schema)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := Tables()
	if err != nil {
		return err
	}
	m, err := sqlschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// tableFor builds a table from the schema's fields and indexes, mixins
// first. A field named "id" becomes the primary key.
func tableFor(name string, s ent.Interface) (*sqlschema.Table, error) {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := sqlschema.NewTable(name)
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &sqlschema.Column{
			Name:       d.Name,
			Type:       d.Info.Type,
			Size:       int64(d.Size),
			Nullable:   d.Optional,
			SchemaType: d.SchemaType,
		}
		// Func defaults such as time.Now are applied by the repos.
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			col.Default = d.Default
		}
		if d.Name == "id" {
			t.AddPrimary(col)
			continue
		}
		col.Unique = d.Unique
		t.AddColumn(col)
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		ixName := d.StorageKey
		if ixName == "" {
			ixName = name + "_" + strings.Join(d.Fields, "_")
		}
		t.AddIndex(ixName, d.Unique, d.Fields)
	}
	return t, nil
}
