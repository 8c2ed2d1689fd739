package repository

import (
	"context"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	documentsTable  = "documents"
	metadataTable   = "metadata"
	validationTable = "validations"
	complianceTable = "compliance_checks"
)

var (
	// DocumentsColumns holds the columns for the "documents" table.
	DocumentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "filename", Type: field.TypeString, Size: 1024},
		{Name: "upload_time", Type: field.TypeTime},
	}
	DocumentsTable = &schema.Table{
		Name:       documentsTable,
		Columns:    DocumentsColumns,
		PrimaryKey: []*schema.Column{DocumentsColumns[0]},
	}

	// MetadataColumns holds the columns for the "metadata" table.
	MetadataColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "field_name", Type: field.TypeString, Size: 255},
		{Name: "field_value", Type: field.TypeString, Size: 2147483647},
		{Name: "doc_id", Type: field.TypeInt64},
	}
	MetadataTable = &schema.Table{
		Name:       metadataTable,
		Columns:    MetadataColumns,
		PrimaryKey: []*schema.Column{MetadataColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "metadata_documents_metadata",
				Columns:    []*schema.Column{MetadataColumns[3]},
				RefColumns: []*schema.Column{DocumentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "metadata_doc_id", Columns: []*schema.Column{MetadataColumns[3]}},
		},
	}

	// ValidationsColumns holds the columns for the "validations" table.
	ValidationsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "status", Type: field.TypeString, Size: 16},
		{Name: "errors", Type: field.TypeString, Size: 2147483647},
		{Name: "validation_time", Type: field.TypeTime},
		{Name: "doc_id", Type: field.TypeInt64},
	}
	ValidationsTable = &schema.Table{
		Name:       validationTable,
		Columns:    ValidationsColumns,
		PrimaryKey: []*schema.Column{ValidationsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "validations_documents_validations",
				Columns:    []*schema.Column{ValidationsColumns[4]},
				RefColumns: []*schema.Column{DocumentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "validations_doc_id", Columns: []*schema.Column{ValidationsColumns[4]}},
		},
	}

	// ComplianceChecksColumns holds the columns for the "compliance_checks" table.
	ComplianceChecksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "check_name", Type: field.TypeString, Size: 128},
		{Name: "passed", Type: field.TypeBool},
		{Name: "details", Type: field.TypeString, Size: 2147483647},
		{Name: "position", Type: field.TypeInt},
		{Name: "doc_id", Type: field.TypeInt64},
	}
	ComplianceChecksTable = &schema.Table{
		Name:       complianceTable,
		Columns:    ComplianceChecksColumns,
		PrimaryKey: []*schema.Column{ComplianceChecksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "compliance_checks_documents_compliance",
				Columns:    []*schema.Column{ComplianceChecksColumns[5]},
				RefColumns: []*schema.Column{DocumentsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "compliancecheck_doc_id_position", Unique: true, Columns: []*schema.Column{ComplianceChecksColumns[5], ComplianceChecksColumns[4]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		DocumentsTable,
		MetadataTable,
		ValidationsTable,
		ComplianceChecksTable,
	}
)

func init() {
	MetadataTable.ForeignKeys[0].RefTable = DocumentsTable
	ValidationsTable.ForeignKeys[0].RefTable = DocumentsTable
	ComplianceChecksTable.ForeignKeys[0].RefTable = DocumentsTable
}

// Migrate creates or upgrades the schema.
func (d *DB) Migrate(ctx context.Context) error {
	d.logger.Info("db.migrate.start", "dialect", d.dialect, "tables", len(Tables))
	m, err := schema.NewMigrate(d.driver)
	if err != nil {
		return dbError("init migrate", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		d.logger.Error("db.migrate.failed", "error", err)
		return dbError("migrate", err)
	}
	d.logger.Info("db.migrate.done")
	return nil
}
