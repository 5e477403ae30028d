package schema

import "time"

// SchemaMetaID schema_meta 只有一行
const SchemaMetaID = 1

// SchemaMeta 记录 sqlite 库的 schema 版本，升级时按版本号逐级迁移
type SchemaMeta struct {
	ID            int       `gorm:"primaryKey"`
	SchemaVersion int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (SchemaMeta) TableName() string { return "schema_meta" }
