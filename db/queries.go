package db

import (
	_ "embed"
)

//go:embed sql/create_tables.sql
var CreateTablesSQL string

//go:embed sql/queries/select_value.sql
var SelectValueSQL string

//go:embed sql/queries/upsert_value.sql
var UpsertValueSQL string

//go:embed sql/queries/delete_value.sql
var DeleteValueSQL string

//go:embed sql/queries/select_keys_by_prefix.sql
var SelectKeysByPrefixSQL string
