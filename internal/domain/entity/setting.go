package entity

import "time"

// Claves de configuración persistidas.
const (
	SettingSchemaVersion = "schema_version"
	SettingShopName      = "shop_name"
	SettingLastSetup     = "last_setup_at"
	SettingLastTraining  = "last_model_training_at"
)

// Setting par clave/valor persistido en la base.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
