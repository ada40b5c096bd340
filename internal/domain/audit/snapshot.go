package audit

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Snapshot marshals a value into the JSON column format used for old/new
// value captures. Marshal failures degrade to null rather than failing the
// business transaction.
func Snapshot(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
