package pb

// Field names used in Struct messages.
const (
	FieldActor            = "actor"
	FieldHostname         = "hostname"
	FieldUsername         = "username"
	FieldDurationMinutes  = "duration_minutes"
	FieldStatus           = "status"
	FieldIsActive         = "is_active"
	FieldDurationSeconds  = "duration_seconds"
	FieldRemainingSeconds = "remaining_seconds"
	FieldLocation         = "location"
	FieldLatitude         = "latitude"
	FieldLongitude        = "longitude"
	FieldID               = "id"
	FieldKind             = "kind"
	FieldTimestamp        = "timestamp"
	FieldTitle            = "title"
	FieldMessage          = "message"
	FieldSeverity         = "severity"
	FieldAlert            = "alert"
	FieldCreatedAt        = "created_at"
)
