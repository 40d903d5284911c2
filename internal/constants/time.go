package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// RecordTimestampFormat is the timestamp layout the record server uses
	// for created/updated and datetime fields
	RecordTimestampFormat = "2006-01-02 15:04:05.000Z"
)
