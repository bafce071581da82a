// Package services defines the shared error taxonomy for engine
// operations and maps failures to journal statuses.
package services
