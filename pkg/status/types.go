// Package status schedules and publishes asynchronous printer status pushes
// to the server.
package status

// Document is the status payload pushed to the server after a command settles.
type Document struct {
	PrinterID  string                 `json:"printer_id,omitempty"`
	Status     map[string]interface{} `json:"status,omitempty"`
	Settings   map[string]interface{} `json:"settings,omitempty"`
	SystemTags map[string]string      `json:"system_tags,omitempty"`
	Timestamp  string                 `json:"timestamp"`
}
