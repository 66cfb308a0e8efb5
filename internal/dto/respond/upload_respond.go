package respond

// UploadRespond returns the public URL of an uploaded attachment; the
// client passes it back as message content.
// Used by:
//   - handler/message_handler.go: Upload
type UploadRespond struct {
	Url string `json:"url"`
}
