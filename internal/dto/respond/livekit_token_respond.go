package respond

// LivekitTokenRespond carries a freshly issued call token.
// Used by:
//   - internal/service/rtc: IssueToken
type LivekitTokenRespond struct {
	Token string `json:"token"`
}
