package api_test

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"unitcom_server/internal/config"
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/dto/respond"
	"unitcom_server/internal/gateway/websocket"
	"unitcom_server/internal/handler"
	"unitcom_server/internal/https_server"
	"unitcom_server/internal/service"
	"unitcom_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

type stubUserService struct{}

func (stubUserService) Resolve(externalId string) (*respond.UserRespond, error) {
	return &respond.UserRespond{UserId: "U_test", Username: "tester"}, nil
}
func (stubUserService) HandleAuthEvent(event request.AuthWebhookEvent) error { return nil }

type stubContactService struct{}

func (stubContactService) ListContacts(externalId string) ([]respond.UserRespond, error) {
	return []respond.UserRespond{}, nil
}
func (stubContactService) RemoveContact(externalId, conversationId string) error { return nil }

type stubFriendRequestService struct{}

func (stubFriendRequestService) Create(externalId, email string) (string, error) {
	return "F_test", nil
}
func (stubFriendRequestService) Accept(externalId, requestId string) error  { return nil }
func (stubFriendRequestService) Decline(externalId, requestId string) error { return nil }
func (stubFriendRequestService) List(externalId string) ([]respond.FriendRequestRespond, error) {
	return []respond.FriendRequestRespond{}, nil
}

type stubConversationService struct{}

func (stubConversationService) List(externalId string) ([]respond.ConversationListItemRespond, error) {
	return []respond.ConversationListItemRespond{}, nil
}
func (stubConversationService) Get(externalId, conversationId string) (*respond.ConversationDetailRespond, error) {
	return &respond.ConversationDetailRespond{ConversationId: conversationId}, nil
}
func (stubConversationService) CreateGroup(externalId string, req request.CreateGroupRequest) error {
	return nil
}
func (stubConversationService) LeaveGroup(externalId, conversationId string) error  { return nil }
func (stubConversationService) DeleteGroup(externalId, conversationId string) error { return nil }
func (stubConversationService) EditGroupName(externalId, conversationId, name string) error {
	return nil
}
func (stubConversationService) MarkAsRead(externalId, conversationId string, messageId int64) error {
	return nil
}
func (stubConversationService) Typing(externalId, conversationId string, isTyping bool) error {
	return nil
}

type stubMessageService struct{}

func (stubMessageService) Create(externalId string, req request.SendMessageRequest) (*respond.MessageRespond, error) {
	return &respond.MessageRespond{MessageId: "1"}, nil
}
func (stubMessageService) List(externalId, conversationId string) ([]respond.MessageRespond, error) {
	return []respond.MessageRespond{}, nil
}
func (stubMessageService) Edit(externalId string, messageId int64, content []string) error {
	return nil
}
func (stubMessageService) Delete(externalId string, messageId int64) error { return nil }
func (stubMessageService) Upload(kind string, fileHeader *multipart.FileHeader) (*respond.UploadRespond, error) {
	return &respond.UploadRespond{Url: "/static/chat/image-test.png"}, nil
}

type stubRtcService struct{}

func (stubRtcService) IssueToken(externalId, room, username string) (*respond.LivekitTokenRespond, error) {
	return &respond.LivekitTokenRespond{Token: "tok"}, nil
}

func doReq(t *testing.T, client *http.Client, method, url string, body io.Reader, authHeader string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request %s %s: %v", method, url, err)
	}
	return resp
}

func requireEnvelopeOK(t *testing.T, path string, resp *http.Response) {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		t.Fatalf("%s status = %d", path, resp.StatusCode)
	}
	var envelope struct {
		Code int `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("%s envelope decode: %v", path, err)
	}
	if envelope.Code != 1000 {
		t.Fatalf("%s code = %d, want 1000", path, envelope.Code)
	}
}

func TestAllHTTPAndWebSocketEndpoints_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conf := config.GetConfig()
	conf.StorageConfig.RootPath = t.TempDir()
	conf.StorageConfig.PublicBase = "/static"
	jwt.Init("smoke-test-secret")
	if err := handler.InitTrans("en"); err != nil {
		t.Fatalf("init translator: %v", err)
	}

	svcs := &service.Services{
		UserService:          stubUserService{},
		ContactService:       stubContactService{},
		FriendRequestService: stubFriendRequestService{},
		ConversationService:  stubConversationService{},
		MessageService:       stubMessageService{},
		RtcService:           stubRtcService{},
	}
	manager := websocket.NewConnManager()

	engine := https_server.Init(handler.NewHandlers(svcs, manager, "whsec_c21va2U="))
	server := httptest.NewServer(engine)
	defer server.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token, err := jwt.GenerateSessionToken("ext_test", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	auth := "Bearer " + token

	getPaths := []string{
		"/user/me",
		"/contact/list",
		"/friend/requests",
		"/conversation/list",
		"/conversation/get?conversation_id=C_test",
		"/message/list?conversation_id=C_test",
		"/rtc/token?room=C_test&username=tester",
	}
	for _, path := range getPaths {
		resp := doReq(t, client, http.MethodGet, server.URL+path, nil, auth)
		requireEnvelopeOK(t, path, resp)
	}

	postCases := map[string]string{
		"/contact/remove":             `{"conversation_id":"C_test"}`,
		"/friend/request":             `{"email":"bob@example.com"}`,
		"/friend/accept":              `{"request_id":"F_test"}`,
		"/friend/decline":             `{"request_id":"F_test"}`,
		"/conversation/createGroup":   `{"name":"g","member_ids":["U_b"]}`,
		"/conversation/leaveGroup":    `{"conversation_id":"C_test"}`,
		"/conversation/deleteGroup":   `{"conversation_id":"C_test"}`,
		"/conversation/editGroupName": `{"conversation_id":"C_test","name":"n"}`,
		"/conversation/markAsRead":    `{"conversation_id":"C_test","message_id":"42"}`,
		"/conversation/typing":        `{"conversation_id":"C_test","is_typing":true}`,
		"/message/send":               `{"conversation_id":"C_test","type":"text","content":["hi"]}`,
		"/message/edit":               `{"message_id":"42","content":["hi"]}`,
		"/message/delete":             `{"message_id":"42"}`,
	}
	for path, body := range postCases {
		resp := doReq(t, client, http.MethodPost, server.URL+path, strings.NewReader(body), auth)
		requireEnvelopeOK(t, path, resp)
	}

	// no Authorization header means 401 before any handler runs
	resp := doReq(t, client, http.MethodGet, server.URL+"/user/me", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous request status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	// websocket subscribe authenticates via query token and receives
	// pushes addressed to the resolved user
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/subscribe?token=" + token
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close()

	// registration races the dial returning; retry the push briefly
	deadline := time.Now().Add(2 * time.Second)
	go func() {
		for time.Now().Before(deadline) {
			manager.SendToUser("U_test", []byte(`{"type":"conversation.updated"}`))
			time.Sleep(50 * time.Millisecond)
		}
	}()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ws read: %v", err)
	}
	if !strings.Contains(string(payload), "conversation.updated") {
		t.Fatalf("ws payload = %s", payload)
	}
}
