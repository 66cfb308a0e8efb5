package conversation

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"unitcom_server/internal/dao/mysql"
	"unitcom_server/internal/dao/mysql/repository"
	"unitcom_server/internal/dto/request"
	"unitcom_server/internal/model"
	"unitcom_server/internal/service/notify"
	"unitcom_server/pkg/errorx"
	"unitcom_server/pkg/util/random"
	"unitcom_server/pkg/util/snowflake"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingBroker struct {
	mu     sync.Mutex
	events []notify.Event
}

func (b *recordingBroker) Publish(ctx context.Context, event notify.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}
func (b *recordingBroker) Start() {}
func (b *recordingBroker) Close() {}

type noopSender struct{}

func (noopSender) SendToUser(userUuid string, payload []byte) {}

func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repository.NewRepositories(db)
}

func seedUser(t *testing.T, repos *repository.Repositories, name string) *model.User {
	t.Helper()
	user := &model.User{
		Uuid:       "U" + random.GetNowAndLenRandomString(13),
		ExternalId: "ext_" + name,
		Username:   name,
		Email:      name + "@example.com",
	}
	if err := repos.User.Create(user); err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return user
}

func seedConversation(t *testing.T, repos *repository.Repositories, isGroup bool, name string, members ...*model.User) *model.Conversation {
	t.Helper()
	conv := &model.Conversation{
		Uuid:    "C" + random.GetNowAndLenRandomString(13),
		IsGroup: isGroup,
		Name:    name,
	}
	if err := repos.Conversation.Create(conv); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	for _, member := range members {
		if err := repos.Member.Create(&model.ConversationMember{
			ConversationUuid: conv.Uuid,
			MemberUuid:       member.Uuid,
		}); err != nil {
			t.Fatalf("seed membership: %v", err)
		}
	}
	return conv
}

// seedMessage inserts a message and advances the conversation pointer the
// way the message store does.
func seedMessage(t *testing.T, repos *repository.Repositories, conv *model.Conversation, sender *model.User, msgType string, content []string) *model.Message {
	t.Helper()
	snowflake.Init(1)
	raw, _ := json.Marshal(content)
	message := &model.Message{
		Uuid:             snowflake.GenerateID(),
		ConversationUuid: conv.Uuid,
		SenderUuid:       sender.Uuid,
		Type:             msgType,
		Content:          string(raw),
		SentAt:           time.Now(),
	}
	if err := repos.Message.Create(message); err != nil {
		t.Fatalf("seed message: %v", err)
	}
	if err := repos.Conversation.SetLastMessage(conv.Uuid, message.Uuid, message.SentAt); err != nil {
		t.Fatalf("advance pointer: %v", err)
	}
	conv.LastMessageId = message.Uuid
	return message
}

func newService(t *testing.T) (*Service, *repository.Repositories) {
	t.Helper()
	repos := newTestRepos(t)
	return NewConversationService(repos, &recordingBroker{}, notify.NewTypingRelay(noopSender{})), repos
}

func TestListAggregation(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	carol := seedUser(t, repos, "carol")

	direct := seedConversation(t, repos, false, "", alice, bob)
	group := seedConversation(t, repos, true, "trip planning", alice, bob, carol)

	seedMessage(t, repos, direct, bob, model.MessageTypeText, []string{"hi alice"})
	seedMessage(t, repos, direct, bob, model.MessageTypeText, []string{"you there?"})

	items, err := svc.List(alice.ExternalId)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	// the direct conversation has activity, so it sorts first
	if items[0].ConversationId != direct.Uuid {
		t.Fatalf("first item = %s, want direct %s", items[0].ConversationId, direct.Uuid)
	}
	if items[0].OtherMember == nil || items[0].OtherMember.UserId != bob.Uuid {
		t.Fatalf("other member = %+v, want bob", items[0].OtherMember)
	}
	if items[0].UnseenCount != 2 {
		t.Fatalf("unseen = %d, want 2", items[0].UnseenCount)
	}
	if items[0].LastMessage == nil || items[0].LastMessage.Sender != "bob" {
		t.Fatalf("preview = %+v", items[0].LastMessage)
	}
	if items[0].LastMessage.Content[0] != "you there?" {
		t.Fatalf("preview content = %v", items[0].LastMessage.Content)
	}

	// the empty group sorts last, keeps its name, no preview
	if items[1].ConversationId != group.Uuid || items[1].Name != "trip planning" {
		t.Fatalf("second item = %+v", items[1])
	}
	if items[1].LastMessage != nil || items[1].UnseenCount != 0 {
		t.Fatalf("empty group has activity: %+v", items[1])
	}
}

func TestListMediaPreviewAndOwnMessages(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	direct := seedConversation(t, repos, false, "", alice, bob)

	seedMessage(t, repos, direct, alice, model.MessageTypeImage, []string{"/static/chat/image-x.png"})

	items, err := svc.List(alice.ExternalId)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// own messages never count as unseen
	if items[0].UnseenCount != 0 {
		t.Fatalf("unseen = %d, want 0", items[0].UnseenCount)
	}
	if items[0].LastMessage.Sender != "You" {
		t.Fatalf("preview sender = %s, want You", items[0].LastMessage.Sender)
	}
	if items[0].LastMessage.Content[0] != "📷 image" {
		t.Fatalf("image preview = %v", items[0].LastMessage.Content)
	}
}

func TestGetDetail(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	carol := seedUser(t, repos, "carol")
	direct := seedConversation(t, repos, false, "", alice, bob)
	group := seedConversation(t, repos, true, "book club", alice, bob, carol)

	detail, err := svc.Get(alice.ExternalId, direct.Uuid)
	if err != nil {
		t.Fatalf("get direct: %v", err)
	}
	if detail.OtherMember == nil || detail.OtherMember.UserId != bob.Uuid {
		t.Fatalf("direct other member = %+v", detail.OtherMember)
	}

	detail, err = svc.Get(alice.ExternalId, group.Uuid)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if len(detail.OtherMembers) != 2 {
		t.Fatalf("group other members = %d, want 2", len(detail.OtherMembers))
	}

	// outsiders get NotFound, not a membership hint
	dave := seedUser(t, repos, "dave")
	if _, err := svc.Get(dave.ExternalId, group.Uuid); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("outsider get: code = %d, want %d", errorx.GetCode(err), errorx.CodeNotFound)
	}
}

func TestCreateGroupDeduplicatesMembers(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")

	err := svc.CreateGroup(alice.ExternalId, groupReq("weekend", bob.Uuid, bob.Uuid, alice.Uuid))
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	memberships, err := repos.Member.FindByMember(alice.Uuid)
	if err != nil || len(memberships) != 1 {
		t.Fatalf("creator memberships = %d (%v)", len(memberships), err)
	}
	count, err := repos.Member.CountByConversation(memberships[0].ConversationUuid)
	if err != nil || count != 2 {
		t.Fatalf("group memberships = %d (%v), want 2", count, err)
	}
}

func TestCreateGroupUnknownMember(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	err := svc.CreateGroup(alice.ExternalId, groupReq("ghosts", "U000000nobody"))
	if errorx.GetCode(err) != errorx.CodeUserNotFound {
		t.Fatalf("code = %d, want %d", errorx.GetCode(err), errorx.CodeUserNotFound)
	}
}

func TestLeaveGroupLastMemberCleansUp(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	group := seedConversation(t, repos, true, "fading", alice, bob)
	seedMessage(t, repos, group, alice, model.MessageTypeText, []string{"anyone?"})

	if err := svc.LeaveGroup(alice.ExternalId, group.Uuid); err != nil {
		t.Fatalf("first leave: %v", err)
	}
	if _, err := repos.Conversation.FindByUuid(group.Uuid); err != nil {
		t.Fatalf("conversation gone after non-final leave: %v", err)
	}

	if err := svc.LeaveGroup(bob.ExternalId, group.Uuid); err != nil {
		t.Fatalf("final leave: %v", err)
	}
	if _, err := repos.Conversation.FindByUuid(group.Uuid); !errorx.IsNotFound(err) {
		t.Fatalf("empty conversation survived: %v", err)
	}
	messages, err := repos.Message.FindByConversation(group.Uuid)
	if err != nil || len(messages) != 0 {
		t.Fatalf("messages survived cleanup: %d (%v)", len(messages), err)
	}
}

func TestDeleteGroupRules(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")

	solo := seedConversation(t, repos, true, "just me", alice)
	if err := svc.DeleteGroup(alice.ExternalId, solo.Uuid); !errorx.IsConflict(err) {
		t.Fatalf("single-member delete: %v, want conflict", err)
	}

	group := seedConversation(t, repos, true, "shared", alice, bob)
	seedMessage(t, repos, group, bob, model.MessageTypeText, []string{"bye"})
	if err := svc.DeleteGroup(alice.ExternalId, group.Uuid); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repos.Conversation.FindByUuid(group.Uuid); !errorx.IsNotFound(err) {
		t.Fatalf("conversation survived delete: %v", err)
	}
	if count, _ := repos.Member.CountByConversation(group.Uuid); count != 0 {
		t.Fatalf("memberships survived delete: %d", count)
	}
}

func TestEditGroupNameMemberOnly(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	carol := seedUser(t, repos, "carol")
	group := seedConversation(t, repos, true, "old name", alice, bob)

	if err := svc.EditGroupName(carol.ExternalId, group.Uuid, "hijacked"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("outsider rename: code = %d", errorx.GetCode(err))
	}
	if err := svc.EditGroupName(bob.ExternalId, group.Uuid, "new name"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	conv, _ := repos.Conversation.FindByUuid(group.Uuid)
	if conv.Name != "new name" {
		t.Fatalf("name = %s", conv.Name)
	}
}

func TestMarkAsRead(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	direct := seedConversation(t, repos, false, "", alice, bob)
	other := seedConversation(t, repos, false, "", alice, bob)

	first := seedMessage(t, repos, direct, bob, model.MessageTypeText, []string{"one"})
	second := seedMessage(t, repos, direct, bob, model.MessageTypeText, []string{"two"})
	foreign := seedMessage(t, repos, other, bob, model.MessageTypeText, []string{"elsewhere"})

	// a message from another conversation is rejected
	if err := svc.MarkAsRead(alice.ExternalId, direct.Uuid, foreign.Uuid); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("cross-conversation mark: code = %d", errorx.GetCode(err))
	}

	if err := svc.MarkAsRead(alice.ExternalId, direct.Uuid, second.Uuid); err != nil {
		t.Fatalf("mark: %v", err)
	}
	membership, _ := repos.Member.FindByConversationAndMember(direct.Uuid, alice.Uuid)
	if membership.LastSeenMessageId != second.Uuid {
		t.Fatalf("pointer = %d, want %d", membership.LastSeenMessageId, second.Uuid)
	}

	// stale marks never rewind the pointer
	if err := svc.MarkAsRead(alice.ExternalId, direct.Uuid, first.Uuid); err != nil {
		t.Fatalf("stale mark errored: %v", err)
	}
	membership, _ = repos.Member.FindByConversationAndMember(direct.Uuid, alice.Uuid)
	if membership.LastSeenMessageId != second.Uuid {
		t.Fatalf("pointer rewound to %d", membership.LastSeenMessageId)
	}

	unseen, err := repos.Message.CountUnseen(direct.Uuid, alice.Uuid, membership.LastSeenMessageId)
	if err != nil || unseen != 0 {
		t.Fatalf("unseen after mark = %d (%v)", unseen, err)
	}
}

func groupReq(name string, memberIds ...string) request.CreateGroupRequest {
	return request.CreateGroupRequest{Name: name, MemberIds: memberIds}
}
