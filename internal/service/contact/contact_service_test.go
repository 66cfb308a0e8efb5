package contact

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"unitcom_server/internal/dao/mysql"
	"unitcom_server/internal/dao/mysql/repository"
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

// seedContact builds an accepted contact: edge, direct conversation and
// both memberships.
func seedContact(t *testing.T, repos *repository.Repositories, a, b *model.User) *model.Conversation {
	t.Helper()
	conv := &model.Conversation{
		Uuid:    "C" + random.GetNowAndLenRandomString(13),
		IsGroup: false,
	}
	if err := repos.Conversation.Create(conv); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	for _, member := range []*model.User{a, b} {
		if err := repos.Member.Create(&model.ConversationMember{
			ConversationUuid: conv.Uuid,
			MemberUuid:       member.Uuid,
		}); err != nil {
			t.Fatalf("seed membership: %v", err)
		}
	}
	if err := repos.Contact.Create(&model.Contact{
		User1:            a.Uuid,
		User2:            b.Uuid,
		ConversationUuid: conv.Uuid,
	}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return conv
}

func newService(t *testing.T) (*Service, *repository.Repositories) {
	t.Helper()
	repos := newTestRepos(t)
	return NewContactService(repos, &recordingBroker{}), repos
}

func TestListContacts(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	carol := seedUser(t, repos, "carol")
	seedContact(t, repos, alice, bob)
	seedContact(t, repos, carol, alice) // alice in the second slot

	contacts, err := svc.ListContacts(alice.ExternalId)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("contacts = %d, want 2", len(contacts))
	}
	seen := map[string]bool{}
	for _, c := range contacts {
		seen[c.UserId] = true
	}
	if !seen[bob.Uuid] || !seen[carol.Uuid] {
		t.Fatalf("contacts = %+v", contacts)
	}

	empty, err := svc.ListContacts(bob.ExternalId)
	if err != nil {
		t.Fatalf("list bob: %v", err)
	}
	if len(empty) != 1 {
		t.Fatalf("bob contacts = %d, want 1", len(empty))
	}
}

func TestContactPairUniqueness(t *testing.T) {
	_, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	seedContact(t, repos, alice, bob)

	// the reverse order canonicalises to the same row and must collide
	err := repos.Contact.Create(&model.Contact{
		User1:            bob.Uuid,
		User2:            alice.Uuid,
		ConversationUuid: "C_other",
	})
	if !errorx.IsDuplicateKey(err) {
		t.Fatalf("duplicate pair: %v, want unique violation", err)
	}
}

func TestRemoveContactCascades(t *testing.T) {
	svc, repos := newService(t)
	snowflake.Init(1)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	conv := seedContact(t, repos, alice, bob)

	raw, _ := json.Marshal([]string{"so long"})
	if err := repos.Message.Create(&model.Message{
		Uuid:             snowflake.GenerateID(),
		ConversationUuid: conv.Uuid,
		SenderUuid:       alice.Uuid,
		Type:             model.MessageTypeText,
		Content:          string(raw),
		SentAt:           time.Now(),
	}); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	if err := svc.RemoveContact(alice.ExternalId, conv.Uuid); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := repos.Contact.FindByUsers(alice.Uuid, bob.Uuid); !errorx.IsNotFound(err) {
		t.Fatalf("edge survived: %v", err)
	}
	if _, err := repos.Conversation.FindByUuid(conv.Uuid); !errorx.IsNotFound(err) {
		t.Fatalf("conversation survived: %v", err)
	}
	if count, _ := repos.Member.CountByConversation(conv.Uuid); count != 0 {
		t.Fatalf("memberships survived: %d", count)
	}
	messages, _ := repos.Message.FindByConversation(conv.Uuid)
	if len(messages) != 0 {
		t.Fatalf("messages survived: %d", len(messages))
	}
}

func TestRemoveContactRequiresTwoMemberships(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")

	// direct conversation with a dangling single membership
	conv := &model.Conversation{
		Uuid:    "C" + random.GetNowAndLenRandomString(13),
		IsGroup: false,
	}
	if err := repos.Conversation.Create(conv); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	if err := repos.Member.Create(&model.ConversationMember{
		ConversationUuid: conv.Uuid,
		MemberUuid:       alice.Uuid,
	}); err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	if err := repos.Contact.Create(&model.Contact{
		User1:            alice.Uuid,
		User2:            bob.Uuid,
		ConversationUuid: conv.Uuid,
	}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	err := svc.RemoveContact(alice.ExternalId, conv.Uuid)
	if errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("remove on 1-membership conversation: %v, want conflict", err)
	}
	// nothing was cascaded
	if _, err := repos.Conversation.FindByUuid(conv.Uuid); err != nil {
		t.Fatalf("conversation gone: %v", err)
	}
	if _, err := repos.Contact.FindByUsers(alice.Uuid, bob.Uuid); err != nil {
		t.Fatalf("edge gone: %v", err)
	}
}

func TestRemoveContactRules(t *testing.T) {
	svc, repos := newService(t)
	alice := seedUser(t, repos, "alice")
	bob := seedUser(t, repos, "bob")
	mallory := seedUser(t, repos, "mallory")
	conv := seedContact(t, repos, alice, bob)

	if err := svc.RemoveContact(mallory.ExternalId, conv.Uuid); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Fatalf("outsider remove: code = %d", errorx.GetCode(err))
	}

	group := &model.Conversation{
		Uuid:    "C" + random.GetNowAndLenRandomString(13),
		IsGroup: true,
		Name:    "not a contact",
	}
	if err := repos.Conversation.Create(group); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	if err := svc.RemoveContact(alice.ExternalId, group.Uuid); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("group remove: code = %d", errorx.GetCode(err))
	}
}
