package repository

import (
	"testing"
	"time"

	"unitcom_server/internal/model"
	"unitcom_server/pkg/errorx"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *Repositories {
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
	if err := db.AutoMigrate(
		&model.User{},
		&model.Conversation{},
		&model.ConversationMember{},
		&model.Message{},
		&model.Contact{},
		&model.FriendRequest{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepositories(db)
}

func TestContactCanonicalisation(t *testing.T) {
	repos := newTestDB(t)

	// Create stores the canonical order regardless of argument order
	if err := repos.Contact.Create(&model.Contact{
		User1:            "U_zz",
		User2:            "U_aa",
		ConversationUuid: "C_1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	edge, err := repos.Contact.FindByUsers("U_zz", "U_aa")
	if err != nil {
		t.Fatalf("find reversed: %v", err)
	}
	if edge.User1 != "U_aa" || edge.User2 != "U_zz" {
		t.Fatalf("stored order = (%s, %s)", edge.User1, edge.User2)
	}
	if _, err := repos.Contact.FindByUsers("U_aa", "U_zz"); err != nil {
		t.Fatalf("find canonical: %v", err)
	}
}

func TestMemberUniquePerConversation(t *testing.T) {
	repos := newTestDB(t)

	member := &model.ConversationMember{ConversationUuid: "C_1", MemberUuid: "U_1"}
	if err := repos.Member.Create(member); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repos.Member.Create(&model.ConversationMember{ConversationUuid: "C_1", MemberUuid: "U_1"})
	if !errorx.IsDuplicateKey(err) {
		t.Fatalf("duplicate membership: %v, want unique violation", err)
	}
}

func TestUpdateLastSeenOnlyMovesForward(t *testing.T) {
	repos := newTestDB(t)

	member := &model.ConversationMember{ConversationUuid: "C_1", MemberUuid: "U_1"}
	if err := repos.Member.Create(member); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repos.Member.UpdateLastSeen("C_1", "U_1", 10); err != nil {
		t.Fatalf("advance: %v", err)
	}
	// a stale pointer write matches no row
	if err := repos.Member.UpdateLastSeen("C_1", "U_1", 5); err != nil {
		t.Fatalf("stale write: %v", err)
	}
	got, err := repos.Member.FindByConversationAndMember("C_1", "U_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.LastSeenMessageId != 10 {
		t.Fatalf("pointer = %d, want 10", got.LastSeenMessageId)
	}

	if err := repos.Member.UpdateLastSeen("C_1", "U_1", 20); err != nil {
		t.Fatalf("advance again: %v", err)
	}
	got, _ = repos.Member.FindByConversationAndMember("C_1", "U_1")
	if got.LastSeenMessageId != 20 {
		t.Fatalf("pointer = %d, want 20", got.LastSeenMessageId)
	}
}

func TestCountUnseen(t *testing.T) {
	repos := newTestDB(t)
	now := time.Now()

	seed := func(id int64, sender string) {
		t.Helper()
		if err := repos.Message.Create(&model.Message{
			Uuid:             id,
			ConversationUuid: "C_1",
			SenderUuid:       sender,
			Type:             model.MessageTypeText,
			Content:          `["x"]`,
			SentAt:           now,
		}); err != nil {
			t.Fatalf("seed message %d: %v", id, err)
		}
	}
	seed(10, "U_other")
	seed(20, "U_me")
	seed(30, "U_other")
	seed(40, "U_other")

	// pointer unset: every foreign message counts
	count, err := repos.Message.CountUnseen("C_1", "U_me", 0)
	if err != nil || count != 3 {
		t.Fatalf("unseen from 0 = %d (%v), want 3", count, err)
	}
	// only messages strictly newer than the pointer count
	count, err = repos.Message.CountUnseen("C_1", "U_me", 30)
	if err != nil || count != 1 {
		t.Fatalf("unseen from 30 = %d (%v), want 1", count, err)
	}
	count, err = repos.Message.CountUnseen("C_1", "U_me", 40)
	if err != nil || count != 0 {
		t.Fatalf("unseen from 40 = %d (%v), want 0", count, err)
	}
}

func TestSetLastMessageClearsTime(t *testing.T) {
	repos := newTestDB(t)
	if err := repos.Conversation.Create(&model.Conversation{Uuid: "C_1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repos.Conversation.SetLastMessage("C_1", 42, time.Now()); err != nil {
		t.Fatalf("set: %v", err)
	}
	conv, _ := repos.Conversation.FindByUuid("C_1")
	if conv.LastMessageId != 42 || !conv.LastMessageAt.Valid {
		t.Fatalf("pointer = %+v", conv)
	}

	// messageId 0 means "no messages" and nulls the time
	if err := repos.Conversation.SetLastMessage("C_1", 0, time.Time{}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	conv, _ = repos.Conversation.FindByUuid("C_1")
	if conv.LastMessageId != 0 || conv.LastMessageAt.Valid {
		t.Fatalf("pointer after clear = %+v", conv)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	repos := newTestDB(t)

	err := repos.Transaction(func(tx *Repositories) error {
		if err := tx.Conversation.Create(&model.Conversation{Uuid: "C_1"}); err != nil {
			return err
		}
		return errorx.New(errorx.CodeConflict, "forced rollback")
	})
	if !errorx.IsConflict(err) {
		t.Fatalf("transaction error = %v", err)
	}
	if _, err := repos.Conversation.FindByUuid("C_1"); !errorx.IsNotFound(err) {
		t.Fatalf("write survived rollback: %v", err)
	}
}
