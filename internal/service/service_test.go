package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-core/internal/model"
	"github.com/d60-Lab/social-core/internal/repository"
)

// recordingBroadcaster 记录所有推送，供断言
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Channel string
	Event   string
	Payload any
}

func (b *recordingBroadcaster) Publish(_ context.Context, channel, event string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{Channel: channel, Event: event, Payload: payload})
	return nil
}

func (b *recordingBroadcaster) snapshot() []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recordedEvent, len(b.events))
	copy(out, b.events)
	return out
}

type testEnv struct {
	db          *gorm.DB
	broadcaster *recordingBroadcaster
	bridge      *CounterBridge

	users         repository.UserRepository
	follows       repository.FollowRepository
	blocks        repository.BlockRepository
	reactions     repository.ReactionRepository
	mentions      repository.MentionRepository
	notifications repository.NotificationRepository
	reports       repository.ReportRepository
	posts         repository.PostRepository
	comments      repository.CommentRepository

	userSvc         UserService
	relationSvc     RelationshipService
	reactionSvc     ReactionService
	mentionSvc      MentionService
	notificationSvc NotificationService
	contentSvc      ContentService
	reportSvc       ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{db: db, broadcaster: &recordingBroadcaster{}}
	env.users = repository.NewUserRepository(db)
	env.follows = repository.NewFollowRepository(db)
	env.blocks = repository.NewBlockRepository(db)
	env.reactions = repository.NewReactionRepository(db)
	env.mentions = repository.NewMentionRepository(db)
	env.notifications = repository.NewNotificationRepository(db)
	env.reports = repository.NewReportRepository(db)
	env.posts = repository.NewPostRepository(db)
	env.comments = repository.NewCommentRepository(db)

	env.bridge = NewCounterBridge(env.notifications, env.reports, env.broadcaster, 1000)

	env.notificationSvc = NewNotificationService(env.notifications, env.comments, env.follows, env.blocks, env.bridge)
	env.mentionSvc = NewMentionService(env.users, env.blocks, env.mentions)
	env.relationSvc = NewRelationshipService(db, env.users, env.follows, env.blocks, env.notificationSvc)
	env.reactionSvc = NewReactionService(env.reactions)
	env.contentSvc = NewContentService(db, env.posts, env.comments, env.users, env.blocks, env.mentionSvc, env.notificationSvc)
	env.reportSvc = NewReportService(env.reports, env.contentSvc, env.bridge)
	env.userSvc = NewUserService(env.users)
	return env
}

func (e *testEnv) seedUser(t *testing.T, username, role string) *model.User {
	t.Helper()
	u := &model.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func (e *testEnv) notificationsFor(t *testing.T, recipientID string) []*model.Notification {
	t.Helper()
	var rows []*model.Notification
	if err := e.db.Where("recipient_id = ?", recipientID).Order("created_at").Find(&rows).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	return rows
}
