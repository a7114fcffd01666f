package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/policy"
	"github.com/bazario-dev/marketplace-api/store"
)

// Emitter fans a payload out to a room's currently connected members.
// Delivery is at-most-once: no ordering guarantee, no backfill for members
// who were offline.
type Emitter interface {
	Emit(room, event string, payload interface{})
}

// NopEmitter discards everything.
type NopEmitter struct{}

func (NopEmitter) Emit(string, string, interface{}) {}

// ChatService persists messages, then emits them to the conversation room.
type ChatService struct {
	store store.Store
	hub   Emitter
	log   *logrus.Logger
}

func NewChatService(st store.Store, hub Emitter, log *logrus.Logger) *ChatService {
	if hub == nil {
		hub = NopEmitter{}
	}
	return &ChatService{store: st, hub: hub, log: log}
}

// ChatRoom is the room key messages for a conversation are emitted to.
func ChatRoom(conversationID uint) string {
	return "chat:" + strconv.FormatUint(uint64(conversationID), 10)
}

// StartConversation returns the user<->shop thread, creating it on first
// contact. A concurrent first contact is resolved by the unique pair index.
func (s *ChatService) StartConversation(ctx context.Context, userID string, shopID uint) (*models.Conversation, error) {
	if _, err := s.store.ShopByID(ctx, shopID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	conv, err := s.store.ConversationFor(ctx, userID, shopID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	conv = &models.Conversation{UserID: userID, ShopID: shopID}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return s.store.ConversationFor(ctx, userID, shopID)
		}
		return nil, err
	}
	return conv, nil
}

// Conversations lists threads visible to the actor: their own as a customer,
// plus every thread of every shop they manage.
func (s *ChatService) Conversations(ctx context.Context, actor policy.Actor) ([]models.Conversation, error) {
	convs, err := s.store.ConversationsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	for _, shopID := range actor.ShopIDs {
		shopConvs, err := s.store.ConversationsByShop(ctx, shopID)
		if err != nil {
			return nil, err
		}
		convs = append(convs, shopConvs...)
	}
	return convs, nil
}

// Messages returns a page of a conversation's messages, oldest first.
func (s *ChatService) Messages(ctx context.Context, actor policy.Actor, conversationID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.participant(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	return s.store.MessagesByConversation(ctx, conversationID, limit, offset)
}

// SendMessage persists the message and then emits it to the chat room.
func (s *ChatService) SendMessage(ctx context.Context, actor policy.Actor, conversationID uint, body string) (*models.Message, error) {
	if body == "" {
		return nil, ErrMessageEmpty
	}
	conv, err := s.participant(ctx, actor, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       actor.UserID,
		Body:           body,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.Emit(ChatRoom(conv.ID), "message", msg)
	return msg, nil
}

// IsParticipant reports whether the actor may read a conversation's room.
func (s *ChatService) IsParticipant(ctx context.Context, actor policy.Actor, conversationID uint) bool {
	_, err := s.participant(ctx, actor, conversationID)
	return err == nil
}

// participant resolves the conversation and checks the actor is on one of
// its two sides (customer, or manager of the shop).
func (s *ChatService) participant(ctx context.Context, actor policy.Actor, conversationID uint) (*models.Conversation, error) {
	conv, err := s.store.ConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if conv.UserID == actor.UserID {
		return conv, nil
	}
	shop, err := s.store.ShopByID(ctx, conv.ShopID)
	if err != nil {
		return nil, err
	}
	if policy.CanManageShop(actor, shop) {
		return conv, nil
	}
	return nil, ErrNotParticipant
}
