// Package live раздаёт события движка согласования счетов подключённым
// по WebSocket клиентам. Комната — одна игра.
package live

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Типы событий, которые публикует движок согласования.
const (
	EventScoreSubmitted = "SCORE_SUBMITTED"
	EventScoreConfirmed = "SCORE_CONFIRMED"
	EventScoreDisputed  = "SCORE_DISPUTED"
	EventScoreResolved  = "SCORE_RESOLVED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

// GameRoomID — идентификатор комнаты для игры.
func GameRoomID(gameID int) string {
	return fmt.Sprintf("game_%d", gameID)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if roomClients, ok := h.rooms[client.Room]; ok {
				if _, okClient := roomClients[client]; okClient {
					client.closeSend()
					delete(roomClients, client)
					if len(roomClients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastGameEvent отправляет событие всем подписчикам игры.
// Клиенты с переполненным каналом пропускаются, а не блокируют рассылку.
func (h *Hub) BroadcastGameEvent(gameID int, eventType string, payload interface{}) {
	roomID := GameRoomID(gameID)
	messageBytes, err := json.Marshal(Message{Type: eventType, Payload: payload, RoomID: roomID})
	if err != nil {
		log.Printf("live: failed to marshal %s event for room %s: %v", eventType, roomID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		client.trySend(messageBytes)
	}
}
