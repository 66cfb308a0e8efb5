// Package websocket is the client-facing subscription gateway. Clients
// connect once per tab; the notify layer pushes change events through it.
package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"unitcom_server/pkg/constants"
)

// Client is one live websocket connection of a user. A user may hold
// several (multiple tabs/devices), so the manager keeps a set per uuid.
type Client struct {
	Conn     *websocket.Conn
	UserUuid string
	SendTo   chan []byte

	// done signals teardown; SendTo is never closed so concurrent
	// senders cannot hit a closed channel.
	done      chan struct{}
	closeOnce sync.Once
	manager   *ConnManager
}

// ConnManager tracks live connections keyed by user uuid.
type ConnManager struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewConnManager creates an empty connection manager.
func NewConnManager() *ConnManager {
	return &ConnManager{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connection for userUuid and returns the client handle.
func (m *ConnManager) Register(userUuid string, conn *websocket.Conn) *Client {
	client := &Client{
		Conn:     conn,
		UserUuid: userUuid,
		SendTo:   make(chan []byte, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
		manager:  m,
	}

	m.mu.Lock()
	if m.clients[userUuid] == nil {
		m.clients[userUuid] = make(map[*Client]struct{})
	}
	m.clients[userUuid][client] = struct{}{}
	m.mu.Unlock()

	return client
}

// Unregister removes a connection and tears it down. Idempotent.
func (m *ConnManager) Unregister(client *Client) {
	m.mu.Lock()
	if set, ok := m.clients[client.UserUuid]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(m.clients, client.UserUuid)
		}
	}
	m.mu.Unlock()

	client.closeOnce.Do(func() {
		close(client.done)
		if err := client.Conn.Close(); err != nil {
			zap.L().Debug("ws close", zap.Error(err))
		}
	})
}

// SendToUser delivers a payload to every live connection of one user.
// Offline users are skipped; they resynchronise on their next query.
// Implements notify.Sender.
func (m *ConnManager) SendToUser(userUuid string, payload []byte) {
	m.mu.RLock()
	set := m.clients[userUuid]
	targets := make([]*Client, 0, len(set))
	for client := range set {
		targets = append(targets, client)
	}
	m.mu.RUnlock()

	for _, client := range targets {
		select {
		case <-client.done:
		case client.SendTo <- payload:
		default:
			// slow consumer: drop rather than block the fanout
			zap.L().Warn("ws send buffer full, dropping event",
				zap.String("user", userUuid))
		}
	}
}
