package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session 表示一个已登录用户的服务端会话。
// 它是会话存活状态的唯一权威来源：Cookie 中的签名 Token 只负责携带会话 ID。
type Session struct {
	UserID    string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// SessionStore 是进程内的会话注册表，由 main 装配后注入认证处理器与中间件。
// 注意: 这是一个内存存储，服务重启会丢失所有会话。生产环境应使用Redis等持久化存储。
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewSessionStore 创建一个新的 SessionStore，ttl 为每个会话的有效期
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// Create 为用户建立一个新会话，返回会话ID和过期时间。
// 建立新会话时顺带清理已过期的会话条目。
func (s *SessionStore) Create(userID, username, role string) (string, time.Time) {
	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = Session{
		UserID:    userID,
		Username:  username,
		Role:      role,
		ExpiresAt: expiresAt,
	}

	// 清理存储中其他已完全过期的会话
	now := time.Now()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}

	return sessionID, expiresAt
}

// Get 按会话ID查找有效会话。过期的会话视为不存在并被惰性删除。
func (s *SessionStore) Get(sessionID string) (Session, bool) {
	s.mu.RLock()
	sess, found := s.sessions[sessionID]
	s.mu.RUnlock()

	if !found {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		s.Destroy(sessionID)
		return Session{}, false
	}
	return sess, true
}

// Destroy 销毁一个会话（登出时调用）。不存在的会话ID是无害的空操作。
func (s *SessionStore) Destroy(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Count 返回当前存活的会话数量（仅用于测试与运维观察）
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
