package chat

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"relay_chat_server/internal/model"
)

// 以下测试替身导出，供 chat_test 包的端到端测试复用

// FakeSession 记录收到的事件
type FakeSession struct {
	handle string
	mu     sync.Mutex
	events []Envelope
	closed bool
}

func NewFakeSession(handle string) *FakeSession {
	return &FakeSession{handle: handle}
}

func (f *FakeSession) Handle() string { return f.handle }

func (f *FakeSession) Push(evt Envelope) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.events = append(f.events, evt)
	return true
}

func (f *FakeSession) CloseSession() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *FakeSession) Events(name EventName) []Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Envelope
	for _, e := range f.events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// FakeMessageRepo 内存消息表，排序规则与 SQL 一致
type FakeMessageRepo struct {
	mu       sync.Mutex
	messages []model.Message
	nextID   uint
	Err      error
}

func (r *FakeMessageRepo) Create(_ context.Context, m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *FakeMessageRepo) FindLatest(_ context.Context, conversationId string, limit int) ([]model.Message, error) {
	return r.find(conversationId, 0, limit)
}

func (r *FakeMessageRepo) FindBefore(_ context.Context, conversationId string, cursor int64, limit int) ([]model.Message, error) {
	return r.find(conversationId, cursor, limit)
}

func (r *FakeMessageRepo) find(conversationId string, cursor int64, limit int) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]model.Message, 0, limit)
	for _, m := range r.messages {
		if m.ConversationId != conversationId {
			continue
		}
		if cursor > 0 && m.SendTime >= cursor {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SendTime != out[j].SendTime {
			return out[i].SendTime > out[j].SendTime
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *FakeMessageRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// FakeContactRepo 好友表
type FakeContactRepo struct {
	Friends map[string][]model.UserContact
	Err     error
	Calls   int
	mu      sync.Mutex
}

func NewFakeContactRepo() *FakeContactRepo {
	return &FakeContactRepo{Friends: make(map[string][]model.UserContact)}
}

// Befriend 建立双向好友关系
func (r *FakeContactRepo) Befriend(a, b string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Friends[a] = append(r.Friends[a], model.UserContact{UserId: a, ContactId: b})
	r.Friends[b] = append(r.Friends[b], model.UserContact{UserId: b, ContactId: a})
}

func (r *FakeContactRepo) FindFriends(_ context.Context, userId string) ([]model.UserContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Friends[userId], nil
}

// FakeCache 记录被删除的键，Incr 与 Redis 一样把值当作十进制整数
type FakeCache struct {
	mu      sync.Mutex
	data    map[string]string
	Deleted []string
}

func NewFakeCache() *FakeCache {
	return &FakeCache{data: make(map[string]string)}
}

func (c *FakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *FakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *FakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.Deleted = append(c.Deleted, key)
	return nil
}

func (c *FakeCache) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

// Version 读取计数器当前值
func (c *FakeCache) Version(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key]
}
