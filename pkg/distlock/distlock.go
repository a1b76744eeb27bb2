// Package distlock - распределённая блокировка с TTL поверх Redis (SET NX EX).
// Используется для координации нескольких экземпляров фонового воркера:
// лок не продлевается явно, истечение TTL ограничивает простой при падении держателя.
package distlock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript удаляет ключ только если он всё ещё хранит наш токен.
// Безусловный DEL снял бы чужой лок, когда тик пережил собственный TTL.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// Client часть go-redis клиента, нужная блокировке
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Lock именованная блокировка с ограниченным сроком жизни.
// Не потокобезопасна: рассчитана на один цикл TryAcquire/Release из одной горутины.
type Lock struct {
	client Client
	key    string
	ttl    time.Duration
	token  string
}

// New создает блокировку с именем key и сроком жизни ttl
func New(client Client, key string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: key, ttl: ttl}
}

// TryAcquire пытается захватить блокировку без ожидания.
// Возвращает true, если блокировка получена этим вызовом.
func (l *Lock) TryAcquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("distlock: acquire %s: %w", l.key, err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release снимает блокировку досрочно, но только пока ключ хранит токен
// этого захвата - истёкший и перехваченный другим экземпляром лок не трогаем.
func (l *Lock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	token := l.token
	l.token = ""

	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
		return fmt.Errorf("distlock: release %s: %w", l.key, err)
	}
	return nil
}
