package cache

import (
	"context"
	"sync"
)

// Invalidator удаляет ключ из кеша.
type Invalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// Guard следит за согласованностью кеша со хранилищем внутри процесса.
//
// Запись после фиксации в хранилище вызывает Guard.Invalidate: счётчик записей растёт
// до удаления ключа, поэтому читатель, положивший в кеш данные, прочитанные до этой
// записи, либо увидит изменившийся счётчик в Settle и удалит ключ сам, либо его Set
// окажется раньше удаления. Если удалить ключ не удалось, ключ помечается недостоверным:
// чтения идут мимо кеша, пока повторное удаление не пройдёт.
type Guard struct {
	mu     sync.Mutex
	writes uint64
	marks  uint64
	stale  map[string]uint64
}

func NewGuard() *Guard {
	return &Guard{stale: make(map[string]uint64)}
}

// Invalidate учитывает запись и удаляет ключ. Ошибка удаления возвращается,
// а ключ остаётся недостоверным до следующего успешного удаления.
func (g *Guard) Invalidate(ctx context.Context, c Invalidator, key string) error {
	g.mu.Lock()
	g.writes++
	g.mu.Unlock()

	if err := c.Invalidate(ctx, key); err != nil {
		g.markStale(key)
		return err
	}
	return nil
}

// Snapshot вызывается перед чтением. ok == false означает, что кешу по ключу
// верить нельзя: данные нужно брать из хранилища и в кеш не класть.
func (g *Guard) Snapshot(ctx context.Context, c Invalidator, key string) (uint64, bool) {
	g.mu.Lock()
	mark, stale := g.stale[key]
	writes := g.writes
	g.mu.Unlock()

	if !stale {
		return writes, true
	}
	if err := c.Invalidate(ctx, key); err != nil {
		return 0, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// пока ключ удалялся, другая запись могла снова пометить его
	if g.stale[key] == mark {
		delete(g.stale, key)
	}
	return g.writes, false
}

// Settle вызывается после записи в кеш значения, прочитанного после Snapshot.
// Если за это время были записи, значение могло устареть и ключ удаляется.
func (g *Guard) Settle(ctx context.Context, c Invalidator, key string, snapshot uint64) error {
	g.mu.Lock()
	changed := g.writes != snapshot
	g.mu.Unlock()

	if !changed {
		return nil
	}
	if err := c.Invalidate(ctx, key); err != nil {
		g.markStale(key)
		return err
	}
	return nil
}

// Stale сообщает, помечен ли ключ недостоверным.
func (g *Guard) Stale(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.stale[key]
	return ok
}

func (g *Guard) markStale(key string) {
	g.mu.Lock()
	g.marks++
	g.stale[key] = g.marks
	g.mu.Unlock()
}
