package event

import "sync"

// Topic イベントの種類
type Topic string

const (
	TopicVenuesReplaced Topic = "venues.replaced"
	TopicVenueUpdated   Topic = "venue.updated"
	TopicImageUpdated   Topic = "image.updated"
	TopicHighlightVenue Topic = "venue.highlight"
)

// Event バスで配信されるイベント
type Event interface {
	Topic() Topic
}

// VenuesReplaced 一括インポートで全バーが置き換えられた
type VenuesReplaced struct {
	Count int
}

func (VenuesReplaced) Topic() Topic { return TopicVenuesReplaced }

// VenueUpdated 1件のバーが更新された（訪問済み・メモ・店名）
type VenueUpdated struct {
	VenueID string
}

func (VenueUpdated) Topic() Topic { return TopicVenueUpdated }

// ImageUpdated バーの写真が保存または削除された
type ImageUpdated struct {
	VenueID string
	Deleted bool
}

func (ImageUpdated) Topic() Topic { return TopicImageUpdated }

// HighlightVenue マップ上でバーを強調表示する
type HighlightVenue struct {
	VenueID string
	Row     int
	Column  int
}

func (HighlightVenue) Topic() Topic { return TopicHighlightVenue }

// Handler イベント受信ハンドラー
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus 同期配信のイベントバス
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

// NewBus 空のイベントバスを作成
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe ハンドラーを登録し、登録解除用の関数を返す
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.subs[topic]
			for i, s := range subs {
				if s.id == id {
					b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish 登録順にハンドラーを呼び出す（nilバスでは何もしない）
func (b *Bus) Publish(ev Event) {
	if b == nil || ev == nil {
		return
	}
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[ev.Topic()]))
	copy(subs, b.subs[ev.Topic()])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(ev)
	}
}
