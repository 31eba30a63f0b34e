// Package chatlog holds the client-side message log: the most recent chat
// messages in arrival order, bounded to a fixed capacity.
package chatlog

// Capacity is the number of messages the client keeps and displays.
const Capacity = 10

// Message is a single chat line as the server delivers it.
// Messages carry no identifier; arrival order is the only ordering key.
type Message struct {
	Content string
	Author  string
}

// Log is an ordered, bounded sequence of messages. Insertion order is display
// order and the oldest messages are evicted first.
//
// A Log is not safe for concurrent use. The owner must serialize ReplaceAll and
// AppendOne, which neither commute nor are idempotent.
type Log struct {
	messages []Message
	capacity int
}

// New returns an empty log. A non-positive capacity falls back to Capacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = Capacity
	}
	return &Log{
		messages: make([]Message, 0, capacity+1),
		capacity: capacity,
	}
}

// ReplaceAll discards the current contents and installs the tail of msgs that
// fits the capacity, preserving relative order.
func (l *Log) ReplaceAll(msgs []Message) {
	if len(msgs) > l.capacity {
		msgs = msgs[len(msgs)-l.capacity:]
	}
	l.messages = append(l.messages[:0], msgs...)
}

// AppendOne adds m at the tail and evicts from the head until the log fits its
// capacity again. It returns the number of evicted messages.
func (l *Log) AppendOne(m Message) int {
	l.messages = append(l.messages, m)
	return l.trim()
}

func (l *Log) trim() int {
	over := len(l.messages) - l.capacity
	if over <= 0 {
		return 0
	}
	// Keep only the most recent capacity messages
	copy(l.messages, l.messages[over:])
	clear(l.messages[l.capacity:])
	l.messages = l.messages[:l.capacity]
	return over
}

// Snapshot returns a copy of the messages in display order.
func (l *Log) Snapshot() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len reports the number of messages currently held.
func (l *Log) Len() int { return len(l.messages) }

// Cap reports the maximum number of messages the log retains.
func (l *Log) Cap() int { return l.capacity }
