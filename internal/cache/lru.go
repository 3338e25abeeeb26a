package cache

// node links an entry into the recency list.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// recency is a doubly-linked list with the most recently used entry at
// the head. It is not synchronized.
type recency[K comparable, V any] struct {
	head, tail *node[K, V]
	n          int
}

func (l *recency[K, V]) pushFront(e *node[K, V]) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
	l.n++
}

func (l *recency[K, V]) unlink(e *node[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
	l.n--
}

func (l *recency[K, V]) touch(e *node[K, V]) {
	if e == l.head {
		return
	}
	l.unlink(e)
	l.pushFront(e)
}

func (l *recency[K, V]) oldest() *node[K, V] { return l.tail }
