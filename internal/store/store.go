// Package store holds the graph storage backing the scan graph drawer.
package store

import (
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// AttributeStore is a graph.Store whose vertex attributes can be changed after insertion.
type AttributeStore[K comparable, T any] interface {
	graph.Store[K, T]
	SetVertexAttribute(k K, key, value string) error
	VertexAttribute(k K, key string) (string, bool)
}

// MemoryStore keeps a step graph in memory. It is safe for concurrent use.
type MemoryStore[K comparable, T any] struct {
	lock       sync.RWMutex
	vertices   map[K]T
	properties map[K]*graph.VertexProperties

	outEdges map[K]map[K]graph.Edge[K] // source -> target
	inEdges  map[K]map[K]graph.Edge[K] // target -> source
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore[K comparable, T any]() *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		vertices:   make(map[K]T),
		properties: make(map[K]*graph.VertexProperties),
		outEdges:   make(map[K]map[K]graph.Edge[K]),
		inEdges:    make(map[K]map[K]graph.Edge[K]),
	}
}

func (s *MemoryStore[K, T]) AddVertex(k K, t T, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; ok {
		return graph.ErrVertexAlreadyExists
	}
	if p.Attributes == nil {
		p.Attributes = make(map[string]string)
	}
	s.vertices[k] = t
	s.properties[k] = &p

	return nil
}

func (s *MemoryStore[K, T]) ListVertices() ([]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	hashes := make([]K, 0, len(s.vertices))
	for k := range s.vertices {
		hashes = append(hashes, k)
	}

	return hashes, nil
}

func (s *MemoryStore[K, T]) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

// Vertex returns the vertex and a copy of its properties.
func (s *MemoryStore[K, T]) Vertex(k K) (T, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.vertices[k]
	if !ok {
		return v, graph.VertexProperties{}, graph.ErrVertexNotFound
	}
	p := *s.properties[k]
	p.Attributes = make(map[string]string, len(s.properties[k].Attributes))
	for key, value := range s.properties[k].Attributes {
		p.Attributes[key] = value
	}

	return v, p, nil
}

// SetVertexAttribute sets one attribute of vertex k.
func (s *MemoryStore[K, T]) SetVertexAttribute(k K, key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	p, ok := s.properties[k]
	if !ok {
		return errors.Wrapf(graph.ErrVertexNotFound, "%v", k)
	}
	p.Attributes[key] = value

	return nil
}

// VertexAttribute returns one attribute of vertex k.
func (s *MemoryStore[K, T]) VertexAttribute(k K, key string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	p, ok := s.properties[k]
	if !ok {
		return "", false
	}
	value, ok := p.Attributes[key]

	return value, ok
}

func (s *MemoryStore[K, T]) RemoveVertex(k K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; !ok {
		return graph.ErrVertexNotFound
	}
	if len(s.inEdges[k]) > 0 || len(s.outEdges[k]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.inEdges, k)
	delete(s.outEdges, k)
	delete(s.vertices, k)
	delete(s.properties, k)

	return nil
}

func (s *MemoryStore[K, T]) AddEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[sourceHash]; !ok {
		s.outEdges[sourceHash] = make(map[K]graph.Edge[K])
	}
	s.outEdges[sourceHash][targetHash] = edge

	if _, ok := s.inEdges[targetHash]; !ok {
		s.inEdges[targetHash] = make(map[K]graph.Edge[K])
	}
	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *MemoryStore[K, T]) UpdateEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[sourceHash][targetHash]; !ok {
		return graph.ErrEdgeNotFound
	}
	s.outEdges[sourceHash][targetHash] = edge
	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *MemoryStore[K, T]) RemoveEdge(sourceHash, targetHash K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.inEdges[targetHash], sourceHash)
	delete(s.outEdges[sourceHash], targetHash)

	return nil
}

func (s *MemoryStore[K, T]) Edge(sourceHash, targetHash K) (graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	edge, ok := s.outEdges[sourceHash][targetHash]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *MemoryStore[K, T]) ListEdges() ([]graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[K], 0)
	for _, edges := range s.outEdges {
		for _, edge := range edges {
			res = append(res, edge)
		}
	}

	return res, nil
}

// CreatesCycle reports whether an edge from source to target would close a cycle, walking the
// incoming edges of source.
func (s *MemoryStore[K, T]) CreatesCycle(source, target K) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if _, ok := s.vertices[source]; !ok {
		return false, errors.Wrapf(graph.ErrVertexNotFound, "source %v", source)
	}
	if _, ok := s.vertices[target]; !ok {
		return false, errors.Wrapf(graph.ErrVertexNotFound, "target %v", target)
	}
	if source == target {
		return true, nil
	}

	stack := []K{source}
	visited := make(map[K]struct{})
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[current]; ok {
			continue
		}
		if current == target {
			return true, nil
		}
		visited[current] = struct{}{}
		for parent := range s.inEdges[current] {
			stack = append(stack, parent)
		}
	}

	return false, nil
}

var _ AttributeStore[string, string] = (*MemoryStore[string, string])(nil)
