package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrSceneExists   = errors.New("scene already exists")
	ErrSceneNotFound = errors.New("scene not found")
)

// Registry maps caller chosen ids to live scenes. The map is safe for
// concurrent use; the scenes it holds are not.
type Registry struct {
	mu     sync.Mutex
	scenes map[string]*Scene
	next   int
}

func NewRegistry() *Registry {
	return &Registry{scenes: make(map[string]*Scene)}
}

// Create builds a new scene under id. An empty id is replaced by the next
// free "scene_<n>".
func (r *Registry) Create(id string, opts ...Option) (string, *Scene, error) {
	s := New(opts...)
	id, err := r.Add(id, s)
	if err != nil {
		return "", nil, err
	}
	return id, s, nil
}

// Add registers a scene built elsewhere under id, with the same id rules as
// Create
func (r *Registry) Add(id string, s *Scene) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		for {
			r.next++
			id = fmt.Sprintf("scene_%d", r.next)
			if _, taken := r.scenes[id]; !taken {
				break
			}
		}
	}
	if _, exists := r.scenes[id]; exists {
		return "", fmt.Errorf("%w: %q", ErrSceneExists, id)
	}
	r.scenes[id] = s
	return id, nil
}

func (r *Registry) Get(id string) (*Scene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scenes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, id)
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scenes[id]; !ok {
		return fmt.Errorf("%w: %q", ErrSceneNotFound, id)
	}
	delete(r.scenes, id)
	return nil
}

// List returns every id in sorted order
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.scenes))
	for id := range r.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Info summarizes a registered scene
type Info struct {
	ID        string   `json:"id"`
	Filename  string   `json:"filename"`
	Objects   []string `json:"objects"`
	Materials []string `json:"materials"`
	Lines     int      `json:"lines"`
	Draft     bool     `json:"draft"`
}

// Info describes the scene registered under id
func (r *Registry) Info(id string) (Info, error) {
	s, err := r.Get(id)
	if err != nil {
		return Info{}, err
	}
	return Info{
		ID:        id,
		Filename:  s.Filename(),
		Objects:   s.Objects(),
		Materials: s.Materials(),
		Lines:     s.Lines(),
		Draft:     s.IsDraft(),
	}, nil
}
