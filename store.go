package zecs

import (
	"slices"
	"sync/atomic"
	"unsafe"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Store holds entities and their components, grouped by archetype.
//
// A Store has a single writer: every structural change (creating, destroying, adding or
// removing components) must happen on one goroutine and never while a traversal is running.
// Traversal bodies may read and write component values from many goroutines at once because
// every chunk is disjoint memory.
type Store struct {
	cfg     Config
	log     zerolog.Logger
	groups  []*Group
	locator *groupLocator
	dir     directory
	nextID  EntityID
	version uint64 // bumped by every structural change, see Ref

	iterating atomic.Int32
	parallel  atomic.Bool
	pool      indicesPool
	work      []workItem

	events    EventBus
	resources Resources
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	cfg    Config
	logger *zerolog.Logger
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *storeOptions) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger used by the store instead of one built from the config.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *storeOptions) {
		o.logger = &logger
	}
}

// NewStore creates an empty store.
//
// Parameters:
//   - opts: Optional overrides. Without WithConfig the store uses DefaultConfig.
//
// Returns:
//   - The new store, or an error if the configuration is invalid.
func NewStore(opts ...Option) (*Store, error) {
	o := storeOptions{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.validate(); err != nil {
		return nil, eris.Wrap(err, "invalid store config")
	}

	s := &Store{
		cfg:     o.cfg,
		groups:  make([]*Group, 0, 16),
		locator: newGroupLocator(),
		dir:     newDirectory(o.cfg.InitialCapacity),
		pool:    newIndicesPool(o.cfg.IndicesPoolSize),
	}
	if o.logger != nil {
		s.log = *o.logger
	} else {
		s.log = defaultLogger(o.cfg)
	}
	return s, nil
}

// Events returns the bus the store publishes GroupCreated and StoreCleared on.
func (s *Store) Events() *EventBus {
	return &s.events
}

// EntityCount returns the number of live entities.
func (s *Store) EntityCount() int {
	return s.dir.len()
}

// EntityExists reports whether id names a live entity.
func (s *Store) EntityExists(id EntityID) bool {
	return id != 0 && s.dir.has(id)
}

// Groups returns every group in creation order, including empty ones.
func (s *Store) Groups() []*Group {
	return slices.Clone(s.groups)
}

// Archetype returns the component set of an entity.
func (s *Store) Archetype(id EntityID) (Archetype, error) {
	loc, err := s.lookup(id)
	if err != nil {
		return Archetype{}, err
	}
	return loc.archetype(), nil
}

// IsDisabled reports whether the entity carries the Disabled tag. Unknown ids report false.
func (s *Store) IsDisabled(id EntityID) bool {
	loc, ok := s.dir.get(id)
	return ok && loc.archetype().IsDisabled()
}

// CreateEntity allocates a new entity with no components.
func (s *Store) CreateEntity() (EntityID, error) {
	if err := s.checkMutable("create entity"); err != nil {
		return 0, err
	}
	id := s.generateID()
	s.dir.put(id, location{})
	return id, nil
}

// CreateEntities allocates n entities with no components.
func (s *Store) CreateEntities(n int) ([]EntityID, error) {
	if err := s.checkMutable("create entities"); err != nil {
		return nil, err
	}
	ids := make([]EntityID, n)
	for i := range ids {
		ids[i] = s.generateID()
		s.dir.put(ids[i], location{})
	}
	return ids, nil
}

// CreateEntityWithLayout allocates a new entity and applies l to it.
func (s *Store) CreateEntityWithLayout(l *Layout) (EntityID, error) {
	if err := s.checkMutable("create entity"); err != nil {
		return 0, err
	}
	if err := l.validate(); err != nil {
		return 0, err
	}
	id := s.generateID()
	s.applyLayout(id, location{}, l)
	return id, nil
}

// CreateEntitiesWithLayout allocates n entities and applies l to each. The entities fill
// consecutive rows of the target group.
func (s *Store) CreateEntitiesWithLayout(n int, l *Layout) ([]EntityID, error) {
	if err := s.checkMutable("create entities"); err != nil {
		return nil, err
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	ids := make([]EntityID, n)
	for i := range ids {
		ids[i] = s.generateID()
		s.applyLayout(ids[i], location{}, l)
	}
	return ids, nil
}

// ApplyLayout adds and removes the layout's components in a single relocation, then writes
// the layout's values. Values for components the entity already owns are overwritten.
func (s *Store) ApplyLayout(id EntityID, l *Layout) error {
	if err := s.checkMutable("apply layout"); err != nil {
		return err
	}
	if err := l.validate(); err != nil {
		return err
	}
	loc, err := s.lookup(id)
	if err != nil {
		return err
	}
	s.applyLayout(id, loc, l)
	return nil
}

// Clone creates a new entity holding a copy of every component of source.
func (s *Store) Clone(source EntityID) (EntityID, error) {
	if err := s.checkMutable("clone entity"); err != nil {
		return 0, err
	}
	loc, err := s.lookup(source)
	if err != nil {
		return 0, err
	}

	id := s.generateID()
	if loc.group == nil {
		s.dir.put(id, location{})
		return id, nil
	}
	to := loc.group.nextSlot(id)
	copyOverlapping(loc, to)
	s.dir.put(id, to)
	s.version++
	return id, nil
}

// DestroyEntity removes an entity and frees its row.
func (s *Store) DestroyEntity(id EntityID) error {
	if err := s.checkMutable("destroy entity"); err != nil {
		return err
	}
	loc, err := s.lookup(id)
	if err != nil {
		return err
	}
	if loc.group != nil {
		s.release(loc)
	}
	s.dir.del(id)
	s.version++
	return nil
}

// DestroyAllEntities removes every entity. Groups and their chunks are kept for reuse.
func (s *Store) DestroyAllEntities() error {
	if err := s.checkMutable("destroy all entities"); err != nil {
		return err
	}

	total := s.dir.len()
	for _, g := range s.groups {
		// Back to front, so the row moved by each removal is always the one being removed.
		for g.Len() > 0 {
			id := g.lastEntityID()
			loc, ok := s.dir.get(id)
			if !ok {
				panic(eris.Errorf("entity %d is stored in group %s but missing from the directory",
					id, g.archetype))
			}
			s.release(loc)
			s.dir.del(id)
		}
	}
	s.dir.clear()
	s.version++

	s.log.Debug().Int("entities", total).Int("groups", len(s.groups)).Msg("store cleared")
	Publish(&s.events, StoreCleared{Entities: total})
	return nil
}

// RemoveComponents removes every type in mask from the entity in one relocation. Types the
// entity does not own are ignored.
func (s *Store) RemoveComponents(id EntityID, mask Archetype) error {
	if err := s.checkMutable("remove components"); err != nil {
		return err
	}
	loc, err := s.lookup(id)
	if err != nil {
		return err
	}
	cur := loc.archetype()
	target := cur.Difference(mask)
	if !target.Equal(cur) {
		s.relocate(id, loc, target)
	}
	return nil
}

// SetDisabled adds or removes the Disabled tag. Disabled entities are skipped by queries that
// do not opt in with IncludeDisabled.
func (s *Store) SetDisabled(id EntityID, disabled bool) error {
	if disabled {
		_, err := AddComponent(s, id, Disabled{})
		return err
	}
	return RemoveComponent[Disabled](s, id)
}

// checkMutable fails while any traversal is running.
func (s *Store) checkMutable(op string) error {
	if s.iterating.Load() > 0 {
		return eris.Wrapf(ErrIterationViolation, "cannot %s", op)
	}
	return nil
}

func (s *Store) lookup(id EntityID) (location, error) {
	loc, ok := s.dir.get(id)
	if !ok || id == 0 {
		return location{}, eris.Wrapf(ErrInvalidEntity, "entity %d", id)
	}
	return loc, nil
}

// generateID returns the next id that is neither zero nor held by a live entity.
func (s *Store) generateID() EntityID {
	for {
		s.nextID++
		if s.nextID != 0 && !s.dir.has(s.nextID) {
			return s.nextID
		}
	}
}

// ensureGroup returns the group for a, creating it if this is the first time a is seen.
func (s *Store) ensureGroup(a Archetype) *Group {
	if g := s.locator.find(a); g != nil {
		return g
	}
	g := newGroup(a, len(s.groups), s.cfg.ChunkBytes)
	s.groups = append(s.groups, g)
	s.locator.insert(g)

	s.log.Debug().
		Int("group", g.index).
		Stringer("archetype", a).
		Int("capacity", g.capacity).
		Msg("group created")
	Publish(&s.events, GroupCreated{Archetype: a, Index: g.index})
	return g
}

// relocate moves an entity from its current location to the group of target, copying every
// component both groups store. It returns the new location.
func (s *Store) relocate(id EntityID, from location, target Archetype) location {
	var to location
	if !target.IsEmpty() {
		to = s.ensureGroup(target).nextSlot(id)
		if from.group != nil {
			copyOverlapping(from, to)
		}
	}
	if from.group != nil {
		s.release(from)
	}
	s.dir.put(id, to)
	s.version++
	return to
}

// release frees the row at loc and repoints the entity that swap-removal moved into it.
func (s *Store) release(loc location) {
	moved := loc.group.remove(int(loc.chunk), int(loc.row))
	if moved != 0 {
		s.dir.put(moved, loc)
	}
}

// applyLayout relocates the entity to the layout's target archetype and writes its values.
func (s *Store) applyLayout(id EntityID, loc location, l *Layout) {
	cur := loc.archetype()
	target := cur.Apply(l.add, l.remove)
	if !target.Equal(cur) || !s.dir.has(id) {
		loc = s.relocate(id, loc, target)
	}
	if loc.group == nil {
		return
	}

	g := loc.group
	i, j := 0, 0
	for i < len(l.values) && j < len(g.types) {
		switch v := l.values[i]; {
		case len(v.data) == 0:
			i++
		case v.id < g.types[j]:
			i++
		case v.id > g.types[j]:
			j++
		default:
			ptr, size := g.component(int(loc.chunk), j, int(loc.row))
			copy(unsafe.Slice((*byte)(ptr), size), v.data)
			i++
			j++
		}
	}
}

// copyOverlapping copies every column present in both groups from src to dst. Both column
// lists are sorted by type id, so one co-advancing scan finds every match.
func copyOverlapping(src, dst location) {
	a, b := src.group, dst.group
	i, j := 0, 0
	for i < len(a.types) && j < len(b.types) {
		switch {
		case a.types[i] < b.types[j]:
			i++
		case a.types[i] > b.types[j]:
			j++
		default:
			sp, size := a.component(int(src.chunk), i, int(src.row))
			dp, _ := b.component(int(dst.chunk), j, int(dst.row))
			copy(unsafe.Slice((*byte)(dp), size), unsafe.Slice((*byte)(sp), size))
			i++
			j++
		}
	}
}

func (loc location) archetype() Archetype {
	if loc.group == nil {
		return Archetype{}
	}
	return loc.group.archetype
}
