package world

import (
	"sort"

	"github.com/MartinDeV1991/Doom/internal/data"
)

// State tracks the player and every NPC of the running level.
// Single-goroutine access only (frame loop).
type State struct {
	Player *Player

	npcs      map[int]*NpcInfo // NPC ID → NpcInfo
	npcList   []*NpcInfo       // ID order, for tick iteration
	entity    *EntityGrid
	nextNpcID int

	Tick  uint64 // frames advanced in the current level
	Kills int    // NPCs killed in the current level
}

func NewState() *State {
	return &State{
		Player: &Player{},
		npcs:   make(map[int]*NpcInfo),
		entity: newEntityGrid(),
	}
}

// Reset empties the state for a new level attempt, keeping allocations.
func (s *State) Reset() {
	*s.Player = Player{}
	clear(s.npcs)
	s.npcList = s.npcList[:0]
	s.entity.reset()
	s.nextNpcID = 0
	s.Tick = 0
	s.Kills = 0
}

// PlacePlayer sets the player's spawn and fills health.
func (s *State) PlacePlayer(x, y, angle float64, maxHealth int) {
	p := s.Player
	s.entity.Vacate(p.Cell(), PlayerID)
	p.X, p.Y, p.Angle = x, y, angle
	p.Health, p.MaxHealth = maxHealth, maxHealth
	s.entity.Occupy(p.Cell(), PlayerID)
}

// UpdatePlayerPosition moves the player and keeps the occupancy grid in sync.
// All player position changes MUST go through this method.
func (s *State) UpdatePlayerPosition(x, y float64) {
	p := s.Player
	from := p.Cell()
	p.X, p.Y = x, y
	s.entity.Move(from, p.Cell(), PlayerID)
}

// --- NPC methods ---

// AddNpc assigns the next ID and registers the NPC.
func (s *State) AddNpc(npc *NpcInfo) {
	s.nextNpcID++
	npc.ID = s.nextNpcID
	s.npcs[npc.ID] = npc
	s.npcList = append(s.npcList, npc)
	s.entity.Occupy(npc.Cell(), npc.ID)
}

// GetNpc returns an NPC by ID.
func (s *State) GetNpc(id int) *NpcInfo {
	return s.npcs[id]
}

// UpdateNpcPosition moves an NPC and updates the occupancy grid.
// All NPC position changes MUST go through this method.
func (s *State) UpdateNpcPosition(id int, x, y float64) {
	npc := s.npcs[id]
	if npc == nil {
		return
	}
	from := npc.Cell()
	npc.X, npc.Y = x, y
	s.entity.Move(from, npc.Cell(), id)
}

// NpcDied marks the NPC dead and releases its cell. The NPC stays listed
// until RemoveDead.
func (s *State) NpcDied(npc *NpcInfo) {
	if npc.Dead {
		return
	}
	npc.Dead = true
	npc.State = NpcDead
	npc.Health = 0
	s.entity.Vacate(npc.Cell(), npc.ID)
	s.Kills++
}

// RemoveDead drops dead NPCs from the active set, preserving ID order, and
// returns how many were removed.
func (s *State) RemoveDead() int {
	kept := s.npcList[:0]
	removed := 0
	for _, npc := range s.npcList {
		if npc.Dead {
			delete(s.npcs, npc.ID)
			removed++
			continue
		}
		kept = append(kept, npc)
	}
	for i := len(kept); i < len(s.npcList); i++ {
		s.npcList[i] = nil
	}
	s.npcList = kept
	return removed
}

// NpcList returns the active NPCs in ID order.
func (s *State) NpcList() []*NpcInfo {
	return s.npcList
}

// LiveNpcCount returns how many NPCs are still alive.
func (s *State) LiveNpcCount() int {
	n := 0
	for _, npc := range s.npcList {
		if !npc.Dead {
			n++
		}
	}
	return n
}

// IsOccupied reports whether an entity other than excludeID is in cell c.
func (s *State) IsOccupied(c data.Cell, excludeID int) bool {
	return s.entity.IsOccupied(c, excludeID)
}

// Snapshot freezes the occupied cells of the player and every live NPC.
func (s *State) Snapshot() Snapshot {
	occ := make(map[data.Cell]struct{}, len(s.npcList)+1)
	occ[s.Player.Cell()] = struct{}{}
	for _, npc := range s.npcList {
		if !npc.Dead {
			occ[npc.Cell()] = struct{}{}
		}
	}
	return Snapshot{occupied: occ, PlayerCell: s.Player.Cell()}
}

// NpcPositions returns the occupied NPC cells, sorted, for diagnostics and tests.
func (s *State) NpcPositions() []data.Cell {
	cells := make([]data.Cell, 0, len(s.npcList))
	for _, npc := range s.npcList {
		if !npc.Dead {
			cells = append(cells, npc.Cell())
		}
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}
