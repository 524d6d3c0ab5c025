package social

import (
	"fmt"
	"math"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/world"
)

const maxWorkPartySize = 5

// WorkParty is a temporary group formed for one day's collaborative
// activity. The leader's plan becomes the group's.
type WorkParty struct {
	LeaderID       int             `json:"leader_id"`
	MemberIDs      []int           `json:"member_ids"`
	Activity       string          `json:"activity"`
	TargetResource int             `json:"target_resource"`
	TargetPosition *world.Position `json:"target_position,omitempty"`
}

// Size is the member count including the leader.
func (p *WorkParty) Size() int { return len(p.MemberIDs) }

// Effectiveness scores the party by average member skill with
// diminishing returns per extra member.
func (p *WorkParty) Effectiveness(byID map[int]*agents.Villager) float64 {
	if len(p.MemberIDs) == 0 {
		return 0
	}
	var totalSkill float64
	for _, vid := range p.MemberIDs {
		if v := byID[vid]; v != nil {
			totalSkill += v.SkillLevel(p.Activity)
		}
	}
	avgSkill := totalSkill / float64(len(p.MemberIDs))

	sizeBonus := 1.0
	for i := 1; i < len(p.MemberIDs); i++ {
		sizeBonus += 0.15 * math.Pow(0.8, float64(i))
	}
	return avgSkill * sizeBonus / 100.0
}

// SocialGroup is a persistent grouping such as a craft guild or a
// circle of friends.
type SocialGroup struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	MemberIDs []int   `json:"member_ids"`
	Purpose   string  `json:"purpose"`
	Influence float64 `json:"influence"`
}

// AddMember adds a villager, ignoring duplicates.
func (g *SocialGroup) AddMember(id int) {
	for _, m := range g.MemberIDs {
		if m == id {
			return
		}
	}
	g.MemberIDs = append(g.MemberIDs, id)
}

// RemoveMember drops a villager from the group.
func (g *SocialGroup) RemoveMember(id int) {
	for i, m := range g.MemberIDs {
		if m == id {
			g.MemberIDs = append(g.MemberIDs[:i], g.MemberIDs[i+1:]...)
			return
		}
	}
}

// GroupManager owns the day's work parties and persistent social
// groups.
type GroupManager struct {
	WorkParties  []*WorkParty
	SocialGroups []*SocialGroup
	nextGroupID  int
}

// NewGroupManager returns an empty registry.
func NewGroupManager() *GroupManager { return &GroupManager{} }

// ResolveWorkParties forms the day's parties. Villagers whose chosen
// activity supports groups recruit from their friends; recruits that
// accept abandon their own plan for the leader's. Parties below the
// activity's minimum size dissolve.
func (g *GroupManager) ResolveWorkParties(villagers []*agents.Villager, engine *agents.DecisionEngine, rels *RelationshipManager) {
	g.WorkParties = g.WorkParties[:0]

	byID := make(map[int]*agents.Villager, len(villagers))
	for _, v := range villagers {
		if v.Alive {
			byID[v.ID] = v
		}
	}
	assigned := make(map[int]bool)

	for _, v := range villagers {
		if !v.Alive || assigned[v.ID] {
			continue
		}
		act, ok := economy.Activities[v.CurrentActivity]
		if !ok || act.MinGroupSize <= 1 {
			continue
		}

		recruited := []int{v.ID}
		assigned[v.ID] = true

		for _, candID := range rels.Friends(v.ID) {
			cand := byID[candID]
			if cand == nil || assigned[candID] {
				continue
			}
			trust := rels.GetOrCreate(v.ID, candID).Trust
			if !engine.EvaluateCooperationRequest(cand, v.CurrentActivity, trust) {
				continue
			}
			recruited = append(recruited, candID)
			assigned[candID] = true
			cand.CurrentActivity = v.CurrentActivity
			if len(recruited) >= maxWorkPartySize {
				break
			}
		}

		if len(recruited) >= act.MinGroupSize {
			g.WorkParties = append(g.WorkParties, &WorkParty{
				LeaderID:  v.ID,
				MemberIDs: recruited,
				Activity:  v.CurrentActivity,
			})
		}
	}
}

// PartyFor returns the party a villager belongs to, nil when solo.
func (g *GroupManager) PartyFor(villagerID int) *WorkParty {
	for _, p := range g.WorkParties {
		for _, m := range p.MemberIDs {
			if m == villagerID {
				return p
			}
		}
	}
	return nil
}

// FormSocialGroup founds a persistent group.
func (g *GroupManager) FormSocialGroup(purpose string, members []int) *SocialGroup {
	group := &SocialGroup{
		ID:        g.nextGroupID,
		Name:      fmt.Sprintf("%s_%d", purpose, g.nextGroupID),
		MemberIDs: append([]int(nil), members...),
		Purpose:   purpose,
	}
	g.nextGroupID++
	g.SocialGroups = append(g.SocialGroups, group)
	return group
}
