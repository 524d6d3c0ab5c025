package agents

import (
	"github.com/talgya/village-sim/internal/rng"
)

// GenerateInitialPopulation creates n villagers with partially satisfied
// needs and pairs roughly 60% of eligible adults into married families.
func GenerateInitialPopulation(n int, r *rng.Source) []*Villager {
	villagers := make([]*Villager, 0, n)
	for id := 0; id < n; id++ {
		sex := SexMale
		if r.Chance(0.5) {
			sex = SexFemale
		}
		name := RandomName(sex, r)
		ageYears := int(r.ClampNormal(30, 12, 5, 65))
		ageDays := ageYears*DaysPerYear + r.IntN(DaysPerYear)
		traits := GeneratePersonality(sex, r)

		v := NewVillager(id, name, sex, ageDays, traits, 0)
		for _, need := range AllNeeds {
			v.Needs.Needs[need].Satisfaction = r.Uniform(0.5, 1.0)
		}
		villagers = append(villagers, v)
	}

	assignMarriages(villagers, r)
	return villagers
}

// assignMarriages pairs compatible adults as married couples, attaches
// some existing children, and puts everyone else in solo families.
func assignMarriages(villagers []*Villager, r *rng.Source) {
	var males, females []*Villager
	for _, v := range villagers {
		age := v.AgeYears()
		if age < 18 || age > 60 {
			continue
		}
		if v.Sex == SexMale {
			males = append(males, v)
		} else {
			females = append(females, v)
		}
	}
	rng.Shuffle(r, males)
	rng.Shuffle(r, females)

	familyID := 0
	paired := len(males)
	if len(females) < paired {
		paired = len(females)
	}
	pairCount := int(float64(paired) * 0.6)

	for i := 0; i < pairCount; i++ {
		m, f := males[i], females[i]
		diff := m.AgeYears() - f.AgeYears()
		if diff < 0 {
			diff = -diff
		}
		if diff > 15 {
			continue
		}

		mid, fid := m.ID, f.ID
		m.SpouseID = &fid
		f.SpouseID = &mid
		m.FamilyID = familyID
		f.FamilyID = familyID

		if m.AgeYears() > 22 && f.AgeYears() > 20 {
			numChildren := r.IntN(4)
			maxChildAge := m.AgeYears()
			if f.AgeYears() < maxChildAge {
				maxChildAge = f.AgeYears()
			}
			maxChildAge -= 16
			adopted := 0
			for _, c := range villagers {
				if adopted >= numChildren {
					break
				}
				if c.FamilyID == -1 && c.IsChild() && c.AgeYears() < maxChildAge {
					c.FamilyID = familyID
					c.ParentIDs = []int{m.ID, f.ID}
					m.ChildrenIDs = append(m.ChildrenIDs, c.ID)
					f.ChildrenIDs = append(f.ChildrenIDs, c.ID)
					adopted++
				}
			}
		}

		familyID++
	}

	for _, v := range villagers {
		if v.FamilyID == -1 {
			v.FamilyID = familyID
			familyID++
		}
	}
}
