package engine

import (
	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
)

// AssignRoles deals one role per player, exactly one of them the last snack,
// then hands out avatars matching each role where the role has artwork.
func AssignRoles(players []*models.Player, rng random.Source) {
	var last models.Role
	others := make([]models.Role, 0, len(models.Roles))
	for _, r := range models.Roles {
		if r.IsLastSnack {
			last = r
			continue
		}
		others = append(others, r)
	}
	random.Shuffle(rng, others)

	pool := []models.Role{last}
	for i := 0; len(pool) < len(players); i++ {
		pool = append(pool, others[i%len(others)])
	}
	random.Shuffle(rng, pool)

	for i, p := range players {
		role := pool[i]
		p.Role = &role
	}
	assignAvatars(players, rng)
}

func assignAvatars(players []*models.Player, rng random.Source) {
	used := map[string]bool{}
	var unmatched []*models.Player

	for _, p := range players {
		p.AvatarID = ""
		pair, ok := models.AvatarPairs[p.Role.ID]
		if !ok {
			unmatched = append(unmatched, p)
			continue
		}
		ids := []string{pair[0], pair[1]}
		random.Shuffle(rng, ids)
		for _, id := range ids {
			if !used[id] {
				p.AvatarID = id
				used[id] = true
				break
			}
		}
		if p.AvatarID == "" {
			unmatched = append(unmatched, p)
		}
	}

	for _, p := range unmatched {
		free := unusedAvatars(used)
		if len(free) == 0 {
			return
		}
		p.AvatarID = random.Pick(rng, free)
		used[p.AvatarID] = true
	}
}

func unusedAvatars(used map[string]bool) []string {
	free := make([]string, 0, len(models.AvatarIDs))
	for _, id := range models.AvatarIDs {
		if !used[id] {
			free = append(free, id)
		}
	}
	return free
}
