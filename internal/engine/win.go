package engine

import "github.com/ThakurMayank5/LastSnack-Server/internal/models"

// CheckWinCondition returns the winner's ID, or "" while the game goes on.
//
// Every active player holds a role, so "the last snack is the only role
// holder left" and "one player is left" are the same test. The last snack
// wins by outlasting everyone, and if it falls first the lone survivor wins
// regardless of role.
func CheckWinCondition(room *models.Room) string {
	active := room.ActivePlayers()
	if len(active) == 1 {
		return active[0].ID
	}
	return ""
}
