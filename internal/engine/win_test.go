package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
)

func eliminateAll(room *models.Room, ids ...string) {
	for _, id := range ids {
		room.Game.EliminatedPlayerIDs = append(room.Game.EliminatedPlayerIDs, id)
		room.Player(id).Status = models.StatusEliminated
	}
}

func TestCheckWinCondition(t *testing.T) {
	tests := []struct {
		name  string
		setup func(room *models.Room)
		want  string
	}{
		{
			name: "all active, nobody wins",
			setup: func(room *models.Room) {
				setRole(room, "p2", models.RoleLast)
			},
			want: "",
		},
		{
			name: "last snack outlasts everyone",
			setup: func(room *models.Room) {
				setRole(room, "p2", models.RoleLast)
				eliminateAll(room, "p0", "p1", "p3")
			},
			want: "p2",
		},
		{
			name: "last snack with one rival left",
			setup: func(room *models.Room) {
				setRole(room, "p2", models.RoleLast)
				eliminateAll(room, "p0", "p1")
			},
			want: "",
		},
		{
			name: "last snack gone, lone survivor wins",
			setup: func(room *models.Room) {
				setRole(room, "p2", models.RoleLast)
				eliminateAll(room, "p0", "p2", "p3")
			},
			want: "p1",
		},
		{
			name: "disconnected rival does not count",
			setup: func(room *models.Room) {
				eliminateAll(room, "p1", "p2")
				room.Player("p3").Status = models.StatusDisconnected
			},
			want: "p0",
		},
		{
			name: "only disconnected players left",
			setup: func(room *models.Room) {
				eliminateAll(room, "p0", "p1")
				room.Player("p2").Status = models.StatusDisconnected
				room.Player("p3").Status = models.StatusDisconnected
			},
			want: "",
		},
		{
			name: "nobody left",
			setup: func(room *models.Room) {
				eliminateAll(room, "p0", "p1", "p2", "p3")
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := newPlayingRoom(4)
			tt.setup(room)

			assert.Equal(t, tt.want, CheckWinCondition(room))
		})
	}
}
