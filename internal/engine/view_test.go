package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThakurMayank5/LastSnack-Server/internal/models"
)

func viewOf(v GameStateView, playerID string) PlayerView {
	for _, p := range v.Players {
		if p.ID == playerID {
			return p
		}
	}
	return PlayerView{}
}

func TestBuildView_OnlyOwnHandAndRole(t *testing.T) {
	room := newPlayingRoom(4)
	giveCard(room, "p0", models.CardSalt)
	giveCard(room, "p1", models.CardPeek)

	v := BuildView(room, "p0", "/avatars")

	me := viewOf(v, "p0")
	require.NotNil(t, me.Role)
	assert.Equal(t, models.RolePizza, me.Role.ID)
	assert.Len(t, me.Hand, 1)
	assert.Equal(t, "/avatars/avatar_0.png", me.AvatarURL)

	other := viewOf(v, "p1")
	assert.Nil(t, other.Role)
	assert.Nil(t, other.Hand)
	assert.Empty(t, other.AvatarURL)
	assert.Empty(t, other.AvatarID)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "p1-peek")
	assert.NotContains(t, string(raw), "Sushi")
}

func TestBuildView_PeekedRolesArePerViewer(t *testing.T) {
	room := newPlayingRoom(4)
	room.Game.SetPeeked("p0", "p2", *room.Player("p2").Role)

	mine := BuildView(room, "p0", "/avatars")
	theirs := BuildView(room, "p1", "/avatars")

	assert.Contains(t, mine.PeekedRoles, "p2")
	assert.NotEmpty(t, viewOf(mine, "p2").AvatarURL)
	assert.Empty(t, theirs.PeekedRoles)
	assert.Empty(t, viewOf(theirs, "p2").AvatarURL)
}

func TestBuildView_RevealedRoleShowsAvatar(t *testing.T) {
	room := newPlayingRoom(4)
	room.Game.RevealedRoles["p3"] = *room.Player("p3").Role

	v := BuildView(room, "p0", "/avatars")

	assert.Equal(t, "/avatars/avatar_3.png", viewOf(v, "p3").AvatarURL)
	assert.Nil(t, viewOf(v, "p3").Role)
}

func TestBuildView_LobbyShowsEveryAvatar(t *testing.T) {
	room := newPlayingRoom(4)
	room.Game.Phase = models.PhaseLobby

	v := BuildView(room, "p0", "/avatars")

	for _, p := range v.Players {
		assert.NotEmpty(t, p.AvatarURL)
		assert.NotEmpty(t, p.AvatarID)
	}
	assert.Empty(t, v.CurrentPlayerID)
}

func TestBuildView_PublicFields(t *testing.T) {
	room := newPlayingRoom(4)
	room.Game.AddShield("p1")
	room.Game.AddShield("p1")
	room.Game.RevealedCategories["p2"] = "Sweet"
	room.Game.WinnerID = "p1"

	v := BuildView(room, "p3", "/avatars")

	assert.Equal(t, len(room.Game.Deck), v.DeckCount)
	assert.Equal(t, []string{"p1", "p1"}, v.ShieldedPlayerIDs)
	assert.Equal(t, "Sweet", v.RevealedCategories["p2"])
	assert.Equal(t, "p0", v.CurrentPlayerID)
	require.NotNil(t, v.WinnerID)
	assert.Equal(t, "p1", *v.WinnerID)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"deck"`)
}

func TestBuildView_NullWinner(t *testing.T) {
	room := newPlayingRoom(4)

	raw, err := json.Marshal(BuildView(room, "p0", "/avatars"))
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"winnerId":null`)
}
