package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPartyPlayer -- хелпер для создания тестового игрока.
func newTestPartyPlayer(t *testing.T, objectID uint32, name string) *Player {
	t.Helper()
	return NewPlayer(objectID, name, NewLocation(0, 0, 0, 0), 100)
}

func TestNewParty(t *testing.T) {
	leader := newTestPartyPlayer(t, 1, "Leader")
	party := NewParty(100, leader)

	assert.Equal(t, int32(100), party.ID())
	assert.Equal(t, leader, party.Leader())
	assert.Equal(t, uint32(1), party.LeaderObjectID())
	assert.Equal(t, 1, party.MemberCount())
	assert.True(t, party.IsMember(1))
	assert.False(t, party.IsMember(999))
	assert.Same(t, party, leader.Party(), "leader must be linked back to the party")
}

func TestParty_AddMember(t *testing.T) {
	tests := []struct {
		name      string
		addCount  int
		wantErr   error
		wantCount int
	}{
		{
			name:      "add one member",
			addCount:  1,
			wantCount: 2,
		},
		{
			name:      "fill to max",
			addCount:  MaxPartyMembers - 1,
			wantCount: MaxPartyMembers,
		},
		{
			name:      "overflow by one",
			addCount:  MaxPartyMembers,
			wantErr:   ErrPartyFull,
			wantCount: MaxPartyMembers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leader := newTestPartyPlayer(t, 1, "Leader")
			party := NewParty(1, leader)

			var lastErr error
			for i := range tt.addCount {
				member := newTestPartyPlayer(t, uint32(i+10), "Member"+string(rune('A'+i)))
				if err := party.AddMember(member); err != nil {
					lastErr = err
				}
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, lastErr, tt.wantErr)
			} else {
				assert.NoError(t, lastErr)
			}
			assert.Equal(t, tt.wantCount, party.MemberCount())
		})
	}
}

func TestParty_AddMember_Duplicate(t *testing.T) {
	leader := newTestPartyPlayer(t, 1, "Leader")
	member := newTestPartyPlayer(t, 2, "Member")
	party := NewParty(1, leader)

	require.NoError(t, party.AddMember(member))
	err := party.AddMember(member)

	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.Equal(t, 2, party.MemberCount(), "member count should not increase on duplicate")
}

func TestParty_RemoveMember(t *testing.T) {
	leader := newTestPartyPlayer(t, 1, "Leader")
	member1 := newTestPartyPlayer(t, 2, "Member1")
	member2 := newTestPartyPlayer(t, 3, "Member2")
	party := NewParty(1, leader)
	require.NoError(t, party.AddMember(member1))
	require.NoError(t, party.AddMember(member2))

	shouldDisband := party.RemoveMember(2)
	assert.False(t, shouldDisband, "party should not disband with 2 members remaining")
	assert.Equal(t, 2, party.MemberCount())
	assert.False(t, party.IsMember(2))
	assert.Nil(t, member1.Party(), "removed member must be unlinked")
}

func TestParty_RemoveMember_LeaderReassignment(t *testing.T) {
	leader := newTestPartyPlayer(t, 1, "Leader")
	member1 := newTestPartyPlayer(t, 2, "Member1")
	member2 := newTestPartyPlayer(t, 3, "Member2")
	party := NewParty(1, leader)
	require.NoError(t, party.AddMember(member1))
	require.NoError(t, party.AddMember(member2))

	// Лидер уходит -- лидерство передается следующему
	shouldDisband := party.RemoveMember(1)
	assert.False(t, shouldDisband)
	assert.Equal(t, member1.ObjectID(), party.Leader().ObjectID(),
		"leader should be reassigned to next member")
}

func TestParty_RemoveMember_Disband(t *testing.T) {
	leader := newTestPartyPlayer(t, 1, "Leader")
	member := newTestPartyPlayer(t, 2, "Member")
	party := NewParty(1, leader)
	require.NoError(t, party.AddMember(member))

	assert.True(t, party.RemoveMember(2), "party should disband with <2 members")
	assert.False(t, party.RemoveMember(999), "removing non-existent member should return false")

	party.Disband()
	assert.Nil(t, leader.Party())
	assert.Equal(t, 0, party.MemberCount())
}

func TestParty_SetLeader(t *testing.T) {
	leader := newTestPartyPlayer(t, 1, "Leader")
	member := newTestPartyPlayer(t, 2, "NewLeader")
	party := NewParty(1, leader)
	require.NoError(t, party.AddMember(member))

	party.SetLeader(member)
	assert.Equal(t, member.ObjectID(), party.Leader().ObjectID())
	assert.Equal(t, member, party.Members()[0], "leader is swapped to index 0")
	assert.True(t, party.IsLeader(2))
	assert.False(t, party.IsLeader(1))
}

func TestParty_Members_ReturnsCopy(t *testing.T) {
	leader := newTestPartyPlayer(t, 1, "Leader")
	party := NewParty(1, leader)

	members := party.Members()
	members[0] = nil // мутация не должна влиять на оригинал
	assert.NotNil(t, party.Members()[0], "mutating returned slice should not affect party")
}

func TestParty_ConcurrentAddRemove(t *testing.T) {
	leader := newTestPartyPlayer(t, 1, "Leader")
	party := NewParty(1, leader)

	const goroutines = 20
	const iterations = 50
	var wg sync.WaitGroup
	wg.Add(goroutines * 2)

	for g := range goroutines {
		go func(id int) {
			defer wg.Done()
			for i := range iterations {
				m := newTestPartyPlayer(t, uint32(1000+id*100+i), "Concurrent")
				// Ошибки ожидаемы (полная группа)
				_ = party.AddMember(m)
			}
		}(g)
	}

	for g := range goroutines {
		go func(id int) {
			defer wg.Done()
			for i := range iterations {
				party.RemoveMember(uint32(1000 + id*100 + i))
			}
		}(g)
	}

	wg.Wait()

	assert.NotNil(t, party.Leader())
	assert.LessOrEqual(t, party.MemberCount(), MaxPartyMembers, "member count should not exceed max")
}

func TestClan_Members(t *testing.T) {
	clan := NewClan(7, "Knights")
	a := newTestPartyPlayer(t, 1, "A")
	b := newTestPartyPlayer(t, 2, "B")

	clan.AddMember(a)
	clan.AddMember(b)
	assert.Equal(t, int32(7), a.ClanID())
	assert.Equal(t, []*Player{a, b}, clan.Members())

	clan.RemoveMember(1)
	assert.Equal(t, int32(0), a.ClanID())
	assert.Equal(t, []*Player{b}, clan.Members())
}
