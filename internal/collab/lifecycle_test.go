package collab

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestJoin_First_Participant(t *testing.T) {
	req := require.New(t)
	rt, registry, emitter := newTestRouter()

	// When alice joins an empty room
	join(t, rt, "conn-alice", "r1", "alice")

	// Then she is registered online with zeroed collaboration state
	alice, ok := registry.Get("conn-alice")
	req.True(ok)
	req.Equal("r1", alice.RoomID)
	req.Equal("alice", alice.Username)
	req.Equal(StatusOnline, alice.Status)
	req.False(alice.Typing)
	req.Zero(alice.CursorPosition)
	req.Empty(alice.CurrentFile)

	// And she alone receives join-accepted listing only herself
	req.Len(emitter.emissions, 1)
	accepted := emitter.emissions[0]
	req.Equal("conn-alice", accepted.ConnectionID)
	req.Equal(EventJoinAccepted, accepted.Event)
	payload := accepted.Payload.(JoinAcceptedPayload)
	req.Equal(alice, payload.Participant)
	req.Equal([]Participant{alice}, payload.Members)
}

func TestJoin_Notifies_Existing_Members(t *testing.T) {
	req := require.New(t)
	rt, registry, emitter := newTestRouter()
	join(t, rt, "conn-alice", "r1", "alice")
	emitter.reset()

	// When bob joins alice's room
	join(t, rt, "conn-bob", "r1", "bob")

	// Then alice receives user-joined carrying bob
	bob, _ := registry.Get("conn-bob")
	joined := emitter.named(EventUserJoined)
	req.Len(joined, 1)
	req.Equal("conn-alice", joined[0].ConnectionID)
	req.Equal(ParticipantPayload{Participant: bob}, joined[0].Payload)

	// And bob's join-accepted members equal {alice, bob}
	accepted := emitter.to("conn-bob")
	req.Len(accepted, 1)
	payload := accepted[0].Payload.(JoinAcceptedPayload)
	members := lo.Map(payload.Members, func(p Participant, _ int) string { return p.Username })
	req.ElementsMatch([]string{"alice", "bob"}, members)
}

func TestJoin_Duplicate_Username_Rejected(t *testing.T) {
	req := require.New(t)
	rt, registry, emitter := newTestRouter()
	join(t, rt, "conn-bob", "r1", "bob")
	emitter.reset()

	// When a second connection claims the same name in the same room
	join(t, rt, "conn-imposter", "r1", "bob")

	// Then only the requester hears about it, and only as username-exists
	req.Len(emitter.emissions, 1)
	rejection := emitter.emissions[0]
	req.Equal("conn-imposter", rejection.ConnectionID)
	req.Equal(EventUsernameExists, rejection.Event)

	// And the registry is unchanged
	req.Equal(1, registry.Len())
	_, ok := registry.Get("conn-imposter")
	req.False(ok)
}

func TestJoin_Same_Username_Different_Rooms(t *testing.T) {
	req := require.New(t)
	rt, registry, _ := newTestRouter()
	join(t, rt, "conn-1", "r1", "bob")

	// The same display name is fine in another room
	join(t, rt, "conn-2", "r2", "bob")
	req.Equal(2, registry.Len())
}

func TestJoin_Rejected_Username_Can_Retry(t *testing.T) {
	req := require.New(t)
	rt, registry, emitter := newTestRouter()
	join(t, rt, "conn-bob", "r1", "bob")
	join(t, rt, "conn-late", "r1", "bob")
	emitter.reset()

	// The rejected connection retries under a different name
	join(t, rt, "conn-late", "r1", "bobby")

	req.Equal(2, registry.Len())
	accepted := emitter.to("conn-late")
	req.Len(accepted, 1)
	req.Equal(EventJoinAccepted, accepted[0].Event)
}

func TestJoin_Invalid_Payload_Dropped(t *testing.T) {
	req := require.New(t)
	rt, registry, emitter := newTestRouter()

	// Missing username: dropped without any emission
	join(t, rt, "conn-anon", "r1", "")
	req.Zero(registry.Len())
	req.Empty(emitter.emissions)
}

func TestDisconnect_Cleans_Up_And_Notifies_Peers(t *testing.T) {
	req := require.New(t)
	rt, registry, emitter := newTestRouter()
	join(t, rt, "conn-alice", "r1", "alice")
	join(t, rt, "conn-bob", "r1", "bob")
	join(t, rt, "conn-carol", "r2", "carol")
	bob, _ := registry.Get("conn-bob")
	emitter.reset()

	// When bob disconnects
	rt.Lifecycle().Disconnect("conn-bob")

	// Then his room no longer contains him
	members := registry.MembersOf("r1")
	req.Len(members, 1)
	req.Equal("alice", members[0].Username)

	// And each former peer receives exactly one user-disconnected with his
	// last-known state; other rooms hear nothing
	req.Len(emitter.emissions, 1)
	gone := emitter.emissions[0]
	req.Equal("conn-alice", gone.ConnectionID)
	req.Equal(EventUserDisconnected, gone.Event)
	req.Equal(ParticipantPayload{Participant: bob}, gone.Payload)
	req.Empty(emitter.to("conn-carol"))
}

func TestDisconnect_Unknown_Connection_Is_Noop(t *testing.T) {
	req := require.New(t)
	rt, registry, emitter := newTestRouter()
	join(t, rt, "conn-alice", "r1", "alice")
	emitter.reset()

	rt.Lifecycle().Disconnect("conn-ghost")

	req.Equal(1, registry.Len())
	req.Empty(emitter.emissions)
}
