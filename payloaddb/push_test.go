package payloaddb

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPayload_EmptyDatabaseCreatesEverything(t *testing.T) {
	db := newFakeDB()
	client := newTestClient(t, db)

	result, err := client.PushPayload(context.Background(), "GT1", "calo", "calib.root", 10)
	require.NoError(t, err)

	assert.Equal(t, PushResult{
		TagID: 1, DomainID: 1, DomainListID: 1, PayloadID: 1,
		TagCreated: true, DomainCreated: true, DomainListCreated: true, PayloadCreated: true,
	}, result)
	assert.Equal(t, float64(10), db.tables[EndpointPayload][0]["minor_iov"])
}

func TestPushPayload_ReusesExistingEntries(t *testing.T) {
	db := newFakeDB()
	db.seed(EndpointTag, map[string]any{"id": 1, "name": "GT1"}, map[string]any{"id": 4, "name": "GT1"})
	db.seed(EndpointDomain, map[string]any{"id": 2, "name": "calo"})
	db.seed(EndpointDomainList,
		map[string]any{"id": 6, "global_tag": 4, "payload_type": 2},
		map[string]any{"id": 7, "global_tag": 4, "payload_type": 2},
	)
	db.seed(EndpointPayload, map[string]any{"id": 9, "payload_url": "calib.root", "payload_list": 7})
	client := newTestClient(t, db)

	result, err := client.PushPayload(context.Background(), "GT1", "calo", "calib.root", 0)
	require.NoError(t, err)

	assert.Equal(t, PushResult{TagID: 4, DomainID: 2, DomainListID: 7, PayloadID: 9}, result)
	for _, endpoint := range endpoints {
		assert.Zero(t, db.postCount(endpoint), endpoint)
	}
}

func TestPushPayload_NewPayloadInExistingList(t *testing.T) {
	db := newFakeDB()
	db.seed(EndpointTag, map[string]any{"id": 1, "name": "GT1"})
	db.seed(EndpointDomain, map[string]any{"id": 1, "name": "calo"})
	db.seed(EndpointDomainList, map[string]any{"id": 3, "global_tag": 1, "payload_type": 1})
	db.seed(EndpointPayload, map[string]any{"id": 5, "payload_url": "old.root", "payload_list": 3})
	client := newTestClient(t, db)

	result, err := client.PushPayload(context.Background(), "GT1", "calo", "new.root", 100)
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.DomainListID)
	assert.False(t, result.DomainListCreated)
	assert.True(t, result.PayloadCreated)
	assert.Equal(t, int64(6), result.PayloadID)
	assert.Equal(t, float64(3), db.tables[EndpointPayload][1]["payload_list"])
}

func TestPushPayload_NewDomainCreatesNewList(t *testing.T) {
	db := newFakeDB()
	db.seed(EndpointTag, map[string]any{"id": 1, "name": "GT1"})
	db.seed(EndpointDomain, map[string]any{"id": 1, "name": "calo"})
	db.seed(EndpointDomainList, map[string]any{"id": 1, "global_tag": 1, "payload_type": 1})
	client := newTestClient(t, db)

	result, err := client.PushPayload(context.Background(), "GT1", "tracker", "align.root", 0)
	require.NoError(t, err)

	assert.False(t, result.TagCreated)
	assert.True(t, result.DomainCreated)
	assert.True(t, result.DomainListCreated)
	assert.Equal(t, int64(2), result.DomainListID)
	assert.Equal(t, 0, db.postCount(EndpointTag))
}

func TestPushPayload_NamedForeignKeysDoNotMatch(t *testing.T) {
	db := newFakeDB()
	db.seed(EndpointTag, map[string]any{"id": 1, "name": "GT1"})
	db.seed(EndpointDomain, map[string]any{"id": 1, "name": "calo"})
	db.seed(EndpointDomainList, map[string]any{"id": 1, "global_tag": "GT1", "payload_type": "calo"})
	client := newTestClient(t, db)

	result, err := client.PushPayload(context.Background(), "GT1", "calo", "calib.root", 0)
	require.NoError(t, err)

	assert.False(t, result.TagCreated)
	assert.False(t, result.DomainCreated)
	assert.True(t, result.DomainListCreated)
	assert.Equal(t, int64(2), result.DomainListID)
}

func TestPushPayload_ListingFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.PushPayload(context.Background(), "GT1", "calo", "calib.root", 0)
	assert.Error(t, err)
}

func TestLastMatch(t *testing.T) {
	entries := []Entry{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "a"}}

	found, ok := lastMatch(entries, func(e Entry) bool { return e.Name == "a" })
	assert.True(t, ok)
	assert.Equal(t, int64(3), found.ID)

	_, ok = lastMatch(entries, func(e Entry) bool { return e.Name == "z" })
	assert.False(t, ok)
}
