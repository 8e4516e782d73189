package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/openhacks/internal/app/models"
)

func TestEncodeList(t *testing.T) {
	v, err := encodeList(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = encodeList([]string{})
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = encodeList([]string{"AI", "Climate"})
	require.NoError(t, err)
	assert.Equal(t, `["AI","Climate"]`, v)
}

func TestDecodeList(t *testing.T) {
	v, err := decodeList(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = decodeList([]byte("[]"))
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)

	v, err = decodeList([]byte(`["a","b"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)

	_, err = decodeList([]byte(`{"a":1}`))
	assert.Error(t, err)
}

func TestPrefixColumns(t *testing.T) {
	assert.Equal(t, []string{"e.id", "e.title"}, prefixColumns("e", []string{"id", "title"}))
	assert.Equal(t, "id, title", joinColumns([]string{"id", "title"}))
}

func TestListEventsQuery(t *testing.T) {
	selectAll := "SELECT " + joinColumns(eventColumns) + " FROM events"
	anchor := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	hybrid := models.ModeHybrid

	tests := []struct {
		name     string
		query    models.EventListQuery
		anchor   *time.Time
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "default order",
			query:   models.EventListQuery{Limit: 9},
			wantSQL: selectAll + " ORDER BY start_at ASC, id ASC LIMIT 10",
		},
		{
			name:    "created descending",
			query:   models.EventListQuery{Limit: 5, SortBy: "createdAt", Desc: true},
			wantSQL: selectAll + " ORDER BY created_at DESC, id DESC LIMIT 6",
		},
		{
			name:     "mode filter",
			query:    models.EventListQuery{Limit: 9, Mode: &hybrid},
			wantSQL:  selectAll + " WHERE mode = $1 ORDER BY start_at ASC, id ASC LIMIT 10",
			wantArgs: []interface{}{"HYBRID"},
		},
		{
			name:     "cursor ascending",
			query:    models.EventListQuery{Limit: 2, Cursor: "e3"},
			anchor:   &anchor,
			wantSQL:  selectAll + " WHERE (start_at, id) >= ($1, $2) ORDER BY start_at ASC, id ASC LIMIT 3",
			wantArgs: []interface{}{anchor, "e3"},
		},
		{
			name:     "cursor descending with mode",
			query:    models.EventListQuery{Limit: 2, Cursor: "e3", SortBy: "createdAt", Desc: true, Mode: &hybrid},
			anchor:   &anchor,
			wantSQL:  selectAll + " WHERE mode = $1 AND (created_at, id) <= ($2, $3) ORDER BY created_at DESC, id DESC LIMIT 3",
			wantArgs: []interface{}{"HYBRID", anchor, "e3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := listEventsQuery(tt.query, tt.anchor).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestSplitPage(t *testing.T) {
	rows := []models.Event{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}}

	page, next := splitPage(rows, 2)
	assert.Equal(t, []models.Event{{ID: "e1"}, {ID: "e2"}}, page)
	require.NotNil(t, next)
	assert.Equal(t, "e3", *next)

	page, next = splitPage(rows, 3)
	assert.Len(t, page, 3)
	assert.Nil(t, next)

	page, next = splitPage([]models.Event{}, 3)
	assert.Empty(t, page)
	assert.Nil(t, next)
}

func TestDecodeEventLists(t *testing.T) {
	var e models.Event
	err := decodeEventLists(&e, []byte(`["AI"]`), []byte(`["Kickoff","Demos"]`), []byte(`["Ann"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"AI"}, e.Tracks)
	assert.Equal(t, []string{"Kickoff", "Demos"}, e.Timeline)
	assert.Equal(t, []string{"Ann"}, e.Organizers)

	var o models.OrganizedEvent
	require.NoError(t, decodeEventLists(&o.Event, nil, []byte(`[]`), nil))
	assert.Nil(t, o.Tracks)
	assert.Equal(t, []string{}, o.Timeline)

	assert.Error(t, decodeEventLists(&e, []byte(`{`), nil, nil))
}
