package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryUnwrap(t *testing.T) {
	var w RequestWrapper
	require.NoError(t, json.Unmarshal(
		[]byte(`{"request_type":"JoinGame","data":{"room_id":"r1","user_id":"u1","display_name":"小明"}}`),
		&w,
	))

	join := TryUnwrapJoinGameRequest(w)
	require.NotNil(t, join)
	assert.Equal(t, "r1", join.RoomID)
	assert.Equal(t, "u1", join.UserID)
	assert.Equal(t, "小明", join.DisplayName)

	// 类型不符
	assert.Nil(t, TryUnwrapSubmitAnswerRequest(w))

	bad := RequestWrapper{ReqType: REQ_PICK_WINNER, Data: json.RawMessage(`{"index":"x"}`)}
	assert.Nil(t, TryUnwrapPickWinnerRequest(bad))

	empty := RequestWrapper{ReqType: REQ_PICK_WINNER}
	pick := TryUnwrapPickWinnerRequest(empty)
	require.NotNil(t, pick)
	assert.Equal(t, 0, pick.Index)
}

func TestWrapErrResponse(t *testing.T) {
	data, err := json.Marshal(WrapErrResponse("出错了"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"response_type":"Error","error_message":"出错了"}`, string(data))
}

func TestNewLimiter(t *testing.T) {
	l := newLimiter(1, 2)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	unlimited := newLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, unlimited.Allow())
	}
}
